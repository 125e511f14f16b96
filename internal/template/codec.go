package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"

	"github.com/artisanexperiences/pgen/internal/utils"
)

// Format identifies a persisted encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatEnv  Format = "env"
)

// FormatFromPath picks an encoding from the file extension, falling back to
// fallback when the extension is not recognised. Files named ".env" or
// "*.env" use the dotenv encoding.
func FormatFromPath(path string, fallback Format) Format {
	base := strings.ToLower(filepath.Base(path))
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return FormatEnv
	}

	switch filepath.Ext(base) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".env":
		return FormatEnv
	default:
		return fallback
	}
}

// DecodeTemplate parses a persisted template. The "files" key must be
// present, although its value may be empty or null. Plain scalars such as
// "path: 42" keep their written text.
func DecodeTemplate(data []byte, format Format) (*ProjectTemplate, error) {
	switch format {
	case FormatYAML:
		return decodeYAMLTemplate(data)
	case FormatJSON, FormatTOML:
	default:
		return nil, fmt.Errorf("templates cannot be stored in %s format", format)
	}

	raw, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	if _, ok := raw["files"]; !ok {
		return nil, errMissingFiles
	}

	var t ProjectTemplate
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: scalarText,
		TagName:    "json",
		Result:     &t,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	return &t, nil
}

var errMissingFiles = errors.New(`missing required key "files"`)

func decodeYAMLTemplate(data []byte) (*ProjectTemplate, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if !hasMappingKey(&doc, "files") {
		return nil, errMissingFiles
	}

	var t ProjectTemplate
	if err := doc.Decode(&t); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return &t, nil
}

func hasMappingKey(doc *yaml.Node, key string) bool {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return false
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return true
		}
	}
	return false
}

// EncodeTemplate serializes t. The output always carries a "files" key so
// it can be decoded again.
func EncodeTemplate(t *ProjectTemplate, format Format) ([]byte, error) {
	out := *t
	if out.Files == nil {
		out.Files = []TemplateFile{}
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&out); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(&out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(&out)
	default:
		return nil, fmt.Errorf("templates cannot be stored in %s format", format)
	}
}

// DecodeDefinitions parses a flat mapping of names to values. Scalar values
// keep the text they were written with, so "zip: 01234" stays "01234" and
// "version: 1.0" stays "1.0". Null becomes the empty string. Nested tables or
// lists are rejected.
func DecodeDefinitions(data []byte, format Format) (Definitions, error) {
	switch format {
	case FormatEnv:
		return Definitions(utils.ParseEnv(data)), nil
	case FormatYAML:
		return decodeYAMLDefinitions(data)
	case FormatTOML:
		return decodeTOMLDefinitions(data)
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	raw, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}

	defs := make(Definitions, len(raw))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: scalarText,
		Result:     &defs,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotFlat, err)
	}

	return defs, nil
}

var errNotFlat = errors.New("definitions must map names to scalar values")

func decodeYAMLDefinitions(data []byte) (Definitions, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotFlat, err)
	}
	if raw == nil {
		return Definitions{}, nil
	}
	return Definitions(raw), nil
}

// decodeTOMLDefinitions reads top-level key/value pairs straight from the
// parse tree so numbers and dates come back exactly as written.
func decodeTOMLDefinitions(data []byte) (Definitions, error) {
	// Full decode first for number, date and duplicate-key validation.
	var check map[string]any
	if err := toml.Unmarshal(data, &check); err != nil {
		return nil, err
	}

	defs := make(Definitions, len(check))
	p := unstable.Parser{}
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		if expr.Kind != unstable.KeyValue {
			return nil, fmt.Errorf("%w: unexpected %s", errNotFlat, expr.Kind)
		}

		it := expr.Key()
		it.Next()
		name := string(it.Node().Data)
		if !it.IsLast() {
			return nil, fmt.Errorf("%w: dotted key %q", errNotFlat, name)
		}

		value := expr.Value()
		switch value.Kind {
		case unstable.Array, unstable.InlineTable:
			return nil, fmt.Errorf("%w: %q is a %s", errNotFlat, name, value.Kind)
		}
		defs[name] = string(value.Data)
	}
	if err := p.Error(); err != nil {
		return nil, err
	}

	return defs, nil
}

func decodeDocument(data []byte, format Format) (map[string]any, error) {
	raw := make(map[string]any)

	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err = dec.Decode(&raw); err == nil {
			if _, tokErr := dec.Token(); tokErr != io.EOF {
				err = errors.New("unexpected data after top-level value")
			}
		}
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	// JSON "null" leaves the map nil.
	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, nil
}

// scalarText turns JSON numbers and booleans into their literal text.
// TOML numbers and dates are typed values with no written form left, so
// string fields must quote them.
func scalarText(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}

	switch v := data.(type) {
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64, float64, time.Time, toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return nil, fmt.Errorf("value %v must be written as a quoted string", v)
	default:
		return data, nil
	}
}
