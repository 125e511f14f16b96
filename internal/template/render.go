package template

import (
	"strings"
)

// RenderString substitutes every placeholder whose name is in defs with its
// value. Values are inserted literally and never re-scanned. A placeholder
// with no definition is emitted unchanged. In literal text, braces are kept
// verbatim and stray '@' characters are dropped.
func RenderString(s string, defs Definitions) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, seg := range lex(s) {
		switch seg.kind {
		case segmentPlaceholder:
			if value, ok := defs[seg.name]; ok {
				b.WriteString(value)
			} else {
				b.WriteString(seg.raw)
			}
		default:
			writeLiteral(&b, seg.raw)
		}
	}

	return b.String()
}

func writeLiteral(b *strings.Builder, text string) {
	for {
		i := strings.IndexByte(text, '@')
		if i < 0 {
			b.WriteString(text)
			return
		}
		b.WriteString(text[:i])
		text = text[i+1:]
	}
}

// Render applies RenderString to every directory path, file path and file
// content of t. Rendering is pure: it reads nothing and writes nothing.
//
// When two file entries render to the same path the later entry wins; use
// Collisions to detect this beforehand.
func Render(t *ProjectTemplate, defs Definitions) *RenderedTemplate {
	rendered := &RenderedTemplate{
		Directories: make([]string, 0, len(t.Directories)),
		Files:       make(map[string]string, len(t.Files)),
	}

	for _, dir := range t.Directories {
		rendered.Directories = append(rendered.Directories, RenderString(dir, defs))
	}
	for _, f := range t.Files {
		rendered.Files[RenderString(f.Path, defs)] = RenderString(f.Content, defs)
	}

	return rendered
}

// Collisions returns the rendered file paths produced by more than one file
// entry, in first-seen order.
func Collisions(t *ProjectTemplate, defs Definitions) []string {
	counts := make(map[string]int, len(t.Files))
	var collisions []string
	for _, f := range t.Files {
		path := RenderString(f.Path, defs)
		counts[path]++
		if counts[path] == 2 {
			collisions = append(collisions, path)
		}
	}
	return collisions
}
