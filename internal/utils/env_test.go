package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: map[string]string{},
		},
		{
			name:     "simple pairs",
			input:    "namespace=acme\nproject_name=rocket\n",
			expected: map[string]string{"namespace": "acme", "project_name": "rocket"},
		},
		{
			name:     "comments and blank lines",
			input:    "# comment\n\nnamespace=acme\n  # indented comment\n",
			expected: map[string]string{"namespace": "acme"},
		},
		{
			name:     "whitespace around key and value",
			input:    "  namespace  =  acme  \n",
			expected: map[string]string{"namespace": "acme"},
		},
		{
			name:     "quoted values",
			input:    "a=\"double quoted\"\nb='single quoted'\nc=\"mismatched'\n",
			expected: map[string]string{"a": "double quoted", "b": "single quoted", "c": "\"mismatched'"},
		},
		{
			name:     "value containing equals",
			input:    "url=https://example.com/?a=b\n",
			expected: map[string]string{"url": "https://example.com/?a=b"},
		},
		{
			name:     "export prefix and CRLF",
			input:    "export namespace=acme\r\nproject=x\r\n",
			expected: map[string]string{"namespace": "acme", "project": "x"},
		},
		{
			name:     "lines without equals are ignored",
			input:    "garbage\nkey=value\n=orphan\n",
			expected: map[string]string{"key": "value"},
		},
		{
			name:     "later keys override",
			input:    "key=first\nkey=second\n",
			expected: map[string]string{"key": "second"},
		},
		{
			name:     "empty value",
			input:    "key=\n",
			expected: map[string]string{"key": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseEnv([]byte(tt.input)))
		})
	}
}
