package template

import (
	"testing"
)

func TestRenderString(t *testing.T) {
	defs := Definitions{
		"namespace":    "test_namespace",
		"project_name": "theproj",
		"tricky":       "{@namespace@}",
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no placeholders",
			input:    "plain text",
			expected: "plain text",
		},
		{
			name:     "padded placeholder",
			input:    "tests_{@ project_name @}",
			expected: "tests_theproj",
		},
		{
			name:     "multiple placeholders",
			input:    "{@namespace@} {@project_name@}",
			expected: "test_namespace theproj",
		},
		{
			name:     "literal braces survive",
			input:    "int main() { return 0; }",
			expected: "int main() { return 0; }",
		},
		{
			name:     "braces around placeholder",
			input:    "namespace {@namespace@} { auto main() -> int { return 0; }",
			expected: "namespace test_namespace { auto main() -> int { return 0; }",
		},
		{
			name:     "unresolved placeholder kept verbatim",
			input:    "hello {@ who @}!",
			expected: "hello {@ who @}!",
		},
		{
			name:     "values are not re-rendered",
			input:    "{@tricky@}",
			expected: "{@namespace@}",
		},
		{
			name:     "stray at signs are dropped",
			input:    "user@example.com",
			expected: "userexample.com",
		},
		{
			name:     "malformed opener is literal",
			input:    "{@ namespace",
			expected: "{ namespace",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderString(tt.input, defs)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestRenderString_Idempotent(t *testing.T) {
	defs := Definitions{"name": "widget"}
	inputs := []string{
		"int main() { return 0; }",
		"struct {@name@} { int x; };",
		"{}{{}}",
	}

	for _, input := range inputs {
		once := RenderString(input, defs)
		twice := RenderString(once, defs)
		if once != twice {
			t.Errorf("render of %q not idempotent: %q then %q", input, once, twice)
		}
	}
}

func TestRender(t *testing.T) {
	tmpl := &ProjectTemplate{
		Variables:   []string{"namespace", "project_name"},
		Directories: []string{"tests_{@ project_name @}"},
		Files: []TemplateFile{
			{Path: "tests_{@project_name@}/test.cpp", Content: "{@namespace@} {@project_name@}"},
		},
	}
	defs := Definitions{"namespace": "test_namespace", "project_name": "theproj"}

	rendered := Render(tmpl, defs)

	if len(rendered.Directories) != 1 || rendered.Directories[0] != "tests_theproj" {
		t.Errorf("unexpected directories: %v", rendered.Directories)
	}
	content, ok := rendered.Files["tests_theproj/test.cpp"]
	if !ok {
		t.Fatalf("rendered file missing, got %v", rendered.SortedFiles())
	}
	if content != "test_namespace theproj" {
		t.Errorf("expected %q, got %q", "test_namespace theproj", content)
	}
}

func TestRender_LaterDuplicateWins(t *testing.T) {
	tmpl := &ProjectTemplate{
		Files: []TemplateFile{
			{Path: "{@a@}.txt", Content: "first"},
			{Path: "{@b@}.txt", Content: "second"},
			{Path: "other.txt", Content: "other"},
		},
	}
	defs := Definitions{"a": "same", "b": "same"}

	rendered := Render(tmpl, defs)
	if got := rendered.Files["same.txt"]; got != "second" {
		t.Errorf("expected later entry to win, got %q", got)
	}

	collisions := Collisions(tmpl, defs)
	if len(collisions) != 1 || collisions[0] != "same.txt" {
		t.Errorf("unexpected collisions: %v", collisions)
	}
}

func TestRenderedTemplate_SortedFiles(t *testing.T) {
	rendered := &RenderedTemplate{Files: map[string]string{"b": "", "a/z": "", "a": ""}}
	got := rendered.SortedFiles()
	expected := []string{"a", "a/z", "b"}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}
}
