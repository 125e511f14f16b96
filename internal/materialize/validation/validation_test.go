package validation

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/artisanexperiences/pgen/internal/fs"
)

type failingRule string

func (f failingRule) Validate(Target) error {
	return errors.New(string(f))
}

func TestValidator(t *testing.T) {
	target := Target{Root: "/out", Rel: "a.txt", Kind: KindFile}
	failing := func(msg string) Rule { return failingRule(msg) }

	t.Run("validates with no rules", func(t *testing.T) {
		v := NewValidator("file")
		if err := v.Validate(target); err != nil {
			t.Errorf("expected no error with no rules, got: %v", err)
		}
	})

	t.Run("collects multiple errors", func(t *testing.T) {
		v := NewValidator("file").
			AddRule(failing("first problem")).
			AddRule(failing("second problem"))

		err := v.Validate(target)
		if err == nil {
			t.Fatal("expected error")
		}
		errStr := err.Error()
		for _, want := range []string{"file", "a.txt", "first problem", "second problem"} {
			if !strings.Contains(errStr, want) {
				t.Errorf("expected error to mention %q, got: %s", want, errStr)
			}
		}
	})

	t.Run("file validator adds the existence rule", func(t *testing.T) {
		mockFS := fs.NewMockFS()
		mockFS.AddFile("/out/a.txt", []byte("x"), 0644)

		if err := NewDirectoryValidator(mockFS).Validate(Target{Root: "/out", Rel: "a.txt", Kind: KindDirectory}); err != nil {
			t.Errorf("directory validator should not check existence, got: %v", err)
		}
		if err := NewFileValidator(mockFS).Validate(target); err == nil {
			t.Error("expected file validator to reject an existing file")
		}
	})
}

func TestPathRules(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		rel     string
		wantErr bool
	}{
		{name: "not empty passes", rule: NotEmpty{}, rel: "a/b"},
		{name: "empty fails", rule: NotEmpty{}, rel: "", wantErr: true},
		{name: "dot fails", rule: NotEmpty{}, rel: "./", wantErr: true},
		{name: "relative passes", rule: NotAbsolute{}, rel: "src/main.go"},
		{name: "absolute fails", rule: NotAbsolute{}, rel: "/etc/passwd", wantErr: true},
		{name: "inside root passes", rule: WithinRoot{}, rel: "a/../b.txt"},
		{name: "parent traversal fails", rule: WithinRoot{}, rel: "../escape.txt", wantErr: true},
		{name: "nested traversal fails", rule: WithinRoot{}, rel: "a/../../escape.txt", wantErr: true},
		{name: "bare parent fails", rule: WithinRoot{}, rel: "..", wantErr: true},
		{name: "absolute left to NotAbsolute", rule: WithinRoot{}, rel: "/abs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(Target{Root: "/out", Rel: tt.rel, Kind: KindFile})
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %q", tt.rel)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.rel, err)
			}
		})
	}
}

func TestNoSymlink(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.AddDir("/out/real")
	mockFS.AddDir("/elsewhere")
	mockFS.AddSymlink("/out/link", "/elsewhere")
	mockFS.AddSymlink("/out/real/file.txt", "/elsewhere/file.txt")

	rule := NoSymlink{FS: mockFS}

	t.Run("passes for fresh paths", func(t *testing.T) {
		if err := rule.Validate(Target{Root: "/out", Rel: "real/new/thing.txt", Kind: KindFile}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects symlinked file", func(t *testing.T) {
		err := rule.Validate(Target{Root: "/out", Rel: "real/file.txt", Kind: KindFile})
		if err == nil || !strings.Contains(err.Error(), "symlink") {
			t.Errorf("expected symlink error, got: %v", err)
		}
	})

	t.Run("rejects symlinked directory", func(t *testing.T) {
		if err := rule.Validate(Target{Root: "/out", Rel: "link", Kind: KindDirectory}); err == nil {
			t.Error("expected symlink error for directory")
		}
	})

	t.Run("rejects paths below a symlinked ancestor", func(t *testing.T) {
		if err := rule.Validate(Target{Root: "/out", Rel: "link/inner.txt", Kind: KindFile}); err == nil {
			t.Error("expected symlink error for ancestor")
		}
	})

	t.Run("reports lstat failures", func(t *testing.T) {
		mockFS.FailOn(fs.OpLstat, "/out/real", os.ErrPermission)
		defer mockFS.FailOn(fs.OpLstat, "/out/real", nil)

		if err := rule.Validate(Target{Root: "/out", Rel: "real/x", Kind: KindFile}); err == nil {
			t.Error("expected error when lstat fails")
		}
	})
}

func TestNotExisting(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.AddFile("/out/present.txt", []byte("x"), 0644)
	mockFS.AddDir("/out/dir")

	rule := NotExisting{FS: mockFS}

	if err := rule.Validate(Target{Root: "/out", Rel: "present.txt", Kind: KindFile}); err == nil {
		t.Error("expected error for existing file")
	}
	if err := rule.Validate(Target{Root: "/out", Rel: "absent.txt", Kind: KindFile}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := rule.Validate(Target{Root: "/out", Rel: "dir", Kind: KindDirectory}); err != nil {
		t.Errorf("directories may already exist, got: %v", err)
	}
}

func TestTargetPath(t *testing.T) {
	target := Target{Root: "/out", Rel: "a/b.txt", Kind: KindFile}
	if got := target.Path(); got != "/out/a/b.txt" {
		t.Errorf("expected /out/a/b.txt, got %s", got)
	}
	if KindFile.String() != "file" || KindDirectory.String() != "directory" {
		t.Error("unexpected kind names")
	}
}
