package materialize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgerrors "github.com/artisanexperiences/pgen/internal/errors"
	"github.com/artisanexperiences/pgen/internal/fs"
	"github.com/artisanexperiences/pgen/internal/template"
)

func rendered(dirs []string, files map[string]string) *template.RenderedTemplate {
	if files == nil {
		files = map[string]string{}
	}
	return &template.RenderedTemplate{Directories: dirs, Files: files}
}

func TestMaterialize_WritesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	out := rendered(
		[]string{"tests_theproj", "empty/nested"},
		map[string]string{
			"tests_theproj/test.cpp": "test_namespace theproj",
			"deep/nested/file.txt":   "no trailing newline",
			"crlf.txt":               "kept\r\nas is\r\n",
		},
	)

	result, err := New(fs.Default, Options{}).Materialize(root, out)
	require.NoError(t, err)

	assert.Equal(t, root, result.Root)
	assert.Equal(t, []string{"empty/nested", "tests_theproj"}, result.Directories)
	assert.Equal(t, []string{"crlf.txt", "deep/nested/file.txt", "tests_theproj/test.cpp"}, result.Files)
	assert.False(t, result.DryRun)

	info, err := os.Stat(filepath.Join(root, "empty", "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	for rel, content := range out.Files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	}
}

func TestMaterialize_EmptyTemplateCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")

	_, err := New(fs.Default, Options{}).Materialize(root, rendered(nil, nil))
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMaterialize_RootExists(t *testing.T) {
	root := t.TempDir()

	_, err := New(fs.Default, Options{}).Materialize(root, rendered(nil, map[string]string{"a.txt": "a"}))
	require.Error(t, err)
	assert.Equal(t, pgerrors.EDestinationConflict, pgerrors.GetCode(err))

	_, statErr := os.Stat(filepath.Join(root, "a.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_AllowExistingRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("keep"), 0644))

	_, err := New(fs.Default, Options{AllowExistingRoot: true}).Materialize(root, rendered(nil, map[string]string{"a.txt": "a"}))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	t.Run("root that is a file is still rejected", func(t *testing.T) {
		file := filepath.Join(root, "keep.txt")
		_, err := New(fs.Default, Options{AllowExistingRoot: true}).Materialize(file, rendered(nil, nil))
		assert.Equal(t, pgerrors.EDestinationConflict, pgerrors.GetCode(err))
	})
}

func TestMaterialize_RejectsUnsafeTargets(t *testing.T) {
	tests := []struct {
		name     string
		rendered *template.RenderedTemplate
		mention  string
	}{
		{
			name:     "parent traversal file",
			rendered: rendered(nil, map[string]string{"../escape.txt": "x"}),
			mention:  "../escape.txt",
		},
		{
			name:     "parent traversal directory",
			rendered: rendered([]string{"a/../../up"}, nil),
			mention:  "escapes",
		},
		{
			name:     "absolute file",
			rendered: rendered(nil, map[string]string{"/etc/passwd": "x"}),
			mention:  "absolute",
		},
		{
			name:     "empty file path",
			rendered: rendered(nil, map[string]string{"": "x"}),
			mention:  "empty",
		},
		{
			name:     "file also used as directory",
			rendered: rendered([]string{"src"}, map[string]string{"src": "x"}),
			mention:  "required as a directory",
		},
		{
			name:     "file with a file below it",
			rendered: rendered(nil, map[string]string{"a": "x", "a/b.txt": "y"}),
			mention:  "required as a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := t.TempDir()
			root := filepath.Join(parent, "out")

			_, err := New(fs.Default, Options{}).Materialize(root, tt.rendered)
			require.Error(t, err)
			assert.Equal(t, pgerrors.EUnsafeRenderTarget, pgerrors.GetCode(err))
			assert.Contains(t, err.Error(), tt.mention)

			_, statErr := os.Stat(root)
			assert.True(t, os.IsNotExist(statErr), "nothing may be written when validation fails")
			_, statErr = os.Stat(filepath.Join(parent, "escape.txt"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestMaterialize_ReportsAllViolations(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	out := rendered([]string{"/abs"}, map[string]string{"../one.txt": "", "../two.txt": ""})

	err := New(fs.Default, Options{}).Validate(root, out)
	require.Error(t, err)
	for _, want := range []string{"/abs", "../one.txt", "../two.txt"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestMaterialize_RejectsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "file.txt")))

	m := New(fs.Default, Options{AllowExistingRoot: true})

	t.Run("symlinked directory", func(t *testing.T) {
		_, err := m.Materialize(root, rendered([]string{"linked"}, nil))
		assert.Equal(t, pgerrors.EUnsafeRenderTarget, pgerrors.GetCode(err))
	})

	t.Run("file below symlinked directory", func(t *testing.T) {
		_, err := m.Materialize(root, rendered(nil, map[string]string{"linked/new.txt": "x"}))
		assert.Equal(t, pgerrors.EUnsafeRenderTarget, pgerrors.GetCode(err))

		_, statErr := os.Stat(filepath.Join(outside, "new.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("symlinked file", func(t *testing.T) {
		_, err := m.Materialize(root, rendered(nil, map[string]string{"file.txt": "x"}))
		assert.Equal(t, pgerrors.EUnsafeRenderTarget, pgerrors.GetCode(err))
	})
}

func TestMaterialize_RejectsExistingFile(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.AddFile("/out/present.txt", []byte("old"), 0644)

	_, err := New(mockFS, Options{AllowExistingRoot: true}).Materialize("/out", rendered(nil, map[string]string{"present.txt": "new"}))
	require.Error(t, err)
	assert.Equal(t, pgerrors.EUnsafeRenderTarget, pgerrors.GetCode(err))

	data, readErr := mockFS.ReadFile("/out/present.txt")
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}

func TestMaterialize_DryRun(t *testing.T) {
	mockFS := fs.NewMockFS()

	result, err := New(mockFS, Options{DryRun: true}).Materialize("/out", rendered([]string{"src"}, map[string]string{"src/main.go": "package main"}))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, []string{"src"}, result.Directories)
	assert.Equal(t, []string{"src/main.go"}, result.Files)
	assert.False(t, mockFS.DirExists("/out"))
	assert.False(t, mockFS.FileExists("/out/src/main.go"))
}

func TestMaterialize_WriteFailureAndRollback(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.FailOn(fs.OpWrite, "/out/b.txt", errors.New("disk full"))

	m := New(mockFS, Options{})
	_, err := m.Materialize("/out", rendered(nil, map[string]string{"a.txt": "a", "b.txt": "b"}))
	require.Error(t, err)
	assert.Equal(t, pgerrors.EWriteFailure, pgerrors.GetCode(err))
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, mockFS.FileExists("/out/a.txt"))

	require.NoError(t, m.Rollback())
	assert.False(t, mockFS.DirExists("/out"))
	assert.False(t, mockFS.FileExists("/out/a.txt"))
}

func TestMaterialize_RollbackRemovesCreatedParents(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.AddFile("/work/keep.txt", []byte("keep"), 0644)
	mockFS.FailOn(fs.OpWrite, "/work/new/deep/app/b.txt", errors.New("disk full"))

	m := New(mockFS, Options{})
	_, err := m.Materialize("/work/new/deep/app", rendered([]string{"src"}, map[string]string{"a.txt": "a", "b.txt": "b"}))
	require.Error(t, err)
	assert.True(t, mockFS.FileExists("/work/new/deep/app/a.txt"))

	require.NoError(t, m.Rollback())
	assert.False(t, mockFS.DirExists("/work/new"))
	assert.True(t, mockFS.DirExists("/work"))
	assert.True(t, mockFS.FileExists("/work/keep.txt"))
}

func TestMaterialize_RollbackKeepsExistingRoot(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.AddFile("/out/old.txt", []byte("old"), 0644)
	mockFS.FailOn(fs.OpWrite, "/out/src/z.txt", errors.New("disk full"))

	m := New(mockFS, Options{AllowExistingRoot: true})
	_, err := m.Materialize("/out", rendered(nil, map[string]string{"new.txt": "n", "src/a.txt": "a", "src/z.txt": "z"}))
	require.Error(t, err)

	require.NoError(t, m.Rollback())
	assert.True(t, mockFS.FileExists("/out/old.txt"))
	assert.False(t, mockFS.FileExists("/out/new.txt"))
	assert.False(t, mockFS.DirExists("/out/src"))
}

func TestRollback_Failure(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.FailOn(fs.OpWrite, "/out/a.txt", errors.New("disk full"))
	mockFS.FailOn(fs.OpRemove, "/out", errors.New("busy"))

	m := New(mockFS, Options{})
	_, err := m.Materialize("/out", rendered(nil, map[string]string{"a.txt": "a"}))
	require.Error(t, err)

	err = m.Rollback()
	require.Error(t, err)
	assert.Equal(t, pgerrors.ECleanupFailed, pgerrors.GetCode(err))
}

func TestRollback_NothingCreated(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.AddDir("/out")

	m := New(mockFS, Options{})
	require.NoError(t, m.Rollback())
	assert.True(t, mockFS.DirExists("/out"))
}
