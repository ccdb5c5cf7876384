package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/scanner"
)

func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}
}

func TestListDescriptors(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"App.sln",
		"src/App/App.csproj",
		"src/Lib/Lib.csproj",
		"Root.csproj",
		"src/App/Program.cs",
	)

	result, err := NewLister(scanner.New(scanner.Options{})).ListDescriptors(context.Background(), root)
	require.NoError(t, err)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, result.RootPath)

	require.Len(t, result.Solutions, 1)
	assert.Equal(t, "App.sln", result.Solutions[0].Name)
	assert.Equal(t, "App.sln", result.Solutions[0].RelativePath)

	require.Len(t, result.Projects, 3)
	assert.Equal(t, "Root.csproj", result.Projects[0].RelativePath)
	assert.Equal(t, "", result.Projects[0].ParentRelativeDir, "project at the root has no parent dir")

	assert.Equal(t, "App.csproj", result.Projects[1].Name)
	assert.Equal(t, filepath.Join("src", "App", "App.csproj"), result.Projects[1].RelativePath)
	assert.Equal(t, filepath.Join("src", "App"), result.Projects[1].ParentRelativeDir)

	assert.Equal(t, filepath.Join("src", "Lib"), result.Projects[2].ParentRelativeDir)

	for _, p := range result.Projects {
		assert.Equal(t, p.AbsPath, filepath.Join(absRoot, p.RelativePath))
	}
}

func TestListDescriptors_EmptyTree(t *testing.T) {
	result, err := NewLister(scanner.New(scanner.Options{})).ListDescriptors(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.NotNil(t, result.Solutions)
	assert.NotNil(t, result.Projects)
	assert.Empty(t, result.Solutions)
	assert.Empty(t, result.Projects)
}

func TestListDescriptors_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	_, err := NewLister(scanner.New(scanner.Options{})).ListDescriptors(context.Background(), missing)
	require.Error(t, err)

	nf, ok := csxerrors.AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, missing, nf.Path)
}

func TestListDescriptors_Idempotent(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b/B.csproj", "a/A.csproj", "X.sln", "c/Y.sln")

	l := NewLister(scanner.New(scanner.Options{}))
	first, err := l.ListDescriptors(context.Background(), root)
	require.NoError(t, err)
	second, err := l.ListDescriptors(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
