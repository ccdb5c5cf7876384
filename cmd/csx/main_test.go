package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestSolution creates a minimal solution tree and isolates the home config
func setupTestSolution(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	root := t.TempDir()
	files := map[string]string{
		"Demo.sln":                  "Microsoft Visual Studio Solution File\n",
		"src/Demo/Demo.csproj":      "<Project>\n  <TargetFramework>net8.0</TargetFramework>\n  <PackageReference Include=\"Dapper\" />\n</Project>\n",
		"src/Demo/Greeter.cs":       "public class Greeter\n{\n    public string Hello() => \"hi\";\n}\n",
		"src/Demo/bin/Generated.cs": "// Greeter copy\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"csx"}, args...))
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	root := setupTestSolution(t)

	out, err := runCLI(t, "list", root)
	require.NoError(t, err)

	var listing struct {
		Directory string
		Solutions []struct{ Name, Path string }
		Projects  []struct{ Name, Path, Directory string }
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Solutions, 1)
	require.Len(t, listing.Projects, 1)
	assert.Equal(t, "Demo.csproj", listing.Projects[0].Name)
	assert.Equal(t, filepath.Join("src", "Demo"), listing.Projects[0].Directory)
}

func TestListCommand_UsesRootFlag(t *testing.T) {
	root := setupTestSolution(t)

	out, err := runCLI(t, "--root", root, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Demo.sln")
}

func TestListCommand_MissingDirectory(t *testing.T) {
	root := setupTestSolution(t)
	missing := filepath.Join(root, "nope")

	out, err := runCLI(t, "list", missing)
	require.NoError(t, err, "not-found is reported as output, not as a failure")
	assert.Equal(t, "Directory not found: "+missing, strings.TrimSpace(out))
}

func TestAnalyzeCommand(t *testing.T) {
	root := setupTestSolution(t)

	out, err := runCLI(t, "analyze", filepath.Join(root, "src", "Demo", "Demo.csproj"))
	require.NoError(t, err)

	var meta struct {
		ProjectName       string
		TargetFramework   string
		OutputType        string
		PackageReferences []string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &meta))
	assert.Equal(t, "Demo", meta.ProjectName)
	assert.Equal(t, "net8.0", meta.TargetFramework)
	assert.Equal(t, "Not specified", meta.OutputType)
	assert.Equal(t, []string{"Dapper"}, meta.PackageReferences)
}

func TestAnalyzeCommand_RequiresPath(t *testing.T) {
	setupTestSolution(t)

	_, err := runCLI(t, "analyze")
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	root := setupTestSolution(t)

	out, err := runCLI(t, "search", "--path", root, "greeter")
	require.NoError(t, err)

	var report struct {
		SearchTerm  string
		ResultCount int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "greeter", report.SearchTerm)
	assert.Equal(t, 2, report.ResultCount)
}

func TestSearchCommand_ExcludeFlag(t *testing.T) {
	root := setupTestSolution(t)

	out, err := runCLI(t, "--exclude", "**/bin/**", "search", "--path", root, "greeter")
	require.NoError(t, err)
	assert.Contains(t, out, `"ResultCount": 1`)
}

func TestSearchCommand_SkipBuildOutputFlag(t *testing.T) {
	root := setupTestSolution(t)

	out, err := runCLI(t, "--skip-build-output", "search", "--path", root, "greeter")
	require.NoError(t, err)
	assert.Contains(t, out, `"ResultCount": 1`)
}

func TestSearchCommand_RequiresTerm(t *testing.T) {
	setupTestSolution(t)

	_, err := runCLI(t, "search")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	root := setupTestSolution(t)
	cfgPath := filepath.Join(t.TempDir(), "csx.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("exclude = [\"**/bin/**\"]\n"), 0644))

	out, err := runCLI(t, "--config", cfgPath, "search", "--path", root, "greeter")
	require.NoError(t, err)
	assert.Contains(t, out, `"ResultCount": 1`)

	_, err = runCLI(t, "--config", filepath.Join(root, "missing.kdl"), "list", root)
	assert.Error(t, err)
}

func TestConfigFileRootIsTheDefaultPath(t *testing.T) {
	root := setupTestSolution(t)
	cfgPath := filepath.Join(t.TempDir(), "csx.kdl")
	cfg := "project {\n    root " + strconv.Quote(root) + "\n}\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, err := runCLI(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Demo.sln")

	out, err = runCLI(t, "--config", cfgPath, "search", "greeter")
	require.NoError(t, err)
	assert.Contains(t, out, `"ResultCount": 2`)
}

func TestInvalidWorkersFlag(t *testing.T) {
	root := setupTestSolution(t)

	_, err := runCLI(t, "--workers", "-1", "list", root)
	assert.Error(t, err)
}
