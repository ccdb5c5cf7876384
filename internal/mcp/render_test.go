package mcp

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/types"
)

func TestRenderListing(t *testing.T) {
	text := RenderListing(&types.ScanResult{
		RootPath:  "/work/shop",
		Solutions: []types.FileRef{{Name: "Shop.sln", RelativePath: "Shop.sln"}},
		Projects: []types.FileRef{
			{Name: "Root.csproj", RelativePath: "Root.csproj"},
			{Name: "Api.csproj", RelativePath: "src/Api/Api.csproj", ParentRelativeDir: "src/Api"},
		},
	}, nil)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, "/work/shop", decoded["Directory"])

	solutions := decoded["Solutions"].([]interface{})
	require.Len(t, solutions, 1)
	assert.Equal(t, map[string]interface{}{"Name": "Shop.sln", "Path": "Shop.sln"}, solutions[0])

	projects := decoded["Projects"].([]interface{})
	require.Len(t, projects, 2)
	assert.Equal(t, "", projects[0].(map[string]interface{})["Directory"], "root project keeps an empty Directory")
	assert.Equal(t, "src/Api", projects[1].(map[string]interface{})["Directory"])

	assert.Contains(t, text, "\n  \"Solutions\": [", "two-space indentation")
}

func TestRenderListing_EmptyListsAreArrays(t *testing.T) {
	text := RenderListing(&types.ScanResult{RootPath: "/x"}, nil)
	assert.Contains(t, text, `"Solutions": []`)
	assert.Contains(t, text, `"Projects": []`)
}

func TestRenderListing_Errors(t *testing.T) {
	assert.Equal(t, "Directory not found: /abs/missing",
		RenderListing(nil, csxerrors.NewNotFound(csxerrors.KindDirectory, "/abs/missing")))
	assert.Equal(t, "Error: boom", RenderListing(nil, errors.New("boom")))
}

func TestRenderProject(t *testing.T) {
	text := RenderProject(&types.ProjectMetadata{
		Name:            "App",
		Path:            "src/App/App.csproj",
		TargetFramework: "net8.0",
		OutputType:      types.NotSpecified,
		Dependencies:    []string{"A", "B"},
		SizeBytes:       321,
	}, nil)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, "App", decoded["ProjectName"])
	assert.Equal(t, "src/App/App.csproj", decoded["ProjectPath"])
	assert.Equal(t, "net8.0", decoded["TargetFramework"])
	assert.Equal(t, "Not specified", decoded["OutputType"])
	assert.Equal(t, []interface{}{"A", "B"}, decoded["PackageReferences"])
	assert.Equal(t, float64(321), decoded["ProjectSize"])
}

func TestRenderProject_Errors(t *testing.T) {
	assert.Equal(t, "Project file not found: rel/App.csproj",
		RenderProject(nil, csxerrors.NewNotFound(csxerrors.KindFile, "rel/App.csproj")))
	assert.Equal(t, "Error analyzing project: permission denied",
		RenderProject(nil, csxerrors.NewReadFailure("read project", "x", errors.New("permission denied"))))
}

func TestRenderSearch(t *testing.T) {
	text := RenderSearch(&types.SearchReport{
		Term:            "List<int>",
		TotalMatchCount: 30,
		Hits: []types.SearchHit{
			{File: "A.cs", LineNumber: 3, Line: "var x = new List<int>();", Context: []string{"a", "var x = new List<int>();", "b"}},
		},
	}, nil)

	assert.Contains(t, text, "List<int>", "angle brackets are not escaped")

	var decoded types.SearchReport
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, 30, decoded.TotalMatchCount)
	require.Len(t, decoded.Hits, 1)
	assert.Equal(t, 3, decoded.Hits[0].LineNumber)
	assert.Len(t, decoded.Hits[0].Context, 3)
}

func TestRenderSearch_Errors(t *testing.T) {
	assert.Equal(t, "Directory not found: /nope",
		RenderSearch(nil, csxerrors.NewNotFound(csxerrors.KindDirectory, "/nope")))
	assert.Equal(t, "Error searching code: bad", RenderSearch(nil, errors.New("bad")))
}
