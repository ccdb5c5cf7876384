package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/csx/internal/config"
)

// newTestServer builds a server over default config with logs captured in a buffer
func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	s, err := NewServer(config.Default(), WithLogger(NewWriterLogger(&logs)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, &logs
}

// callTool invokes a tool handler in-process and returns the result
func callTool(t *testing.T, s *Server, name string, args interface{}) *mcp.CallToolResult {
	t.Helper()

	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		require.NoError(t, err)
		raw = data
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Name: name, Arguments: raw},
	}
	result, err := s.handlerFor(name)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// resultText returns the single text content of a result
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func writeFixture(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// solutionFixture lays out a small solution with two projects and some sources
func solutionFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "Shop.sln", "Microsoft Visual Studio Solution File\n")
	writeFixture(t, root, "src/Shop.Api/Shop.Api.csproj", `<Project Sdk="Microsoft.NET.Sdk.Web">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <OutputType>Exe</OutputType>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Swashbuckle.AspNetCore" Version="6.5.0" />
  </ItemGroup>
</Project>
`)
	writeFixture(t, root, "src/Shop.Core/Shop.Core.csproj", "<Project Sdk=\"Microsoft.NET.Sdk\">\n</Project>\n")
	writeFixture(t, root, "src/Shop.Core/OrderService.cs", `namespace Shop.Core;

public class OrderService
{
    public Order Place(Cart cart) => new Order(cart);
}
`)
	writeFixture(t, root, "src/Shop.Api/Program.cs", `var builder = WebApplication.CreateBuilder(args);
builder.Services.AddScoped<OrderService>();
var app = builder.Build();
app.Run();
`)
	return root
}
