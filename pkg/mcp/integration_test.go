package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/pystyle/pkg/mcp"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/report"
)

const classFoo = "class foo:\n    def Bar(self, x):\n        pass\n"

func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callTool(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func firstText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestMCPServer_ToolsList(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	session := connect(t, srv)

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{mcp.ToolNameCheck, mcp.ToolNameReport}, toolNames)
	assert.Equal(t, []string{mcp.ToolNameCheck, mcp.ToolNameReport}, srv.ListToolNames())
}

func TestMCPServer_CheckReturnsDocument(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, session, mcp.ToolNameCheck, map[string]any{
		"code":     classFoo,
		"filename": "shapes.py",
	})
	require.False(t, result.IsError, firstText(t, result))

	data := []byte(firstText(t, result))
	require.NoError(t, report.ValidateJSON(data))

	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "shapes.py", doc.File)
	assert.Equal(t, 2, doc.Counts.NamingViolations)
	assert.Equal(t, 2, doc.Counts.MissingDocstrings)
	assert.Equal(t, 1, doc.Counts.AnnotationGaps)
}

func TestMCPServer_CheckStrictParseError(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, session, mcp.ToolNameCheck, map[string]any{
		"code":   "import os\n\ndef Broken(:\n    pass\n",
		"strict": true,
	})
	require.False(t, result.IsError)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &doc))

	require.NotNil(t, doc.ParseError)
	assert.Equal(t, 3, doc.ParseError.Line)
	assert.Empty(t, doc.Structure.Imports)
}

func TestMCPServer_CheckRejectsBadInput(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, session, mcp.ToolNameCheck, map[string]any{
		"code":     "x = 1\n",
		"filename": "notes.txt",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, firstText(t, result), "filename must end in .py")
}

func TestMCPServer_ReportText(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callTool(t, session, mcp.ToolNameReport, map[string]any{
		"code":     classFoo,
		"no_notes": true,
	})
	require.False(t, result.IsError)

	text := firstText(t, result)
	assert.Contains(t, text, "Python File Analysis Report\n")
	assert.Contains(t, text, "Incorrect Class Names:\n- foo\n")
	assert.NotContains(t, text, "Analysis Notes:")
}

func TestMCPServer_ReportFormats(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	yamlResult := callTool(t, session, mcp.ToolNameReport, map[string]any{"code": classFoo, "format": "yaml"})
	require.False(t, yamlResult.IsError)
	assert.Contains(t, firstText(t, yamlResult), "naming_violations: 2")

	bad := callTool(t, session, mcp.ToolNameReport, map[string]any{"code": classFoo, "format": "html"})
	assert.True(t, bad.IsError)
}

func TestMCPServer_RecordsMetricsAndTraceID(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))

	session := connect(t, mcp.NewServer(mcp.ServerDeps{
		Metrics: red,
		Tracer:  tp.Tracer("test"),
	}))

	result := callTool(t, session, mcp.ToolNameReport, map[string]any{"code": "x = 1\n"})
	require.False(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, last.Text, "trace_id=")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	assert.True(t, names["pystyle.requests.total"])
	assert.True(t, names["pystyle.request.duration.seconds"])
}
