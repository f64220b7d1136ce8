package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/pystyle/pkg/report"
)

func (s *Server) handleCheck(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input CheckInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	file, err := loadInput(input.Code, input.Filename)
	if err != nil {
		return errorResult(err)
	}

	analyzer := s.analyzer
	if input.Strict {
		analyzer = s.strict
	}

	res, err := analyzer.Analyze(ctx, file)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(report.NewDocument(res))
}

func (s *Server) handleReport(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ReportInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	format := report.FormatText

	if input.Format != "" {
		parsed, err := report.ParseFormat(input.Format)
		if err != nil {
			return errorResult(err)
		}

		format = parsed
	}

	file, err := loadInput(input.Code, input.Filename)
	if err != nil {
		return errorResult(err)
	}

	res, err := s.analyzer.Analyze(ctx, file)
	if err != nil {
		return errorResult(err)
	}

	var out strings.Builder

	err = report.Write(&out, res, format, report.Options{Notes: !input.NoNotes})
	if err != nil {
		return errorResult(fmt.Errorf("render report: %w", err))
	}

	return textResult(out.String())
}
