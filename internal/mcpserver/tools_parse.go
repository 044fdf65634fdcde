package mcpserver

import (
	"context"

	"github.com/apitap/apitap/specdoc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseSpecInput struct {
	Spec specInput `json:"spec" jsonschema:"The contract to parse"`
}

type parseSpecOutput struct {
	Version        string   `json:"version"`
	Format         string   `json:"format"`
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	PathCount      int      `json:"path_count"`
	OperationCount int      `json:"operation_count"`
	SchemaCount    int      `json:"schema_count"`
	Templates      []string `json:"templates,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

func handleParseSpec(_ context.Context, _ *mcp.CallToolRequest, input parseSpecInput) (*mcp.CallToolResult, parseSpecOutput, error) {
	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), parseSpecOutput{}, nil
	}

	output := parseSpecOutput{
		Version:  result.Version,
		Format:   string(result.SourceFormat),
		Warnings: result.Warnings,
	}
	doc := result.Document
	if doc.Info != nil {
		output.Title = doc.Info.Title
		output.Description = doc.Info.Description
	}
	output.Templates = doc.Paths.Templates()
	output.PathCount = doc.Paths.Len()
	output.OperationCount = countOperations(doc)
	output.SchemaCount = countSchemas(doc)

	return nil, output, nil
}

func countOperations(doc *specdoc.Document) int {
	n := 0
	for _, template := range doc.Paths.Templates() {
		if item := doc.Paths.Get(template); item != nil {
			n += len(item.Operations())
		}
	}
	return n
}

func countSchemas(doc *specdoc.Document) int {
	n := len(doc.Definitions)
	if doc.Components != nil {
		n += len(doc.Components.Schemas)
	}
	return n
}
