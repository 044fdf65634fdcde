// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apitap capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/apitap/apitap"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `apitap MCP server — checks captured HTTP traffic against an OpenAPI contract.

Configuration: All defaults are configurable via APITAP_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- APITAP_MATCH_MODE (default: suffix) — path matching mode, suffix or anchored
- APITAP_TIE_BREAK (default: first-declared) — ambiguous template policy, first-declared or most-specific
- APITAP_CHECK_LIMIT (default: 100) — default number of per-record reports returned
- APITAP_MAX_INLINE_SIZE (default: 4194304) — inline spec content size limit in bytes

Caching: Parsed specs are cached per session. File inputs use path+mtime as key (auto-invalidated on change); inline content is keyed by hash.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apitap", Version: apitap.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_spec",
		Description: "Parse an OpenAPI (2.0 or 3.x) contract and return a structural summary: title, version, path templates, operation and schema counts, and parse warnings (unresolved or circular references, structural oddities). Run this first to confirm a contract loads cleanly before checking traffic against it.",
	}, handleParseSpec)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_traffic",
		Description: "Check captured HTTP traffic against an OpenAPI contract. Accepts inline records, a JSON traffic file, or an HTTP Archive (HAR). Each record's request and response are matched to a path template and operation, then validated against the declared parameters, bodies, and status codes. Returns a per-record report with structured errors (code, location path, expected vs actual). Use failures_only=true to skip conformant records; use offset/limit to paginate. Matching defaults are configurable via APITAP_MATCH_MODE and APITAP_TIE_BREAK env vars.",
	}, handleCheckTraffic)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.CheckLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.CheckLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
