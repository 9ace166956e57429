package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for tinatools resources.
const uriScheme = "tinatools://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "operations",
		Name:        "operations",
		Description: "Operation names the dispatcher accepts",
		MIMEType:    "application/json",
	}, s.handleOperationsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tokens/{integration}",
		Name:        "token-status",
		Description: "Expiry and scopes of a stored OAuth token (secrets are never returned)",
		MIMEType:    "application/json",
	}, s.handleTokenResource)
}

func (s *Server) handleOperationsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Dispatcher.Operations())
}

// tokenStatus is what the token resource reveals.
type tokenStatus struct {
	Integration     string    `json:"integration"`
	Stored          bool      `json:"stored"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
	Expired         bool      `json:"expired"`
	HasRefreshToken bool      `json:"hasRefreshToken"`
	Scopes          []string  `json:"scopes,omitempty"`
}

func (s *Server) handleTokenResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tokens == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	integration := extractIntegration(req.Params.URI)
	if integration == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tok, err := s.ports.Tokens.Status(ctx, integration)
	if err != nil {
		return nil, fmt.Errorf("reading token status: %w", err)
	}

	status := tokenStatus{Integration: integration}
	if tok != nil {
		status.Stored = true
		status.ExpiresAt = tok.ExpiresAt
		status.Expired = tok.IsExpired(time.Now())
		status.HasRefreshToken = tok.HasRefreshToken()
		status.Scopes = tok.Scopes
	}
	return jsonResource(req.Params.URI, status)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractIntegration extracts the name from tinatools://tokens/{integration}.
func extractIntegration(uri string) string {
	const prefix = uriScheme + "tokens/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
