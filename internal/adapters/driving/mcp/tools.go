package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/services"
)

// strategyName tags calls that arrive through MCP.
const strategyName = "mcp"

// ListInput is the input schema for the list tool.
type ListInput struct {
	PageSize  int    `json:"pageSize,omitempty" jsonschema:"contacts per page, 1 to 1000 (default 10)"`
	PageToken string `json:"pageToken,omitempty" jsonschema:"token of the page to fetch"`
}

// QueryInput is the input schema for query-based tools.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the text to search for"`
}

// EmailInput is the input schema for findbyemail.
type EmailInput struct {
	Email string `json:"email" jsonschema:"exact email address of the contact"`
}

// NameInput is the input schema for name lookups.
type NameInput struct {
	Name string `json:"name" jsonschema:"full or partial contact name"`
}

// ContactInput is the input schema for getcontact.
type ContactInput struct {
	ResourceName string `json:"resourceName" jsonschema:"contact resource name, e.g. people/c123"`
}

// SearchEmailsInput is the input schema for searchemails.
type SearchEmailsInput struct {
	Query      string `json:"query" jsonschema:"a Gmail search query, e.g. from:ada newer_than:7d"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"maximum messages to return, 1 to 500 (default 10)"`
}

// ReadEmailInput is the input schema for reademail.
type ReadEmailInput struct {
	EmailID string `json:"emailId" jsonschema:"Gmail message id"`
}

// DraftInput is the input schema for createdraft.
type DraftInput struct {
	To      string `json:"to" jsonschema:"recipient address"`
	Subject string `json:"subject" jsonschema:"subject line"`
	Body    string `json:"body" jsonschema:"plain-text body"`
	Cc      string `json:"cc,omitempty" jsonschema:"carbon copy addresses"`
	Bcc     string `json:"bcc,omitempty" jsonschema:"blind carbon copy addresses"`
}

// DocumentInput is the input schema for createdocument.
type DocumentInput struct {
	Title     string `json:"title" jsonschema:"document title"`
	Content   string `json:"content" jsonschema:"initial plain-text content"`
	ShareWith string `json:"shareWith,omitempty" jsonschema:"address granted writer access (defaults to the configured owner)"`
}

// CallOutput is the output schema shared by every tool.
type CallOutput struct {
	Result any `json:"result"`
}

// registerTools registers one tool per dispatcher operation.
func (s *Server) registerTools() {
	addTool(s, services.OpList, "List the user's Google contacts, one page at a time",
		func(in ListInput) domain.Arguments {
			return domain.Arguments{"pagesize": in.PageSize, "pagetoken": in.PageToken}
		})
	addTool(s, services.OpSearch, "Search contacts by name, email or phone prefix",
		func(in QueryInput) domain.Arguments {
			return domain.Arguments{"query": in.Query}
		})
	addTool(s, services.OpFindByEmail, "Find the contact with an exact email address",
		func(in EmailInput) domain.Arguments {
			return domain.Arguments{"email": in.Email}
		})
	addTool(s, services.OpFindByName, "Find contacts whose name contains the given text",
		func(in NameInput) domain.Arguments {
			return domain.Arguments{"name": in.Name}
		})
	addTool(s, services.OpGetEmailFromName, "Return the first email address of the first contact matching a name",
		func(in NameInput) domain.Arguments {
			return domain.Arguments{"name": in.Name}
		})
	addTool(s, services.OpGetContact, "Get one contact with addresses, birthdays and URLs",
		func(in ContactInput) domain.Arguments {
			return domain.Arguments{"resourcename": in.ResourceName}
		})
	addTool(s, services.OpSearchEmails, "Search Gmail messages",
		func(in SearchEmailsInput) domain.Arguments {
			return domain.Arguments{"query": in.Query, "maxresults": in.MaxResults}
		})
	addTool(s, services.OpReadEmail, "Read one Gmail message with its plain-text body",
		func(in ReadEmailInput) domain.Arguments {
			return domain.Arguments{"emailid": in.EmailID}
		})
	addTool(s, services.OpCreateDraft, "Save a Gmail draft without sending it",
		func(in DraftInput) domain.Arguments {
			return domain.Arguments{"to": in.To, "subject": in.Subject, "body": in.Body, "cc": in.Cc, "bcc": in.Bcc}
		})
	addTool(s, services.OpCreateDocument, "Create a Google Doc and share it",
		func(in DocumentInput) domain.Arguments {
			return domain.Arguments{"title": in.Title, "content": in.Content, "sharewith": in.ShareWith}
		})
}

func addTool[In any](s *Server, name, description string, toArgs func(In) domain.Arguments) {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, CallOutput, error) {
		return s.dispatch(ctx, name, toArgs(in))
	})
}

// dispatch runs one operation. Operation failures become tool errors so the
// assistant sees the message.
func (s *Server) dispatch(ctx context.Context, operation string, args domain.Arguments) (*mcp.CallToolResult, CallOutput, error) {
	env := s.ports.Dispatcher.Dispatch(ctx, domain.NormalizedCall{
		CorrelationID: "mcp_" + uuid.NewString(),
		Operation:     operation,
		Arguments:     compact(args),
		Strategy:      strategyName,
	})
	if env.Failed() {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: env.Error}},
		}, CallOutput{}, nil
	}

	text, err := json.Marshal(env.Result)
	if err != nil {
		return nil, CallOutput{}, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}, CallOutput{Result: env.Result}, nil
}

// compact drops zero values so dispatcher defaults apply.
func compact(args domain.Arguments) domain.Arguments {
	out := make(domain.Arguments, len(args))
	for k, v := range args {
		switch val := v.(type) {
		case string:
			if val == "" {
				continue
			}
		case int:
			if val == 0 {
				continue
			}
		}
		out[k] = v
	}
	return out
}
