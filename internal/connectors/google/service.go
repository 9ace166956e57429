package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// DefaultIntegration is the token store key shared by every Google service.
const DefaultIntegration = "gmail"

// NewPeopleService creates a People API service using the provided TokenSource.
func NewPeopleService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*people.Service, error) {
	return people.NewService(ctx, withTokenSource(ts, opts)...)
}

// NewGmailService creates a Gmail API service using the provided TokenSource.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*gmail.Service, error) {
	return gmail.NewService(ctx, withTokenSource(ts, opts)...)
}

// NewDocsService creates a Google Docs API service using the provided TokenSource.
func NewDocsService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*docs.Service, error) {
	return docs.NewService(ctx, withTokenSource(ts, opts)...)
}

// NewDriveService creates a Google Drive API service using the provided TokenSource.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, withTokenSource(ts, opts)...)
}

func withTokenSource(ts oauth2.TokenSource, opts []option.ClientOption) []option.ClientOption {
	all := make([]option.ClientOption, 0, len(opts)+1)
	all = append(all, option.WithTokenSource(ts))
	return append(all, opts...)
}

// Client builds request-scoped Google API services for one integration and
// throttles calls per service.
type Client struct {
	tokens      TokenProvider
	integration string
	opts        []option.ClientOption
	throttle    *Throttle
}

// NewClient creates a client. Extra options are appended to every service,
// which lets tests point the services at a local endpoint.
func NewClient(tokens TokenProvider, integration string, opts ...option.ClientOption) *Client {
	if integration == "" {
		integration = DefaultIntegration
	}
	return &Client{
		tokens:      tokens,
		integration: integration,
		opts:        opts,
		throttle:    NewThrottle(nil),
	}
}

// Wait blocks until service may make one more call.
func (c *Client) Wait(ctx context.Context, service ServiceType) error {
	return c.throttle.Wait(ctx, service)
}

// tokenSource resolves the token once per service.
func (c *Client) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := NewTokenSource(ctx, c.tokens, c.integration).Token()
	if err != nil {
		return nil, err
	}
	return oauth2.StaticTokenSource(tok), nil
}

// People returns a People API service bound to ctx.
func (c *Client) People(ctx context.Context) (*people.Service, error) {
	ts, err := c.tokenSource(ctx)
	if err != nil {
		return nil, WrapError(ServicePeople, err)
	}
	svc, err := NewPeopleService(ctx, ts, c.opts...)
	if err != nil {
		return nil, WrapError(ServicePeople, err)
	}
	return svc, nil
}

// Gmail returns a Gmail API service bound to ctx.
func (c *Client) Gmail(ctx context.Context) (*gmail.Service, error) {
	ts, err := c.tokenSource(ctx)
	if err != nil {
		return nil, WrapError(ServiceGmail, err)
	}
	svc, err := NewGmailService(ctx, ts, c.opts...)
	if err != nil {
		return nil, WrapError(ServiceGmail, err)
	}
	return svc, nil
}

// Docs returns a Docs API service bound to ctx.
func (c *Client) Docs(ctx context.Context) (*docs.Service, error) {
	ts, err := c.tokenSource(ctx)
	if err != nil {
		return nil, WrapError(ServiceDocs, err)
	}
	svc, err := NewDocsService(ctx, ts, c.opts...)
	if err != nil {
		return nil, WrapError(ServiceDocs, err)
	}
	return svc, nil
}

// Drive returns a Drive API service bound to ctx.
func (c *Client) Drive(ctx context.Context) (*drive.Service, error) {
	ts, err := c.tokenSource(ctx)
	if err != nil {
		return nil, WrapError(ServiceDrive, err)
	}
	svc, err := NewDriveService(ctx, ts, c.opts...)
	if err != nil {
		return nil, WrapError(ServiceDrive, err)
	}
	return svc, nil
}
