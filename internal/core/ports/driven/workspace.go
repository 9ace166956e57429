package driven

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// ContactDirectory reads the authenticated user's Google contacts.
type ContactDirectory interface {
	// List returns one page of connections.
	List(ctx context.Context, pageSize int, pageToken string) (*domain.ContactPage, error)

	// Search runs a prefix search over names, emails and phone numbers.
	Search(ctx context.Context, query string) ([]domain.Contact, error)

	// Get returns one contact with extended fields.
	Get(ctx context.Context, resourceName string) (*domain.Contact, error)
}

// Mailbox reads and drafts Gmail messages.
type Mailbox interface {
	// Search lists messages matching a Gmail query.
	Search(ctx context.Context, query string, maxResults int) ([]domain.EmailSummary, error)

	// Read fetches one message with its decoded plain-text body.
	Read(ctx context.Context, id string) (*domain.Email, error)

	// CreateDraft saves a draft without sending it.
	CreateDraft(ctx context.Context, draft domain.Draft) (*domain.DraftResult, error)
}

// DocumentWriter creates and shares Google Docs.
type DocumentWriter interface {
	// Create makes a document holding content and returns its id.
	Create(ctx context.Context, title, content string) (string, error)

	// Share grants writer access to email without a notification.
	Share(ctx context.Context, documentID, email string) error
}
