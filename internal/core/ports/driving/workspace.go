package driving

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// ContactService answers contact lookups.
type ContactService interface {
	List(ctx context.Context, pageSize int, pageToken string) (*domain.ContactPage, error)
	Search(ctx context.Context, query string) (*domain.ContactSearchResult, error)
	Get(ctx context.Context, resourceName string) (*domain.Contact, error)

	// FindByEmail returns nil when no contact has that exact address.
	FindByEmail(ctx context.Context, email string) (*domain.Contact, error)

	FindByName(ctx context.Context, name string) (*domain.ContactSearchResult, error)

	// EmailFromName returns the first email of the first matching contact.
	// The boolean is false when no contact has an email.
	EmailFromName(ctx context.Context, name string) (string, bool, error)
}

// MailService searches, reads and drafts email.
type MailService interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.EmailSummary, error)
	Read(ctx context.Context, id string) (*domain.Email, error)
	CreateDraft(ctx context.Context, draft domain.Draft) (*domain.DraftResult, error)
}

// DocumentService creates shared Google Docs.
type DocumentService interface {
	Create(ctx context.Context, doc domain.NewDocument) (*domain.DocumentResult, error)
}
