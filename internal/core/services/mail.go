package services

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
)

// Ensure MailService implements the interface.
var _ driving.MailService = (*MailService)(nil)

// maxSearchResults is the Gmail ceiling for messages.list.
const maxSearchResults = 500

// MailService searches, reads and drafts Gmail messages.
type MailService struct {
	mailbox driven.Mailbox
}

// NewMailService creates a new mail service.
func NewMailService(mailbox driven.Mailbox) *MailService {
	return &MailService{mailbox: mailbox}
}

// Search returns at most maxResults messages matching query.
func (s *MailService) Search(ctx context.Context, query string, maxResults int) ([]domain.EmailSummary, error) {
	if s.mailbox == nil {
		return nil, domain.ErrNotImplemented
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxSearchResults {
		maxResults = maxSearchResults
	}
	emails, err := s.mailbox.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if emails == nil {
		emails = []domain.EmailSummary{}
	}
	return emails, nil
}

// Read returns one message with its plain-text body.
func (s *MailService) Read(ctx context.Context, id string) (*domain.Email, error) {
	if s.mailbox == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.mailbox.Read(ctx, id)
}

// CreateDraft validates recipients and saves the draft.
func (s *MailService) CreateDraft(ctx context.Context, draft domain.Draft) (*domain.DraftResult, error) {
	if s.mailbox == nil {
		return nil, domain.ErrNotImplemented
	}
	for field, value := range map[string]string{"to": draft.To, "cc": draft.Cc, "bcc": draft.Bcc} {
		if value == "" {
			continue
		}
		if _, err := mail.ParseAddressList(value); err != nil {
			return nil, fmt.Errorf("%w: %s address %q: %v", domain.ErrInvalidInput, field, value, err)
		}
	}
	return s.mailbox.CreateDraft(ctx, draft)
}
