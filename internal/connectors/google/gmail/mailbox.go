// Package gmail implements the mailbox on the Gmail API.
package gmail

import (
	"context"

	"google.golang.org/api/gmail/v1"

	"github.com/JeanYan3D/tinatools/internal/connectors/google"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// Ensure Mailbox implements the interface.
var _ driven.Mailbox = (*Mailbox)(nil)

// me is the Gmail alias for the authenticated user.
const me = "me"

// draftCreatedMessage is returned with every new draft.
const draftCreatedMessage = "Draft created successfully"

// Mailbox searches, reads and drafts messages for the authenticated user.
type Mailbox struct {
	client *google.Client
}

// NewMailbox creates a mailbox backed by client.
func NewMailbox(client *google.Client) *Mailbox {
	return &Mailbox{client: client}
}

// Search lists message ids matching query, then fetches the metadata of each.
func (m *Mailbox) Search(ctx context.Context, query string, maxResults int) ([]domain.EmailSummary, error) {
	svc, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Users.Messages.List(me).Q(query).MaxResults(int64(maxResults)).Context(ctx).Do()
	if err != nil {
		return nil, google.WrapError(google.ServiceGmail, err)
	}

	emails := make([]domain.EmailSummary, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		if err := m.client.Wait(ctx, google.ServiceGmail); err != nil {
			return nil, err
		}
		msg, err := svc.Users.Messages.Get(me, ref.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, google.WrapError(google.ServiceGmail, err)
		}
		emails = append(emails, toSummary(msg))
	}
	return emails, nil
}

// Read fetches one message in full and extracts its text body.
func (m *Mailbox) Read(ctx context.Context, id string) (*domain.Email, error) {
	svc, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := svc.Users.Messages.Get(me, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, google.WrapError(google.ServiceGmail, err)
	}

	email := &domain.Email{EmailSummary: toSummary(msg)}
	if msg.Payload != nil {
		email.To = header(msg.Payload.Headers, "To")
		email.Cc = header(msg.Payload.Headers, "Cc")
		email.Body = ExtractBody(msg.Payload)
	}
	return email, nil
}

// CreateDraft saves draft in the user's Drafts folder.
func (m *Mailbox) CreateDraft(ctx context.Context, draft domain.Draft) (*domain.DraftResult, error) {
	svc, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	created, err := svc.Users.Drafts.Create(me, &gmail.Draft{
		Message: &gmail.Message{Raw: EncodeDraft(draft)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, google.WrapError(google.ServiceGmail, err)
	}

	result := &domain.DraftResult{ID: created.Id, Message: draftCreatedMessage}
	if created.Message != nil {
		result.MessageID = created.Message.Id
	}
	return result, nil
}

func (m *Mailbox) service(ctx context.Context) (*gmail.Service, error) {
	if err := m.client.Wait(ctx, google.ServiceGmail); err != nil {
		return nil, err
	}
	return m.client.Gmail(ctx)
}

func toSummary(msg *gmail.Message) domain.EmailSummary {
	s := domain.EmailSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
	}
	if msg.Payload != nil {
		s.Subject = header(msg.Payload.Headers, "Subject")
		s.From = header(msg.Payload.Headers, "From")
		s.Date = header(msg.Payload.Headers, "Date")
	}
	return s
}

func header(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h != nil && h.Name == name {
			return h.Value
		}
	}
	return ""
}
