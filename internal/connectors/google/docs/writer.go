// Package docs creates Google Docs and shares them through Drive.
package docs

import (
	"context"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/JeanYan3D/tinatools/internal/connectors/google"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.DocumentWriter = (*Writer)(nil)

// Writer creates documents in the authenticated user's Drive.
type Writer struct {
	client *google.Client
}

// NewWriter creates a writer backed by client.
func NewWriter(client *google.Client) *Writer {
	return &Writer{client: client}
}

// Create makes an empty document titled title and inserts content at the
// start of its body.
func (w *Writer) Create(ctx context.Context, title, content string) (string, error) {
	if err := w.client.Wait(ctx, google.ServiceDocs); err != nil {
		return "", err
	}
	svc, err := w.client.Docs(ctx)
	if err != nil {
		return "", err
	}

	doc, err := svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", google.WrapError(google.ServiceDocs, err)
	}
	if content == "" {
		return doc.DocumentId, nil
	}

	if err := w.client.Wait(ctx, google.ServiceDocs); err != nil {
		return "", err
	}
	_, err = svc.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: 1},
				Text:     content,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", google.WrapError(google.ServiceDocs, err)
	}
	return doc.DocumentId, nil
}

// Share grants email writer access to the document without sending a
// notification email.
func (w *Writer) Share(ctx context.Context, docID, email string) error {
	if err := w.client.Wait(ctx, google.ServiceDrive); err != nil {
		return err
	}
	svc, err := w.client.Drive(ctx)
	if err != nil {
		return err
	}

	_, err = svc.Permissions.Create(docID, &drive.Permission{
		Type:         "user",
		Role:         "writer",
		EmailAddress: email,
	}).SendNotificationEmail(false).Context(ctx).Do()
	return google.WrapError(google.ServiceDrive, err)
}
