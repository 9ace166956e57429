package services

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService creates Google Docs and shares them with their owner.
type DocumentService struct {
	writer    driven.DocumentWriter
	shareWith string
}

// NewDocumentService creates a new document service. shareWith is the
// default address granted writer access; it may be empty.
func NewDocumentService(writer driven.DocumentWriter, shareWith string) *DocumentService {
	return &DocumentService{writer: writer, shareWith: shareWith}
}

// Create makes the document and shares it. A sharing failure is logged and
// reported through DocumentResult.Shared rather than failing the call.
func (s *DocumentService) Create(ctx context.Context, doc domain.NewDocument) (*domain.DocumentResult, error) {
	if s.writer == nil {
		return nil, domain.ErrNotImplemented
	}
	if doc.Title == "" {
		return nil, &domain.MissingArgumentError{Operation: OpCreateDocument, Key: "title"}
	}

	id, err := s.writer.Create(ctx, doc.Title, doc.Content)
	if err != nil {
		return nil, err
	}
	result := &domain.DocumentResult{DocumentID: id, DocumentURL: domain.DocumentURL(id)}

	shareWith := doc.ShareWith
	if shareWith == "" {
		shareWith = s.shareWith
	}
	if shareWith == "" {
		return result, nil
	}

	if err := s.writer.Share(ctx, id, shareWith); err != nil {
		logger.Get().Warn().Err(err).
			Str("document_id", id).
			Str("share_with", shareWith).
			Msg("document created but sharing failed")
		return result, nil
	}
	result.Shared = true
	return result, nil
}
