package services

import (
	"context"
	"strings"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
)

// Ensure ContactService implements the interface.
var _ driving.ContactService = (*ContactService)(nil)

// maxPageSize is the People API ceiling for connections.list.
const maxPageSize = 1000

// ContactService answers contact lookups against the People API.
type ContactService struct {
	directory driven.ContactDirectory
}

// NewContactService creates a new contact service.
func NewContactService(directory driven.ContactDirectory) *ContactService {
	return &ContactService{directory: directory}
}

// List returns one page of connections.
func (s *ContactService) List(ctx context.Context, pageSize int, pageToken string) (*domain.ContactPage, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.directory.List(ctx, pageSize, pageToken)
}

// Search returns contacts matching query.
func (s *ContactService) Search(ctx context.Context, query string) (*domain.ContactSearchResult, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	contacts, err := s.directory.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return newSearchResult(contacts), nil
}

// Get returns one contact with extended fields.
func (s *ContactService) Get(ctx context.Context, resourceName string) (*domain.Contact, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	if !strings.HasPrefix(resourceName, "people/") {
		resourceName = "people/" + resourceName
	}
	return s.directory.Get(ctx, resourceName)
}

// FindByEmail searches the directory for email and returns the first hit
// carrying that exact address, compared case-insensitively. Returns nil
// when none matches.
func (s *ContactService) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	contacts, err := s.directory.Search(ctx, email)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		for _, e := range contacts[i].Emails {
			if strings.EqualFold(e.Value, email) {
				c := contacts[i]
				return &c, nil
			}
		}
	}
	return nil, nil
}

// FindByName returns search hits whose display, given or family name
// contains name, case-insensitively.
func (s *ContactService) FindByName(ctx context.Context, name string) (*domain.ContactSearchResult, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	contacts, err := s.directory.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	matched := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		if nameMatches(c, needle) {
			matched = append(matched, c)
		}
	}
	return newSearchResult(matched), nil
}

// EmailFromName returns the first email of the first matching contact.
// Later matches are never consulted, even when the first has no email.
func (s *ContactService) EmailFromName(ctx context.Context, name string) (string, bool, error) {
	result, err := s.FindByName(ctx, name)
	if err != nil {
		return "", false, err
	}
	if len(result.Contacts) == 0 {
		return "", false, nil
	}
	email, ok := result.Contacts[0].PrimaryEmail()
	return email, ok, nil
}

func nameMatches(c domain.Contact, needle string) bool {
	for _, n := range c.Names {
		for _, field := range []string{n.DisplayName, n.GivenName, n.FamilyName} {
			if field != "" && strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
	}
	return false
}

func newSearchResult(contacts []domain.Contact) *domain.ContactSearchResult {
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return &domain.ContactSearchResult{Contacts: contacts, TotalItems: len(contacts)}
}
