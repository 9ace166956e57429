package services

import (
	"context"
	"errors"
	"sync"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// mockExchanger records refresh calls and returns a canned response.
type mockExchanger struct {
	mu           sync.Mutex
	refreshCalls int
	refreshed    *domain.StoredToken
	refreshErr   error

	exchangeCode     string
	exchangeVerifier string
	exchanged        *domain.StoredToken
	lastAuthRequest  driven.AuthorizationRequest
}

func (m *mockExchanger) Refresh(_ context.Context, _ string) (*domain.StoredToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	tok := *m.refreshed
	return &tok, nil
}

func (m *mockExchanger) AuthCodeURL(req driven.AuthorizationRequest) string {
	m.lastAuthRequest = req
	return "https://accounts.example/auth?state=" + req.State
}

func (m *mockExchanger) Exchange(_ context.Context, code, verifier, _ string) (*domain.StoredToken, error) {
	m.exchangeCode = code
	m.exchangeVerifier = verifier
	if m.exchanged == nil {
		return nil, errors.New("exchange failed")
	}
	tok := *m.exchanged
	return &tok, nil
}

// failingStore fails every Put after delegating Get.
type failingStore struct {
	driven.TokenStore
}

func (failingStore) Put(context.Context, string, domain.StoredToken) error {
	return errors.New("disk full")
}

// mockDirectory serves contacts from memory. Search returns hits when set
// and contacts otherwise.
type mockDirectory struct {
	contacts  []domain.Contact
	hits      []domain.Contact
	err       error
	listSizes []int
	searched  []string
}

func (m *mockDirectory) List(_ context.Context, pageSize int, _ string) (*domain.ContactPage, error) {
	m.listSizes = append(m.listSizes, pageSize)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ContactPage{Contacts: m.contacts, TotalItems: len(m.contacts)}, nil
}

func (m *mockDirectory) Search(_ context.Context, query string) ([]domain.Contact, error) {
	m.searched = append(m.searched, query)
	if m.err != nil {
		return nil, m.err
	}
	if m.hits != nil {
		return m.hits, nil
	}
	return m.contacts, nil
}

func (m *mockDirectory) Get(_ context.Context, resourceName string) (*domain.Contact, error) {
	for _, c := range m.contacts {
		if c.ResourceName == resourceName {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockMailbox records drafts and searches.
type mockMailbox struct {
	drafts     []domain.Draft
	searchMax  []int
	emails     []domain.EmailSummary
	readResult *domain.Email
	err        error
}

func (m *mockMailbox) Search(_ context.Context, _ string, maxResults int) ([]domain.EmailSummary, error) {
	m.searchMax = append(m.searchMax, maxResults)
	return m.emails, m.err
}

func (m *mockMailbox) Read(_ context.Context, _ string) (*domain.Email, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.readResult, nil
}

func (m *mockMailbox) CreateDraft(_ context.Context, draft domain.Draft) (*domain.DraftResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.drafts = append(m.drafts, draft)
	return &domain.DraftResult{ID: "r-1", MessageID: "m-1", Message: "Draft created"}, nil
}

// mockWriter creates documents with a fixed id.
type mockWriter struct {
	created  []string
	sharedTo []string
	shareErr error
}

func (m *mockWriter) Create(_ context.Context, title, _ string) (string, error) {
	m.created = append(m.created, title)
	return "doc-1", nil
}

func (m *mockWriter) Share(_ context.Context, _ string, email string) error {
	if m.shareErr != nil {
		return m.shareErr
	}
	m.sharedTo = append(m.sharedTo, email)
	return nil
}

// panicMailbox panics on every call.
type panicMailbox struct{ mockMailbox }

func (panicMailbox) Search(context.Context, string, int) ([]domain.EmailSummary, error) {
	panic("nil map write")
}

func contact(resource, display string, emails ...string) domain.Contact {
	c := domain.Contact{
		ResourceName: resource,
		Names:        []domain.ContactName{{DisplayName: display}},
	}
	for _, e := range emails {
		c.Emails = append(c.Emails, domain.ContactValue{Value: e})
	}
	return c
}
