package people

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/JeanYan3D/tinatools/internal/connectors/google"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

type staticTokens struct{ err error }

func (s staticTokens) Token(context.Context, string) (*domain.StoredToken, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.StoredToken{AccessToken: "test-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func newTestDirectory(t *testing.T, handler http.HandlerFunc) (*Directory, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := google.NewClient(staticTokens{}, "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	return NewDirectory(client), rec
}

func TestDirectory_List(t *testing.T) {
	dir, rec := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"connections": [{
				"resourceName": "people/c1",
				"names": [{"displayName": "Alice Martin", "givenName": "Alice", "familyName": "Martin"}],
				"emailAddresses": [{"value": "alice@example.com", "type": "work"}],
				"phoneNumbers": [{"value": "+33 6 00 00 00 00"}],
				"organizations": [{"name": "Acme", "title": "CTO"}],
				"photos": [{"url": "https://example.com/a.jpg"}]
			}],
			"nextPageToken": "next",
			"totalItems": 42
		}`))
	})

	page, err := dir.List(context.Background(), 10, "tok")

	require.NoError(t, err)
	require.Len(t, page.Contacts, 1)
	c := page.Contacts[0]
	assert.Equal(t, "people/c1", c.ResourceName)
	assert.Equal(t, "Alice Martin", c.Names[0].DisplayName)
	assert.Equal(t, domain.ContactValue{Value: "alice@example.com", Type: "work"}, c.Emails[0])
	assert.Equal(t, "Acme", c.Organizations[0].Name)
	assert.Equal(t, "https://example.com/a.jpg", c.Photos[0].URL)
	assert.Equal(t, "next", page.NextPageToken)
	assert.Equal(t, 42, page.TotalItems)

	require.Len(t, rec.requests, 1)
	req := rec.requests[0]
	assert.True(t, strings.HasSuffix(req.URL.Path, "/people/me/connections"), req.URL.Path)
	assert.Equal(t, listFields, req.URL.Query().Get("personFields"))
	assert.Equal(t, "10", req.URL.Query().Get("pageSize"))
	assert.Equal(t, "tok", req.URL.Query().Get("pageToken"))
}

func TestDirectory_Search_SendsWarmUpFirst(t *testing.T) {
	dir, rec := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"results": [
			{"person": {"resourceName": "people/c2", "names": [{"displayName": "Bob"}]}},
			{}
		]}`))
	})

	contacts, err := dir.Search(context.Background(), "bob")

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "people/c2", contacts[0].ResourceName)

	require.Len(t, rec.requests, 2)
	assert.Equal(t, "", rec.requests[0].URL.Query().Get("query"))
	assert.Equal(t, "bob", rec.requests[1].URL.Query().Get("query"))
	assert.Equal(t, "30", rec.requests[1].URL.Query().Get("pageSize"))
	assert.True(t, strings.HasSuffix(rec.requests[1].URL.Path, "people:searchContacts"), rec.requests[1].URL.Path)
}

func TestDirectory_Get_DetailFields(t *testing.T) {
	dir, rec := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"resourceName": "people/c3",
			"addresses": [{"formattedValue": "1 rue de Rivoli, Paris", "type": "home"}],
			"birthdays": [{"date": {"month": 4, "day": 2}}],
			"urls": [{"value": "https://example.com"}]
		}`))
	})

	c, err := dir.Get(context.Background(), "people/c3")

	require.NoError(t, err)
	assert.Equal(t, "1 rue de Rivoli, Paris", c.Addresses[0].FormattedValue)
	assert.Equal(t, "--04-02", c.Birthdays[0].Text)
	assert.Equal(t, "https://example.com", c.URLs[0].Value)
	assert.Equal(t, detailFields, rec.requests[0].URL.Query().Get("personFields"))
}

func TestDirectory_Get_NotFound(t *testing.T) {
	dir, _ := newTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": 404, "message": "Requested entity was not found."}}`))
	})

	_, err := dir.Get(context.Background(), "people/missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrUpstreamAPI)
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 404, upstream.StatusCode)
	assert.Equal(t, "people", upstream.Service)
}

func TestDirectory_ReauthorizationSkipsNetwork(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { rec.add(r) }))
	defer srv.Close()
	tokens := staticTokens{err: &domain.ReauthorizationError{Integration: "gmail", Reason: "no token stored"}}
	dir := NewDirectory(google.NewClient(tokens, "", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client())))

	_, err := dir.List(context.Background(), 10, "")

	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
	assert.Empty(t, rec.requests)
}

func TestBirthdayText(t *testing.T) {
	tests := []struct {
		name string
		in   *people.Birthday
		want string
	}{
		{"full date", &people.Birthday{Date: &people.Date{Year: 1990, Month: 12, Day: 31}}, "1990-12-31"},
		{"no year", &people.Birthday{Date: &people.Date{Month: 1, Day: 5}}, "--01-05"},
		{"text only", &people.Birthday{Text: "early May"}, "early May"},
		{"empty", &people.Birthday{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, birthdayText(tt.in))
		})
	}
}
