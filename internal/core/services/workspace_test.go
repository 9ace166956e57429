package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

func TestContactService_List_ClampsPageSize(t *testing.T) {
	dir := &mockDirectory{}
	svc := NewContactService(dir)

	_, err := svc.List(context.Background(), 0, "")
	require.NoError(t, err)
	_, err = svc.List(context.Background(), 5000, "")
	require.NoError(t, err)

	assert.Equal(t, []int{10, 1000}, dir.listSizes)
}

func TestContactService_Search_EmptyResultIsNotNil(t *testing.T) {
	svc := NewContactService(&mockDirectory{})

	result, err := svc.Search(context.Background(), "zed")

	require.NoError(t, err)
	assert.NotNil(t, result.Contacts)
	assert.Equal(t, 0, result.TotalItems)
}

func TestContactService_Get_AddsPeoplePrefix(t *testing.T) {
	svc := NewContactService(&mockDirectory{contacts: []domain.Contact{contact("people/c42", "Zoe")}})

	c, err := svc.Get(context.Background(), "c42")

	require.NoError(t, err)
	assert.Equal(t, "people/c42", c.ResourceName)
}

func TestContactService_FindByEmail(t *testing.T) {
	dir := &mockDirectory{contacts: []domain.Contact{
		contact("people/1", "Bob", "bob@x.com"),
		contact("people/2", "Carol", "other@x.com", "Carol@Example.com"),
	}}
	svc := NewContactService(dir)

	found, err := svc.FindByEmail(context.Background(), "carol@example.COM")

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "people/2", found.ResourceName)
	assert.Equal(t, []string{"carol@example.COM"}, dir.searched)
	assert.Empty(t, dir.listSizes)

	missing, err := svc.FindByEmail(context.Background(), "carol@example")
	require.NoError(t, err)
	assert.Nil(t, missing, "partial addresses must not match")
}

func TestContactService_FindByEmail_UsesSearchResults(t *testing.T) {
	dir := &mockDirectory{
		contacts: []domain.Contact{contact("people/1", "Bob", "bob@x.com")},
		hits:     []domain.Contact{contact("people/999", "Zoe", "zoe@example.com")},
	}
	svc := NewContactService(dir)

	found, err := svc.FindByEmail(context.Background(), "zoe@example.com")

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "people/999", found.ResourceName)
}

func TestContactService_FindByName_MatchesAnyNameField(t *testing.T) {
	dir := &mockDirectory{contacts: []domain.Contact{
		{ResourceName: "people/1", Names: []domain.ContactName{{GivenName: "Jean", FamilyName: "Yan"}}},
		{ResourceName: "people/2", Names: []domain.ContactName{{DisplayName: "Someone Else"}}},
		{ResourceName: "people/3", Names: []domain.ContactName{{FamilyName: "Dujean"}}},
	}}
	svc := NewContactService(dir)

	result, err := svc.FindByName(context.Background(), "JEAN")

	require.NoError(t, err)
	require.Len(t, result.Contacts, 2)
	assert.Equal(t, "people/1", result.Contacts[0].ResourceName)
	assert.Equal(t, "people/3", result.Contacts[1].ResourceName)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, []string{"JEAN"}, dir.searched)
}

func TestContactService_EmailFromName_OnlyFirstContactCounts(t *testing.T) {
	svc := NewContactService(&mockDirectory{contacts: []domain.Contact{
		contact("people/1", "Alice Martin"),
		contact("people/2", "Alice Dupont", "dupont@example.com"),
	}})

	email, ok, err := svc.EmailFromName(context.Background(), "alice")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, email)
}

func TestContactService_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewContactService(&mockDirectory{err: boom})

	_, err := svc.FindByName(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	_, _, err = svc.EmailFromName(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestMailService_Search_Clamps(t *testing.T) {
	box := &mockMailbox{}
	svc := NewMailService(box)

	emails, err := svc.Search(context.Background(), "q", -1)
	require.NoError(t, err)
	assert.NotNil(t, emails)

	_, err = svc.Search(context.Background(), "q", 10000)
	require.NoError(t, err)

	assert.Equal(t, []int{defaultMaxResults, maxSearchResults}, box.searchMax)
}

func TestMailService_CreateDraft_ValidatesAddresses(t *testing.T) {
	box := &mockMailbox{}
	svc := NewMailService(box)

	_, err := svc.CreateDraft(context.Background(), domain.Draft{To: "not an address", Subject: "s", Body: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateDraft(context.Background(), domain.Draft{To: "a@b.com", Cc: "c@d.com, e@f.com", Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.Len(t, box.drafts, 1)
}

func TestDocumentService_ShareFailureIsNonFatal(t *testing.T) {
	writer := &mockWriter{shareErr: errors.New("permission denied")}
	svc := NewDocumentService(writer, "owner@example.com")

	result, err := svc.Create(context.Background(), domain.NewDocument{Title: "T", Content: "C"})

	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.DocumentID)
	assert.False(t, result.Shared)
}

func TestDocumentService_ExplicitShareWithWins(t *testing.T) {
	writer := &mockWriter{}
	svc := NewDocumentService(writer, "owner@example.com")

	_, err := svc.Create(context.Background(), domain.NewDocument{Title: "T", Content: "C", ShareWith: "guest@example.com"})

	require.NoError(t, err)
	assert.Equal(t, []string{"guest@example.com"}, writer.sharedTo)
}

func TestDocumentService_NoShareTarget(t *testing.T) {
	writer := &mockWriter{}
	svc := NewDocumentService(writer, "")

	result, err := svc.Create(context.Background(), domain.NewDocument{Title: "T", Content: "C"})

	require.NoError(t, err)
	assert.False(t, result.Shared)
	assert.Empty(t, writer.sharedTo)
}
