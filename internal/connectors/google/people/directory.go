// Package people implements the contact directory on the Google People API.
package people

import (
	"context"
	"fmt"

	"google.golang.org/api/people/v1"

	"github.com/JeanYan3D/tinatools/internal/connectors/google"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure Directory implements the interface.
var _ driven.ContactDirectory = (*Directory)(nil)

const (
	// listFields is requested for listings and searches.
	listFields = "names,emailAddresses,phoneNumbers,organizations,photos"
	// detailFields is requested for a single contact.
	detailFields = listFields + ",addresses,birthdays,urls"
	// searchPageSize is the People API maximum for searchContacts.
	searchPageSize = 30
	// self is the authenticated user's resource name.
	self = "people/me"
)

// Directory reads the authenticated user's contacts.
type Directory struct {
	client *google.Client
}

// NewDirectory creates a directory backed by client.
func NewDirectory(client *google.Client) *Directory {
	return &Directory{client: client}
}

// List returns one page of the user's connections.
func (d *Directory) List(ctx context.Context, pageSize int, pageToken string) (*domain.ContactPage, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.People.Connections.List(self).
		PersonFields(listFields).
		PageSize(int64(pageSize)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, google.WrapError(google.ServicePeople, err)
	}

	contacts := make([]domain.Contact, 0, len(resp.Connections))
	for _, p := range resp.Connections {
		contacts = append(contacts, toContact(p))
	}
	total := int(resp.TotalItems)
	if total == 0 {
		total = len(contacts)
	}
	return &domain.ContactPage{
		Contacts:      contacts,
		NextPageToken: resp.NextPageToken,
		TotalItems:    total,
	}, nil
}

// Search runs searchContacts. The People API serves stale results until a
// warm-up request with an empty query has been made, so one is sent first.
func (d *Directory) Search(ctx context.Context, query string) ([]domain.Contact, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := svc.People.SearchContacts().Query("").ReadMask(listFields).Context(ctx).Do(); err != nil {
		logger.Debug("people warm-up request failed: %v", err)
	}

	if err := d.client.Wait(ctx, google.ServicePeople); err != nil {
		return nil, err
	}
	resp, err := svc.People.SearchContacts().
		Query(query).
		PageSize(searchPageSize).
		ReadMask(listFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, google.WrapError(google.ServicePeople, err)
	}

	contacts := make([]domain.Contact, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r == nil || r.Person == nil {
			continue
		}
		contacts = append(contacts, toContact(r.Person))
	}
	return contacts, nil
}

// Get returns one contact with addresses, birthdays and URLs.
func (d *Directory) Get(ctx context.Context, resourceName string) (*domain.Contact, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}
	p, err := svc.People.Get(resourceName).PersonFields(detailFields).Context(ctx).Do()
	if err != nil {
		return nil, google.WrapError(google.ServicePeople, err)
	}
	c := toContact(p)
	return &c, nil
}

func (d *Directory) service(ctx context.Context) (*people.Service, error) {
	if err := d.client.Wait(ctx, google.ServicePeople); err != nil {
		return nil, err
	}
	return d.client.People(ctx)
}

func toContact(p *people.Person) domain.Contact {
	c := domain.Contact{ResourceName: p.ResourceName}
	for _, n := range p.Names {
		c.Names = append(c.Names, domain.ContactName{
			DisplayName: n.DisplayName,
			GivenName:   n.GivenName,
			FamilyName:  n.FamilyName,
		})
	}
	for _, e := range p.EmailAddresses {
		c.Emails = append(c.Emails, domain.ContactValue{Value: e.Value, Type: e.Type})
	}
	for _, ph := range p.PhoneNumbers {
		c.Phones = append(c.Phones, domain.ContactValue{Value: ph.Value, Type: ph.Type})
	}
	for _, o := range p.Organizations {
		c.Organizations = append(c.Organizations, domain.Organization{Name: o.Name, Title: o.Title})
	}
	for _, ph := range p.Photos {
		c.Photos = append(c.Photos, domain.Photo{URL: ph.Url})
	}
	for _, a := range p.Addresses {
		c.Addresses = append(c.Addresses, domain.Address{FormattedValue: a.FormattedValue, Type: a.Type})
	}
	for _, b := range p.Birthdays {
		if text := birthdayText(b); text != "" {
			c.Birthdays = append(c.Birthdays, domain.Birthday{Text: text})
		}
	}
	for _, u := range p.Urls {
		c.URLs = append(c.URLs, domain.ContactValue{Value: u.Value, Type: u.Type})
	}
	return c
}

// birthdayText prefers the structured date; the year may be absent.
func birthdayText(b *people.Birthday) string {
	if b.Date == nil || b.Date.Month == 0 || b.Date.Day == 0 {
		return b.Text
	}
	if b.Date.Year == 0 {
		return fmt.Sprintf("--%02d-%02d", b.Date.Month, b.Date.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", b.Date.Year, b.Date.Month, b.Date.Day)
}
