package domain

// Contact is a People API person re-mapped to the shape returned to callers.
type Contact struct {
	ResourceName  string         `json:"resourceName"`
	Names         []ContactName  `json:"names,omitempty"`
	Emails        []ContactValue `json:"emails,omitempty"`
	Phones        []ContactValue `json:"phones,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`
	Photos        []Photo        `json:"photos,omitempty"`
	Addresses     []Address      `json:"addresses,omitempty"`
	Birthdays     []Birthday     `json:"birthdays,omitempty"`
	URLs          []ContactValue `json:"urls,omitempty"`
}

// ContactName is one of a contact's names.
type ContactName struct {
	DisplayName string `json:"displayName,omitempty"`
	GivenName   string `json:"givenName,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
}

// ContactValue is a typed value such as an email, phone number or URL.
type ContactValue struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Organization is an employer entry.
type Organization struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// Photo is a contact picture.
type Photo struct {
	URL string `json:"url"`
}

// Address is a postal address.
type Address struct {
	FormattedValue string `json:"formattedValue,omitempty"`
	Type           string `json:"type,omitempty"`
}

// Birthday is a free-form birthday.
type Birthday struct {
	Text string `json:"text,omitempty"`
}

// PrimaryEmail returns the first email address, if any.
func (c Contact) PrimaryEmail() (string, bool) {
	for _, e := range c.Emails {
		if e.Value != "" {
			return e.Value, true
		}
	}
	return "", false
}

// ContactPage is one page of the connection list.
type ContactPage struct {
	Contacts      []Contact `json:"contacts"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
	TotalItems    int       `json:"totalItems"`
}

// ContactSearchResult is the result of a contact search.
type ContactSearchResult struct {
	Contacts   []Contact `json:"contacts"`
	TotalItems int       `json:"totalItems"`
}

// EmailSummary is a message in a search listing.
type EmailSummary struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId,omitempty"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Date     string `json:"date,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// Email is a fully fetched message.
type Email struct {
	EmailSummary
	To   string `json:"to,omitempty"`
	Cc   string `json:"cc,omitempty"`
	Body string `json:"body"`
}

// Draft is an outgoing message to be saved as a draft.
type Draft struct {
	To      string
	Subject string
	Body    string
	Cc      string
	Bcc     string
}

// DraftResult identifies a created draft.
type DraftResult struct {
	ID        string `json:"draftId"`
	MessageID string `json:"messageId,omitempty"`
	Message   string `json:"message"`
}

// NewDocument describes a Google Doc to create.
type NewDocument struct {
	Title   string
	Content string
	// ShareWith is the address granted writer access. Empty falls back to
	// the configured owner.
	ShareWith string
}

// DocumentResult identifies a created document.
type DocumentResult struct {
	DocumentID  string `json:"documentId"`
	DocumentURL string `json:"documentUrl"`
	Shared      bool   `json:"shared"`
}

// DocumentURL returns the editor URL of a Google Doc.
func DocumentURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/edit"
}
