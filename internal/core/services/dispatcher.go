package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure OperationDispatcher implements the interface.
var _ driving.Dispatcher = (*OperationDispatcher)(nil)

// Default page sizes applied when the caller omits them.
const (
	defaultPageSize   = 10
	defaultMaxResults = 10
)

// Operation names understood by the dispatcher.
const (
	OpList             = "list"
	OpSearch           = "search"
	OpFindByEmail      = "findbyemail"
	OpFindByName       = "findbyname"
	OpGetEmailFromName = "getemailfromname"
	OpGetContact       = "getcontact"
	OpSearchEmails     = "searchemails"
	OpReadEmail        = "reademail"
	OpCreateDraft      = "createdraft"
	OpCreateDocument   = createDocumentOperation
)

// internalErrorMessage replaces panics so no stack trace reaches callers.
const internalErrorMessage = "internal error"

type handlerFunc func(ctx context.Context, args domain.Arguments) (any, error)

type operation struct {
	required []string
	handle   handlerFunc
}

// OperationDispatcher maps operation names to the workspace services.
type OperationDispatcher struct {
	contacts   driving.ContactService
	mail       driving.MailService
	documents  driving.DocumentService
	operations map[string]operation
}

// NewOperationDispatcher creates a dispatcher over the given services.
// Any service may be nil; its operations then fail with ErrNotImplemented.
func NewOperationDispatcher(
	contacts driving.ContactService,
	mail driving.MailService,
	documents driving.DocumentService,
) *OperationDispatcher {
	d := &OperationDispatcher{
		contacts:  contacts,
		mail:      mail,
		documents: documents,
	}
	d.operations = map[string]operation{
		OpList:             {handle: d.list},
		OpSearch:           {required: []string{"query"}, handle: d.search},
		OpFindByEmail:      {required: []string{"email"}, handle: d.findByEmail},
		OpFindByName:       {required: []string{"name"}, handle: d.findByName},
		OpGetEmailFromName: {required: []string{"name"}, handle: d.getEmailFromName},
		OpGetContact:       {required: []string{"resourcename"}, handle: d.getContact},
		OpSearchEmails:     {required: []string{"query"}, handle: d.searchEmails},
		OpReadEmail:        {required: []string{"emailid"}, handle: d.readEmail},
		OpCreateDraft:      {required: []string{"to", "subject", "body"}, handle: d.createDraft},
		OpCreateDocument:   {required: []string{"title", "content"}, handle: d.createDocument},
	}
	return d
}

// Operations returns the known operation names, sorted.
func (d *OperationDispatcher) Operations() []string {
	names := make([]string, 0, len(d.operations))
	for name := range d.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the call and wraps the outcome in an envelope.
func (d *OperationDispatcher) Dispatch(ctx context.Context, call domain.NormalizedCall) domain.ResponseEnvelope {
	env := domain.ResponseEnvelope{CorrelationID: call.CorrelationID}

	result, err := d.run(ctx, call)
	if err != nil {
		env.Error = err.Error()
		logDispatchError(call, err)
		return env
	}
	env.Result = result
	return env
}

func (d *OperationDispatcher) run(ctx context.Context, call domain.NormalizedCall) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error().
				Str("operation", call.Operation).
				Interface("panic", r).
				Msg("operation handler panicked")
			result, err = nil, errors.New(internalErrorMessage)
		}
	}()

	name := strings.ToLower(strings.TrimSpace(call.Operation))
	op, ok := d.operations[name]
	if !ok {
		return nil, &domain.UnknownOperationError{Name: call.Operation}
	}

	args := call.Arguments
	if args == nil {
		args = domain.Arguments{}
	}
	for _, key := range op.required {
		if !args.Has(key) {
			return nil, &domain.MissingArgumentError{Operation: name, Key: key}
		}
	}

	logger.Debug("dispatching %s", name)
	return op.handle(ctx, args)
}

func logDispatchError(call domain.NormalizedCall, err error) {
	event := logger.Get().Warn()
	if errors.Is(err, domain.ErrReauthorizationRequired) || errors.Is(err, domain.ErrUpstreamAPI) {
		event = logger.Get().Error()
	}
	event.Err(err).
		Str("operation", call.Operation).
		Str("correlation_id", call.CorrelationID).
		Msg("operation failed")
}

func (d *OperationDispatcher) list(ctx context.Context, args domain.Arguments) (any, error) {
	if d.contacts == nil {
		return nil, domain.ErrNotImplemented
	}
	pageSize := args.Int("pagesize", args.Int("page_size", defaultPageSize))
	pageToken, _ := args.String("pagetoken")
	return d.contacts.List(ctx, pageSize, pageToken)
}

func (d *OperationDispatcher) search(ctx context.Context, args domain.Arguments) (any, error) {
	if d.contacts == nil {
		return nil, domain.ErrNotImplemented
	}
	query, _ := args.String("query")
	return d.contacts.Search(ctx, query)
}

func (d *OperationDispatcher) findByEmail(ctx context.Context, args domain.Arguments) (any, error) {
	if d.contacts == nil {
		return nil, domain.ErrNotImplemented
	}
	email, _ := args.String("email")
	contact, err := d.contacts.FindByEmail(ctx, email)
	if err != nil || contact == nil {
		return nil, err
	}
	return contact, nil
}

func (d *OperationDispatcher) findByName(ctx context.Context, args domain.Arguments) (any, error) {
	if d.contacts == nil {
		return nil, domain.ErrNotImplemented
	}
	name, _ := args.String("name")
	return d.contacts.FindByName(ctx, name)
}

func (d *OperationDispatcher) getEmailFromName(ctx context.Context, args domain.Arguments) (any, error) {
	if d.contacts == nil {
		return nil, domain.ErrNotImplemented
	}
	name, _ := args.String("name")
	email, ok, err := d.contacts.EmailFromName(ctx, name)
	if err != nil || !ok {
		return nil, err
	}
	return email, nil
}

func (d *OperationDispatcher) getContact(ctx context.Context, args domain.Arguments) (any, error) {
	if d.contacts == nil {
		return nil, domain.ErrNotImplemented
	}
	resourceName, _ := args.String("resourcename")
	return d.contacts.Get(ctx, resourceName)
}

func (d *OperationDispatcher) searchEmails(ctx context.Context, args domain.Arguments) (any, error) {
	if d.mail == nil {
		return nil, domain.ErrNotImplemented
	}
	query, _ := args.String("query")
	return d.mail.Search(ctx, query, args.Int("maxresults", defaultMaxResults))
}

func (d *OperationDispatcher) readEmail(ctx context.Context, args domain.Arguments) (any, error) {
	if d.mail == nil {
		return nil, domain.ErrNotImplemented
	}
	id, _ := args.String("emailid")
	return d.mail.Read(ctx, id)
}

func (d *OperationDispatcher) createDraft(ctx context.Context, args domain.Arguments) (any, error) {
	if d.mail == nil {
		return nil, domain.ErrNotImplemented
	}
	draft := domain.Draft{}
	draft.To, _ = args.String("to")
	draft.Subject, _ = args.String("subject")
	draft.Body, _ = args.String("body")
	draft.Cc, _ = args.String("cc")
	draft.Bcc, _ = args.String("bcc")
	return d.mail.CreateDraft(ctx, draft)
}

func (d *OperationDispatcher) createDocument(ctx context.Context, args domain.Arguments) (any, error) {
	if d.documents == nil {
		return nil, domain.ErrNotImplemented
	}
	doc := domain.NewDocument{}
	doc.Title, _ = args.String("title")
	doc.Content, _ = args.String("content")
	doc.ShareWith, _ = args.String("sharewith")
	if doc.ShareWith == "" {
		doc.ShareWith, _ = args.String("email")
	}
	return d.documents.Create(ctx, doc)
}
