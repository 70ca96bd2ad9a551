package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/identity"
	"github.com/jonathan/resume-sync/internal/resumeutil"
	"github.com/jonathan/resume-sync/internal/schemas"
	"github.com/jonathan/resume-sync/internal/types"
)

// defaultTitle is assigned to documents created without one.
const defaultTitle = "Untitled Resume"

// Client is the remote sync API the session state talks to. It scopes
// every operation to the current user, cleans and validates documents
// on the way in, and converts server timestamps to the document's
// ISO-8601 string form on the way out.
type Client struct {
	store    Store
	ids      identity.Provider
	clk      clock.Clock
	log      zerolog.Logger
	validate *validator.Validate
}

// NewClient builds a sync client over the given store.
func NewClient(store Store, ids identity.Provider, clk clock.Clock, log zerolog.Logger) *Client {
	return &Client{
		store:    store,
		ids:      ids,
		clk:      clk,
		log:      log,
		validate: validator.New(),
	}
}

// Create commits a new document and returns it with its assigned ID
// and timestamps. An empty title defaults to "Untitled Resume".
func (c *Client) Create(ctx context.Context, doc types.ResumeDocument) (types.ResumeDocument, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return types.ResumeDocument{}, err
	}

	doc = resumeutil.Clean(doc)
	if doc.Title == "" {
		doc.Title = defaultTitle
	}
	if err := c.validate.Struct(doc); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("invalid resume: %w", errors.Join(ErrOperationFailed, err))
	}

	now := c.clk.Now()
	doc.ID = uuid.NewString()
	doc.OwnerID = ownerID
	doc.CreatedAt = types.FormatTimestamp(now)
	doc.LastUpdated = doc.CreatedAt

	rec := Record{ID: doc.ID, OwnerID: ownerID, Document: doc, CreatedAt: now, UpdatedAt: now}
	if err := c.store.Create(ctx, rec); err != nil {
		return types.ResumeDocument{}, classify("create resume", err)
	}

	c.log.Info().Str("resume_id", doc.ID).Str("title", doc.Title).Msg("created resume")
	return doc, nil
}

// Get fetches one document.
func (c *Client) Get(ctx context.Context, id string) (types.ResumeDocument, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return types.ResumeDocument{}, err
	}
	rec, err := c.store.Get(ctx, ownerID, id)
	if err != nil {
		return types.ResumeDocument{}, classify("get resume", err)
	}
	return recordDocument(rec), nil
}

// List returns the user's documents as list items, most recently
// updated first.
func (c *Client) List(ctx context.Context) ([]types.ResumeListItem, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return nil, err
	}
	records, err := c.store.List(ctx, ownerID)
	if err != nil {
		return nil, classify("list resumes", err)
	}
	return listItems(records), nil
}

// ListRecent returns at most limit of the user's documents, most
// recently updated first.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]types.ResumeListItem, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return nil, err
	}
	records, err := c.store.ListRecent(ctx, ownerID, limit)
	if err != nil {
		return nil, classify("list recent resumes", err)
	}
	return listItems(records), nil
}

// Search returns the user's documents whose title starts with the
// query, ordered by title then recency.
func (c *Client) Search(ctx context.Context, query string) ([]types.ResumeListItem, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return nil, err
	}
	records, err := c.store.SearchByTitlePrefix(ctx, ownerID, query)
	if err != nil {
		return nil, classify("search resumes", err)
	}
	return listItems(records), nil
}

// Update merges the patch into the stored document. The merge result
// is not read back; callers that need it refetch with Get. An empty
// patch is a no-op.
func (c *Client) Update(ctx context.Context, id string, patch types.DocumentPatch) error {
	ownerID, err := c.currentUser()
	if err != nil {
		return err
	}

	patch = resumeutil.CleanPatch(patch)
	if patch.IsEmpty() {
		return nil
	}

	fields, err := patch.MarshalFields()
	if err != nil {
		return fmt.Errorf("invalid patch: %w", errors.Join(ErrOperationFailed, err))
	}
	if err := c.store.Update(ctx, ownerID, id, fields, c.clk.Now()); err != nil {
		return classify("update resume", err)
	}
	return nil
}

// Delete removes the document remotely.
func (c *Client) Delete(ctx context.Context, id string) error {
	ownerID, err := c.currentUser()
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, ownerID, id); err != nil {
		return classify("delete resume", err)
	}
	c.log.Info().Str("resume_id", id).Msg("deleted resume")
	return nil
}

// Duplicate copies an existing document under "{title} (Copy)". The
// copy gets a fresh ID and timestamps.
func (c *Client) Duplicate(ctx context.Context, id string) (types.ResumeDocument, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return types.ResumeDocument{}, err
	}
	copyDoc := doc.Clone()
	copyDoc.ID = ""
	copyDoc.CreatedAt = ""
	copyDoc.LastUpdated = ""
	copyDoc.Title = doc.Title + " (Copy)"
	return c.Create(ctx, copyDoc)
}

// ExportJSON fetches the document and renders it as indented JSON.
func (c *Client) ExportJSON(ctx context.Context, id string) (string, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return resumeutil.Export(doc, types.FormatJSON)
}

// Import validates raw resume JSON against the document schema and
// commits it as a new document. Any ID, owner, or timestamps in the
// payload are discarded.
func (c *Client) Import(ctx context.Context, raw []byte) (types.ResumeDocument, error) {
	if err := schemas.ValidateResume(raw); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("import rejected: %w", errors.Join(ErrOperationFailed, err))
	}
	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.ResumeDocument{}, fmt.Errorf("import rejected: %w", errors.Join(ErrOperationFailed, err))
	}
	doc.ID = ""
	doc.OwnerID = ""
	doc.CreatedAt = ""
	doc.LastUpdated = ""
	return c.Create(ctx, doc)
}

// SubscribeList delivers the current list immediately, then a fresh
// list after every change to the user's documents. A failure in the
// feed or a refresh goes to onError (when non-nil) without tearing the
// subscription down. Callbacks run on the change-feed goroutine.
func (c *Client) SubscribeList(ctx context.Context, onChange func([]types.ResumeListItem), onError func(error)) (Subscription, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return nil, err
	}

	sub, err := c.store.Subscribe(ctx, ownerID, func(Event) {
		list, err := c.List(ctx)
		if err != nil {
			c.subscriptionFault(onError, err, "failed to refresh resume list after change")
			return
		}
		onChange(list)
	}, func(err error) {
		c.subscriptionFault(onError, err, "resume list change feed failed")
	})
	if err != nil {
		return nil, classify("subscribe to resume list", err)
	}

	if list, err := c.List(ctx); err == nil {
		onChange(list)
	}
	return sub, nil
}

// SubscribeDocument delivers the current document immediately, then
// the updated document after every change. A deletion is delivered as
// nil. Feed and refresh failures go to onError (when non-nil) without
// tearing the subscription down. Callbacks run on the change-feed
// goroutine.
func (c *Client) SubscribeDocument(ctx context.Context, id string, onChange func(*types.ResumeDocument), onError func(error)) (Subscription, error) {
	ownerID, err := c.currentUser()
	if err != nil {
		return nil, err
	}

	sub, err := c.store.Subscribe(ctx, ownerID, func(event Event) {
		if event.ID != id {
			return
		}
		if event.Op == "delete" {
			onChange(nil)
			return
		}
		doc, err := c.Get(ctx, id)
		if err != nil {
			c.subscriptionFault(onError, err, "failed to refresh resume after change")
			return
		}
		onChange(&doc)
	}, func(err error) {
		c.subscriptionFault(onError, err, "resume change feed failed")
	})
	if err != nil {
		return nil, classify("subscribe to resume", err)
	}

	if doc, err := c.Get(ctx, id); err == nil {
		onChange(&doc)
	}
	return sub, nil
}

// subscriptionFault reports a change-feed problem to the caller's
// onError, falling back to the log when none was given.
func (c *Client) subscriptionFault(onError func(error), err error, msg string) {
	if onError != nil {
		onError(err)
		return
	}
	c.log.Warn().Err(err).Msg(msg)
}

func (c *Client) currentUser() (string, error) {
	ownerID, err := c.ids.CurrentUserID()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user: %w", errors.Join(ErrPermissionDenied, err))
	}
	return ownerID, nil
}

// classify keeps the sentinel taxonomy visible through wrapping:
// sentinel errors pass through, anything else becomes an
// operation-failed.
func classify(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNetwork) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, errors.Join(ErrOperationFailed, err))
}

// recordDocument converts a stored record to the document form,
// stamping the authoritative server timestamps as ISO-8601 strings.
func recordDocument(rec Record) types.ResumeDocument {
	doc := rec.Document.Clone()
	doc.ID = rec.ID
	doc.OwnerID = rec.OwnerID
	doc.CreatedAt = types.FormatTimestamp(rec.CreatedAt)
	doc.LastUpdated = types.FormatTimestamp(rec.UpdatedAt)
	return doc
}

func listItems(records []Record) []types.ResumeListItem {
	items := make([]types.ResumeListItem, 0, len(records))
	for _, rec := range records {
		doc := recordDocument(rec)
		items = append(items, doc.ListItem())
	}
	return items
}
