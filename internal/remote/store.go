// Package remote synchronizes resume documents with a shared backing
// store. The Store interface is the raw per-user document CRUD plus a
// change feed; Client layers identity resolution, data cleaning,
// validation, and timestamp conversion on top of it.
package remote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonathan/resume-sync/internal/types"
)

// Record is a stored document with its server-side metadata. The
// authoritative timestamps live here as time.Time; they are converted
// to the document's ISO-8601 string form at the Client boundary.
type Record struct {
	ID        string
	OwnerID   string
	Document  types.ResumeDocument
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event describes a change to one document.
type Event struct {
	Op      string // "create", "update", or "delete"
	ID      string
	OwnerID string
}

// Subscription is a handle on a change feed. Unsubscribe is idempotent
// and safe to call from any goroutine.
type Subscription interface {
	Unsubscribe()
}

// Store is the raw remote document store. All reads and writes are
// scoped to an owner: touching another owner's document yields
// ErrPermissionDenied, an absent one ErrNotFound.
type Store interface {
	// Create inserts a new record. The record's ID must be set.
	Create(ctx context.Context, rec Record) error
	// Get fetches one record.
	Get(ctx context.Context, ownerID, id string) (Record, error)
	// Update merges the given top-level fields into the stored
	// document and stamps updatedAt. Fields not present are untouched.
	Update(ctx context.Context, ownerID, id string, fields map[string]json.RawMessage, updatedAt time.Time) error
	// Delete removes the record.
	Delete(ctx context.Context, ownerID, id string) error
	// List returns the owner's records, most recently updated first.
	List(ctx context.Context, ownerID string) ([]Record, error)
	// ListRecent returns at most limit of the owner's records, most
	// recently updated first.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]Record, error)
	// SearchByTitlePrefix returns the owner's records whose title
	// starts with prefix, ordered by title then recency.
	SearchByTitlePrefix(ctx context.Context, ownerID, prefix string) ([]Record, error)
	// Subscribe delivers every subsequent change to the owner's
	// records until the subscription is cancelled. onErr, when
	// non-nil, is called if the change feed itself fails; the
	// subscription stays registered and resumes once the feed is
	// re-established.
	Subscribe(ctx context.Context, ownerID string, fn func(Event), onErr func(error)) (Subscription, error)
}
