package remote

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-sync/internal/types"
)

// MemoryStore is an in-process Store used by tests and offline demos.
// SetOffline makes every operation fail with ErrNetwork so callers can
// exercise their offline paths.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	subs    map[string]memorySub
	offline bool
}

type memorySub struct {
	ownerID string
	fn      func(Event)
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		subs:    make(map[string]memorySub),
	}
}

// SetOffline toggles simulated network failure.
func (m *MemoryStore) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// Create implements Store.
func (m *MemoryStore) Create(_ context.Context, rec Record) error {
	m.mu.Lock()
	if m.offline {
		m.mu.Unlock()
		return ErrNetwork
	}
	m.records[rec.ID] = rec
	fns := m.listenersLocked(rec.OwnerID)
	m.mu.Unlock()

	emit(fns, Event{Op: "create", ID: rec.ID, OwnerID: rec.OwnerID})
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, ownerID, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offline {
		return Record{}, ErrNetwork
	}
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if rec.OwnerID != ownerID {
		return Record{}, ErrPermissionDenied
	}
	rec.Document = *cloneDoc(&rec.Document)
	return rec, nil
}

// Update implements Store by round-tripping the stored document
// through JSON and merging the given fields on top, which matches the
// top-level merge the SQL backend performs.
func (m *MemoryStore) Update(_ context.Context, ownerID, id string, fields map[string]json.RawMessage, updatedAt time.Time) error {
	m.mu.Lock()
	if m.offline {
		m.mu.Unlock()
		return ErrNetwork
	}
	rec, ok := m.records[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	if rec.OwnerID != ownerID {
		m.mu.Unlock()
		return ErrPermissionDenied
	}

	merged, err := mergeFields(rec.Document, fields)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	rec.Document = merged
	rec.UpdatedAt = updatedAt
	m.records[id] = rec
	fns := m.listenersLocked(ownerID)
	m.mu.Unlock()

	emit(fns, Event{Op: "update", ID: id, OwnerID: ownerID})
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	if m.offline {
		m.mu.Unlock()
		return ErrNetwork
	}
	rec, ok := m.records[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	if rec.OwnerID != ownerID {
		m.mu.Unlock()
		return ErrPermissionDenied
	}
	delete(m.records, id)
	fns := m.listenersLocked(ownerID)
	m.mu.Unlock()

	emit(fns, Event{Op: "delete", ID: id, OwnerID: ownerID})
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, ownerID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return nil, ErrNetwork
	}
	return m.collectLocked(func(rec Record) bool { return rec.OwnerID == ownerID }), nil
}

// ListRecent implements Store.
func (m *MemoryStore) ListRecent(ctx context.Context, ownerID string, limit int) ([]Record, error) {
	records, err := m.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// SearchByTitlePrefix implements Store.
func (m *MemoryStore) SearchByTitlePrefix(_ context.Context, ownerID, prefix string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return nil, ErrNetwork
	}
	records := m.collectLocked(func(rec Record) bool {
		return rec.OwnerID == ownerID && strings.HasPrefix(rec.Document.Title, prefix)
	})
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Document.Title != records[j].Document.Title {
			return records[i].Document.Title < records[j].Document.Title
		}
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

// Subscribe implements Store. The in-memory feed cannot fail once
// registered, so onErr is never called.
func (m *MemoryStore) Subscribe(_ context.Context, ownerID string, fn func(Event), _ func(error)) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return nil, ErrNetwork
	}

	token := uuid.NewString()
	m.subs[token] = memorySub{ownerID: ownerID, fn: fn}
	return &memorySubscription{store: m, token: token}, nil
}

func (m *MemoryStore) collectLocked(keep func(Record) bool) []Record {
	var records []Record
	for _, rec := range m.records {
		if keep(rec) {
			rec.Document = *cloneDoc(&rec.Document)
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records
}

func (m *MemoryStore) listenersLocked(ownerID string) []func(Event) {
	var fns []func(Event)
	for _, sub := range m.subs {
		if sub.ownerID == ownerID {
			fns = append(fns, sub.fn)
		}
	}
	return fns
}

// emit runs outside the store lock so callbacks may call back into
// the store.
func emit(fns []func(Event), event Event) {
	for _, fn := range fns {
		fn(event)
	}
}

type memorySubscription struct {
	store *MemoryStore
	once  sync.Once
	token string
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s.token)
		s.store.mu.Unlock()
	})
}

func cloneDoc(doc *types.ResumeDocument) *types.ResumeDocument {
	out := doc.Clone()
	return &out
}

// mergeFields applies a top-level field merge to the document by
// round-tripping through JSON.
func mergeFields(doc types.ResumeDocument, fields map[string]json.RawMessage) (types.ResumeDocument, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return types.ResumeDocument{}, err
	}
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return types.ResumeDocument{}, err
	}
	for key, value := range fields {
		asMap[key] = value
	}
	merged, err := json.Marshal(asMap)
	if err != nil {
		return types.ResumeDocument{}, err
	}
	var out types.ResumeDocument
	if err := json.Unmarshal(merged, &out); err != nil {
		return types.ResumeDocument{}, err
	}
	return out, nil
}
