// Package persistence stores session state, user preferences, and
// offline drafts in a key-value store so a session can be restored
// after restart. Reads are best-effort: corrupt or missing values are
// logged and replaced with sane defaults rather than failing the
// caller. Writes report errors, because a lost draft is lost work.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/kv"
	"github.com/jonathan/resume-sync/internal/types"
)

// Storage keys. Draft keys are the prefix plus the document ID.
const (
	keyCurrentDocument = "resume_current"
	keyList            = "resume_list"
	keyActiveSection   = "resume_active_section"
	keySearchQuery     = "resume_search_query"
	keyPreferences     = "resume_user_preferences"
	keyLastSync        = "resume_last_sync"
	draftKeyPrefix     = "resume_draft_"
)

// Service reads and writes application state through a kv.Store.
type Service struct {
	store kv.Store
	clk   clock.Clock
	log   zerolog.Logger
}

// New builds a persistence service over the given store.
func New(store kv.Store, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{store: store, clk: clk, log: log}
}

// AppState is everything restored at session start.
type AppState struct {
	CurrentDocument *types.ResumeDocument
	List            []types.ResumeListItem
	ActiveSection   string
	SearchQuery     string
	Preferences     types.UserPreferences
}

// StorageInfo summarizes what the store currently holds.
type StorageInfo struct {
	Keys       int
	Bytes      int
	DraftCount int
}

// SaveCurrentDocument persists the working document.
func (s *Service) SaveCurrentDocument(ctx context.Context, doc types.ResumeDocument) error {
	return s.writeJSON(ctx, keyCurrentDocument, doc)
}

// LoadCurrentDocument returns the persisted working document, or nil
// if none is stored or the stored value cannot be decoded.
func (s *Service) LoadCurrentDocument(ctx context.Context) *types.ResumeDocument {
	var doc types.ResumeDocument
	if !s.readJSON(ctx, keyCurrentDocument, &doc) {
		return nil
	}
	return &doc
}

// ClearCurrentDocument removes the persisted working document.
func (s *Service) ClearCurrentDocument(ctx context.Context) error {
	return s.remove(ctx, keyCurrentDocument)
}

// SaveList persists the cached resume list.
func (s *Service) SaveList(ctx context.Context, list []types.ResumeListItem) error {
	return s.writeJSON(ctx, keyList, list)
}

// LoadList returns the cached resume list, empty if none is stored.
func (s *Service) LoadList(ctx context.Context) []types.ResumeListItem {
	var list []types.ResumeListItem
	s.readJSON(ctx, keyList, &list)
	return list
}

// SaveActiveSection persists the editor section the user was on.
func (s *Service) SaveActiveSection(ctx context.Context, section string) error {
	return s.write(ctx, "save active section", keyActiveSection, []byte(section))
}

// LoadActiveSection returns the persisted editor section, or "".
func (s *Service) LoadActiveSection(ctx context.Context) string {
	return string(s.read(ctx, keyActiveSection))
}

// SaveSearchQuery persists the last search query.
func (s *Service) SaveSearchQuery(ctx context.Context, query string) error {
	return s.write(ctx, "save search query", keySearchQuery, []byte(query))
}

// LoadSearchQuery returns the persisted search query, or "".
func (s *Service) LoadSearchQuery(ctx context.Context) string {
	return string(s.read(ctx, keySearchQuery))
}

// SavePreferences persists the user preferences.
func (s *Service) SavePreferences(ctx context.Context, prefs types.UserPreferences) error {
	return s.writeJSON(ctx, keyPreferences, prefs)
}

// LoadPreferences returns the persisted preferences, or the defaults
// if none are stored or the stored value cannot be decoded.
func (s *Service) LoadPreferences(ctx context.Context) types.UserPreferences {
	prefs := types.DefaultPreferences()
	if !s.readJSON(ctx, keyPreferences, &prefs) {
		return types.DefaultPreferences()
	}
	return prefs
}

// MarkSynced records the current instant as the last successful sync.
func (s *Service) MarkSynced(ctx context.Context) error {
	stamp := types.FormatTimestamp(s.clk.Now())
	return s.write(ctx, "mark synced", keyLastSync, []byte(stamp))
}

// LastSync returns the recorded last-sync timestamp, or "".
func (s *Service) LastSync(ctx context.Context) string {
	return string(s.read(ctx, keyLastSync))
}

// SaveDraft persists an offline draft for its document.
func (s *Service) SaveDraft(ctx context.Context, draft types.Draft) error {
	if draft.LastModified == "" {
		draft.LastModified = types.FormatTimestamp(s.clk.Now())
	}
	return s.writeJSON(ctx, draftKeyPrefix+draft.DocumentID, draft)
}

// LoadDraft returns the stored draft for the document, or nil.
func (s *Service) LoadDraft(ctx context.Context, documentID string) *types.Draft {
	var draft types.Draft
	if !s.readJSON(ctx, draftKeyPrefix+documentID, &draft) {
		return nil
	}
	return &draft
}

// RemoveDraft deletes the stored draft for the document.
func (s *Service) RemoveDraft(ctx context.Context, documentID string) error {
	return s.remove(ctx, draftKeyPrefix+documentID)
}

// DraftIDs lists the document IDs that currently have a stored draft.
func (s *Service) DraftIDs(ctx context.Context) []string {
	keys, err := s.store.Keys(ctx, draftKeyPrefix)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list draft keys")
		return nil
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, draftKeyPrefix))
	}
	return ids
}

// ClearAllDrafts removes every stored draft.
func (s *Service) ClearAllDrafts(ctx context.Context) error {
	keys, err := s.store.Keys(ctx, draftKeyPrefix)
	if err != nil {
		return &PersistenceError{Op: "list drafts", Key: draftKeyPrefix, Cause: err}
	}
	if err := s.store.RemoveMany(ctx, keys); err != nil {
		return &PersistenceError{Op: "clear drafts", Key: draftKeyPrefix, Cause: err}
	}
	return nil
}

// LoadAppState restores everything in one call. The five reads are
// independent, so they run concurrently.
func (s *Service) LoadAppState(ctx context.Context) AppState {
	var state AppState

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state.CurrentDocument = s.LoadCurrentDocument(ctx)
		return nil
	})
	g.Go(func() error {
		state.List = s.LoadList(ctx)
		return nil
	})
	g.Go(func() error {
		state.ActiveSection = s.LoadActiveSection(ctx)
		return nil
	})
	g.Go(func() error {
		state.SearchQuery = s.LoadSearchQuery(ctx)
		return nil
	})
	g.Go(func() error {
		state.Preferences = s.LoadPreferences(ctx)
		return nil
	})
	_ = g.Wait()

	return state
}

// ClearAll removes every key this service owns, drafts included.
func (s *Service) ClearAll(ctx context.Context) error {
	keys, err := s.store.Keys(ctx, "resume_")
	if err != nil {
		return &PersistenceError{Op: "list keys", Key: "resume_", Cause: err}
	}
	if err := s.store.RemoveMany(ctx, keys); err != nil {
		return &PersistenceError{Op: "clear all", Key: "resume_", Cause: err}
	}
	return nil
}

// Info reports key and byte counts for storage diagnostics.
func (s *Service) Info(ctx context.Context) (StorageInfo, error) {
	keys, err := s.store.Keys(ctx, "resume_")
	if err != nil {
		return StorageInfo{}, &PersistenceError{Op: "list keys", Key: "resume_", Cause: err}
	}

	info := StorageInfo{Keys: len(keys)}
	for _, key := range keys {
		if strings.HasPrefix(key, draftKeyPrefix) {
			info.DraftCount++
		}
		value, err := s.store.Get(ctx, key)
		if err != nil {
			continue
		}
		info.Bytes += len(key) + len(value)
	}
	return info, nil
}

func (s *Service) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: key, Cause: err}
	}
	return s.write(ctx, "save", key, raw)
}

func (s *Service) write(ctx context.Context, op, key string, value []byte) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return &PersistenceError{Op: op, Key: key, Cause: err}
	}
	return nil
}

// readJSON reports whether the key held a decodable value.
func (s *Service) readJSON(ctx context.Context, key string, v any) bool {
	raw := s.read(ctx, key)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding corrupt stored value")
		return false
	}
	return true
}

func (s *Service) read(ctx context.Context, key string) []byte {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to read stored value")
		return nil
	}
	return value
}

func (s *Service) remove(ctx context.Context, key string) error {
	if err := s.store.Remove(ctx, key); err != nil {
		return &PersistenceError{Op: "remove", Key: key, Cause: err}
	}
	return nil
}
