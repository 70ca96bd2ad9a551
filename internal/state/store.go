// Package state holds the editing session: the current document, the
// cached list, search results, and the loading/saving/dirty flags the
// editor renders from. All mutations go through Store methods, which
// keep the remote store, the local persistence layer, and the
// in-memory session consistent with each other.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/persistence"
	"github.com/jonathan/resume-sync/internal/remote"
	"github.com/jonathan/resume-sync/internal/resumeutil"
	"github.com/jonathan/resume-sync/internal/types"
	"github.com/jonathan/resume-sync/internal/validation"
)

// ErrNoDocumentSelected is returned by operations that need a current
// document when none is loaded.
var ErrNoDocumentSelected = errors.New("no document selected")

// Store is the mutable session state. Safe for concurrent use.
type Store struct {
	client  *remote.Client
	persist *persistence.Service
	clk     clock.Clock
	log     zerolog.Logger

	mu            sync.Mutex
	current       *types.ResumeDocument
	currentID     string
	list          []types.ResumeListItem
	filtered      []types.ResumeListItem
	searchActive  bool
	isLoading     bool
	isSaving      bool
	isDirty       bool
	gen           uint64
	errorMessage  string
	activeSection string
	lastSaved     string
	searchQuery   string
	validation    types.ValidationResult
}

// New builds an empty session over the given collaborators.
func New(client *remote.Client, persist *persistence.Service, clk clock.Clock, log zerolog.Logger) *Store {
	return &Store{client: client, persist: persist, clk: clk, log: log}
}

// Snapshot is a consistent read of the session. The document is a
// clone; mutating it does not touch the store.
type Snapshot struct {
	Current       *types.ResumeDocument
	CurrentID     string
	List          []types.ResumeListItem
	Filtered      []types.ResumeListItem
	SearchActive  bool
	IsLoading     bool
	IsSaving      bool
	IsDirty       bool
	ErrorMessage  string
	ActiveSection string
	LastSaved     string
	SearchQuery   string
	Validation    types.ValidationResult
}

// VisibleList is the list the UI should render: search results while a
// search is active, the full list otherwise.
func (s Snapshot) VisibleList() []types.ResumeListItem {
	if s.SearchActive {
		return s.Filtered
	}
	return s.List
}

// Snapshot returns a consistent copy of the session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CurrentID:     s.currentID,
		List:          append([]types.ResumeListItem(nil), s.list...),
		Filtered:      append([]types.ResumeListItem(nil), s.filtered...),
		SearchActive:  s.searchActive,
		IsLoading:     s.isLoading,
		IsSaving:      s.isSaving,
		IsDirty:       s.isDirty,
		ErrorMessage:  s.errorMessage,
		ActiveSection: s.activeSection,
		LastSaved:     s.lastSaved,
		SearchQuery:   s.searchQuery,
		Validation:    s.validation,
	}
	if s.current != nil {
		doc := s.current.Clone()
		snap.Current = &doc
	}
	return snap
}

// Restore loads the persisted session (current document, list, active
// section, search query) so editing resumes where it left off.
func (s *Store) Restore(ctx context.Context) {
	app := s.persist.LoadAppState(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = app.List
	s.activeSection = app.ActiveSection
	s.searchQuery = app.SearchQuery
	if app.CurrentDocument != nil {
		s.setCurrentLocked(app.CurrentDocument.Clone())
	}
}

// CreateDocument commits a new document and makes it current.
func (s *Store) CreateDocument(ctx context.Context, doc types.ResumeDocument) (types.ResumeDocument, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.client.Create(ctx, doc)
	if err != nil {
		s.fail(err)
		return types.ResumeDocument{}, err
	}

	s.mu.Lock()
	s.setCurrentLocked(created)
	s.isDirty = false
	s.errorMessage = ""
	s.mu.Unlock()

	s.persistCurrent(ctx)
	s.refreshList(ctx)
	return created, nil
}

// LoadDocument fetches a document and makes it current. A stored
// offline draft for the document is applied on top and leaves the
// session dirty, so the next save commits it.
func (s *Store) LoadDocument(ctx context.Context, id string) (types.ResumeDocument, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	doc, err := s.client.Get(ctx, id)
	if err != nil {
		s.fail(err)
		return types.ResumeDocument{}, err
	}

	dirty := false
	if draft := s.persist.LoadDraft(ctx, id); draft != nil && !draft.Patch.IsEmpty() {
		doc.Apply(draft.Patch)
		dirty = true
		s.log.Info().Str("resume_id", id).Msg("applied offline draft over fetched resume")
	}

	s.mu.Lock()
	s.setCurrentLocked(doc)
	s.isDirty = dirty
	s.errorMessage = ""
	result := doc.Clone()
	s.mu.Unlock()

	s.persistCurrent(ctx)
	return result, nil
}

// UpdateDocumentLocal merges the patch into the current document in
// memory only and marks the session dirty. The remote store is not
// touched; auto-save or a manual save commits later.
func (s *Store) UpdateDocumentLocal(ctx context.Context, patch types.DocumentPatch) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoDocumentSelected
	}
	s.current.Apply(resumeutil.CleanPatch(patch))
	s.isDirty = true
	s.gen++
	s.validation = validation.Validate(*s.current)
	s.mu.Unlock()

	s.persistCurrent(ctx)
	return nil
}

// UpdateSection applies a patch to the current document and commits it
// remotely in one step.
func (s *Store) UpdateSection(ctx context.Context, patch types.DocumentPatch) error {
	patch = resumeutil.CleanPatch(patch)

	s.mu.Lock()
	id := s.currentID
	if id == "" {
		s.mu.Unlock()
		return ErrNoDocumentSelected
	}
	if s.isSaving {
		s.mu.Unlock()
		return nil
	}
	if s.current != nil && !patch.IsEmpty() {
		s.current.Apply(patch)
		s.validation = validation.Validate(*s.current)
	}
	s.isSaving = true
	gen := s.gen
	s.mu.Unlock()

	err := s.commit(ctx, id, patch, gen)
	s.setSaving(false)
	return err
}

// SaveDocument commits the whole current document remotely, clearing
// the dirty flag and any stored draft.
func (s *Store) SaveDocument(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil || s.currentID == "" {
		s.mu.Unlock()
		return ErrNoDocumentSelected
	}
	if s.isSaving {
		s.mu.Unlock()
		return nil
	}
	s.isSaving = true
	id := s.currentID
	doc := s.current.Clone()
	gen := s.gen
	s.mu.Unlock()

	err := s.commit(ctx, id, types.PatchFrom(&doc), gen)
	s.setSaving(false)
	return err
}

// AutoSave is the debounced save path. It is a no-op unless the
// session is dirty, has a committed document, and no save is already
// running. Failures are logged and preserved as an offline draft
// instead of being surfaced; the session stays dirty for the next
// attempt.
func (s *Store) AutoSave(ctx context.Context) {
	s.mu.Lock()
	if !s.isDirty || s.currentID == "" || s.isSaving || s.current == nil {
		s.mu.Unlock()
		return
	}
	s.isSaving = true
	id := s.currentID
	doc := s.current.Clone()
	gen := s.gen
	s.mu.Unlock()

	err := s.commit(ctx, id, types.PatchFrom(&doc), gen)
	s.setSaving(false)
	if err == nil {
		return
	}

	s.log.Warn().Err(err).Str("resume_id", id).Msg("auto-save failed, keeping offline draft")
	if derr := s.persist.SaveDraft(ctx, types.Draft{DocumentID: id, Patch: types.PatchFrom(&doc)}); derr != nil {
		s.log.Error().Err(derr).Str("resume_id", id).Msg("failed to store offline draft")
	}
}

// commit pushes a patch for id. gen is the edit generation the patch
// was taken from: when a newer local edit lands while the write is in
// flight, the session keeps the newer document, stays dirty so the
// next save picks the edit up, and keeps any stored draft.
func (s *Store) commit(ctx context.Context, id string, patch types.DocumentPatch, gen uint64) error {
	if err := s.client.Update(ctx, id, patch); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	stale := s.gen != gen
	if s.currentID == id {
		if !stale {
			s.isDirty = false
		}
		s.lastSaved = types.FormatTimestamp(s.clk.Now())
		if s.current != nil {
			s.current.LastUpdated = s.lastSaved
			s.replaceListItemLocked(s.current.ListItem())
		}
		s.errorMessage = ""
	}
	s.mu.Unlock()

	s.persistCurrent(ctx)
	if !stale {
		if err := s.persist.RemoveDraft(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("resume_id", id).Msg("failed to drop committed draft")
		}
	}
	if err := s.persist.MarkSynced(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to record sync time")
	}
	return nil
}

// ReplayDraft commits the stored offline draft for the current
// document, if any, and removes it.
func (s *Store) ReplayDraft(ctx context.Context) error {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()
	if id == "" {
		return ErrNoDocumentSelected
	}

	draft := s.persist.LoadDraft(ctx, id)
	if draft == nil || draft.Patch.IsEmpty() {
		return nil
	}
	return s.UpdateSection(ctx, draft.Patch)
}

// DeleteDocument removes a document remotely. If it is the current
// document, the selection, dirty flag, and persisted copy are cleared
// atomically with the list update.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.removeListItemLocked(id)
	wasCurrent := s.currentID == id
	if wasCurrent {
		s.current = nil
		s.currentID = ""
		s.isDirty = false
		s.validation = types.ValidationResult{}
		s.lastSaved = ""
	}
	s.errorMessage = ""
	s.mu.Unlock()

	if wasCurrent {
		if err := s.persist.ClearCurrentDocument(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear persisted current document")
		}
	}
	if err := s.persist.RemoveDraft(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("resume_id", id).Msg("failed to drop draft of deleted resume")
	}
	s.persistList(ctx)
	return nil
}

// DuplicateDocument copies a document under "{title} (Copy)" and
// refreshes the list. The copy does not become current.
func (s *Store) DuplicateDocument(ctx context.Context, id string) (types.ResumeDocument, error) {
	dup, err := s.client.Duplicate(ctx, id)
	if err != nil {
		s.fail(err)
		return types.ResumeDocument{}, err
	}
	s.refreshList(ctx)
	return dup, nil
}

// LoadList fetches the full resume list.
func (s *Store) LoadList(ctx context.Context) ([]types.ResumeListItem, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	list, err := s.client.List(ctx)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.list = list
	s.errorMessage = ""
	s.mu.Unlock()

	s.persistList(ctx)
	return list, nil
}

// SearchDocuments runs a remote title-prefix search. An empty query
// clears the search and restores the full list.
func (s *Store) SearchDocuments(ctx context.Context, query string) error {
	if query == "" {
		return s.ClearSearch(ctx)
	}

	results, err := s.client.Search(ctx, query)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.searchQuery = query
	s.filtered = results
	s.searchActive = true
	s.errorMessage = ""
	s.mu.Unlock()

	if err := s.persist.SaveSearchQuery(ctx, query); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist search query")
	}
	return nil
}

// ClearSearch drops the active search and restores the full list.
func (s *Store) ClearSearch(ctx context.Context) error {
	s.mu.Lock()
	s.searchQuery = ""
	s.filtered = nil
	s.searchActive = false
	s.mu.Unlock()

	if err := s.persist.SaveSearchQuery(ctx, ""); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist search query")
	}
	return nil
}

// SetActiveSection records which editor section the user is on.
func (s *Store) SetActiveSection(ctx context.Context, section string) {
	s.mu.Lock()
	s.activeSection = section
	s.mu.Unlock()

	if err := s.persist.SaveActiveSection(ctx, section); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist active section")
	}
}

// SetDirty overrides the dirty flag. Used by hosts that track edits
// outside UpdateDocumentLocal.
func (s *Store) SetDirty(dirty bool) {
	s.mu.Lock()
	s.isDirty = dirty
	s.mu.Unlock()
}

// ClearError drops the last error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errorMessage = ""
	s.mu.Unlock()
}

// Reset drops the whole in-memory session. Persisted state is left
// alone; use the persistence service to clear storage.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.currentID = ""
	s.list = nil
	s.filtered = nil
	s.searchActive = false
	s.isLoading = false
	s.isSaving = false
	s.isDirty = false
	s.errorMessage = ""
	s.activeSection = ""
	s.lastSaved = ""
	s.searchQuery = ""
	s.validation = types.ValidationResult{}
}

// Stats computes content statistics for the current document.
func (s *Store) Stats() (types.ResumeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return types.ResumeStats{}, ErrNoDocumentSelected
	}
	return resumeutil.Stats(*s.current, s.clk), nil
}

// setCurrentLocked installs doc as the current document, recomputes
// its validation, and advances the edit generation so an in-flight
// save of the previous content cannot claim this one. Caller holds the
// lock.
func (s *Store) setCurrentLocked(doc types.ResumeDocument) {
	s.current = &doc
	s.currentID = doc.ID
	s.gen++
	s.validation = validation.Validate(doc)
}

func (s *Store) replaceListItemLocked(item types.ResumeListItem) {
	for i := range s.list {
		if s.list[i].ID == item.ID {
			s.list[i] = item
			return
		}
	}
}

func (s *Store) removeListItemLocked(id string) {
	for i := range s.list {
		if s.list[i].ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *Store) refreshList(ctx context.Context) {
	list, err := s.client.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to refresh resume list")
		return
	}
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	s.persistList(ctx)
}

func (s *Store) persistCurrent(ctx context.Context) {
	s.mu.Lock()
	var doc *types.ResumeDocument
	if s.current != nil {
		clone := s.current.Clone()
		doc = &clone
	}
	s.mu.Unlock()

	if doc == nil {
		return
	}
	if err := s.persist.SaveCurrentDocument(ctx, *doc); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist current document")
	}
}

func (s *Store) persistList(ctx context.Context) {
	s.mu.Lock()
	list := append([]types.ResumeListItem(nil), s.list...)
	s.mu.Unlock()

	if err := s.persist.SaveList(ctx, list); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist resume list")
	}
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	s.mu.Unlock()
}

func (s *Store) setSaving(saving bool) {
	s.mu.Lock()
	s.isSaving = saving
	s.mu.Unlock()
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.errorMessage = err.Error()
	s.mu.Unlock()
}
