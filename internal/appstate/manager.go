// Package appstate ties the session store, the auto-save scheduler,
// the persistence layer, and the remote client together behind one
// manager, and fans session changes out to registered observers.
package appstate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-sync/internal/autosave"
	"github.com/jonathan/resume-sync/internal/persistence"
	"github.com/jonathan/resume-sync/internal/remote"
	"github.com/jonathan/resume-sync/internal/state"
	"github.com/jonathan/resume-sync/internal/types"
)

// Pinger reports remote reachability. PostgresStore satisfies it; the
// in-memory store does not need to.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Observer receives a session snapshot after every mutation.
type Observer func(state.Snapshot)

// Config collects the manager's collaborators.
type Config struct {
	Session     *state.Store
	Persistence *persistence.Service
	Client      *remote.Client
	Pinger      Pinger // optional
	Log         zerolog.Logger
}

// Health is the result of a health check.
type Health struct {
	Online        bool
	RemoteOK      bool
	RemoteError   string
	Storage       persistence.StorageInfo
	LastSync      string
	PendingDrafts int
}

// Manager is the application-facing facade. One manager serves the
// whole process; hosts construct it once and share it.
type Manager struct {
	session *state.Store
	persist *persistence.Service
	client  *remote.Client
	pinger  Pinger
	log     zerolog.Logger
	sched   *autosave.Scheduler

	mu        sync.Mutex
	observers map[string]Observer
	prefs     types.UserPreferences
	online    bool
	listSub   remote.Subscription
	closed    bool
}

// New builds the manager, restores the persisted session, and starts
// the auto-save scheduler with the persisted preferences.
func New(ctx context.Context, cfg Config) *Manager {
	m := &Manager{
		session:   cfg.Session,
		persist:   cfg.Persistence,
		client:    cfg.Client,
		pinger:    cfg.Pinger,
		log:       cfg.Log,
		observers: make(map[string]Observer),
		online:    true,
	}

	m.session.Restore(ctx)
	m.prefs = m.persist.LoadPreferences(ctx)
	m.sched = autosave.New(m.session, time.Duration(m.prefs.AutoSaveInterval)*time.Second)
	return m
}

// Subscribe registers an observer and returns its token. The observer
// runs synchronously on the mutating goroutine.
func (m *Manager) Subscribe(fn Observer) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	m.observers[token] = fn
	return token
}

// Unsubscribe removes an observer. Unknown tokens are ignored, so the
// call is idempotent.
func (m *Manager) Unsubscribe(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.observers, token)
}

func (m *Manager) notify() {
	snap := m.session.Snapshot()

	m.mu.Lock()
	fns := make([]Observer, 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Snapshot returns the current session snapshot.
func (m *Manager) Snapshot() state.Snapshot {
	return m.session.Snapshot()
}

// CreateResume commits a new document and makes it current.
func (m *Manager) CreateResume(ctx context.Context, doc types.ResumeDocument) (types.ResumeDocument, error) {
	created, err := m.session.CreateDocument(ctx, doc)
	m.notify()
	return created, err
}

// OpenResume loads a document into the session, applying any stored
// offline draft.
func (m *Manager) OpenResume(ctx context.Context, id string) (types.ResumeDocument, error) {
	doc, err := m.session.LoadDocument(ctx, id)
	m.notify()
	return doc, err
}

// Edit merges a patch into the current document locally. While online
// it schedules an auto-save when the user has auto-save enabled; while
// offline it preserves the change as a draft instead.
func (m *Manager) Edit(ctx context.Context, patch types.DocumentPatch) error {
	err := m.session.UpdateDocumentLocal(ctx, patch)
	if err == nil {
		switch {
		case !m.IsOnline():
			if derr := m.SaveDraft(ctx); derr != nil {
				m.log.Warn().Err(derr).Msg("failed to store offline draft")
			}
		case m.Preferences().AutoSave:
			m.sched.Notify(ctx)
		}
	}
	m.notify()
	return err
}

// IsOnline reports the connectivity flag. The manager never probes the
// network itself; hosts feed connectivity changes in via SetOnline.
func (m *Manager) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a connectivity change. Going offline immediately
// preserves any unsaved edits as a draft; going back online resumes
// auto-save scheduling. Draft replay stays explicit via ReplayDraft.
func (m *Manager) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()
	if !changed {
		return
	}

	if !online {
		if err := m.SaveDraft(ctx); err != nil {
			m.log.Warn().Err(err).Msg("failed to store offline draft")
		}
	}
	m.notify()
}

// SaveDraft writes the current dirty document as an offline draft. It
// only writes while offline; online sessions rely on auto-save and the
// state store's own failure handling.
func (m *Manager) SaveDraft(ctx context.Context) error {
	if m.IsOnline() {
		return nil
	}
	snap := m.session.Snapshot()
	if !snap.IsDirty || snap.CurrentID == "" || snap.Current == nil {
		return nil
	}
	return m.persist.SaveDraft(ctx, types.Draft{
		DocumentID: snap.CurrentID,
		Patch:      types.PatchFrom(snap.Current),
	})
}

// Save commits the current document immediately.
func (m *Manager) Save(ctx context.Context) error {
	err := m.session.SaveDocument(ctx)
	m.notify()
	return err
}

// SaveSection commits a single-section patch immediately.
func (m *Manager) SaveSection(ctx context.Context, patch types.DocumentPatch) error {
	err := m.session.UpdateSection(ctx, patch)
	m.notify()
	return err
}

// DeleteResume removes a document remotely and from the session.
func (m *Manager) DeleteResume(ctx context.Context, id string) error {
	err := m.session.DeleteDocument(ctx, id)
	m.notify()
	return err
}

// DuplicateResume copies a document under "{title} (Copy)".
func (m *Manager) DuplicateResume(ctx context.Context, id string) (types.ResumeDocument, error) {
	dup, err := m.session.DuplicateDocument(ctx, id)
	m.notify()
	return dup, err
}

// RefreshList fetches the resume list.
func (m *Manager) RefreshList(ctx context.Context) ([]types.ResumeListItem, error) {
	list, err := m.session.LoadList(ctx)
	m.notify()
	return list, err
}

// RecentResumes fetches at most limit resumes, most recent first.
func (m *Manager) RecentResumes(ctx context.Context, limit int) ([]types.ResumeListItem, error) {
	return m.client.ListRecent(ctx, limit)
}

// Search filters the list by title prefix; an empty query restores the
// full list.
func (m *Manager) Search(ctx context.Context, query string) error {
	err := m.session.SearchDocuments(ctx, query)
	m.notify()
	return err
}

// SetActiveSection records the editor section the user is on.
func (m *Manager) SetActiveSection(ctx context.Context, section string) {
	m.session.SetActiveSection(ctx, section)
	m.notify()
}

// ReplayDraft commits the current document's stored offline draft.
func (m *Manager) ReplayDraft(ctx context.Context) error {
	err := m.session.ReplayDraft(ctx)
	m.notify()
	return err
}

// PendingDrafts lists document IDs with stored offline drafts.
func (m *Manager) PendingDrafts(ctx context.Context) []string {
	return m.persist.DraftIDs(ctx)
}

// Preferences returns the current user preferences.
func (m *Manager) Preferences() types.UserPreferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

// UpdatePreferences merges the patch, persists synchronously, and
// restarts the auto-save scheduler when its interval changed.
func (m *Manager) UpdatePreferences(ctx context.Context, patch types.PreferencesPatch) error {
	m.mu.Lock()
	before := m.prefs
	m.prefs.Apply(patch)
	after := m.prefs
	m.mu.Unlock()

	if err := m.persist.SavePreferences(ctx, after); err != nil {
		return err
	}
	if before.AutoSaveInterval != after.AutoSaveInterval {
		m.sched.Stop()
		m.sched = autosave.New(m.session, time.Duration(after.AutoSaveInterval)*time.Second)
	}
	m.notify()
	return nil
}

// WatchRemote subscribes to the user's remote change feed and keeps
// the session list fresh. Safe to call once; returns the subscription
// error if the feed cannot be established.
func (m *Manager) WatchRemote(ctx context.Context) error {
	sub, err := m.client.SubscribeList(ctx, func([]types.ResumeListItem) {
		if _, err := m.session.LoadList(ctx); err != nil {
			m.log.Warn().Err(err).Msg("failed to refresh list from change feed")
			return
		}
		m.notify()
	}, func(err error) {
		m.log.Warn().Err(err).Msg("remote change feed degraded")
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.listSub != nil {
		m.listSub.Unsubscribe()
	}
	m.listSub = sub
	m.mu.Unlock()
	return nil
}

// HealthCheck reports remote reachability, storage footprint, pending
// drafts, and the last successful sync.
func (m *Manager) HealthCheck(ctx context.Context) Health {
	health := Health{Online: m.IsOnline(), RemoteOK: true}
	if m.pinger != nil {
		if err := m.pinger.Ping(ctx); err != nil {
			health.RemoteOK = false
			health.RemoteError = err.Error()
		}
	}
	if info, err := m.persist.Info(ctx); err == nil {
		health.Storage = info
		health.PendingDrafts = info.DraftCount
	}
	health.LastSync = m.persist.LastSync(ctx)
	return health
}

// StorageInfo reports the local storage footprint.
func (m *Manager) StorageInfo(ctx context.Context) (persistence.StorageInfo, error) {
	return m.persist.Info(ctx)
}

// ClearAllData resets the session and wipes local storage. Remote
// documents are untouched.
func (m *Manager) ClearAllData(ctx context.Context) error {
	m.session.Reset()
	err := m.persist.ClearAll(ctx)
	m.notify()
	return err
}

// Close stops the scheduler and tears down the remote subscription.
// Pending unsaved edits are not flushed; they survive as session dirty
// state or drafts.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sub := m.listSub
	m.listSub = nil
	m.mu.Unlock()

	m.sched.Stop()
	if sub != nil {
		sub.Unsubscribe()
	}
}
