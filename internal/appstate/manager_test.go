package appstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-sync/internal/identity"
	"github.com/jonathan/resume-sync/internal/kv"
	"github.com/jonathan/resume-sync/internal/logger"
	"github.com/jonathan/resume-sync/internal/persistence"
	"github.com/jonathan/resume-sync/internal/remote"
	"github.com/jonathan/resume-sync/internal/state"
	"github.com/jonathan/resume-sync/internal/types"
)

// stepClock advances one minute per read.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newManager(t *testing.T) (*Manager, *remote.MemoryStore, *persistence.Service) {
	t.Helper()
	clk := &stepClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	backend := remote.NewMemoryStore()
	client := remote.NewClient(backend, identity.Static{UserID: "user-1"}, clk, logger.Nop())
	persist := persistence.New(kv.NewMemory(), clk, logger.Nop())
	session := state.New(client, persist, clk, logger.Nop())

	m := New(context.Background(), Config{
		Session:     session,
		Persistence: persist,
		Client:      client,
		Log:         logger.Nop(),
	})
	t.Cleanup(m.Close)
	return m, backend, persist
}

func TestObserversSeeEveryMutation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	var (
		mu    sync.Mutex
		snaps []state.Snapshot
	)
	token := m.Subscribe(func(snap state.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, snap)
	})

	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	mu.Lock()
	require.NotEmpty(t, snaps)
	assert.Equal(t, doc.ID, snaps[len(snaps)-1].CurrentID)
	seen := len(snaps)
	mu.Unlock()

	m.Unsubscribe(token)
	m.Unsubscribe(token) // idempotent

	summary := "after unsubscribe"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))
	mu.Lock()
	assert.Len(t, snaps, seen, "no notifications after unsubscribe")
	mu.Unlock()
}

func TestEditSchedulesAutoSave(t *testing.T) {
	ctx := context.Background()
	m, backend, _ := newManager(t)

	second := 1
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{AutoSaveInterval: &second}))

	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	summary := "typed text"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))
	assert.True(t, m.Snapshot().IsDirty)

	require.Eventually(t, func() bool {
		rec, err := backend.Get(ctx, "user-1", doc.ID)
		return err == nil && rec.Document.Summary == "typed text"
	}, 5*time.Second, 20*time.Millisecond)
	assert.False(t, m.Snapshot().IsDirty)
}

func TestAutoSaveDisabledLeavesSessionDirty(t *testing.T) {
	ctx := context.Background()
	m, backend, _ := newManager(t)

	off := false
	second := 1
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{
		AutoSave:         &off,
		AutoSaveInterval: &second,
	}))

	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	summary := "unsaved"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))

	time.Sleep(1500 * time.Millisecond)
	assert.True(t, m.Snapshot().IsDirty)
	rec, err := backend.Get(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	assert.Empty(t, rec.Document.Summary)
}

func TestPreferencesPersistSynchronously(t *testing.T) {
	ctx := context.Background()
	m, _, persist := newManager(t)

	theme := "#1976D2"
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{DefaultTheme: &theme}))

	assert.Equal(t, "#1976D2", m.Preferences().DefaultTheme)
	assert.Equal(t, "#1976D2", persist.LoadPreferences(ctx).DefaultTheme)
}

func TestWatchRemoteRefreshesListOnForeignWrites(t *testing.T) {
	ctx := context.Background()
	m, backend, _ := newManager(t)

	require.NoError(t, m.WatchRemote(ctx))

	// A write from another process on the same account.
	now := time.Now().UTC()
	require.NoError(t, backend.Create(ctx, remote.Record{
		ID:        "external",
		OwnerID:   "user-1",
		Document:  types.ResumeDocument{ID: "external", Title: "From elsewhere"},
		CreatedAt: now,
		UpdatedAt: now,
	}))

	require.Eventually(t, func() bool {
		for _, item := range m.Snapshot().List {
			if item.ID == "external" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	_, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx))

	health := m.HealthCheck(ctx)
	assert.True(t, health.RemoteOK, "no pinger configured means remote is assumed reachable")
	assert.NotEmpty(t, health.LastSync)
	assert.Positive(t, health.Storage.Keys)
	assert.Zero(t, health.PendingDrafts)
}

func TestClearAllData(t *testing.T) {
	ctx := context.Background()
	m, _, persist := newManager(t)

	_, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, m.ClearAllData(ctx))

	snap := m.Snapshot()
	assert.Empty(t, snap.CurrentID)
	assert.Empty(t, snap.List)
	info, err := persist.Info(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.Keys)
}

func TestPendingDraftsAndReplay(t *testing.T) {
	ctx := context.Background()
	m, backend, _ := newManager(t)

	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	off := false
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{AutoSave: &off}))
	summary := "offline edit"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))

	backend.SetOffline(true)
	assert.Error(t, m.Save(ctx))
	assert.True(t, m.Snapshot().IsDirty, "edit survives the failed save")
	backend.SetOffline(false)

	require.NoError(t, m.Save(ctx))
	rec, err := backend.Get(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline edit", rec.Document.Summary)
	assert.Empty(t, m.PendingDrafts(ctx))
}

func TestOfflineEditPreservesDraftInsteadOfScheduling(t *testing.T) {
	ctx := context.Background()
	m, backend, persist := newManager(t)

	second := 1
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{AutoSaveInterval: &second}))
	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	m.SetOnline(ctx, false)
	assert.False(t, m.IsOnline())
	assert.False(t, m.HealthCheck(ctx).Online)

	summary := "typed while offline"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))

	draft := persist.LoadDraft(ctx, doc.ID)
	require.NotNil(t, draft, "the offline edit is preserved as a draft")
	require.NotNil(t, draft.Patch.Summary)
	assert.Equal(t, "typed while offline", *draft.Patch.Summary)

	time.Sleep(1500 * time.Millisecond)
	assert.True(t, m.Snapshot().IsDirty, "no auto-save fires while offline")
	rec, err := backend.Get(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	assert.Empty(t, rec.Document.Summary)
}

func TestSaveDraftIsANoOpWhileOnline(t *testing.T) {
	ctx := context.Background()
	m, _, persist := newManager(t)

	off := false
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{AutoSave: &off}))
	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	summary := "edited"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))

	require.NoError(t, m.SaveDraft(ctx))
	assert.Nil(t, persist.LoadDraft(ctx, doc.ID), "online sessions rely on auto-save, not drafts")
}

func TestGoingOfflinePreservesUnsavedEdits(t *testing.T) {
	ctx := context.Background()
	m, _, persist := newManager(t)

	off := false
	require.NoError(t, m.UpdatePreferences(ctx, types.PreferencesPatch{AutoSave: &off}))
	doc, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	summary := "unsaved"
	require.NoError(t, m.Edit(ctx, types.DocumentPatch{Summary: &summary}))

	m.SetOnline(ctx, false)
	draft := persist.LoadDraft(ctx, doc.ID)
	require.NotNil(t, draft, "going offline snapshots the dirty document")

	m.SetOnline(ctx, true)
	require.NoError(t, m.ReplayDraft(ctx))
	assert.Nil(t, persist.LoadDraft(ctx, doc.ID))
	assert.False(t, m.Snapshot().IsDirty)
}

var _ Pinger = (*remote.PostgresStore)(nil)

func TestStorageInfo(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	_, err := m.CreateResume(ctx, types.ResumeDocument{Title: "t"})
	require.NoError(t, err)

	info, err := m.StorageInfo(ctx)
	require.NoError(t, err)
	assert.Positive(t, info.Keys)
	assert.Positive(t, info.Bytes)
}
