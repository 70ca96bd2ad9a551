package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/kv"
	"github.com/jonathan/resume-sync/internal/logger"
	"github.com/jonathan/resume-sync/internal/types"
)

func newService(t *testing.T) (*Service, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	clk := clock.Fixed{Instant: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(store, clk, logger.Nop()), store
}

func TestCurrentDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	assert.Nil(t, svc.LoadCurrentDocument(ctx))

	doc := types.ResumeDocument{ID: "r1", Title: "Jane Doe Resume"}
	require.NoError(t, svc.SaveCurrentDocument(ctx, doc))

	loaded := svc.LoadCurrentDocument(ctx)
	require.NotNil(t, loaded)
	assert.Equal(t, doc.ID, loaded.ID)
	assert.Equal(t, doc.Title, loaded.Title)

	require.NoError(t, svc.ClearCurrentDocument(ctx))
	assert.Nil(t, svc.LoadCurrentDocument(ctx))
}

func TestCorruptValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	require.NoError(t, store.Set(ctx, "resume_user_preferences", []byte("{not json")))
	prefs := svc.LoadPreferences(ctx)
	assert.Equal(t, types.DefaultPreferences(), prefs)

	require.NoError(t, store.Set(ctx, "resume_current", []byte("]]]")))
	assert.Nil(t, svc.LoadCurrentDocument(ctx))
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	prefs := types.DefaultPreferences()
	prefs.AutoSave = false
	prefs.AutoSaveInterval = 30
	require.NoError(t, svc.SavePreferences(ctx, prefs))

	assert.Equal(t, prefs, svc.LoadPreferences(ctx))
}

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	summary := "offline edit"
	draft := types.Draft{
		DocumentID: "r1",
		Patch:      types.DocumentPatch{Summary: &summary},
	}
	require.NoError(t, svc.SaveDraft(ctx, draft))

	loaded := svc.LoadDraft(ctx, "r1")
	require.NotNil(t, loaded)
	assert.Equal(t, "r1", loaded.DocumentID)
	require.NotNil(t, loaded.Patch.Summary)
	assert.Equal(t, "offline edit", *loaded.Patch.Summary)
	assert.Equal(t, "2024-06-01T12:00:00Z", loaded.LastModified, "stamped from the clock")

	other := types.Draft{DocumentID: "r2", LastModified: "2024-01-01T00:00:00Z"}
	require.NoError(t, svc.SaveDraft(ctx, other))
	assert.Equal(t, "2024-01-01T00:00:00Z", svc.LoadDraft(ctx, "r2").LastModified,
		"an explicit stamp is kept")

	assert.ElementsMatch(t, []string{"r1", "r2"}, svc.DraftIDs(ctx))

	require.NoError(t, svc.RemoveDraft(ctx, "r1"))
	assert.Nil(t, svc.LoadDraft(ctx, "r1"))

	require.NoError(t, svc.ClearAllDrafts(ctx))
	assert.Empty(t, svc.DraftIDs(ctx))
}

func TestLoadAppState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.SaveCurrentDocument(ctx, types.ResumeDocument{ID: "r1"}))
	require.NoError(t, svc.SaveList(ctx, []types.ResumeListItem{{ID: "r1"}, {ID: "r2"}}))
	require.NoError(t, svc.SaveActiveSection(ctx, "experience"))
	require.NoError(t, svc.SaveSearchQuery(ctx, "jane"))

	state := svc.LoadAppState(ctx)
	require.NotNil(t, state.CurrentDocument)
	assert.Equal(t, "r1", state.CurrentDocument.ID)
	assert.Len(t, state.List, 2)
	assert.Equal(t, "experience", state.ActiveSection)
	assert.Equal(t, "jane", state.SearchQuery)
	assert.Equal(t, types.DefaultPreferences(), state.Preferences)
}

func TestLoadAppStateEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	state := svc.LoadAppState(ctx)
	assert.Nil(t, state.CurrentDocument)
	assert.Empty(t, state.List)
	assert.Equal(t, "", state.ActiveSection)
	assert.Equal(t, types.DefaultPreferences(), state.Preferences)
}

func TestMarkSynced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	assert.Equal(t, "", svc.LastSync(ctx))
	require.NoError(t, svc.MarkSynced(ctx))
	assert.Equal(t, "2024-06-01T12:00:00Z", svc.LastSync(ctx))
}

func TestClearAllAndInfo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.SaveCurrentDocument(ctx, types.ResumeDocument{ID: "r1"}))
	require.NoError(t, svc.SaveDraft(ctx, types.Draft{DocumentID: "r1"}))
	require.NoError(t, svc.SaveDraft(ctx, types.Draft{DocumentID: "r2"}))

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, info.Keys)
	assert.Equal(t, 2, info.DraftCount)
	assert.Positive(t, info.Bytes)

	require.NoError(t, svc.ClearAll(ctx))
	info, err = svc.Info(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.Keys)
}

// failingStore errors on every operation, for exercising write errors.
type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error)    { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error      { return f.err }
func (f failingStore) Remove(context.Context, string) error           { return f.err }
func (f failingStore) RemoveMany(context.Context, []string) error     { return f.err }
func (f failingStore) Keys(context.Context, string) ([]string, error) { return nil, f.err }

func TestWriteErrorsAreTyped(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk full")
	svc := New(failingStore{err: cause}, clock.System{}, logger.Nop())

	err := svc.SaveDraft(ctx, types.Draft{DocumentID: "r1"})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "resume_draft_r1", perr.Key)
	assert.ErrorIs(t, err, cause)

	// Reads degrade to defaults instead of erroring.
	assert.Nil(t, svc.LoadCurrentDocument(ctx))
	assert.Equal(t, types.DefaultPreferences(), svc.LoadPreferences(ctx))
}
