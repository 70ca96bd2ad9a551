package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// notifyChannel is the Postgres channel document change events are
// published on by the resumes table trigger.
const notifyChannel = "resume_changes"

// schema creates the resumes table and the change-notification
// trigger. Idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS resumes (
    id UUID PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    document JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_resumes_owner ON resumes (owner_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_resumes_owner_title ON resumes (owner_id, title);

CREATE OR REPLACE FUNCTION notify_resume_change() RETURNS TRIGGER AS $$
DECLARE
    rec RECORD;
BEGIN
    IF TG_OP = 'DELETE' THEN
        rec := OLD;
    ELSE
        rec := NEW;
    END IF;
    PERFORM pg_notify('resume_changes', json_build_object(
        'op', LOWER(TG_OP),
        'id', rec.id,
        'owner_id', rec.owner_id
    )::text);
    RETURN rec;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS resumes_notify ON resumes;
CREATE TRIGGER resumes_notify
    AFTER INSERT OR UPDATE OR DELETE ON resumes
    FOR EACH ROW EXECUTE FUNCTION notify_resume_change();
`

// PostgresStore is a Store backed by a PostgreSQL table with a JSONB
// document column. Change events ride LISTEN/NOTIFY, so subscribers on
// different processes see each other's writes.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger

	mu        sync.Mutex
	subs      map[string]pgSub
	listening bool
	cancel    context.CancelFunc
}

type pgSub struct {
	ownerID string
	fn      func(Event)
	onErr   func(error)
}

// notification mirrors the trigger's JSON payload.
type notification struct {
	Op      string `json:"op"`
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// NewPostgresStore connects to the database and verifies the
// connection.
func NewPostgresStore(ctx context.Context, databaseURL string, log zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return &PostgresStore{
		pool: pool,
		log:  log,
		subs: make(map[string]pgSub),
	}, nil
}

// Migrate creates the resumes table and its notification trigger.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate resumes schema: %w", err)
	}
	return nil
}

// Close stops the notification listener and releases the pool.
func (p *PostgresStore) Close() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	p.pool.Close()
}

// Ping reports whether the database is reachable.
func (p *PostgresStore) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return nil
}

// Create implements Store.
func (p *PostgresStore) Create(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO resumes (id, owner_id, title, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.OwnerID, rec.Document.Title, raw, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// Get implements Store.
func (p *PostgresStore) Get(ctx context.Context, ownerID, id string) (Record, error) {
	var (
		rec Record
		raw []byte
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id, owner_id, document, created_at, updated_at FROM resumes WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.OwnerID, &raw, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get resume %s: %w", id, err)
	}
	if rec.OwnerID != ownerID {
		return Record{}, ErrPermissionDenied
	}
	if err := json.Unmarshal(raw, &rec.Document); err != nil {
		return Record{}, fmt.Errorf("failed to decode resume %s: %w", id, err)
	}
	return rec, nil
}

// Update implements Store. The JSONB || operator gives the top-level
// merge: fields present in the patch replace the stored section
// wholesale, everything else is untouched.
func (p *PostgresStore) Update(ctx context.Context, ownerID, id string, fields map[string]json.RawMessage, updatedAt time.Time) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE resumes
		 SET document = document || $3::jsonb,
		     title = COALESCE((document || $3::jsonb)->>'title', title),
		     updated_at = $4
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, patch, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return p.missReason(ctx, ownerID, id)
	}
	return nil
}

// Delete implements Store.
func (p *PostgresStore) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete resume %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return p.missReason(ctx, ownerID, id)
	}
	return nil
}

// missReason distinguishes "absent" from "someone else's" after a
// zero-row write.
func (p *PostgresStore) missReason(ctx context.Context, ownerID, id string) error {
	var storedOwner string
	err := p.pool.QueryRow(ctx,
		`SELECT owner_id FROM resumes WHERE id = $1`, id).Scan(&storedOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check resume %s: %w", id, err)
	}
	if storedOwner != ownerID {
		return ErrPermissionDenied
	}
	return ErrNotFound
}

// List implements Store.
func (p *PostgresStore) List(ctx context.Context, ownerID string) ([]Record, error) {
	return p.query(ctx,
		`SELECT id, owner_id, document, created_at, updated_at
		 FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
}

// ListRecent implements Store.
func (p *PostgresStore) ListRecent(ctx context.Context, ownerID string, limit int) ([]Record, error) {
	return p.query(ctx,
		`SELECT id, owner_id, document, created_at, updated_at
		 FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC LIMIT $2`, ownerID, limit)
}

// SearchByTitlePrefix implements Store.
func (p *PostgresStore) SearchByTitlePrefix(ctx context.Context, ownerID, prefix string) ([]Record, error) {
	return p.query(ctx,
		`SELECT id, owner_id, document, created_at, updated_at
		 FROM resumes WHERE owner_id = $1 AND title LIKE $2 || '%'
		 ORDER BY title, updated_at DESC`, ownerID, prefix)
}

func (p *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]Record, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec Record
			raw []byte
		)
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume row: %w", err)
		}
		if err := json.Unmarshal(raw, &rec.Document); err != nil {
			return nil, fmt.Errorf("failed to decode resume %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resume rows: %w", err)
	}
	return records, nil
}

// Subscribe implements Store. The first subscriber starts a dedicated
// listener connection. If the listener dies, every subscriber's onErr
// is called and the next Subscribe starts a fresh one.
func (p *PostgresStore) Subscribe(ctx context.Context, ownerID string, fn func(Event), onErr func(error)) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.listening {
		listenCtx, cancel := context.WithCancel(context.Background())
		if err := p.startListenerLocked(listenCtx); err != nil {
			cancel()
			return nil, err
		}
		p.cancel = cancel
		p.listening = true
	}

	token := uuid.NewString()
	p.subs[token] = pgSub{ownerID: ownerID, fn: fn, onErr: onErr}
	return &pgSubscription{store: p, token: token}, nil
}

func (p *PostgresStore) startListenerLocked(ctx context.Context) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return fmt.Errorf("failed to listen on %s: %w", notifyChannel, err)
	}

	go func() {
		defer conn.Release()
		for {
			msg, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.log.Warn().Err(err).Msg("notification listener stopped")
				p.feedFailed(err)
				return
			}

			var note notification
			if err := json.Unmarshal([]byte(msg.Payload), &note); err != nil {
				p.log.Warn().Err(err).Str("payload", msg.Payload).Msg("dropping malformed change notification")
				continue
			}
			p.dispatch(Event{Op: note.Op, ID: note.ID, OwnerID: note.OwnerID})
		}
	}()
	return nil
}

// feedFailed marks the listener dead so the next Subscribe restarts
// it, then tells every subscriber the feed was lost. Subscriptions stay
// registered; a restarted listener serves them again.
func (p *PostgresStore) feedFailed(cause error) {
	p.mu.Lock()
	p.listening = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	var fns []func(error)
	for _, sub := range p.subs {
		if sub.onErr != nil {
			fns = append(fns, sub.onErr)
		}
	}
	p.mu.Unlock()

	err := fmt.Errorf("change feed lost: %w", errors.Join(ErrNetwork, cause))
	for _, fn := range fns {
		fn(err)
	}
}

func (p *PostgresStore) dispatch(event Event) {
	p.mu.Lock()
	var fns []func(Event)
	for _, sub := range p.subs {
		if sub.ownerID == event.OwnerID {
			fns = append(fns, sub.fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

type pgSubscription struct {
	store *PostgresStore
	once  sync.Once
	token string
}

func (s *pgSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s.token)
		s.store.mu.Unlock()
	})
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
