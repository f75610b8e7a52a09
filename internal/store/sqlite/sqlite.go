package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. The URI parameters give better concurrency for read-heavy
// workloads.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actions (
            actor_id      TEXT NOT NULL,
            target_id     TEXT NOT NULL,
            kind          TEXT NOT NULL CHECK (kind IN ('like','reject')),
            creation_time TIMESTAMP NOT NULL,
            update_time   TIMESTAMP NOT NULL,
            PRIMARY KEY (actor_id, target_id)
        );`,
		`CREATE INDEX IF NOT EXISTS actions_target_kind_idx ON actions (target_id, kind);`,
		`CREATE TABLE IF NOT EXISTS personas (
            user_id          TEXT PRIMARY KEY,
            core_interests   TEXT,
            projects         TEXT,
            content_themes   TEXT,
            channels         TEXT,
            expertise_level  TEXT NOT NULL DEFAULT '',
            engagement_style TEXT NOT NULL DEFAULT '',
            creation_time    TIMESTAMP NOT NULL,
            update_time      TIMESTAMP NOT NULL
        );`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// New opens the database at path, applies the schema, and returns the store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB constructs a SQLite store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Actions() store.Actions   { return &actions{db: s.db} }
func (s *sqliteStore) Personas() store.Personas { return &personas{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Actions ---

type actions struct{ db *sql.DB }

func (a *actions) Upsert(ctx context.Context, in *model.Action) (*model.Action, error) {
	now := time.Now().UTC()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO actions (actor_id, target_id, kind, creation_time, update_time)
        VALUES (?,?,?,?,?)
        ON CONFLICT (actor_id, target_id)
        DO UPDATE SET kind = excluded.kind, update_time = excluded.update_time
    `, in.ActorID, in.TargetID, string(in.Kind), now, now); err != nil {
		return nil, err
	}

	out := *in
	var kind string
	row := tx.QueryRowContext(ctx, `
        SELECT kind, creation_time, update_time FROM actions WHERE actor_id=? AND target_id=?
    `, in.ActorID, in.TargetID)
	if err := row.Scan(&kind, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, err
	}
	out.Kind = model.ActionKind(kind)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *actions) Get(ctx context.Context, actorID, targetID string) (*model.Action, error) {
	var out model.Action
	out.ActorID = actorID
	out.TargetID = targetID
	var kind string
	row := a.db.QueryRowContext(ctx, `
        SELECT kind, creation_time, update_time FROM actions WHERE actor_id=? AND target_id=?
    `, actorID, targetID)
	if err := row.Scan(&kind, &out.CreationTime, &out.UpdateTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.Kind = model.ActionKind(kind)
	return &out, nil
}

func (a *actions) ListByActor(ctx context.Context, actorID string) ([]*model.Action, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT target_id, kind, creation_time, update_time
        FROM actions WHERE actor_id=? ORDER BY update_time DESC
    `, actorID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Action
	for rows.Next() {
		var m model.Action
		var kind string
		m.ActorID = actorID
		if err := rows.Scan(&m.TargetID, &kind, &m.CreationTime, &m.UpdateTime); err != nil {
			return nil, err
		}
		m.Kind = model.ActionKind(kind)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (a *actions) ListByTarget(ctx context.Context, targetID string) ([]*model.Action, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT actor_id, kind, creation_time, update_time
        FROM actions WHERE target_id=? ORDER BY update_time DESC
    `, targetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Action
	for rows.Next() {
		var m model.Action
		var kind string
		m.TargetID = targetID
		if err := rows.Scan(&m.ActorID, &kind, &m.CreationTime, &m.UpdateTime); err != nil {
			return nil, err
		}
		m.Kind = model.ActionKind(kind)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (a *actions) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	var one int
	err := a.db.QueryRowContext(ctx, `
        SELECT 1 FROM actions WHERE actor_id=? AND target_id=? AND kind='like'
    `, actorID, targetID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// --- Personas ---

type personas struct{ db *sql.DB }

func (p *personas) Upsert(ctx context.Context, in *model.Persona) (*model.Persona, error) {
	now := time.Now().UTC()
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO personas (user_id, core_interests, projects, content_themes, channels, expertise_level, engagement_style, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?,?)
        ON CONFLICT (user_id)
        DO UPDATE SET core_interests   = excluded.core_interests,
                      projects         = excluded.projects,
                      content_themes   = excluded.content_themes,
                      channels         = excluded.channels,
                      expertise_level  = excluded.expertise_level,
                      engagement_style = excluded.engagement_style,
                      update_time      = excluded.update_time
    `, in.UserID, marshalSet(in.CoreInterests), marshalSet(in.Projects), marshalSet(in.ContentThemes),
		marshalSet(in.Channels), in.ExpertiseLevel, in.EngagementStyle, now, now); err != nil {
		return nil, err
	}

	out := *in
	row := tx.QueryRowContext(ctx, `
        SELECT creation_time, update_time FROM personas WHERE user_id=?
    `, in.UserID)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *personas) Get(ctx context.Context, userID string) (*model.Persona, error) {
	var out model.Persona
	out.UserID = userID
	var core, projects, themes, channels sql.NullString
	row := p.db.QueryRowContext(ctx, `
        SELECT core_interests, projects, content_themes, channels, expertise_level, engagement_style, creation_time, update_time
        FROM personas WHERE user_id=?
    `, userID)
	if err := row.Scan(&core, &projects, &themes, &channels, &out.ExpertiseLevel, &out.EngagementStyle, &out.CreationTime, &out.UpdateTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.CoreInterests = unmarshalSet(core)
	out.Projects = unmarshalSet(projects)
	out.ContentThemes = unmarshalSet(themes)
	out.Channels = unmarshalSet(channels)
	return &out, nil
}

func (p *personas) List(ctx context.Context, excludeUserID string) ([]*model.Persona, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT user_id, core_interests, projects, content_themes, channels, expertise_level, engagement_style, creation_time, update_time
        FROM personas WHERE user_id <> ? ORDER BY user_id
    `, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Persona
	for rows.Next() {
		var m model.Persona
		var core, projects, themes, channels sql.NullString
		if err := rows.Scan(&m.UserID, &core, &projects, &themes, &channels, &m.ExpertiseLevel, &m.EngagementStyle, &m.CreationTime, &m.UpdateTime); err != nil {
			return nil, err
		}
		m.CoreInterests = unmarshalSet(core)
		m.Projects = unmarshalSet(projects)
		m.ContentThemes = unmarshalSet(themes)
		m.Channels = unmarshalSet(channels)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// helpers

func marshalSet(vals []string) interface{} {
	if len(vals) == 0 {
		return nil
	}
	b, _ := json.Marshal(vals)
	return string(b)
}

func unmarshalSet(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(s.String), &out)
	return out
}
