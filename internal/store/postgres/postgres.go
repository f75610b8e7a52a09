package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Actions() store.Actions   { return &actions{db: s.db} }
func (s *pgStore) Personas() store.Personas { return &personas{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap applies the embedded schema so a fresh database is usable.
// Every statement is idempotent, so this is safe on restarts.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // No DSN configured, skip bootstrap
	}

	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return EnsureSchema(ctx, db)
}

// --- Actions ---

type actions struct{ db *sql.DB }

func (a *actions) Upsert(ctx context.Context, in *model.Action) (*model.Action, error) {
	out := *in
	row := a.db.QueryRowContext(ctx, `
        INSERT INTO actions (actor_id, target_id, kind)
        VALUES ($1,$2,$3)
        ON CONFLICT (actor_id, target_id)
        DO UPDATE SET kind = EXCLUDED.kind, update_time = now()
        RETURNING creation_time, update_time
    `, in.ActorID, in.TargetID, string(in.Kind))
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
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
        SELECT kind, creation_time, update_time
        FROM actions WHERE actor_id=$1 AND target_id=$2
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
        FROM actions WHERE actor_id=$1 ORDER BY update_time DESC
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
        FROM actions WHERE target_id=$1 ORDER BY update_time DESC
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
        SELECT 1 FROM actions WHERE actor_id=$1 AND target_id=$2 AND kind='like'
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
	out := *in
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO personas (user_id, core_interests, projects, content_themes, channels, expertise_level, engagement_style)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (user_id)
        DO UPDATE SET core_interests   = EXCLUDED.core_interests,
                      projects         = EXCLUDED.projects,
                      content_themes   = EXCLUDED.content_themes,
                      channels         = EXCLUDED.channels,
                      expertise_level  = EXCLUDED.expertise_level,
                      engagement_style = EXCLUDED.engagement_style,
                      update_time      = now()
        RETURNING creation_time, update_time
    `, in.UserID, marshalSet(in.CoreInterests), marshalSet(in.Projects), marshalSet(in.ContentThemes),
		marshalSet(in.Channels), in.ExpertiseLevel, in.EngagementStyle)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
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
        FROM personas WHERE user_id=$1
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
        FROM personas WHERE user_id <> $1 ORDER BY user_id
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
	return b
}

func unmarshalSet(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(s.String), &out)
	return out
}
