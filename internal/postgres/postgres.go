package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	first_name      TEXT,
	last_name       TEXT,
	mobile          TEXT NOT NULL UNIQUE,
	password_hash   TEXT,
	mobile_verified BOOLEAN NOT NULL DEFAULT FALSE,
	otp_id          BIGINT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_otps (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL UNIQUE REFERENCES users(id),
	code       TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
`

// Connect opens a pgx pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[postgres.Connect] pgxpool.New")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "[postgres.Connect] Ping")
	}
	return pool, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "[postgres.EnsureSchema] Exec")
	}
	return nil
}
