// Package repository implements the networked record stores: PostgreSQL
// through the pgx database/sql driver and MongoDB through the official driver.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/storage"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS url_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		short_code TEXT UNIQUE NOT NULL,
		long_url TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	);`

const recordColumns = "short_code, long_url, active, created_at, updated_at"

// InitDB opens the pool, checks connectivity and makes sure the table exists.
func InitDB(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open db failed")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping db failed")
	}

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create table failed")
	}

	logger.Info("Database connected and table ready.")
	return db, nil
}

type URLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateURLRepository(db *sql.DB, logger *zap.Logger) *URLRepository {
	return &URLRepository{
		db:     db,
		logger: logger,
	}
}

func (r *URLRepository) Create(ctx context.Context, v storage.URLRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO url_records (short_code, long_url, active, created_at) VALUES ($1, $2, $3, $4);",
		v.ShortCode, v.LongURL, v.Active, v.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return storage.ErrDuplicateKey
		}
		return errors.Wrap(err, "insert record failed")
	}
	return nil
}

func (r *URLRepository) FindByCode(ctx context.Context, code string) (*storage.URLRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM url_records WHERE short_code = $1;", code)
	return scanRecord(row)
}

// UpdateActive flips the flag and returns the row as written in one statement.
func (r *URLRepository) UpdateActive(ctx context.Context, code string, active bool) (*storage.URLRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE url_records SET active = $2, updated_at = $3 WHERE short_code = $1 RETURNING "+recordColumns+";",
		code, active, time.Now().UTC(),
	)
	return scanRecord(row)
}

func (r *URLRepository) Delete(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM url_records WHERE short_code = $1;", code)
	if err != nil {
		return false, errors.Wrap(err, "delete record failed")
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected failed")
	}
	return rowsAffected > 0, nil
}

func (r *URLRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanRecord(row *sql.Row) (*storage.URLRecord, error) {
	var (
		rec       storage.URLRecord
		updatedAt sql.NullTime
	)
	err := row.Scan(&rec.ShortCode, &rec.LongURL, &rec.Active, &rec.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan record failed")
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		rec.UpdatedAt = &t
	}
	return &rec, nil
}
