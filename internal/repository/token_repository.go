package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurante/internal/database"
	"github.com/iliyamo/restaurante/internal/model"
)

// TokenRepo keeps the denylist of logged-out access tokens, keyed by jti.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Revoke records jti as logged out until exp. Revoking twice is a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO Tokens_Revocados (jti, expires_at) VALUES (?, ?)",
		jti, model.FormatTimestamp(exp))
	if err != nil && database.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// IsRevoked reports whether jti was logged out.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return exists(ctx, r.DB, "SELECT 1 FROM Tokens_Revocados WHERE jti = ? LIMIT 1", jti)
}

// PurgeExpired drops entries whose token has expired by now and returns
// how many were removed.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM Tokens_Revocados WHERE expires_at < ?",
		model.FormatTimestamp(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
