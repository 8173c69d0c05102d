package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists refresh-token metadata.  Only the token_id claim of a
// refresh token is stored; the signed blob itself never touches the
// database.  Rotation deletes the predecessor row, so the absence of a row
// is what makes a rotated token unusable.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// ErrTokenNotFound covers every dead refresh token: rotated (row deleted),
// revoked (flag set) or never issued by us.
var ErrTokenNotFound = errors.New("refresh token not found or revoked")

// Store inserts a metadata row for a freshly issued refresh token.
func (r *TokenRepo) Store(ctx context.Context, tokenID string, userID uint64, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token_id, user_id, expires_at) VALUES (?,?,?)",
		tokenID, userID, exp)
	return err
}

// Rotate atomically replaces a refresh token's metadata: the old row is
// deleted and the successor inserted inside one transaction.  The DELETE's
// affected-row count decides the winner when two refresh calls race on the
// same token; the loser sees zero rows and gets ErrTokenNotFound, so a
// refresh token can be used at most once.
func (r *TokenRepo) Rotate(ctx context.Context, oldTokenID, newTokenID string, userID uint64, exp time.Time) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE token_id=? AND revoked=0", oldTokenID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token_id, user_id, expires_at) VALUES (?,?,?)",
		newTokenID, userID, exp)
	return err
}

// RevokeByTokenID marks a single refresh token as revoked (logout of one
// session).  The row is kept for audit; reads reject revoked rows.
func (r *TokenRepo) RevokeByTokenID(ctx context.Context, tokenID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_id=? AND revoked=0", tokenID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// RevokeAllForUser revokes all of a user's active refresh tokens (logout
// of every session across devices).
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE user_id=? AND revoked=0", userID)
	return err
}
