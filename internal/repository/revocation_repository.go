package repository

import (
	"context"
	"database/sql"
	"time"
)

// RevocationRepo persists the set of auth tokens invalidated before
// their natural expiry (single 'token_hash' column plus the token's
// own expiry). Membership is exact-match on the hash; entries whose
// expires_at has passed are dead weight and can be pruned, since an
// expired token is rejected before the store is ever consulted.
type RevocationRepo struct{ DB *sql.DB }

func NewRevocationRepo(db *sql.DB) *RevocationRepo { return &RevocationRepo{DB: db} }

// Revoke inserts a revocation row. Revoking an already-revoked token
// is a no-op, not an error: a duplicate-key failure on the unique
// token_hash column is swallowed.
func (r *RevocationRepo) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO revoked_tokens (token_hash, expires_at) VALUES (?,?)",
		tokenHash, expiresAt.UTC())
	if isDuplicate(err) {
		return nil
	}
	return err
}

// IsRevoked reports whether the token hash is present in the set.
func (r *RevocationRepo) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	var revoked bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_hash=?)",
		tokenHash).Scan(&revoked)
	return revoked, err
}

// PruneExpired removes entries whose token would no longer verify
// anyway because its own expiry has passed. It returns the number of
// rows removed. Intended to run periodically from main.
func (r *RevocationRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM revoked_tokens WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
