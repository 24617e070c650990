package repository

import (
	"context"
	"testing"
	"time"
)

func TestRevokeAndIsRevoked(t *testing.T) {
	db := newTestDB(t)
	repo := NewRevocationRepo(db)
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	revoked, err := repo.IsRevoked(ctx, "hash-a")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("unknown hash reported revoked")
	}

	if err := repo.Revoke(ctx, "hash-a", exp); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = repo.IsRevoked(ctx, "hash-a")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !revoked {
		t.Fatalf("revoked hash not reported")
	}

	// Membership is exact-match, not prefix.
	revoked, err = repo.IsRevoked(ctx, "hash-")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("prefix of a revoked hash reported revoked")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRevocationRepo(db)
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	if err := repo.Revoke(ctx, "hash-a", exp); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := repo.Revoke(ctx, "hash-a", exp); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM revoked_tokens"); n != 1 {
		t.Fatalf("revocation rows = %d, want 1", n)
	}
}

func TestPruneExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewRevocationRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := repo.Revoke(ctx, "hash-old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := repo.Revoke(ctx, "hash-live", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	pruned, err := repo.PruneExpired(ctx, now)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}

	revoked, err := repo.IsRevoked(ctx, "hash-live")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !revoked {
		t.Fatalf("live entry pruned")
	}
	revoked, err = repo.IsRevoked(ctx, "hash-old")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("expired entry survived prune")
	}
}
