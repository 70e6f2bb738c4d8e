package auth

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevocationList(t *testing.T) {
	list := NewMemoryRevocationList()
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Fatalf("unknown jti must not be revoked")
	}

	if err := list.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	revoked, err = list.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Fatalf("expected jti to be revoked")
	}
}

func TestMemoryRevocationListExpiry(t *testing.T) {
	list := NewMemoryRevocationList()
	ctx := context.Background()

	if err := list.Revoke(ctx, "jti-2", -time.Second); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	revoked, err := list.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Fatalf("expired entry must not count as revoked")
	}
}
