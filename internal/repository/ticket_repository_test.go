package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRedeemOnce(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)
	ctx := context.Background()
	author := newTestUser(t, db, "author")

	guid, err := events.CreateWithTickets(ctx, author, "launch party", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := events.ListUnredeemed(ctx, guid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ticketGUID := list[0]

	if err := tickets.Redeem(ctx, ticketGUID); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if err := tickets.Redeem(ctx, ticketGUID); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("second redeem = %v, want ErrAlreadyRedeemed", err)
	}

	st, err := events.Status(ctx, guid)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.RedeemedTotal != 1 {
		t.Fatalf("redeemed total = %d, want 1", st.RedeemedTotal)
	}
}

func TestRedeemNotFound(t *testing.T) {
	db := newTestDB(t)
	tickets := NewTicketRepo(db)

	err := tickets.Redeem(context.Background(), "0b26c801-78e0-4bb7-af60-a637a0770bc1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("redeem missing = %v, want ErrNotFound", err)
	}
}

func TestRedeemConcurrent(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)
	ctx := context.Background()
	author := newTestUser(t, db, "author")

	guid, err := events.CreateWithTickets(ctx, author, "launch party", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := events.ListUnredeemed(ctx, guid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ticketGUID := list[0]

	// N concurrent redeems of the same ticket: exactly one success,
	// everyone else sees AlreadyRedeemed, and the aggregate counts it
	// once.
	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- tickets.Redeem(ctx, ticketGUID)
		}()
	}
	wg.Wait()
	close(results)

	okCount, goneCount := 0, 0
	for err := range results {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ErrAlreadyRedeemed):
			goneCount++
		default:
			t.Fatalf("unexpected redeem error: %v", err)
		}
	}
	if okCount != 1 || goneCount != n-1 {
		t.Fatalf("ok=%d gone=%d, want 1 and %d", okCount, goneCount, n-1)
	}

	st, err := events.Status(ctx, guid)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.RedeemedTotal != 1 {
		t.Fatalf("redeemed total = %d, want 1", st.RedeemedTotal)
	}
}

func TestEventOf(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepo(db)
	tickets := NewTicketRepo(db)
	ctx := context.Background()
	author := newTestUser(t, db, "author")

	guid, err := events.CreateWithTickets(ctx, author, "launch party", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := events.ListUnredeemed(ctx, guid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	info, err := tickets.EventOf(ctx, list[0])
	if err != nil {
		t.Fatalf("event of: %v", err)
	}
	if info.EventGUID != guid || info.EventName != "launch party" || info.TicketGUID != list[0] {
		t.Fatalf("info = %+v", info)
	}

	if _, err := tickets.EventOf(ctx, "0b26c801-78e0-4bb7-af60-a637a0770bc1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("event of missing = %v, want ErrNotFound", err)
	}
}
