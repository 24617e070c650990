package repository

import (
    "context"
    "database/sql"
    "errors"
)

// TicketRepo provides access to individual tickets. The only mutation
// is redemption, a one-way transition enforced at the storage layer.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo constructs a TicketRepo given a DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// Redeem flips the ticket's is_redeemed flag from false to true. The
// read of the previous value and the write are one conditional UPDATE
// guarded by `is_redeemed = 0`, so among any number of concurrent
// redeems of the same ticket exactly one statement affects a row and
// every other caller gets ErrAlreadyRedeemed. A separate
// check-then-write would let two callers both observe false and both
// succeed.
func (r *TicketRepo) Redeem(ctx context.Context, ticketGUID string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE tickets SET is_redeemed = 1 WHERE guid = ? AND is_redeemed = 0`, ticketGUID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }

    // Nothing was updated: the ticket is either absent or already
    // redeemed. The transition is one-way, so whichever state the
    // follow-up read observes was also the state at UPDATE time.
    var redeemed bool
    err = r.db.QueryRowContext(ctx,
        `SELECT is_redeemed FROM tickets WHERE guid = ?`, ticketGUID).Scan(&redeemed)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    return ErrAlreadyRedeemed
}

// TicketEventInfo identifies the event a ticket belongs to. It is
// used to build the ticket.redeemed message after a successful
// redemption.
type TicketEventInfo struct {
    TicketGUID string
    EventGUID  string
    EventName  string
}

// EventOf returns the owning event's identifier and name for a
// ticket, or ErrNotFound when the ticket does not exist.
func (r *TicketRepo) EventOf(ctx context.Context, ticketGUID string) (TicketEventInfo, error) {
    const q = `SELECT t.guid, e.guid, e.name
               FROM tickets t
               JOIN events e ON e.id = t.event_id
               WHERE t.guid = ?`
    var info TicketEventInfo
    err := r.db.QueryRowContext(ctx, q, ticketGUID).Scan(&info.TicketGUID, &info.EventGUID, &info.EventName)
    if errors.Is(err, sql.ErrNoRows) {
        return TicketEventInfo{}, ErrNotFound
    }
    if err != nil {
        return TicketEventInfo{}, err
    }
    return info, nil
}
