package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/google/uuid"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo owns every mutation that must preserve the event/ticket
// invariants: an event's ticket rows always number exactly
// initial_tickets + additional_tickets, ticket identifiers are
// globally unique, and event names are unique. Each multi-row
// mutation runs inside a single transaction owned by the repository,
// so a failure at any point leaves zero visible rows.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// CreateWithTickets creates one event row and exactly initial ticket
// rows as one atomic unit and returns the event's external
// identifier. The duplicate-name rule is checked explicitly inside
// the transaction and reported as ErrNameExists; the unique key on
// events.name remains as a backstop against a race between two
// creations of the same name, in which case the loser also sees
// ErrNameExists.
func (r *EventRepo) CreateWithTickets(ctx context.Context, authorID uint64, name string, initial uint32) (string, error) {
    if initial < 1 {
        return "", ErrInvalidTicketCount
    }
    name = strings.TrimSpace(name)

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return "", err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var taken bool
    if err := tx.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM events WHERE name = ?)`, name).Scan(&taken); err != nil {
        return "", err
    }
    if taken {
        return "", ErrNameExists
    }

    guid := uuid.New().String()
    res, err := tx.ExecContext(ctx,
        `INSERT INTO events (guid, name, initial_tickets, author_id) VALUES (?, ?, ?, ?)`,
        guid, name, initial, authorID)
    if err != nil {
        if isDuplicate(err) {
            return "", ErrNameExists
        }
        return "", err
    }
    eventID, err := res.LastInsertId()
    if err != nil {
        return "", err
    }

    if _, err := insertTicketsTx(ctx, tx, uint64(eventID), authorID, initial); err != nil {
        return "", err
    }

    if err := tx.Commit(); err != nil {
        return "", err
    }
    committed = true
    return guid, nil
}

// AddTickets atomically increments the event's additional_tickets
// counter and inserts exactly count new ticket rows, returning their
// external identifiers. The counter UPDATE takes the event's row lock
// first, so concurrent AddTickets calls on the same event serialize:
// the increment and its ticket inserts never interleave with another
// increment-and-insert pair, and the final counter equals the sum of
// all accepted increments.
func (r *EventRepo) AddTickets(ctx context.Context, eventGUID string, authorID uint64, count uint32) ([]string, error) {
    if count < 1 {
        return nil, ErrInvalidTicketCount
    }

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var eventID uint64
    err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE guid = ?`, eventGUID).Scan(&eventID)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }

    if _, err := tx.ExecContext(ctx,
        `UPDATE events SET additional_tickets = additional_tickets + ? WHERE id = ?`,
        count, eventID); err != nil {
        return nil, err
    }

    guids, err := insertTicketsTx(ctx, tx, eventID, authorID, count)
    if err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return guids, nil
}

// Status returns the event name, total ticket count and redeemed
// ticket count. Both counts come from one aggregate query so they
// describe a single consistent snapshot.
func (r *EventRepo) Status(ctx context.Context, eventGUID string) (model.EventStatus, error) {
    const q = `SELECT e.name,
                      COUNT(t.id),
                      COALESCE(SUM(CASE WHEN t.is_redeemed = 1 THEN 1 ELSE 0 END), 0)
               FROM events e
               LEFT JOIN tickets t ON t.event_id = e.id
               WHERE e.guid = ?
               GROUP BY e.id, e.name`
    var st model.EventStatus
    err := r.db.QueryRowContext(ctx, q, eventGUID).Scan(&st.Name, &st.TicketTotal, &st.RedeemedTotal)
    if errors.Is(err, sql.ErrNoRows) {
        return model.EventStatus{}, ErrNotFound
    }
    if err != nil {
        return model.EventStatus{}, err
    }
    return st, nil
}

// ListUnredeemed returns the external identifiers of all tickets for
// the event that have not been redeemed, ordered by insertion. It
// returns ErrNotFound when the event does not exist (as opposed to an
// empty slice for an event whose tickets are all redeemed).
func (r *EventRepo) ListUnredeemed(ctx context.Context, eventGUID string) ([]string, error) {
    var eventID uint64
    err := r.db.QueryRowContext(ctx, `SELECT id FROM events WHERE guid = ?`, eventGUID).Scan(&eventID)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }

    rows, err := r.db.QueryContext(ctx,
        `SELECT guid FROM tickets WHERE event_id = ? AND is_redeemed = 0 ORDER BY id`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    guids := make([]string, 0)
    for rows.Next() {
        var g string
        if err := rows.Scan(&g); err != nil {
            return nil, err
        }
        guids = append(guids, g)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return guids, nil
}

// insertTicketsTx inserts count ticket rows for the event in a single
// statement, each with a freshly generated identifier, and returns
// the identifiers. It runs within the caller's transaction; the
// caller commits or rolls back.
func insertTicketsTx(ctx context.Context, tx *sql.Tx, eventID, authorID uint64, count uint32) ([]string, error) {
    query := `INSERT INTO tickets (guid, event_id, author_id) VALUES `
    guids := make([]string, 0, count)
    args := make([]interface{}, 0, count*3)
    for i := uint32(0); i < count; i++ {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        g := uuid.New().String()
        guids = append(guids, g)
        args = append(args, g, eventID, authorID)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        return nil, err
    }
    return guids, nil
}
