// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketRedeemedEvent is published when a ticket is successfully redeemed.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database. Identifiers
// are the external UUIDs, never internal row ids.
type TicketRedeemedEvent struct {
    TicketID   string `json:"ticket_id"`
    EventID    string `json:"event_id"`
    EventName  string `json:"event_name"`
    RedeemedAt string `json:"redeemed_at"`
}
