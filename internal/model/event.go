package model

// EventStatus is the read-only aggregate returned by the status
// operation: the total number of tickets issued for an event and how
// many of them have been redeemed. Both counts come from a single
// query so they always describe the same snapshot.
type EventStatus struct {
    Name          string `json:"name"`           // event name
    TicketTotal   uint32 `json:"ticket_total"`   // initial + additional
    RedeemedTotal uint32 `json:"redeemed_total"` // tickets with is_redeemed = 1
}
