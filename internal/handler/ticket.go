package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/queue"
    "github.com/iliyamo/event-ticketing/internal/repository"
    publisher "github.com/iliyamo/event-ticketing/internal/service"
)

// TicketHandler bundles dependencies for ticket endpoints.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(t *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Tickets: t}
}

// Redeem marks a ticket as used. The endpoint takes no auth token:
// the ticket identifier itself is the redemption capability, which is
// how gate scanners use it. The repository's conditional update
// guarantees that among any number of concurrent attempts exactly one
// gets 200 and the rest get 410.
func (h *TicketHandler) Redeem(c echo.Context) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket identifier"})
	}
	guid := id.String()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.Redeem(ctx, guid); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, repository.ErrAlreadyRedeemed):
			return c.JSON(http.StatusGone, echo.Map{"error": "ticket already redeemed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redeem failed"})
		}
	}

	// Publish the redemption for downstream consumers. The publish is
	// fire-and-forget: the redemption has already committed and a
	// broker outage must not fail the request.
	if info, err := h.Tickets.EventOf(ctx, guid); err == nil {
		evt := queue.TicketRedeemedEvent{
			TicketID:   info.TicketGUID,
			EventID:    info.EventGUID,
			EventName:  info.EventName,
			RedeemedAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			_ = publisher.PublishTicketRedeemed(pubCtx, evt)
		}()
	} else {
		log.Printf("redeem: lookup for publish failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "ticket redeemed"})
}
