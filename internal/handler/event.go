package handler

import (
    "context"
    "encoding/csv"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-ticketing/internal/middleware"
    "github.com/iliyamo/event-ticketing/internal/repository"
)

// EventHandler bundles dependencies for event endpoints.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(e *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: e}
}

// ----- DTOs -----

type createEventReq struct {
	Name           string `json:"name"`
	InitialTickets uint32 `json:"initial_number_of_tickets"`
}

type addTicketsReq struct {
	Count uint32 `json:"number_of_tickets"`
}

// eventGUIDParam parses the :id path parameter into a canonical
// lowercase UUID string. The canonical form is also what is stored,
// so lookups never depend on the client's casing.
func eventGUIDParam(c echo.Context) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Create makes a new event together with its initial ticket
// allotment. The event row and all ticket rows appear atomically or
// not at all.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	guid, err := h.Events.CreateWithTickets(ctx, middleware.UserID(c), req.Name, req.InitialTickets)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidTicketCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "initial_number_of_tickets must be an integer >= 1"})
		case errors.Is(err, repository.ErrNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "event name already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"event_identifier": guid})
}

// Status reports the event's name, total ticket count and redeemed
// count from a single snapshot.
func (h *EventHandler) Status(c echo.Context) error {
	guid, ok := eventGUIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event identifier"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Events.Status(ctx, guid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, st)
}

// AddTickets issues additional tickets for an existing event and
// returns their identifiers. The counter increment and the ticket
// inserts are one atomic unit.
func (h *EventHandler) AddTickets(c echo.Context) error {
	guid, ok := eventGUIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event identifier"})
	}
	var req addTicketsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	guids, err := h.Events.AddTickets(ctx, guid, middleware.UserID(c), req.Count)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidTicketCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "number_of_tickets must be an integer >= 1"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add tickets failed"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"ticket_identifiers": guids})
}

// Download streams the event's unredeemed ticket identifiers as a CSV
// attachment, one identifier per row.
func (h *EventHandler) Download(c echo.Context) error {
	guid, ok := eventGUIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event identifier"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	guids, err := h.Events.ListUnredeemed(ctx, guid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="tickets_`+guid+`.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write([]string{"ticket_identifier"}); err != nil {
		return err
	}
	for _, g := range guids {
		if err := w.Write([]string{g}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
