package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
	"github.com/srgjo27/transport_ticket/internal/core/services"
)

type TicketHandler struct {
	svc *services.TicketService
}

func NewTicketHandler(svc *services.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func (h *TicketHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	ranked, err := h.svc.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	out := make([]TicketResponse, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, toTicketResponse(r.Ticket, r.Validity))
	}

	success(c, http.StatusOK, out)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	success(c, http.StatusOK, toTicketResponse(ticket, h.svc.Validity(ticket)))
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req services.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", "invalid json body")
		return
	}

	ticket, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	success(c, http.StatusCreated, toTicketResponse(ticket, h.svc.Validity(ticket)))
}

func (h *TicketHandler) ValidateTicket(c *gin.Context) {
	ticket, err := h.svc.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	success(c, http.StatusOK, toTicketResponse(ticket, h.svc.Validity(ticket)))
}

// QRPayload returns the raw document the QR encoder turns into a symbol.
func (h *TicketHandler) QRPayload(c *gin.Context) {
	payload, err := h.svc.QRPayload(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *TicketHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		failure(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrAlreadyValidated):
		failure(c, http.StatusConflict, "ALREADY_VALIDATED", err.Error())
	case errors.Is(err, domain.ErrTicketExpired):
		failure(c, http.StatusUnprocessableEntity, "TICKET_EXPIRED", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		internalError(c, err)
	}
}
