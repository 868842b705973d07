package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"service-desk/internal/middleware"
	"service-desk/internal/model"
	"service-desk/internal/repository"
	"service-desk/internal/service"
	"service-desk/pkg/apierror"
)

type TicketHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
}

func NewTicketHandler(tickets *service.TicketService, comments *service.CommentService) *TicketHandler {
	return &TicketHandler{tickets: tickets, comments: comments}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	filter := repository.TicketFilter{
		Status:     r.URL.Query().Get("status"),
		Urgency:    r.URL.Query().Get("urgency"),
		LocationID: r.URL.Query().Get("location_id"),
	}

	tickets, err := h.tickets.List(r.Context(), principal, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tickets, nil)
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	ticket, err := h.tickets.Create(r.Context(), principal, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, ticket, nil)
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	ticket, err := h.tickets.Get(r.Context(), principal, chi.URLParam(r, "ticket_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, ticket, nil)
}

func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.UpdateTicketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	ticket, err := h.tickets.ChangeStatus(r.Context(), principal, chi.URLParam(r, "ticket_id"), payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, ticket, nil)
}

func (h *TicketHandler) Assign(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.AssignTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	ticket, err := h.tickets.Assign(r.Context(), principal, chi.URLParam(r, "ticket_id"), payload.TechnicianID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, ticket, nil)
}

func (h *TicketHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	comments, err := h.comments.ListForTicket(r.Context(), principal, chi.URLParam(r, "ticket_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, comments, nil)
}

func (h *TicketHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	comment, err := h.comments.Create(r.Context(), principal, chi.URLParam(r, "ticket_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, comment, nil)
}
