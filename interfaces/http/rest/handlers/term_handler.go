package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"glossary-backend/application/ports"
	"glossary-backend/domain/entities"
	"glossary-backend/pkg/utils"
)

// TermHandler handles term CRUD and search requests. Handlers are
// stateless; the selected store backend is invisible here.
type TermHandler struct {
	store  ports.TermStore
	logger *zap.Logger
}

// NewTermHandler creates a new term handler.
func NewTermHandler(store ports.TermStore, logger *zap.Logger) *TermHandler {
	return &TermHandler{store: store, logger: logger}
}

// CreateTermRequest represents the request body for creating a term.
type CreateTermRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// UpdateTermRequest represents the request body for updating a term.
// Name is deliberately absent: it is immutable after creation.
type UpdateTermRequest struct {
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type termResponse struct {
	Term *entities.Term `json:"term"`
}

type termListResponse struct {
	Terms []*entities.Term `json:"terms"`
}

// ListTerms handles GET /api/terms.
func (h *TermHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.store.List(r.Context())
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}
	if terms == nil {
		terms = []*entities.Term{}
	}
	respondJSON(h.logger, w, http.StatusOK, termListResponse{Terms: terms})
}

// GetTerm handles GET /api/terms/{id}.
func (h *TermHandler) GetTerm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	term, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}
	if term == nil {
		respondError(h.logger, w, http.StatusNotFound, "NotFound", "Term not found")
		return
	}
	respondJSON(h.logger, w, http.StatusOK, termResponse{Term: term})
}

// CreateTerm handles POST /api/terms.
func (h *TermHandler) CreateTerm(w http.ResponseWriter, r *http.Request) {
	var req CreateTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "name is required")
		return
	}

	// Pre-create existence check. Two concurrent creates can both pass it
	// before either writes; the storage engine enforces no uniqueness
	// constraint, so the window stays open.
	dup, err := h.store.FindDuplicateName(r.Context(), req.Name)
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}
	if dup != nil {
		respondError(h.logger, w, http.StatusConflict, "Conflict", "Term already exists")
		return
	}

	term, err := h.store.Create(r.Context(), req.Name)
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}

	if req.Description != "" || req.Category != "" {
		updated, err := h.store.Update(r.Context(), term.ID, ports.UpdateTermInput{
			Description: req.Description,
			Category:    req.Category,
		})
		if err != nil {
			respondFailure(h.logger, w, err)
			return
		}
		if updated != nil {
			term = updated
		}
	}

	h.logger.Info("Term created",
		zap.String("id", term.ID),
		zap.String("name", term.Name),
	)
	respondJSON(h.logger, w, http.StatusCreated, termResponse{Term: term})
}

// UpdateTerm handles PUT /api/terms/{id}.
func (h *TermHandler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "Invalid request body: "+err.Error())
		return
	}

	term, err := h.store.Update(r.Context(), id, ports.UpdateTermInput{
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}
	if term == nil {
		respondError(h.logger, w, http.StatusNotFound, "NotFound", "Term not found")
		return
	}
	respondJSON(h.logger, w, http.StatusOK, termResponse{Term: term})
}

// DeleteTerm handles DELETE /api/terms/{id}.
func (h *TermHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}
	if !existed {
		respondError(h.logger, w, http.StatusNotFound, "NotFound", "Term not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchTerms handles GET /api/search?q=.
func (h *TermHandler) SearchTerms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	terms, err := h.store.Search(r.Context(), query)
	if err != nil {
		respondFailure(h.logger, w, err)
		return
	}
	if terms == nil {
		terms = []*entities.Term{}
	}
	respondJSON(h.logger, w, http.StatusOK, termListResponse{Terms: terms})
}
