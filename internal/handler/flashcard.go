package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saorim/flashcard-api/internal/apperror"
	"github.com/saorim/flashcard-api/internal/auth"
	"github.com/saorim/flashcard-api/internal/service"
)

// FlashcardHandler serves /api/flashcards and its study sub-routes.
type FlashcardHandler struct {
	flashcards *service.FlashcardService
	logger     *slog.Logger
}

func NewFlashcardHandler(flashcards *service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	return &FlashcardHandler{flashcards: flashcards, logger: logger}
}

type flashcardRequest struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	CategoryID *string `json:"categoryId"`
}

// HandleList — GET /api/flashcards
func (h *FlashcardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	cards, err := h.flashcards.List(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// HandleCreate — POST /api/flashcards
func (h *FlashcardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req flashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	card, err := h.flashcards.Create(r.Context(), username, req.Question, req.Answer, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// HandleGet — GET /api/flashcards/{id}
func (h *FlashcardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	card, err := h.flashcards.Get(r.Context(), chi.URLParam(r, "id"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleUpdate — PUT /api/flashcards/{id}
func (h *FlashcardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req flashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	card, err := h.flashcards.Update(r.Context(), chi.URLParam(r, "id"), username, req.Question, req.Answer, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleDelete — DELETE /api/flashcards/{id}
func (h *FlashcardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	if err := h.flashcards.Delete(r.Context(), chi.URLParam(r, "id"), username); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRandom — GET /api/flashcards/random
func (h *FlashcardHandler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	card, err := h.flashcards.Random(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleRandomByCategory — GET /api/flashcards/random/category/{categoryId}
func (h *FlashcardHandler) HandleRandomByCategory(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	card, err := h.flashcards.RandomByCategory(r.Context(), chi.URLParam(r, "categoryId"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleListByCategory — GET /api/flashcards/category/{categoryId}
func (h *FlashcardHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	cards, err := h.flashcards.ListByCategory(r.Context(), chi.URLParam(r, "categoryId"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// HandleDueForReview — GET /api/flashcards/due-for-review
func (h *FlashcardHandler) HandleDueForReview(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	cards, err := h.flashcards.DueForReview(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// HandleDueForReviewByCategory — GET /api/flashcards/due-for-review/category/{categoryId}
func (h *FlashcardHandler) HandleDueForReviewByCategory(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	cards, err := h.flashcards.DueForReviewByCategory(r.Context(), chi.URLParam(r, "categoryId"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// HandleSearch — GET /api/flashcards/search?q=term
func (h *FlashcardHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, apperror.ValidationFailed("q", "search term is required"))
		return
	}

	cards, err := h.flashcards.Search(r.Context(), term, username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// HandleStats — GET /api/flashcards/stats
func (h *FlashcardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	stats, err := h.flashcards.Stats(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleMarkReviewed — POST /api/flashcards/{id}/review
func (h *FlashcardHandler) HandleMarkReviewed(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	card, err := h.flashcards.MarkReviewed(r.Context(), chi.URLParam(r, "id"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleResetReview — POST /api/flashcards/{id}/reset-review
func (h *FlashcardHandler) HandleResetReview(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	card, err := h.flashcards.ResetReview(r.Context(), chi.URLParam(r, "id"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleDuplicate — POST /api/flashcards/{id}/duplicate
func (h *FlashcardHandler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	card, err := h.flashcards.Duplicate(r.Context(), chi.URLParam(r, "id"), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}
