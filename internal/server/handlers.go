package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/service"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("square", func(fl validator.FieldLevel) bool {
		_, err := board.ParseSquare(fl.Field().String())
		return err == nil
	})
	return v
}

// APIHandlers exposes HTTP handlers for the knight path API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.PathService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.PathService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

type pathQuery struct {
	From string `validate:"required,square"`
	To   string `validate:"required,square"`
}

func (h *APIHandlers) handlePath(w http.ResponseWriter, r *http.Request) {
	query := pathQuery{
		From: strings.TrimSpace(r.URL.Query().Get("from")),
		To:   strings.TrimSpace(r.URL.Query().Get("to")),
	}
	if err := validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, formatValidationError(err))
		return
	}

	path, err := h.service.FindPathByName(r.Context(), query.From, query.To)
	switch {
	case errors.Is(err, service.ErrInvalidSquare):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrNoPath):
		writeError(w, http.StatusNotFound, "no path")
		return
	case err != nil:
		h.logger.Error("failed to find knight path", "error", err, "from", query.From, "to", query.To)
		writeError(w, http.StatusInternalServerError, "failed to find knight path")
		return
	}

	response := pathResponse{
		From:    path.From.String(),
		To:      path.To.String(),
		Moves:   path.Moves,
		Backend: path.Backend,
		Squares: make([]squareResponse, 0, len(path.Squares)),
	}
	for _, sq := range path.Squares {
		response.Squares = append(response.Squares, toSquareResponse(sq))
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleSquareMoves(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "square")

	moves, err := h.service.MovesFrom(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := squareMovesResponse{
		Square: toSquareResponse(moves.Square),
		Moves:  make([]squareResponse, 0, len(moves.Moves)),
	}
	for _, sq := range moves.Moves {
		response.Moves = append(response.Moves, toSquareResponse(sq))
	}

	respondJSON(w, http.StatusOK, response)
}

type squareResponse struct {
	Name string `json:"name"`
	File int    `json:"file"`
	Rank int    `json:"rank"`
}

type pathResponse struct {
	From    string           `json:"from"`
	To      string           `json:"to"`
	Squares []squareResponse `json:"squares"`
	Moves   int              `json:"moves"`
	Backend string           `json:"backend"`
}

type squareMovesResponse struct {
	Square squareResponse   `json:"square"`
	Moves  []squareResponse `json:"moves"`
}

func toSquareResponse(sq board.Square) squareResponse {
	return squareResponse{Name: sq.String(), File: sq.File, Rank: sq.Rank}
}

// --- Helpers ---

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "square":
			msgs = append(msgs, fmt.Sprintf("%s must be a board square such as d4 or 3,3", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
