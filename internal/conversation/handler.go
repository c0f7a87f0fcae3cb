package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// StartRequest is the body of POST /conversations. The body may be empty.
type StartRequest struct {
	ConversationID string `json:"conversation_id"`
}

// MessageRequest is the body of the message and quick-book endpoints.
type MessageRequest struct {
	Message string `json:"message"`
}

// StartResponse is returned when a conversation is opened.
type StartResponse struct {
	ConversationID string `json:"conversation_id"`
	Response
}

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts the conversation endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/doctors", h.Doctors)
	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", h.Start)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.rejectWebChatIDs)
			r.Get("/", h.Get)
			r.Delete("/", h.Reset)
			r.Post("/messages", h.Message)
			r.Post("/quick-book", h.QuickBook)
		})
	})
}

// rejectWebChatIDs keeps web chat sessions out of the public API. Staff
// routes mount Get and Reset directly and can still reach them.
func (h *Handler) rejectWebChatIDs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsWebChatID(chi.URLParam(r, "id")) {
			h.writeError(w, http.StatusBadRequest, "reserved conversation id")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Doctors handles GET /doctors?specialty=&date=.
func (h *Handler) Doctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doctors := h.service.Engine().Directory().FindDoctors(q.Get("specialty"), q.Get("date"))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// Start handles POST /conversations.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("failed to decode start request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if IsWebChatID(req.ConversationID) {
		h.writeError(w, http.StatusBadRequest, "reserved conversation id")
		return
	}

	sess, resp, err := h.service.Start(r.Context(), req.ConversationID)
	if err != nil {
		h.logger.Error("failed to start conversation", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}
	h.writeJSON(w, http.StatusCreated, StartResponse{ConversationID: sess.ID, Response: resp})
}

// Message handles POST /conversations/{id}/messages.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	h.turn(w, r, h.service.ProcessMessage)
}

// QuickBook handles POST /conversations/{id}/quick-book.
func (h *Handler) QuickBook(w http.ResponseWriter, r *http.Request) {
	h.turn(w, r, h.service.QuickBook)
}

// Get handles GET /conversations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "failed to load conversation", err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

// Reset handles DELETE /conversations/{id}.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "failed to reset conversation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type serviceTurn func(ctx context.Context, id, message string) (Response, error)

func (h *Handler) turn(w http.ResponseWriter, r *http.Request, fn serviceTurn) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode message request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := fn(r.Context(), chi.URLParam(r, "id"), req.Message)
	if err != nil {
		h.writeServiceError(w, "failed to process message", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, ErrEmptyMessage):
		h.writeError(w, http.StatusBadRequest, "message is required")
	default:
		h.logger.Error(msg, "error", err)
		h.writeError(w, http.StatusInternalServerError, msg)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
