// Package webchat serves the booking assistant over a WebSocket so browser
// widgets can hold a live conversation.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/doctor-booking-agent/internal/conversation"
	"github.com/wolfman30/doctor-booking-agent/internal/directory"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// ChatService is the part of conversation.Service the web chat needs.
type ChatService interface {
	Start(ctx context.Context, id string) (*conversation.Session, conversation.Response, error)
	ProcessMessage(ctx context.Context, id, message string) (conversation.Response, error)
	Get(ctx context.Context, id string) (*conversation.Session, error)
}

// Handler manages web chat connections and messages.
type Handler struct {
	chat   ChatService
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // conversationID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string             `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text      string             `json:"text,omitempty"`
	Role      string             `json:"role,omitempty"` // "assistant" or "user"
	SessionID string             `json:"session_id,omitempty"`
	NextStep  string             `json:"next_step,omitempty"`
	Doctors   []directory.Doctor `json:"doctors,omitempty"`
	Timestamp string             `json:"timestamp,omitempty"`
	Messages  []HistoryMessage   `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(chat ChatService, logger *logging.Logger) *Handler {
	if chat == nil {
		panic("webchat: chat service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		chat:     chat,
		logger:   logger,
		sessions: make(map[string]*wsConn),
	}
}

// ConversationID builds the canonical conversation ID for a webchat session.
func ConversationID(sessionID string) string {
	return conversation.WebChatPrefix + sessionID
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = generateSessionID()
	}
	convID := ConversationID(sessionID)
	wsc := &wsConn{conn: conn}
	// The hijacked connection inherits the server's request deadlines.
	_ = conn.SetDeadline(time.Time{})

	sess, greeting, err := h.chat.Start(ctx, convID)
	if err != nil {
		h.logger.Error("webchat: failed to start conversation", "error", err, "session_id", sessionID)
		_ = wsc.send(OutboundMessage{Type: "error", Text: "Sorry, the assistant is unavailable right now."})
		return
	}

	_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID})
	if len(sess.Transcript) > 0 {
		_ = wsc.send(OutboundMessage{Type: "history", Messages: historyOf(sess)})
	} else {
		_ = wsc.send(assistantMessage(greeting))
	}

	h.mu.Lock()
	h.sessions[convID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[convID] == wsc {
			delete(h.sessions, convID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = wsc.send(OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processMessage(ctx, sessionID, msg.Text)
	}
}

func (h *Handler) processMessage(ctx context.Context, sessionID, text string) {
	convID := ConversationID(sessionID)
	h.SendToSession(convID, OutboundMessage{Type: "typing"})

	resp, err := h.chat.ProcessMessage(ctx, convID, text)
	if err != nil {
		h.logger.Error("webchat: failed to process message", "error", err, "session_id", sessionID)
		h.SendToSession(convID, OutboundMessage{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}
	h.SendToSession(convID, assistantMessage(resp))
}

// SendToSession sends a message to an active WebSocket session.
func (h *Handler) SendToSession(convID string, msg OutboundMessage) {
	h.mu.RLock()
	wsc, ok := h.sessions[convID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := wsc.send(msg); err != nil {
		h.logger.Debug("webchat: send failed", "conversation_id", convID, "error", err)
	}
}

// HandleMessage is the HTTP fallback for sending messages. It replies
// synchronously with the assistant's response.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	convID := ConversationID(req.SessionID)
	if _, _, err := h.chat.Start(r.Context(), convID); err != nil {
		h.logger.Error("webchat: failed to start conversation", "error", err)
		http.Error(w, "failed to start conversation", http.StatusInternalServerError)
		return
	}
	resp, err := h.chat.ProcessMessage(r.Context(), convID, req.Text)
	if err != nil {
		h.logger.Error("webchat: failed to process message", "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"reply":      resp,
	})
}

// HandleHistory returns chat history for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	history := []HistoryMessage{}
	sess, err := h.chat.Get(r.Context(), ConversationID(sessionID))
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
	case err != nil:
		h.logger.Error("webchat: failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	default:
		history = historyOf(sess)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
}

func assistantMessage(resp conversation.Response) OutboundMessage {
	return OutboundMessage{
		Type:      "message",
		Role:      "assistant",
		Text:      resp.Message,
		NextStep:  resp.NextStep,
		Doctors:   resp.Doctors,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func historyOf(sess *conversation.Session) []HistoryMessage {
	history := make([]HistoryMessage, 0, 2*len(sess.Transcript))
	for _, turn := range sess.Transcript {
		ts := turn.Timestamp.Format(time.RFC3339)
		history = append(history,
			HistoryMessage{Role: "user", Text: turn.UserText, Timestamp: ts},
			HistoryMessage{Role: "assistant", Text: turn.AgentText, Timestamp: ts},
		)
	}
	return history
}
