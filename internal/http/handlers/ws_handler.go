package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The UI is served from the same origin in production; tighten
		// here if that ever changes.
		return true
	},
}

const (
	// wsSendBuffer is how many events a subscriber may fall behind before
	// it is disconnected.
	wsSendBuffer = 16
	// wsWriteTimeout bounds a single frame write to a slow peer.
	wsWriteTimeout = 5 * time.Second
)

// DraftEventHub fans draft events out to the websocket connections
// subscribed to each session. It implements service.DraftListener.
//
// Writes happen on a per-connection goroutine fed by a buffered channel,
// so a stalled peer never blocks the caller or the other sessions.
type DraftEventHub struct {
	logger *log.Logger

	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]chan []byte
}

func NewDraftEventHub(logger *log.Logger) *DraftEventHub {
	return &DraftEventHub{
		logger: logger,
		conns:  make(map[string]map[*websocket.Conn]chan []byte),
	}
}

func (h *DraftEventHub) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws/draft", h.handleSubscribe)
}

type draftEventPayload struct {
	Kind           string `json:"kind"`
	Classification string `json:"classification,omitempty"`
	Message        string `json:"message,omitempty"`
	SectionCount   int    `json:"section_count"`
	Sequence       uint64 `json:"sequence"`
}

// DraftChanged queues one event for every subscriber of the session and
// returns without waiting on the network. A subscriber whose queue is
// full is dropped; the client is expected to reconnect and re-fetch the
// draft.
func (h *DraftEventHub) DraftChanged(sessionKey string, event domain.DraftEvent) {
	payload, err := json.Marshal(draftEventPayload{
		Kind:           event.Kind,
		Classification: event.Classification,
		Message:        event.Message,
		SectionCount:   event.SectionCount,
		Sequence:       event.Sequence,
	})
	if err != nil {
		h.logger.Printf("draft event marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.conns[sessionKey] {
		select {
		case send <- payload:
		default:
			h.logger.Printf("dropping slow draft subscriber for session %s", sessionKey)
			h.removeLocked(sessionKey, conn)
		}
	}
}

func (h *DraftEventHub) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	if key == "" {
		writeError(w, http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade error: %v", err)
		return
	}

	send := h.add(key, conn)
	go h.writeLoop(key, conn, send)
	defer h.remove(key, conn)

	// Drain reads so we notice the peer closing; clients never send data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *DraftEventHub) writeLoop(key string, conn *websocket.Conn, send chan []byte) {
	for payload := range send {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(key, conn)
			return
		}
	}
}

func (h *DraftEventHub) add(key string, conn *websocket.Conn) chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[key] == nil {
		h.conns[key] = make(map[*websocket.Conn]chan []byte)
	}
	send := make(chan []byte, wsSendBuffer)
	h.conns[key][conn] = send
	return send
}

func (h *DraftEventHub) remove(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(key, conn)
}

// removeLocked closes the send channel exactly once: the channel is closed
// only while its map entry still exists, and the entry is deleted in the
// same critical section.
func (h *DraftEventHub) removeLocked(key string, conn *websocket.Conn) {
	send, ok := h.conns[key][conn]
	if !ok {
		return
	}
	delete(h.conns[key], conn)
	if len(h.conns[key]) == 0 {
		delete(h.conns, key)
	}
	close(send)
	conn.Close()
}
