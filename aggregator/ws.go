package aggregator

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"agrisetu/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

// StatusEvent is pushed to an aggregator's dashboard whenever one of
// their collections is created or changes status.
type StatusEvent struct {
	CollectionID string    `json:"collectionId"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// UpdatesHub fans StatusEvents out to each aggregator's open sockets.
type UpdatesHub struct {
	mu          sync.Mutex
	subscribers map[string][]*websocket.Conn
}

func NewUpdatesHub() *UpdatesHub {
	return &UpdatesHub{subscribers: make(map[string][]*websocket.Conn)}
}

// HandleWS upgrades the connection and holds it open until the client
// disconnects. Browsers cannot set headers on the handshake, so the JWT
// rides in the token query parameter.
func (hub *UpdatesHub) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := r.URL.Query().Get("token")
	claims, err := middleware.ValidateJWT("Bearer " + token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	aggregatorID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	hub.mu.Lock()
	hub.subscribers[aggregatorID] = append(hub.subscribers[aggregatorID], conn)
	hub.mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.mu.Lock()
	conns := hub.subscribers[aggregatorID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	hub.subscribers[aggregatorID] = newList
	hub.mu.Unlock()

	conn.Close()
}

// Broadcast delivers an event to every socket the aggregator has open.
// Dead connections are dropped on write failure.
func (hub *UpdatesHub) Broadcast(aggregatorID string, event StatusEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("aggregator: marshal status event: %v", err)
		return
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	conns := hub.subscribers[aggregatorID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	hub.subscribers[aggregatorID] = newList
}
