package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event type constants broadcast to websocket clients
const (
	EventAlbumTrashed  = "album_trashed"
	EventAlbumRestored = "album_restored"
	EventAlbumPurged   = "album_purged"
	EventPhotoTrashed  = "photo_trashed"
	EventPhotoRestored = "photo_restored"
	EventPhotoPurged   = "photo_purged"
	EventPhotoUploaded = "photo_uploaded"
	EventTrashEmptied  = "trash_emptied"
	EventCoverReplaced = "cover_replaced"
)

// Event represents a message sent to websocket clients
type Event struct {
	Type      string `json:"type"`
	AlbumID   uint   `json:"album_id,omitempty"`
	PhotoID   uint   `json:"photo_id,omitempty"`
	Count     int64  `json:"count,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a simple global pubsub for websocket clients
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			// slow clients are evicted here, so this mutates the map and
			// needs the write lock
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Broadcast(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- encoded:
	default:
		log.Printf("realtime: dropping event, broadcast channel full")
	}
}

// EmitAlbum broadcasts an album lifecycle transition
func (h *Hub) EmitAlbum(eventType string, albumID uint, photoCount int64) {
	h.Broadcast(Event{Type: eventType, AlbumID: albumID, Count: photoCount})
}

// EmitPhoto broadcasts a photo lifecycle transition
func (h *Hub) EmitPhoto(eventType string, albumID, photoID uint) {
	h.Broadcast(Event{Type: eventType, AlbumID: albumID, PhotoID: photoID})
}

// EmitTrashEmptied broadcasts a bulk purge with the total rows removed
func (h *Hub) EmitTrashEmptied(albumsPurged, photosPurged int64) {
	h.Broadcast(Event{Type: EventTrashEmptied, Count: albumsPurged + photosPurged})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers a client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade error: %v", err)
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 256)}
	h.register <- client

	// writer
	go func() {
		for msg := range client.send {
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		client.conn.Close()
	}()

	// reader (just consume pings/close)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister <- client
}
