package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"cleanlyBack/internal/models"
)

const (
	readLimit          = 1 << 20
	readDeadline       = 120 * time.Second
	writeDeadline      = 5 * time.Second
	pingInterval       = 15 * time.Second
	firstHelloDeadline = 30 * time.Second
)

type directMsg struct {
	userID  int
	payload interface{}
}

type unreg struct {
	userID int
	conn   *websocket.Conn
}

type Client struct {
	ID     int
	Socket *websocket.Conn
}

type WebSocketManager struct {
	clients    map[int]*websocket.Conn
	direct     chan directMsg
	broadcast  chan interface{}
	register   chan Client
	unregister chan unreg
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[int]*websocket.Conn),
		direct:     make(chan directMsg),
		broadcast:  make(chan interface{}),
		register:   make(chan Client),
		unregister: make(chan unreg),
	}
}

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BroadcastLead delivers a fresh lead to the pro's open socket, if any.
func (ws *WebSocketManager) BroadcastLead(lead models.Lead) {
	ws.direct <- directMsg{userID: lead.ProID, payload: wsEvent{Type: "lead", Data: lead}}
}

// BroadcastMessage fans a chat message out to every connected client.
// System notices have no single recipient; clients filter by chat ID.
func (ws *WebSocketManager) BroadcastMessage(msg models.Message) {
	ws.broadcast <- wsEvent{Type: "message", Data: msg}
}

// All operations on clients happen only here.
func (ws *WebSocketManager) Run() {
	for {
		select {
		case client := <-ws.register:
			if old, ok := ws.clients[client.ID]; ok && old != nil && old != client.Socket {
				_ = old.Close()
			}
			ws.clients[client.ID] = client.Socket
			log.Printf("WS register user=%d", client.ID)

		case u := <-ws.unregister:
			if cur, ok := ws.clients[u.userID]; ok && cur == u.conn {
				_ = cur.Close()
				delete(ws.clients, u.userID)
				log.Printf("WS unregister user=%d", u.userID)
			}

		case d := <-ws.direct:
			conn, ok := ws.clients[d.userID]
			if !ok {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(d.payload); err != nil {
				log.Printf("WS write user=%d: %v", d.userID, err)
				_ = conn.Close()
				delete(ws.clients, d.userID)
			}

		case payload := <-ws.broadcast:
			for id, conn := range ws.clients {
				conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(payload); err != nil {
					log.Printf("WS write user=%d: %v", id, err)
					_ = conn.Close()
					delete(ws.clients, id)
				}
			}
		}
	}
}

func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	conn.SetReadLimit(readLimit)

	var hello struct {
		UserID int `json:"userId"`
	}
	conn.SetReadDeadline(time.Now().Add(firstHelloDeadline))
	if err := conn.ReadJSON(&hello); err != nil || hello.UserID == 0 {
		log.Println("Failed to read client hello:", err)
		conn.Close()
		return
	}

	app.wsManager.register <- Client{ID: hello.UserID, Socket: conn}
	go app.readWebSocket(conn, hello.UserID)
}

// readWebSocket keeps the connection alive with pings and drops it on
// read errors. Inbound frames are ignored; the socket is push-only.
func (app *application) readWebSocket(conn *websocket.Conn, userID int) {
	defer func() {
		app.wsManager.unregister <- unreg{userID: userID, conn: conn}
	}()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
	defer close(stop)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))
	}
}
