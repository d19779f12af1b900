package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/posline/escpos-engine/internal/encoder"
	"github.com/posline/escpos-engine/internal/printer"
)

// WebSocket event names.
const (
	EventPrint          = "print"
	EventPrinterAdded   = "printer_added"
	EventPrinterRemoved = "printer_removed"
	EventJobUpdate      = "job_update"
	EventResponse       = "response"
	EventError          = "error"
)

// WSMessage is the wire format for both directions.
type WSMessage struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// wsPrintPayload mirrors the /print request body for socket clients.
type wsPrintPayload struct {
	renderRequest
	PrinterID string `json:"printer_id"`
}

// WSClient is one connected WebSocket client.
type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	server *Server
}

// Connected clients, for broadcasts.
var (
	clients   = make(map[*WSClient]bool)
	clientsMu sync.RWMutex
)

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		server: s,
	}

	s.log.Info("websocket client connected")

	go client.readPump()
	go client.writePump()
}

func (c *WSClient) readPump() {
	defer func() {
		// Closing under the lock keeps broadcasts from racing the close
		clientsMu.Lock()
		delete(clients, c)
		close(c.send)
		clientsMu.Unlock()

		c.conn.Close()
		c.server.log.Info("websocket client disconnected")
	}()

	clientsMu.Lock()
	clients[c] = true
	clientsMu.Unlock()

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		c.handleMessage(&msg)
	}
}

func (c *WSClient) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.server.log.Warn("websocket write error", zap.Error(err))
			return
		}
	}
}

func (c *WSClient) handleMessage(msg *WSMessage) {
	switch msg.Event {
	case EventPrint:
		c.handlePrintEvent(msg.Data)
	default:
		c.sendError(fmt.Sprintf("unknown event: %s", msg.Event))
	}
}

func (c *WSClient) handlePrintEvent(data map[string]any) {
	var req wsPrintPayload
	if err := remarshal(data, &req); err != nil {
		c.sendError(fmt.Sprintf("invalid print payload: %v", err))
		return
	}
	if req.PrinterID == "" {
		c.sendError("printer_id is required")
		return
	}

	items, paper, chars, err := c.server.resolve(&req.renderRequest)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	payload := encoder.EncodeWidth(items, paper, chars)
	jobID := c.server.queue.Enqueue(req.PrinterID, payload)

	c.sendResponse(map[string]any{
		"success": true,
		"job_id":  jobID,
	})
}

func (c *WSClient) sendResponse(data map[string]any) {
	c.trySend(WSMessage{Event: EventResponse, Data: data})
}

func (c *WSClient) sendError(message string) {
	c.trySend(WSMessage{Event: EventError, Data: map[string]any{"error": message}})
}

// trySend drops the message when the client's buffer is full rather
// than blocking the caller.
func (c *WSClient) trySend(msg WSMessage) {
	select {
	case c.send <- msg:
	default:
	}
}

// BroadcastPrinterAdded notifies all socket clients of a new printer.
func (s *Server) BroadcastPrinterAdded(p *printer.Printer) {
	broadcast(WSMessage{
		Event: EventPrinterAdded,
		Data: map[string]any{
			"id":          p.ID,
			"type":        p.Type,
			"description": p.Description,
			"name":        p.Name,
		},
	})
}

// BroadcastJobUpdate notifies all socket clients of a job status change.
func (s *Server) BroadcastJobUpdate(job printer.Job) {
	broadcast(WSMessage{
		Event: EventJobUpdate,
		Data: map[string]any{
			"id":         job.ID,
			"printer_id": job.PrinterID,
			"status":     job.Status,
			"retries":    job.Retries,
			"error":      job.Error,
		},
	})
}

// BroadcastPrinterRemoved notifies all socket clients of a departure.
func (s *Server) BroadcastPrinterRemoved(printerID string) {
	broadcast(WSMessage{
		Event: EventPrinterRemoved,
		Data:  map[string]any{"id": printerID},
	})
}

// remarshal converts a decoded JSON map into a typed struct.
func remarshal(src, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func broadcast(msg WSMessage) {
	clientsMu.RLock()
	defer clientsMu.RUnlock()

	for client := range clients {
		client.trySend(msg)
	}
}
