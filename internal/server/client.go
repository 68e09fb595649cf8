package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"deepforge-server/pkg/api"
	"deepforge-server/pkg/logger"
	"deepforge-server/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сервером уровней
type Client struct {
	Server *Server
	Conn   *websocket.Conn
	Send   chan api.MapFrame
	ID     string
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		Server: s,
		Conn:   conn,
		Send:   make(chan api.MapFrame, 256),
		ID:     utils.GenerateID(),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Server.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		logger.Log.WithField("client_id", c.ID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// ПОДПИСКА НА ОБНОВЛЕНИЯ
	updates := c.Server.Hub.Register(c.ID)
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	logger.Log.WithField("client_id", c.ID).Info("Client connected")

	// Новому подписчику сразу отдаем текущее состояние
	c.Server.Hub.SendTo(c.ID, c.Server.CurrentFrame())

	// ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		c.processCommand(cmd)
	}
}

func (c *Client) processCommand(cmd api.ClientCommand) {
	switch cmd.Action {
	case api.ActionGenerate:
		var p api.GeneratePayload
		if len(cmd.Payload) > 0 {
			if err := json.Unmarshal(cmd.Payload, &p); err != nil {
				c.sendError("bad GENERATE payload")
				return
			}
		}
		if err := p.Validate(); err != nil {
			c.sendError(err.Error())
			return
		}
		if err := c.Server.Regenerate(p.Seed, p.Depth, p.History); err != nil {
			logger.Log.WithError(err).Error("regenerate failed")
			c.sendError("generation failed")
		}

	case api.ActionMove:
		var p api.DirectionPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			c.sendError("bad MOVE payload")
			return
		}
		if err := p.Validate(); err != nil {
			c.sendError(err.Error())
			return
		}
		c.Server.MovePlayer(p.Dx, p.Dy)

	case api.ActionWatch:
		c.Server.Hub.SendTo(c.ID, c.Server.CurrentFrame())

	default:
		c.sendError("unknown action: " + cmd.Action)
	}
}

func (c *Client) sendError(text string) {
	c.Server.Hub.SendTo(c.ID, api.MapFrame{Type: api.FrameError, Error: text})
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
