package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufSize    = 256
)

// wsMessage is one queued outbound frame
type wsMessage struct {
	binary bool
	data   []byte
}

// Conn is one websocket connection. It only produces commands for the
// Simulation and drains its own send queue; it never touches world state.
type Conn struct {
	hub        *Hub
	ws         *websocket.Conn
	id         int
	send       chan wsMessage
	ready      chan struct{} // closed once the hub has submitted Connect
	done       chan struct{}
	closeOnce  sync.Once
	remoteAddr string
	limiter    *rate.Limiter
}

// NewConn creates a Conn for client id
func NewConn(hub *Hub, ws *websocket.Conn, id int, remoteAddr string) *Conn {
	return &Conn{
		hub:        hub,
		ws:         ws,
		id:         id,
		send:       make(chan wsMessage, sendBufSize),
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
		remoteAddr: remoteAddr,
		limiter:    rate.NewLimiter(rate.Limit(hub.cfg.InputsPerSecond), hub.cfg.InputBurst),
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump reads messages from the WebSocket connection
func (c *Conn) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister(c)
		c.ws.Close()
	}()

	select {
	case <-c.ready:
	case <-c.hub.ctx.Done():
		return
	}

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			RecordConnectionRejected("rate_limit")
			continue
		}

		if msgType == websocket.BinaryMessage {
			err = c.handleBinaryInput(message)
		} else {
			err = c.handleMessage(message)
		}
		if err != nil {
			if errors.Is(err, ErrMalformedInput) {
				RecordRejected(err)
				c.sendError(err.Error())
				continue
			}
			// simulation is shutting down
			break
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			typ := websocket.TextMessage
			if msg.binary {
				typ = websocket.BinaryMessage
			}
			if err := c.ws.WriteMessage(typ, msg.data); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// SendText queues a text message, dropping it if the client is too slow
func (c *Conn) SendText(data []byte) {
	c.enqueue(wsMessage{data: data})
}

// SendBinary queues a binary message, dropping it if the client is too slow
func (c *Conn) SendBinary(data []byte) {
	c.enqueue(wsMessage{binary: true, data: data})
}

func (c *Conn) enqueue(msg wsMessage) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
		wsMessagesSent.Inc()
	default:
		wsMessagesDropped.Inc()
	}
}

func (c *Conn) sendError(msg string) {
	data, err := json.Marshal(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
	if err != nil {
		return
	}
	c.SendText(data)
}

// handleMessage routes incoming text messages (single-pass decode via InEnvelope)
func (c *Conn) handleMessage(raw []byte) error {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	switch env.T {
	case MsgLobbyInput:
		return c.hub.submit(Input{ID: c.id, Context: ContextLobby})
	case MsgInput:
		var in InputMsg
		if err := json.Unmarshal(env.D, &in); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		return c.hub.submit(Input{ID: c.id, Mask: in.Mask, Context: InputContext(in.Ctx)})
	}
	return fmt.Errorf("%w: unknown message type %q", ErrMalformedInput, env.T)
}

// handleBinaryInput decodes a compact binary input message
func (c *Conn) handleBinaryInput(msg []byte) error {
	in, err := DecodeBinaryInput(msg)
	if err != nil {
		return err
	}
	return c.hub.submit(Input{ID: c.id, Mask: in.Mask, Context: InputContext(in.Ctx)})
}
