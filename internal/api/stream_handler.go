package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/article-comments-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"
)

const streamWriteTimeout = 10 * time.Second

// StreamHandler upgrades GET /ws to a websocket that receives every
// newComment and newReply event while connected.
type StreamHandler struct {
	hub    Hub
	cfg    *config.ServerConfig
	log    zerolog.Logger
	server websocket.Server
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(hub Hub, cfg *config.ServerConfig, log zerolog.Logger) *StreamHandler {
	h := &StreamHandler{
		hub: hub,
		cfg: cfg,
		log: log.With().Str("handler", "stream").Logger(),
	}
	h.server = websocket.Server{
		Handshake: h.handshake,
		Handler:   h.handleConn,
	}
	return h
}

// Serve handles GET /ws
func (h *StreamHandler) Serve(c *gin.Context) {
	h.server.ServeHTTP(c.Writer, c.Request)
}

// handshake applies the CORS origin list to browser websocket clients.
// Clients that send no Origin header are not browsers and are accepted.
func (h *StreamHandler) handshake(cfg *websocket.Config, req *http.Request) error {
	origin, err := websocket.Origin(cfg, req)
	if err != nil {
		return err
	}
	cfg.Origin = origin
	if origin == nil || h.cfg.AllowAllOrigins() {
		return nil
	}
	if !h.cfg.OriginAllowed(origin.String()) {
		h.log.Warn().Str("origin", origin.String()).Msg("Websocket origin rejected")
		return fmt.Errorf("origin %s not allowed", origin)
	}
	return nil
}

func (h *StreamHandler) handleConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	log := h.log.With().Str("subscription_id", sub.ID()).Logger()
	if req := conn.Request(); req != nil {
		log = log.With().Str("remote_addr", req.RemoteAddr).Logger()
	}
	log.Info().Msg("Client connected")
	defer log.Info().Msg("Client disconnected")

	// Inbound frames are ignored; the reader only detects disconnects
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_, _ = io.Copy(io.Discard, conn)
	}()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := websocket.JSON.Send(conn, event); err != nil {
				log.Debug().Err(err).Str("kind", string(event.Kind)).Msg("Event send failed")
				return
			}
		}
	}
}
