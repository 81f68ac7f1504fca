// Package vizserver streams rendered frames to browser clients over
// websocket, so the installation can be watched without LED hardware.
// The engine's frame callback publishes on the notify topic; every
// connected client gets each frame as one JSON message.
package vizserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	notify "github.com/bitly/go-notify"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var logger = slog.Default()

// SetLogger routes the package's log output through the given logger.
func SetLogger(l *slog.Logger) { logger = l }

// FrameTopic is the notify topic the engine's frames are published on.
const FrameTopic = "viz:frame"

// Frame is the JSON payload sent to clients. Pixels is the row-major RGB
// buffer (JSON-encoded as base64).
type Frame struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

// Publish pushes one rendered frame to all websocket watchers. The pixel
// buffer is copied because the engine reuses it.
func Publish(width, height int, pixels []byte) {
	buf := make([]byte, len(pixels))
	copy(buf, pixels)
	notify.Post(FrameTopic, Frame{Width: width, Height: height, Pixels: buf})
}

// VizServer serves the websocket endpoint.
type VizServer struct {
	addr   string
	server *http.Server
}

// New creates a viz server listening on addr.
func New(addr string) *VizServer {
	v := &VizServer{addr: addr}
	r := mux.NewRouter()
	r.HandleFunc("/ws", v.handleWebsocket)
	v.server = &http.Server{Addr: addr, Handler: r}
	return v
}

// Start runs the HTTP server in a goroutine.
func (v *VizServer) Start() {
	logger.Info("viz: listening", "addr", v.addr)
	go func() {
		if err := v.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("viz: server error", "err", err)
		}
	}()
}

// Stop shuts the server down.
func (v *VizServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = v.server.Shutdown(ctx)
}

type wsincomingmessage struct {
	messageType int
	p           []byte
	err         error
}

func (v *VizServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("viz: upgrade failed", "err", err)
		return
	}
	defer c.Close()
	logger.Info("viz: watcher connected", "remote", c.RemoteAddr().String())

	// Read pump; mandatory to notice when the websocket is closed client
	// side. The done guard lets the pump exit when the handler returns
	// first (e.g. on a write failure), so no goroutine outlives its
	// watcher.
	done := make(chan struct{})
	defer close(done)
	incoming := make(chan wsincomingmessage)
	go func() {
		for {
			messageType, p, err := c.ReadMessage()
			select {
			case incoming <- wsincomingmessage{messageType, p, err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	framechan := make(chan interface{})
	notify.Start(FrameTopic, framechan)
	defer notify.Stop(FrameTopic, framechan)

	for {
		select {
		case msg := <-incoming:
			if msg.err != nil {
				logger.Info("viz: watcher gone", "remote", c.RemoteAddr().String())
				return
			}
		case f := <-framechan:
			data, err := json.Marshal(f)
			if err != nil {
				logger.Error("viz: frame marshal failed", "err", err)
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Info("viz: write failed, dropping watcher", "err", err)
				return
			}
		}
	}
}
