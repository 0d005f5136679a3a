// Package stream serves live tessellation over WebSocket. Clients send
// viewer positions and receive the full patch set for that view, so
// remote renderers can consume terrain without linking the engine.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/veldt/internal/engine/tessellate"
	"github.com/Faultbox/veldt/internal/logger"
	"github.com/Faultbox/veldt/pkg/math"
)

// Server owns one Tessellator and rebuilds it per client request.
// Builds are serialized; the buffers are reused across requests.
type Server struct {
	vc   tessellate.ViewConfig
	opts []tessellate.Option

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	buildMu sync.Mutex
	ts      *tessellate.Tessellator

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewServer validates the view config and prepares a server for addr.
func NewServer(addr string, vc tessellate.ViewConfig, opts ...tessellate.Option) (*Server, error) {
	ts, err := tessellate.New(vc, opts...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		vc:      vc,
		opts:    opts,
		ts:      ts,
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.httpSrv = &http.Server{Addr: addr, Handler: s.Handler()}
	return s, nil
}

// Handler returns the HTTP handler serving the stream endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving clients until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpSrv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve blocks serving clients on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	logger.Info("patch stream listening", zap.String("addr", ln.Addr().String()))
	err := s.httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes every client connection and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()
	return s.httpSrv.Shutdown(ctx)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	writeMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = writeMu
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	remote := conn.RemoteAddr().String()
	logger.Info("stream client connected", zap.String("remote", remote))

	for {
		var req ViewRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("stream read failed",
					zap.String("remote", remote), zap.Error(err))
			}
			logger.Info("stream client disconnected", zap.String("remote", remote))
			return
		}
		s.serveRequest(conn, writeMu, req)
	}
}

func (s *Server) serveRequest(conn *websocket.Conn, writeMu *sync.Mutex, req ViewRequest) {
	if req.Type != MsgView {
		s.writeJSON(conn, writeMu, ErrorMsg{
			Type:  MsgError,
			Error: fmt.Sprintf("unknown message type %q", req.Type),
		})
		return
	}

	viewer := math.Vec3{X: req.Viewer[0], Y: req.Viewer[1], Z: req.Viewer[2]}
	set, err := s.BuildSet(viewer, req.ViewDistance)
	if err != nil {
		logger.Warn("stream build failed", zap.Error(err))
		s.writeJSON(conn, writeMu, ErrorMsg{Type: MsgError, Error: err.Error()})
		return
	}
	s.writeJSON(conn, writeMu, set)
}

// BuildSet runs one build and packages every bucket into a PatchSet. A
// positive viewDistance different from the current config swaps in a
// reconfigured Tessellator first.
func (s *Server) BuildSet(viewer math.Vec3, viewDistance float32) (*PatchSet, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if viewDistance > 0 && viewDistance != s.vc.ViewDistance {
		vc := s.vc
		vc.ViewDistance = viewDistance
		ts, err := tessellate.New(vc, s.opts...)
		if err != nil {
			return nil, err
		}
		s.vc, s.ts = vc, ts
		logger.Debug("view distance reconfigured", zap.Float32("view_distance", viewDistance))
	}

	if err := s.ts.Build(tessellate.NewViewerState(viewer)); err != nil {
		return nil, err
	}

	set := &PatchSet{
		Type:    MsgPatches,
		Counts:  s.ts.Counts(),
		Patches: make([]PatchMsg, 0, s.ts.PatchCount()),
	}
	for lod := 0; lod < tessellate.NumBuckets; lod++ {
		for _, p := range s.ts.Bucket(lod) {
			set.Patches = append(set.Patches, PatchMsg{
				X:            p.X,
				Y:            p.Y,
				Size:         p.Size,
				Density:      uint32(lod),
				Stitch:       p.Stitch,
				Morph:        p.Morph,
				SpecialMorph: p.SpecialMorph != 0,
			})
		}
	}
	return set, nil
}

func (s *Server) writeJSON(conn *websocket.Conn, mu *sync.Mutex, v any) {
	mu.Lock()
	defer mu.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		logger.Warn("stream write failed", zap.Error(err))
	}
}
