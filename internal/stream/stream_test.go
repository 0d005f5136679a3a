package stream

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Faultbox/veldt/internal/engine/tessellate"
)

// anyMsg covers every server response shape.
type anyMsg struct {
	Type    string     `json:"type"`
	Error   string     `json:"error"`
	Counts  [4]int     `json:"counts"`
	Patches []PatchMsg `json:"patches"`
}

func testViewConfig() tessellate.ViewConfig {
	return tessellate.ViewConfig{
		Scale:        1,
		ViewDistance: 1,
		MaxDepth:     2,
		WorldExtent:  4,
		RootGrid:     1,
	}
}

func dialTestServer(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestViewRequestResponse(t *testing.T) {
	s, err := NewServer(":0", testViewConfig(),
		tessellate.WithWorkers(1),
		tessellate.WithDensity(tessellate.FixedDensity{Level: 2}))
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}
	conn := dialTestServer(t, s)

	req := ViewRequest{Type: MsgView, Viewer: [3]float32{1e6, 0, 1e6}}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}

	var resp anyMsg
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if resp.Type != MsgPatches {
		t.Fatalf("response type = %q, want %q", resp.Type, MsgPatches)
	}
	if want := [4]int{0, 0, 1, 0}; resp.Counts != want {
		t.Fatalf("counts = %v, want %v", resp.Counts, want)
	}
	if len(resp.Patches) != 1 {
		t.Fatalf("patches = %d, want 1", len(resp.Patches))
	}

	p := resp.Patches[0]
	if p.X != 0 || p.Y != 0 || p.Size != 4 || p.Density != 2 {
		t.Errorf("patch = %+v, want the whole root at density 2", p)
	}
	want := tessellate.PackBlend([4]uint32{2, 2, 2, 2}, 2)
	if p.Stitch != want || p.Morph != want {
		t.Errorf("codes = %#x/%#x, want %#x for an unsplit world", p.Stitch, p.Morph, want)
	}
	if p.SpecialMorph {
		t.Error("SpecialMorph set for an unsplit world")
	}
}

func TestUnknownMessageType(t *testing.T) {
	s, err := NewServer(":0", testViewConfig(), tessellate.WithWorkers(1))
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}
	conn := dialTestServer(t, s)

	if err := conn.WriteJSON(ViewRequest{Type: "bogus"}); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}

	var resp anyMsg
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if resp.Type != MsgError {
		t.Fatalf("response type = %q, want %q", resp.Type, MsgError)
	}
	if !strings.Contains(resp.Error, "bogus") {
		t.Errorf("error %q does not name the bad type", resp.Error)
	}
}

func TestBuildErrorReported(t *testing.T) {
	s, err := NewServer(":0", testViewConfig(),
		tessellate.WithWorkers(1),
		tessellate.WithBucketStride(2))
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}
	conn := dialTestServer(t, s)

	// The near viewer overflows the tiny bucket stride.
	if err := conn.WriteJSON(ViewRequest{Type: MsgView}); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}

	var resp anyMsg
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if resp.Type != MsgError {
		t.Fatalf("response type = %q, want %q", resp.Type, MsgError)
	}
	if !strings.Contains(resp.Error, "capacity") {
		t.Errorf("error %q does not mention capacity", resp.Error)
	}
}

func TestViewDistanceReconfigures(t *testing.T) {
	s, err := NewServer(":0", testViewConfig(), tessellate.WithWorkers(1))
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}
	conn := dialTestServer(t, s)

	// At view distance 0.4 the root's nearest corner stays out of reach.
	viewer := [3]float32{3, 0, 0}
	if err := conn.WriteJSON(ViewRequest{Type: MsgView, Viewer: viewer, ViewDistance: 0.4}); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	var coarse anyMsg
	if err := conn.ReadJSON(&coarse); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if len(coarse.Patches) != 1 {
		t.Fatalf("coarse patches = %d, want 1", len(coarse.Patches))
	}

	if err := conn.WriteJSON(ViewRequest{Type: MsgView, Viewer: viewer, ViewDistance: 2}); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	var fine anyMsg
	if err := conn.ReadJSON(&fine); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if len(fine.Patches) <= len(coarse.Patches) {
		t.Errorf("patches = %d at view distance 2, want more than %d",
			len(fine.Patches), len(coarse.Patches))
	}
}

func TestShutdownClosesClients(t *testing.T) {
	s, err := NewServer("127.0.0.1:0", testViewConfig(), tessellate.WithWorkers(1))
	if err != nil {
		t.Fatalf("NewServer() = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// A full exchange guarantees the server registered the client.
	if err := conn.WriteJSON(ViewRequest{Type: MsgView, Viewer: [3]float32{1e6, 0, 1e6}}); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	var resp anyMsg
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if got := s.ClientCount(); got != 1 {
		t.Fatalf("ClientCount() = %d, want 1", got)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve() = %v after shutdown, want nil", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m anyMsg
	if err := conn.ReadJSON(&m); err == nil {
		t.Error("ReadJSON() succeeded after shutdown")
	}
	if got := s.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d after shutdown, want 0", got)
	}
}
