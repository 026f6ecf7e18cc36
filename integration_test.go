package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func startTestServer(t *testing.T) (string, *Hub) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.MinBots = 0 // keep the world deterministic for assertions

	hub := NewHub(cfg, nil, nil)
	go hub.Run()
	go hub.world.Run()
	t.Cleanup(hub.world.Stop)

	srv := httptest.NewServer(SetupRoutes(hub, t.TempDir()))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", hub
}

func dialArena(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until one of the wanted type arrives. Binary
// frames are the msgpack snapshot stream; ask for "snapshot" to get one.
func readUntil(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read waiting for %s: %v", want, err)
		}
		if mt == websocket.BinaryMessage {
			if want == "snapshot" {
				return data
			}
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if env.T == want {
			return env.D
		}
	}
	t.Fatalf("timed out waiting for %s", want)
	return nil
}

func sendIntent(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	if err := conn.WriteJSON(map[string]interface{}{"t": msgType, "d": data}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func TestConnectReceivesBootstrap(t *testing.T) {
	wsURL, _ := startTestServer(t)
	conn := dialArena(t, wsURL)

	raw := readUntil(t, conn, MsgBootstrap)
	var boot BootstrapMsg
	if err := json.Unmarshal(raw, &boot); err != nil {
		t.Fatalf("bootstrap decode: %v", err)
	}
	if boot.SelfID == "" || !strings.HasPrefix(boot.SelfID, "player-") {
		t.Errorf("bad selfId: %q", boot.SelfID)
	}
	if boot.Config == nil || boot.Config.WorldWidth != 2000 {
		t.Error("bootstrap must carry the world config")
	}
	found := false
	for _, e := range boot.Entities {
		if e.ID == boot.SelfID {
			found = true
		}
	}
	if !found {
		t.Error("bootstrap entities must include self")
	}
}

func TestSecondClientSeesJoin(t *testing.T) {
	wsURL, _ := startTestServer(t)

	c1 := dialArena(t, wsURL)
	readUntil(t, c1, MsgBootstrap)

	c2 := dialArena(t, wsURL)
	raw := readUntil(t, c2, MsgBootstrap)
	var boot BootstrapMsg
	if err := json.Unmarshal(raw, &boot); err != nil {
		t.Fatal(err)
	}

	raw = readUntil(t, c1, MsgEntityJoined)
	var joined EntityState
	if err := json.Unmarshal(raw, &joined); err != nil {
		t.Fatal(err)
	}
	if joined.ID != boot.SelfID {
		t.Errorf("join notice id %q != second client %q", joined.ID, boot.SelfID)
	}
}

func TestPingBroadcastAndCooldown(t *testing.T) {
	wsURL, _ := startTestServer(t)
	conn := dialArena(t, wsURL)
	readUntil(t, conn, MsgBootstrap)

	sendIntent(t, conn, MsgEmitPing, nil)
	raw := readUntil(t, conn, MsgPingEmitted)
	var ping PingEmittedMsg
	if err := json.Unmarshal(raw, &ping); err != nil {
		t.Fatal(err)
	}
	if ping.MaxRadius != 400 {
		t.Errorf("unexpected ping radius: %f", ping.MaxRadius)
	}

	sendIntent(t, conn, MsgEmitPing, nil)
	raw = readUntil(t, conn, MsgPingOnCooldown)
	var notice PingOnCooldownMsg
	if err := json.Unmarshal(raw, &notice); err != nil {
		t.Fatal(err)
	}
	if notice.RemainingMs <= 0 {
		t.Errorf("cooldown notice must report remaining time, got %d", notice.RemainingMs)
	}
}

func TestMoveRelayedAndClamped(t *testing.T) {
	wsURL, _ := startTestServer(t)

	c1 := dialArena(t, wsURL)
	readUntil(t, c1, MsgBootstrap)

	c2 := dialArena(t, wsURL)
	raw := readUntil(t, c2, MsgBootstrap)
	var boot BootstrapMsg
	if err := json.Unmarshal(raw, &boot); err != nil {
		t.Fatal(err)
	}
	readUntil(t, c1, MsgEntityJoined)

	sendIntent(t, c2, MsgMove, MoveMsg{X: -50, Y: 100})

	raw = readUntil(t, c1, MsgEntityMoved)
	var moved EntityMovedMsg
	if err := json.Unmarshal(raw, &moved); err != nil {
		t.Fatal(err)
	}
	if moved.ID != boot.SelfID {
		t.Errorf("unexpected mover: %s", moved.ID)
	}
	if moved.X != 0 || moved.Y != 100 {
		t.Errorf("expected clamped (0, 100), got (%f, %f)", moved.X, moved.Y)
	}
}

func TestSnapshotStreamDecodes(t *testing.T) {
	wsURL, _ := startTestServer(t)
	conn := dialArena(t, wsURL)
	readUntil(t, conn, MsgBootstrap)

	data := readUntil(t, conn, "snapshot")
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot decode: %v", err)
	}
	if len(snap.Entities) == 0 {
		t.Error("snapshot should contain at least the connected player")
	}
	if snap.Timestamp == 0 {
		t.Error("snapshot timestamp missing")
	}
}

func TestImmediateDisconnectLeavesNoGhost(t *testing.T) {
	wsURL, hub := startTestServer(t)

	// Close the socket as soon as it is up; the session's entity must
	// still be finalized and removed.
	conn := dialArena(t, wsURL)
	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if hub.world.PlayerCount() == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("entity left behind after disconnect: %d players", hub.world.PlayerCount())
}

func TestHealthEndpoint(t *testing.T) {
	wsURL, _ := startTestServer(t)
	conn := dialArena(t, wsURL)
	readUntil(t, conn, MsgBootstrap)

	httpURL := "http" + strings.TrimPrefix(strings.TrimSuffix(wsURL, "/ws"), "ws") + "/healthz"
	r, err := http.Get(httpURL)
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer r.Body.Close()
	var body struct {
		OK      bool `json:"ok"`
		Players int  `json:"players"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || body.Players != 1 {
		t.Errorf("unexpected health body: %+v", body)
	}
}
