package spectate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-runner/internal/race"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSnapshotReachesSpectator(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestHub(t, hub)

	snap := race.Snapshot{
		Type:     race.Sprint,
		Phase:    race.PhaseRunning.String(),
		Time:     4.2,
		Distance: 37.5,
		Position: 2,
	}

	// Registration races the broadcast; retry until the frame lands.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			hub.BroadcastSnapshot(snap)
			time.Sleep(10 * time.Millisecond)
		}
	}()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	<-done

	var msg struct {
		Type    string        `json:"type"`
		Payload race.Snapshot `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "race_state" {
		t.Errorf("message type = %q", msg.Type)
	}
	if msg.Payload.Distance != 37.5 || msg.Payload.Position != 2 {
		t.Errorf("payload drifted: %+v", msg.Payload)
	}
}

func TestFeedIsReadOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestHub(t, hub)

	// A spectator writing must never echo to other spectators.
	other := dialTestHub(t, hub)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"cheat":"go faster"}`)); err != nil {
		t.Fatal(err)
	}

	other.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, data, err := other.ReadMessage(); err == nil {
		t.Errorf("spectator input was broadcast: %s", data)
	}
}
