package server

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/cachesim/cachesim/sim"
)

func TestKeyField_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []sim.Key
		wantErr bool
	}{
		{"delimited string", `"A, B C"`, []sim.Key{"A", "B", "C"}, false},
		{"array", `["A","B"]`, []sim.Key{"A", "B"}, false},
		{"empty string", `""`, nil, false},
		{"number", `42`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f KeyField
			err := json.Unmarshal([]byte(tt.input), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual([]sim.Key(f), tt.want) {
				t.Errorf("keys = %v, want %v", f, tt.want)
			}
		})
	}
}

func TestSessionConfig_Simulation_TranslatesWireFields(t *testing.T) {
	cfg := SessionConfig{
		Capacity:     3,
		KValue:       2,
		AdaptiveK:    true,
		MaxK:         4,
		WorkloadType: "realistic",
		WorkloadSize: 40,
		KeySpace:     10,
		Seed:         11,
		ActiveCaches: map[string]bool{"lru": true, "lfu": false, "lruk": true},
	}

	simCfg, keys, err := cfg.simulation()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 40 {
		t.Errorf("workload length = %d, want 40", len(keys))
	}
	if !simCfg.Active.LRU || simCfg.Active.LFU || !simCfg.Active.LRUK {
		t.Errorf("active = %+v, want lru and lruk only", simCfg.Active)
	}
	if simCfg.Capacity != 3 || simCfg.K != 2 || simCfg.MaxK != 4 || !simCfg.AdaptiveK {
		t.Errorf("config = %+v, want capacity 3, k 2, max_k 4, adaptive", simCfg)
	}
}

func TestSessionConfig_Simulation_RequiresActivePolicy(t *testing.T) {
	cfg := SessionConfig{
		Capacity:     2,
		KValue:       2,
		WorkloadType: "random",
		WorkloadSize: 10,
		KeySpace:     5,
	}

	_, _, err := cfg.simulation()
	if !errors.Is(err, sim.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSessionConfig_Simulation_RejectsUnsupportedWorkloadType(t *testing.T) {
	cfg := SessionConfig{
		Capacity:     2,
		KValue:       2,
		WorkloadType: "zipf",
		WorkloadSize: 10,
		KeySpace:     5,
		ActiveCaches: map[string]bool{"lru": true},
	}

	_, _, err := cfg.simulation()
	if !errors.Is(err, sim.ErrInvalidWorkload) {
		t.Fatalf("err = %v, want ErrInvalidWorkload", err)
	}
	if !strings.Contains(err.Error(), "workload_type") {
		t.Errorf("err = %q, want a workload_type message", err)
	}
}

func TestSession_AwaitResume_BlocksWhilePaused(t *testing.T) {
	s := &session{log: logrus.WithField("session", "test")}
	s.setPaused(true)

	released := make(chan error, 1)
	go func() { released <- s.awaitResume(context.Background()) }()

	select {
	case err := <-released:
		t.Fatalf("awaitResume returned %v while paused", err)
	case <-time.After(50 * time.Millisecond):
	}

	s.setPaused(false)
	select {
	case err := <-released:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("resume did not release the writer")
	}
}

func TestSession_AwaitResume_CancelReleasesPausedWriter(t *testing.T) {
	s := &session{log: logrus.WithField("session", "test")}
	s.setPaused(true)

	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan error, 1)
	go func() { released <- s.awaitResume(ctx) }()
	cancel()

	select {
	case err := <-released:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancel did not release the paused writer")
	}
}

func TestSession_SetPaused_RepeatedTransitionsAreSafe(t *testing.T) {
	s := &session{log: logrus.WithField("session", "test")}

	s.setPaused(false) // resume before any pause
	s.setPaused(true)
	s.setPaused(true) // repeated pause keeps the same gate
	s.setPaused(false)
	s.setPaused(false) // repeated resume must not close the gate twice

	if err := s.awaitResume(context.Background()); err != nil {
		t.Fatal(err)
	}
}

// startTestServer brings up a full server on an ephemeral port and
// returns the URL of its simulation socket.
func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	srv := New("127.0.0.1:0")
	if err := srv.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return srv, "ws://" + srv.Addr() + "/ws/simulation"
}

func dialSimulation(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilClose drains events until the server closes the socket,
// returning the events and the close frame.
func readUntilClose(t *testing.T, conn *websocket.Conn) ([]map[string]any, *websocket.CloseError) {
	t.Helper()
	var events []map[string]any
	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var event map[string]any
		err := conn.ReadJSON(&event)
		if err == nil {
			events = append(events, event)
			continue
		}
		var closeErr *websocket.CloseError
		if !errors.As(err, &closeErr) {
			t.Fatalf("reading events: %v", err)
		}
		return events, closeErr
	}
}

func TestSimulationSocket_StreamsEventsThenClosesNormally(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialSimulation(t, url)

	err := conn.WriteJSON(map[string]any{
		"capacity":        2,
		"k_value":         2,
		"speed":           0.001,
		"workload_type":   "custom",
		"custom_workload": "A, B, A",
		"active_caches":   map[string]bool{"lru": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	events, closeErr := readUntilClose(t, conn)
	if closeErr.Code != websocket.CloseNormalClosure {
		t.Fatalf("close = %d %q, want %d", closeErr.Code, closeErr.Text, websocket.CloseNormalClosure)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, event := range events {
		if got := event["step"]; got != float64(i+1) {
			t.Errorf("step[%d] = %v, want %d", i, got, i+1)
		}
		if got := event["total_steps"]; got != float64(3) {
			t.Errorf("total_steps = %v, want 3", got)
		}
	}
	if got := events[0]["current_key"]; got != "A" {
		t.Errorf("current_key = %v, want A", got)
	}
	if _, ok := events[0]["lfu_cache"]; ok {
		t.Error("lfu_cache present for an inactive policy")
	}

	// A misses, B misses, A hits with both still resident.
	lru, ok := events[2]["lru_cache"].(map[string]any)
	if !ok {
		t.Fatal("lru_cache missing from final event")
	}
	if got := lru["hits"]; got != float64(1) {
		t.Errorf("final hits = %v, want 1", got)
	}
	if got := lru["hit_rate"]; got != 1.0/3.0 {
		t.Errorf("final hit_rate = %v, want 1/3", got)
	}
	if state, _ := lru["state"].([]any); !reflect.DeepEqual(state, []any{"A", "B"}) {
		t.Errorf("final state = %v, want [A B]", state)
	}
}

func TestSimulationSocket_RejectsInvalidCapacity(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialSimulation(t, url)

	err := conn.WriteJSON(map[string]any{
		"capacity":      0,
		"k_value":       2,
		"workload_type": "realistic",
		"workload_size": 10,
		"key_space":     5,
		"active_caches": map[string]bool{"lru": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	events, closeErr := readUntilClose(t, conn)
	if len(events) != 0 {
		t.Fatalf("events = %d, want none before rejection", len(events))
	}
	if closeErr.Code != websocket.CloseNormalClosure {
		t.Fatalf("close code = %d, want %d", closeErr.Code, websocket.CloseNormalClosure)
	}
	if !strings.Contains(closeErr.Text, "capacity must be >= 1") {
		t.Errorf("close reason = %q, want a capacity message", closeErr.Text)
	}
}

func TestSimulationSocket_MalformedConfigClosesWithInternalError(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialSimulation(t, url)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	events, closeErr := readUntilClose(t, conn)
	if len(events) != 0 {
		t.Fatalf("events = %d, want none", len(events))
	}
	if closeErr.Code != websocket.CloseInternalServerErr {
		t.Fatalf("close code = %d, want %d", closeErr.Code, websocket.CloseInternalServerErr)
	}
	if closeErr.Text != "malformed configuration" {
		t.Errorf("close reason = %q, want malformed configuration", closeErr.Text)
	}
}

func TestSimulationSocket_CancelStopsRun(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialSimulation(t, url)

	err := conn.WriteJSON(map[string]any{
		"capacity":      4,
		"k_value":       2,
		"speed":         0.05,
		"workload_type": "realistic",
		"workload_size": 200,
		"key_space":     20,
		"seed":          7,
		"active_caches": map[string]bool{"lru": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first map[string]any
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]any{"action": "cancel"}); err != nil {
		t.Fatal(err)
	}

	events, closeErr := readUntilClose(t, conn)
	if closeErr.Code != websocket.CloseNormalClosure {
		t.Fatalf("close code = %d, want %d", closeErr.Code, websocket.CloseNormalClosure)
	}
	if closeErr.Text != "cancelled" {
		t.Errorf("close reason = %q, want cancelled", closeErr.Text)
	}
	if got := 1 + len(events); got >= 200 {
		t.Errorf("received %d events, want the run cut short", got)
	}
}

func TestSimulationSocket_PauseThenResumeDeliversEveryStep(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialSimulation(t, url)

	err := conn.WriteJSON(map[string]any{
		"capacity":        2,
		"k_value":         2,
		"speed":           0.025,
		"workload_type":   "custom",
		"custom_workload": "A,B,C,D,E,F,G,H",
		"active_caches":   map[string]bool{"lru": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first map[string]any
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]any{"action": "pause"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	resumed := time.Now()
	if err := conn.WriteJSON(map[string]any{"action": "resume"}); err != nil {
		t.Fatal(err)
	}
	events, closeErr := readUntilClose(t, conn)

	if closeErr.Code != websocket.CloseNormalClosure {
		t.Fatalf("close = %d %q, want %d", closeErr.Code, closeErr.Text, websocket.CloseNormalClosure)
	}
	// Pausing stops the driver rather than discarding steps, so every
	// step still arrives exactly once and in order.
	if got := 1 + len(events); got != 8 {
		t.Fatalf("received %d events, want all 8", got)
	}
	for i, event := range events {
		if got := event["step"]; got != float64(i+2) {
			t.Errorf("step[%d] = %v, want %d", i, got, i+2)
		}
	}
	// The tail of the run can only have been paced out after resume.
	if gap := time.Since(resumed); gap < 40*time.Millisecond {
		t.Errorf("run completed %v after resume; steps were streamed during the pause", gap)
	}
}

func TestServerStop_ClosesActiveSessions(t *testing.T) {
	srv, url := startTestServer(t)
	conn := dialSimulation(t, url)

	err := conn.WriteJSON(map[string]any{
		"capacity":      4,
		"k_value":       2,
		"speed":         0.05,
		"workload_type": "realistic",
		"workload_size": 200,
		"key_space":     20,
		"seed":          7,
		"active_caches": map[string]bool{"lru": true},
	})
	if err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first map[string]any
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}

	stopErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		stopErr <- srv.Stop(ctx)
	}()

	events, closeErr := readUntilClose(t, conn)
	if closeErr.Code != websocket.CloseNormalClosure {
		t.Fatalf("close code = %d, want %d", closeErr.Code, websocket.CloseNormalClosure)
	}
	if got := 1 + len(events); got >= 200 {
		t.Errorf("received %d events, want the run cut short by shutdown", got)
	}
	if err := <-stopErr; err != nil {
		t.Fatal(err)
	}
}
