package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cachesim/cachesim/sim"
	"github.com/cachesim/cachesim/sim/workload"
)

const (
	// defaultSpeed paces event delivery when the config omits speed.
	defaultSpeed = 500 * time.Millisecond
	closeTimeout = time.Second
	// maxCloseReason is the WebSocket limit for a close frame reason
	// (125-byte control payload minus the 2-byte status code).
	maxCloseReason = 123
)

var errMalformedConfig = errors.New("malformed configuration")

// validWorkloadTypes is the closed set of kinds the socket accepts.
// Zipf and Lua workloads are CLI-only.
var validWorkloadTypes = map[string]bool{
	workload.KindRealistic: true,
	workload.KindScan:      true,
	workload.KindRandom:    true,
	workload.KindCustom:    true,
}

// SessionConfig is the first message a client sends on the simulation
// socket. Field names are the wire protocol.
type SessionConfig struct {
	Capacity       int             `json:"capacity"`
	KValue         int             `json:"k_value"`
	AdaptiveK      bool            `json:"adaptive_k"`
	Speed          float64         `json:"speed"`
	WorkloadType   string          `json:"workload_type"`
	WorkloadSize   int             `json:"workload_size"`
	KeySpace       int             `json:"key_space"`
	MaxK           int             `json:"max_k"`
	Seed           int64           `json:"seed"`
	CustomWorkload KeyField        `json:"custom_workload"`
	ActiveCaches   map[string]bool `json:"active_caches"`
}

// KeyField accepts either a JSON array of keys or a single delimited
// string, the form browser clients post.
type KeyField []sim.Key

func (f *KeyField) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		keys, err := workload.ParseKeys(text)
		if err != nil {
			// An all-delimiter string is an empty workload; validation
			// reports it with the proper close reason.
			*f = nil
			return nil
		}
		*f = keys
		return nil
	}
	var keys []sim.Key
	if err := json.Unmarshal(data, &keys); err != nil {
		return errors.New("custom_workload must be a string or an array of keys")
	}
	*f = keys
	return nil
}

// simulation translates the wire config into a validated driver config
// and its generated workload.
func (c SessionConfig) simulation() (sim.Config, []sim.Key, error) {
	var names []string
	for name, on := range c.ActiveCaches {
		if on {
			names = append(names, name)
		}
	}
	active, err := sim.ActivePoliciesFromNames(names)
	if err != nil {
		return sim.Config{}, nil, err
	}

	cfg := sim.Config{
		Capacity:  c.Capacity,
		K:         c.KValue,
		MaxK:      c.MaxK,
		AdaptiveK: c.AdaptiveK,
		Active:    active,
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, nil, err
	}

	if !validWorkloadTypes[c.WorkloadType] {
		return sim.Config{}, nil, fmt.Errorf("%w: workload_type must be one of realistic, scan, random, custom; got %q",
			sim.ErrInvalidWorkload, c.WorkloadType)
	}
	keys, err := workload.Generate(workload.Spec{
		Kind:     c.WorkloadType,
		Size:     c.WorkloadSize,
		KeySpace: c.KeySpace,
		Seed:     c.Seed,
		Keys:     []sim.Key(c.CustomWorkload),
	})
	if err != nil {
		return sim.Config{}, nil, err
	}
	return cfg, keys, nil
}

// controlMessage is an inbound mid-run command: pause, resume, cancel,
// or speed (with the new pacing in seconds).
type controlMessage struct {
	Action string  `json:"action"`
	Speed  float64 `json:"speed"`
}

var upgrader = websocket.Upgrader{
	// Cross-origin browsers are admitted; the REST surface is open too.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("websocket upgrade: %v", err)
		return
	}
	s.wg.Add(1)
	defer s.wg.Done()
	newSession(conn).run(s.ctx)
}

// session owns one simulation socket from configuration to close.
type session struct {
	id   string
	conn *websocket.Conn
	log  *logrus.Entry

	mu        sync.Mutex
	paused    bool
	resumed   chan struct{} // closed to release a paused writer
	speed     time.Duration
	cancelled bool
}

func newSession(conn *websocket.Conn) *session {
	id := uuid.NewString()
	return &session{
		id:    id,
		conn:  conn,
		log:   logrus.WithField("session", id),
		speed: defaultSpeed,
	}
}

func (s *session) run(parent context.Context) {
	defer s.conn.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// Reads block without deadlines; unstick them when the run ends.
	g.Go(func() error {
		<-gctx.Done()
		s.conn.SetReadDeadline(time.Now())
		return nil
	})

	g.Go(func() error {
		defer cancel()

		var cfg SessionConfig
		if err := s.conn.ReadJSON(&cfg); err != nil {
			return fmt.Errorf("%w: %v", errMalformedConfig, err)
		}
		simCfg, keys, err := cfg.simulation()
		if err != nil {
			return err
		}
		if cfg.Speed > 0 {
			s.setSpeed(cfg.Speed)
		}

		driver, err := sim.NewDriver(simCfg, keys)
		if err != nil {
			return err
		}
		s.log.Infof("run started: %d steps, workload %s", driver.TotalSteps(), cfg.WorkloadType)

		g.Go(func() error { return s.readControls(gctx, cancel) })
		return s.writeEvents(gctx, driver)
	})

	err := g.Wait()
	switch {
	case s.wasCancelled():
		s.log.Infof("run cancelled")
		s.closeWith(websocket.CloseNormalClosure, "cancelled")
	case err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil:
		s.closeWith(websocket.CloseNormalClosure, "")
	case errors.Is(err, sim.ErrInvalidConfig) || errors.Is(err, sim.ErrInvalidWorkload):
		s.log.Infof("rejected config: %v", err)
		s.closeWith(websocket.CloseNormalClosure, err.Error())
	case errors.Is(err, errMalformedConfig):
		s.log.Infof("rejected config: %v", err)
		s.closeWith(websocket.CloseInternalServerErr, errMalformedConfig.Error())
	default:
		s.log.Warnf("run failed: %v", err)
		s.closeWith(websocket.CloseInternalServerErr, "internal error")
	}
}

// writeEvents drains the driver, pacing and pausing between steps. The
// driver only advances when this loop pulls, so a paused session
// freezes simulated progress rather than discarding steps.
func (s *session) writeEvents(ctx context.Context, driver *sim.Driver) error {
	for event := range driver.Run(ctx) {
		if err := s.conn.WriteJSON(event); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		if err := s.pace(ctx); err != nil {
			return err
		}
		if err := s.awaitResume(ctx); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// readControls applies pause/resume/cancel/speed commands until the
// run ends or the peer goes away.
func (s *session) readControls(ctx context.Context, cancel context.CancelFunc) error {
	for {
		var msg controlMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.log.Warnf("ignoring malformed control message: %v", err)
				continue
			}
			cancel()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading control: %w", err)
		}

		switch msg.Action {
		case "pause":
			s.setPaused(true)
			s.log.Debugf("paused")
		case "resume":
			s.setPaused(false)
			s.log.Debugf("resumed")
		case "cancel":
			s.markCancelled()
			cancel()
			return nil
		case "speed":
			if msg.Speed > 0 {
				s.setSpeed(msg.Speed)
				s.log.Debugf("speed set to %.3fs", msg.Speed)
			}
		default:
			s.log.Warnf("unknown control action %q", msg.Action)
		}
	}
}

// pace sleeps the configured delay between events.
func (s *session) pace(ctx context.Context) error {
	s.mu.Lock()
	d := s.speed
	s.mu.Unlock()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitResume blocks while the session is paused.
func (s *session) awaitResume(ctx context.Context) error {
	s.mu.Lock()
	paused, ch := s.paused, s.resumed
	s.mu.Unlock()
	if !paused || ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *session) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if paused && !s.paused {
		s.paused = true
		s.resumed = make(chan struct{})
	}
	if !paused && s.paused {
		s.paused = false
		close(s.resumed)
	}
}

func (s *session) setSpeed(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = time.Duration(seconds * float64(time.Second))
}

func (s *session) markCancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

func (s *session) wasCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// closeWith sends a close frame; the reason is trimmed to the control
// frame limit.
func (s *session) closeWith(code int, reason string) {
	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
	}
	msg := websocket.FormatCloseMessage(code, reason)
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.log.Debugf("writing close frame: %v", err)
	}
}
