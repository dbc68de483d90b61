// Package daemon provides the long-running background service: it owns the
// tracker, runs the simulated activity and serves state over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir      string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

// Snapshot is a compact view of the state for status and event payloads.
type Snapshot struct {
	At            time.Time       `json:"at"`
	Points        int64           `json:"points"`
	Streak        int             `json:"streak"`
	Level         int             `json:"level"`
	Progress      float64         `json:"progress"`
	BankBalance   decimal.Decimal `json:"bank_balance"`
	BankConnected bool            `json:"bank_connected"`
	Income        decimal.Decimal `json:"income"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	SavingsRate   decimal.Decimal `json:"savings_rate"`
}

// Delta captures what one commit changed.
type Delta struct {
	Points int64 `json:"points"`
	Streak int   `json:"streak"`
	Level  int   `json:"level"`
}

// Event is emitted for every committed change.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	LastTickAt        time.Time `json:"last_tick_at"`
	TickIntervalSec   int       `json:"tick_interval_sec"`
	TickCount         int64     `json:"tick_count"`
	BonusCount        int64     `json:"bonus_count"`
	SimulationEnabled bool      `json:"simulation_enabled"`
	DataDir           string    `json:"data_dir"`
	Summary           Snapshot  `json:"summary"`
	LastError         string    `json:"last_error,omitempty"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
//
// Lock order: the tracker may call into the service while holding its own
// lock, so the service never calls the tracker while holding mu.
type Service struct {
	cfg     Config
	tracker *engine.Tracker
	sim     *engine.Simulation
	log     zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastTickAt  time.Time
	tickCount   int64
	bonusCount  int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
	closing   chan struct{}
}

// New returns a daemon service driving tracker. sim may be nil to disable
// the simulated activity.
func New(cfg Config, tracker *engine.Tracker, sim *engine.Simulation, log zerolog.Logger) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	s := &Service{
		cfg:       cfg,
		tracker:   tracker,
		sim:       sim,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
		closing:   make(chan struct{}),
	}
	tracker.Observe(s.onChange)
	return s
}

// Run serves HTTP and ticks the simulation until ctx is canceled or the
// server fails.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("daemon listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		close(s.closing)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.publishSnapshot()
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.tickOnce()
			}
		}
	})

	return g.Wait()
}

func (s *Service) tickOnce() {
	var (
		won bool
		err error
	)
	if s.sim != nil {
		_, won, err = s.sim.Tick(s.tracker)
	}

	s.mu.Lock()
	s.lastTickAt = time.Now()
	s.tickCount++
	if won {
		s.bonusCount++
	}
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("simulation tick")
	}
}

// onChange runs under the tracker lock for every commit.
func (s *Service) onChange(c engine.Change) {
	now := time.Now()
	ev := Event{
		Type:      string(c.Op),
		Timestamp: now,
		Snapshot:  snapshotOf(c.After, now),
		Delta:     diffStates(c.Before, c.After),
	}
	s.log.Debug().Str("op", ev.Type).Int64("points", ev.Delta.Points).Msg("state changed")
	s.publishEvent(ev)
}

// publishSnapshot emits the current state so subscribers start from it.
func (s *Service) publishSnapshot() {
	now := time.Now()
	s.publishEvent(Event{
		Type:      "snapshot",
		Timestamp: now,
		Snapshot:  snapshotOf(s.tracker.State(), now),
	})
}

func snapshotOf(st model.UserFinancialState, at time.Time) Snapshot {
	return Snapshot{
		At:            at,
		Points:        st.Points,
		Streak:        st.Streak,
		Level:         st.Level,
		Progress:      st.Progress,
		BankBalance:   st.BankBalance,
		BankConnected: st.BankConnected,
		Income:        st.Income,
		TotalSpent:    st.TotalSpent(),
		SavingsRate:   engine.SavingsRate(st),
	}
}

func diffStates(prev, curr model.UserFinancialState) Delta {
	return Delta{
		Points: curr.Points - prev.Points,
		Streak: curr.Streak - prev.Streak,
		Level:  curr.Level - prev.Level,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	st := s.tracker.State()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:         s.startedAt,
		LastTickAt:        s.lastTickAt,
		TickIntervalSec:   int(s.cfg.Interval.Seconds()),
		TickCount:         s.tickCount,
		BonusCount:        s.bonusCount,
		SimulationEnabled: s.sim != nil,
		DataDir:           s.cfg.DataDir,
		Summary:           snapshotOf(st, time.Now()),
		LastError:         s.lastError,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
