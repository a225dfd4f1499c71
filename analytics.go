package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Match event types
const (
	EvtConnect    = "connect"
	EvtJoin       = "join"
	EvtKill       = "kill"
	EvtDeath      = "death"
	EvtDisconnect = "disconnect"
)

const (
	analyticsQueueSize  = 1024
	analyticsBatchSize  = 50
	analyticsFlushEvery = 5 * time.Second
)

// MatchEvent is one row of the match event log. For kills PlayerName is
// the killer and OtherName the victim; for deaths it is the other way round.
type MatchEvent struct {
	Type       string
	PlayerID   uint64
	PlayerName string
	OtherName  string
	Weapon     string
	Timestamp  time.Time
}

// Analytics batches match events into the database from a background
// goroutine so the tick loop never waits on disk.
type Analytics struct {
	db     *DB
	runID  string
	log    zerolog.Logger
	events chan MatchEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu      sync.Mutex
	dropped int
}

// NewAnalytics starts the background writer
func NewAnalytics(db *DB, log zerolog.Logger) *Analytics {
	a := &Analytics{
		db:     db,
		runID:  uuid.NewString(),
		log:    log.With().Str("component", "analytics").Logger(),
		events: make(chan MatchEvent, analyticsQueueSize),
		stop:   make(chan struct{}),
	}
	a.log = a.log.With().Str("run", a.runID).Logger()
	a.wg.Add(1)
	go a.writer(analyticsFlushEvery)
	return a
}

// RunID identifies this server process in the event log
func (a *Analytics) RunID() string { return a.runID }

// Track enqueues an event without blocking; a full queue drops it
func (a *Analytics) Track(evt MatchEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	select {
	case a.events <- evt:
	default:
		a.mu.Lock()
		a.dropped++
		a.mu.Unlock()
	}
}

// Dropped is the number of events lost to a full queue
func (a *Analytics) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Stop flushes everything queued and waits for the writer. Track must not
// be called afterwards.
func (a *Analytics) Stop() {
	a.once.Do(func() {
		close(a.stop)
		a.wg.Wait()
	})
}

func (a *Analytics) writer(every time.Duration) {
	defer a.wg.Done()

	batch := make([]MatchEvent, 0, analyticsBatchSize)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

func (a *Analytics) flush(events []MatchEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		a.log.Error().Err(err).Msg("begin tx")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO match_events (run_id, event_type, player_id, player_name, other_name, weapon, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		a.log.Error().Err(err).Msg("prepare insert")
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		_, err := stmt.Exec(a.runID, evt.Type, int64(evt.PlayerID), evt.PlayerName, evt.OtherName, evt.Weapon, evt.Timestamp.Format(time.RFC3339))
		if err != nil {
			a.log.Error().Err(err).Str("type", evt.Type).Msg("insert event")
		}
	}
	if err := tx.Commit(); err != nil {
		a.log.Error().Err(err).Msg("commit events")
		return
	}
	a.log.Debug().Int("events", len(events)).Msg("flushed")
}
