package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

// SnapshotSource builds a fresh dashboard snapshot.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (models.DashboardSnapshot, error)
}

// UsersPayload and TransactionsPayload are the bodies of the periodic admin
// events; InitialPayload is sent once when a subscriber connects.
type UsersPayload struct {
	Users []models.UserView     `json:"users"`
	Stats models.DashboardStats `json:"stats"`
}

type TransactionsPayload struct {
	Transactions []models.FeedTransaction `json:"transactions"`
}

type InitialPayload struct {
	Users        []models.UserView        `json:"users"`
	Stats        models.DashboardStats    `json:"stats"`
	Transactions []models.FeedTransaction `json:"transactions"`
}

func NewInitialPayload(s models.DashboardSnapshot) InitialPayload {
	return InitialPayload{Users: s.Users, Stats: s.Stats, Transactions: s.Transactions}
}

// Poller periodically recomputes the dashboard and publishes it on
// AdminTopic. Ticks are skipped while nobody is listening.
type Poller struct {
	hub      *Hub
	source   SnapshotSource
	interval time.Duration
	cron     *cron.Cron
	timeout  time.Duration
}

func NewPoller(hub *Hub, source SnapshotSource, interval time.Duration) *Poller {
	return &Poller{
		hub:      hub,
		source:   source,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout:  10 * time.Second,
	}
}

func (p *Poller) Start() error {
	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), p.Tick); err != nil {
		return fmt.Errorf("schedule admin poll: %w", err)
	}
	p.cron.Start()
	log.Info().Dur("interval", p.interval).Msg("admin poller started")
	return nil
}

// Stop halts scheduling and waits for a running tick to finish or ctx to end.
func (p *Poller) Stop(ctx context.Context) {
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Tick publishes one snapshot. Errors are logged; the next tick retries.
func (p *Poller) Tick() {
	if p.hub.Subscribers(AdminTopic) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("admin poll failed")
		return
	}
	p.hub.Publish(AdminTopic, EventUsers, UsersPayload{Users: snap.Users, Stats: snap.Stats})
	p.hub.Publish(AdminTopic, EventTransactions, TransactionsPayload{Transactions: snap.Transactions})
}
