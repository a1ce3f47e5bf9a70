// Package publisher runs one status tick: query the server, derive a snapshot,
// and upsert the single status message the bot owns.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nstatus/nstatus/internal/config"
	"github.com/nstatus/nstatus/internal/domain"
	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/metrics"
	"github.com/nstatus/nstatus/internal/query"
	"github.com/nstatus/nstatus/internal/render"
	"github.com/nstatus/nstatus/internal/state"
)

// Querier reads the live state of a game server.
type Querier interface {
	Query(ctx context.Context, host string, port int) (*domain.ServerState, error)
}

// Chat is the subset of the chat client the publisher needs.
type Chat interface {
	SendMessage(ctx context.Context, channelID string, p *domain.Payload) (string, error)
	FetchMessage(ctx context.Context, channelID, messageID string) (domain.MessageRef, error)
	EditMessage(ctx context.Context, ref domain.MessageRef, p *domain.Payload) error
	SetPresence(p domain.Presence) error
}

// PeakRecorder is satisfied by *peak.Tracker.
type PeakRecorder interface {
	Record(players int) int
	Peak() int
}

// TargetStore is satisfied by *state.Store.
type TargetStore interface {
	Target() state.Target
	SetMessageID(id string) error
	ClearMessageID() error
}

// Outcome is what one tick did.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"  // a new message was sent
	OutcomeEdited   Outcome = "edited"   // the owned message was edited in place
	OutcomeReset    Outcome = "reset"    // the owned message was gone, target cleared
	OutcomeDegraded Outcome = "degraded" // the server did not answer
	OutcomeFailed   Outcome = "failed"   // a chat call failed, nothing changed
	OutcomeSkipped  Outcome = "skipped"  // another tick was running
)

// Report is the last tick as seen from outside, for the ops endpoints.
type Report struct {
	Snapshot  *domain.Snapshot `json:"snapshot,omitempty"`
	Outcome   Outcome          `json:"outcome,omitempty"`
	TickedAt  time.Time        `json:"ticked_at"`
	ChannelID string           `json:"channel_id"`
	MessageID string           `json:"message_id,omitempty"`
}

// Publisher owns the tick. It is safe to call Tick concurrently; overlapping
// calls are skipped.
type Publisher struct {
	busy sync.Mutex

	settings *config.Settings
	querier  Querier
	chat     Chat
	peaks    PeakRecorder
	store    TargetStore
	metrics  *metrics.Metrics
	logger   logger.Logger
	timeout  time.Duration
	now      func() time.Time

	mu   sync.RWMutex
	last Report
}

type Option func(*Publisher)

// WithTimeout bounds every tick. Zero means the caller's context only.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) { p.timeout = d }
}

// WithMetrics records gauges and counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

func New(
	settings *config.Settings,
	querier Querier,
	chat Chat,
	peaks PeakRecorder,
	store TargetStore,
	log logger.Logger,
	opts ...Option,
) *Publisher {
	p := &Publisher{
		settings: settings,
		querier:  querier,
		chat:     chat,
		peaks:    peaks,
		store:    store,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tick runs one full cycle. The returned error is set only for OutcomeFailed.
func (p *Publisher) Tick(ctx context.Context) (Outcome, error) {
	if !p.busy.TryLock() {
		p.logger.Debug("tick already running, skipping")
		p.metrics.ObserveTick(string(OutcomeSkipped), 0)
		return OutcomeSkipped, nil
	}
	defer p.busy.Unlock()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := p.now()
	snap, outcome, err := p.tick(ctx)
	p.metrics.ObserveTick(string(outcome), p.now().Sub(start).Seconds())

	target := p.store.Target()
	p.mu.Lock()
	p.last = Report{
		Snapshot:  snap,
		Outcome:   outcome,
		TickedAt:  start,
		ChannelID: target.ChannelID,
		MessageID: target.MessageID,
	}
	p.mu.Unlock()

	return outcome, err
}

// Last returns the report of the most recent completed tick.
// TickedAt is zero until the first tick finishes.
func (p *Publisher) Last() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

func (p *Publisher) tick(ctx context.Context) (*domain.Snapshot, Outcome, error) {
	srv := p.settings.Server

	st, err := p.querier.Query(ctx, srv.Host, srv.Port)
	if err != nil {
		msg := "server query failed, showing offline"
		if query.IsTimeout(err) {
			msg = "server did not answer in time, showing offline"
		}
		p.logger.Warn(msg,
			logger.String("address", srv.Address()),
			logger.Error(err))
		return p.degrade(), OutcomeDegraded, nil
	}

	snap := p.derive(st)
	p.setPresence(render.OnlinePresence(*snap, p.settings))

	outcome, err := p.upsert(ctx, render.Payload(*snap, p.settings))
	return snap, outcome, err
}

func (p *Publisher) derive(st *domain.ServerState) *domain.Snapshot {
	snap := &domain.Snapshot{
		Online:        true,
		Name:          st.Name,
		Address:       p.settings.Server.Address(),
		PlayersOnline: st.PlayersOnline,
		MaxPlayers:    st.MaxPlayers,
		Ping:          int(st.Ping.Milliseconds()),
		Map:           st.Map,
		Gamemode:      st.Game,
		ObservedAt:    p.now(),
	}
	if len(st.PlayerNames) > 0 {
		snap.Players = append([]string(nil), st.PlayerNames...)
	}

	if p.settings.Features.ShowPeak24h {
		snap.Peak24h = p.peaks.Record(st.PlayersOnline)
		snap.HasPeak = true
		p.metrics.ObservePeak(snap.Peak24h)
	}

	p.metrics.ObserveOnline(snap.PlayersOnline, snap.MaxPlayers, snap.Ping)
	return snap
}

// degrade only touches the presence. The target and the peak window stay as they are.
func (p *Publisher) degrade() *domain.Snapshot {
	p.metrics.ObserveOffline()
	p.setPresence(render.OfflinePresence(p.settings))

	snap := &domain.Snapshot{
		Online:     false,
		Address:    p.settings.Server.Address(),
		ObservedAt: p.now(),
	}
	if p.settings.Features.ShowPeak24h {
		snap.Peak24h = p.peaks.Peak()
		snap.HasPeak = true
	}
	return snap
}

func (p *Publisher) upsert(ctx context.Context, payload *domain.Payload) (Outcome, error) {
	target := p.store.Target()

	if target.MessageID == "" {
		return p.create(ctx, target.ChannelID, payload)
	}

	ref, err := p.chat.FetchMessage(ctx, target.ChannelID, target.MessageID)
	p.metrics.ObservePublish("fetch", err)
	switch {
	case errors.Is(err, domain.ErrMessageNotFound):
		p.logger.Info("status message is gone, a new one will be sent next tick",
			logger.String("channel", target.ChannelID),
			logger.String("message_id", target.MessageID))
		p.reset()
		return OutcomeReset, nil
	case errors.Is(err, domain.ErrChannelNotFound):
		return OutcomeFailed, fmt.Errorf("fetch status message: %w", err)
	case err != nil:
		return OutcomeFailed, fmt.Errorf("fetch status message %s: %w", target.MessageID, err)
	}

	err = p.chat.EditMessage(ctx, ref, payload)
	p.metrics.ObservePublish("edit", err)
	switch {
	case errors.Is(err, domain.ErrMessageNotFound):
		// deleted between fetch and edit
		p.logger.Info("status message vanished before edit",
			logger.String("message_id", ref.MessageID))
		p.reset()
		return OutcomeReset, nil
	case err != nil:
		return OutcomeFailed, fmt.Errorf("edit status message %s: %w", ref.MessageID, err)
	}

	p.logger.Debug("status message edited", logger.String("message_id", ref.MessageID))
	return OutcomeEdited, nil
}

func (p *Publisher) create(ctx context.Context, channelID string, payload *domain.Payload) (Outcome, error) {
	id, err := p.chat.SendMessage(ctx, channelID, payload)
	p.metrics.ObservePublish("send", err)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("send status message: %w", err)
	}

	if err := p.store.SetMessageID(id); err != nil {
		p.logger.Error("failed to persist message id",
			logger.String("message_id", id),
			logger.Error(err))
	}

	p.logger.Info("status message created",
		logger.String("channel", channelID),
		logger.String("message_id", id))
	return OutcomeCreated, nil
}

func (p *Publisher) reset() {
	if err := p.store.ClearMessageID(); err != nil {
		p.logger.Error("failed to persist cleared message id", logger.Error(err))
	}
}

func (p *Publisher) setPresence(pr domain.Presence) {
	if err := p.chat.SetPresence(pr); err != nil {
		p.logger.Warn("failed to update presence",
			logger.String("text", pr.Text),
			logger.Error(err))
	}
}
