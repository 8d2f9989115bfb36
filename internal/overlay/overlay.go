// Package overlay is the root HUD object: it owns every radar component,
// schedules the scans and draws one overlay per frame.
package overlay

import (
	"errors"
	"log/slog"
	"time"

	"github.com/enemyradar/extension/internal/beam"
	"github.com/enemyradar/extension/internal/classify"
	"github.com/enemyradar/extension/internal/forge"
	"github.com/enemyradar/extension/internal/health"
	"github.com/enemyradar/extension/internal/influx"
	"github.com/enemyradar/extension/internal/loot"
	"github.com/enemyradar/extension/internal/proximity"
	"github.com/enemyradar/extension/internal/render"
	"github.com/enemyradar/extension/internal/sampler"
	"github.com/enemyradar/extension/internal/scheduler"
	"github.com/enemyradar/extension/internal/session"
	"github.com/enemyradar/extension/internal/storage"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// Scheduled task names.
const (
	TaskClassify = "classify"
	TaskLoot     = "loot"
	TaskJournal  = "journal"
)

// Metrics receives per-scan measurements. *influx.Manager implements it.
type Metrics interface {
	WriteScan(s influx.ScanMetrics, at time.Time) error
	WriteLoot(l influx.LootMetrics, at time.Time) error
}

// Dependencies holds the optional collaborators of an Overlay. Every field
// may be left zero.
type Dependencies struct {
	Logger *slog.Logger
	// TaskLogger receives scheduler diagnostics.
	TaskLogger scheduler.Logger
	Session    *session.Context
	Journal    *storage.Journal
	Metrics    Metrics
	Version    string
	// Clock stamps journal records; defaults to time.Now.
	Clock func() time.Time
}

// Overlay implements hostapi.Plugin.
type Overlay struct {
	host hostapi.Host
	cfg  Config
	deps Dependencies

	sampler    *sampler.WorldSampler
	classifier *classify.Classifier
	tracker    *proximity.Tracker
	surveyor   *loot.Surveyor
	probe      *health.Probe
	renderer   *render.Renderer
	beams      *beam.Effects
	sched      *scheduler.Scheduler

	state proximity.State
	spots []loot.Spot
	scan  classify.Result
	stats render.Stats
}

// NewFactory returns the startup factory handed to hostapi.NewBootstrap.
func NewFactory(cfg Config, deps Dependencies) hostapi.Factory {
	return func(h hostapi.Host) (hostapi.Plugin, error) {
		return New(h, cfg, deps)
	}
}

// New builds an Overlay on host and registers its scheduled tasks.
func New(host hostapi.Host, cfg Config, deps Dependencies) (*Overlay, error) {
	if host == nil {
		return nil, errors.New("nil host")
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Session == nil {
		deps.Session = session.NewContext(deps.Clock())
	}
	if deps.Journal == nil {
		deps.Journal = storage.NewJournal(nil)
	}
	log := deps.Logger

	sched, err := scheduler.New(deps.TaskLogger)
	if err != nil {
		return nil, err
	}

	o := &Overlay{
		host:       host,
		cfg:        cfg,
		deps:       deps,
		sampler:    sampler.New(host, log.With("component", "sampler")),
		classifier: classify.New(log.With("component", "classify")),
		tracker:    proximity.NewTracker(cfg.Rings),
		surveyor:   loot.NewSurveyor(cfg.Loot, log.With("component", "loot")),
		probe:      health.NewProbe(log.With("component", "health")),
		renderer:   render.NewRenderer(forge.NewAtlas(cfg.Glyphs), cfg.Layout, cfg.Rings, host),
		sched:      sched,
	}
	o.state = o.tracker.State()
	if cfg.Beams {
		o.beams = beam.NewEffects(host, cfg.Beam, log.With("component", "beam"))
	}

	sched.Register(TaskClassify, cfg.ClassifyInterval, o.classifyTask, scheduler.Logged())
	sched.Register(TaskLoot, cfg.LootInterval, o.lootTask)
	if deps.Journal.Enabled() {
		info := core.SessionInfo{
			ID:        deps.Session.ID().String(),
			StartedAt: deps.Session.StartedAt(),
			Version:   deps.Version,
		}
		if err := deps.Journal.Start(info); err != nil {
			log.Warn("Scan journal unavailable", "error", err)
		}
		sched.Register(TaskJournal, cfg.FlushInterval, o.flushTask, scheduler.Delayed())
	}
	return o, nil
}

// Renderer exposes the renderer for host key bindings.
func (o *Overlay) Renderer() *render.Renderer {
	return o.renderer
}

// Scheduler exposes the task scheduler.
func (o *Overlay) Scheduler() *scheduler.Scheduler {
	return o.sched
}

// State returns the radar state of the last frame.
func (o *Overlay) State() proximity.State {
	return o.state
}

// Spots returns the drops found by the last loot scan.
func (o *Overlay) Spots() []loot.Spot {
	return o.spots
}

// LastScan returns the last classification result.
func (o *Overlay) LastScan() classify.Result {
	return o.scan
}

// Probe returns the health probe.
func (o *Overlay) Probe() *health.Probe {
	return o.probe
}

// Beams returns the number of live loot beams.
func (o *Overlay) Beams() int {
	if o.beams == nil {
		return 0
	}
	return o.beams.Len()
}

// LastStats returns what the last Draw put on screen.
func (o *Overlay) LastStats() render.Stats {
	return o.stats
}

// LowHealth reports whether the banner shows.
func (o *Overlay) LowHealth() bool {
	return o.probe.Low(o.cfg.Layout.LowHealthThreshold)
}

// Update runs due scans, then recomputes proximity and health.
func (o *Overlay) Update(now time.Duration) {
	o.deps.Session.Advance()
	o.sched.Tick(now)

	o.state = o.tracker.Update(o.host)

	prev, _ := o.probe.Binding()
	if _, _, err := o.probe.Sample(); err != nil {
		o.deps.Logger.Debug("Health sample failed", "error", err)
		o.recordBinding(prev, false, err.Error())
	}
}

// Draw renders the overlay.
func (o *Overlay) Draw(c hostapi.Canvas, now time.Duration) {
	o.stats = o.renderer.Draw(c, render.Frame{
		Now:       now,
		Radar:     o.state,
		Loot:      o.spots,
		LowHealth: o.LowHealth(),
	})
}

// Shutdown destroys every beam and closes the journal.
func (o *Overlay) Shutdown() {
	if o.beams != nil {
		o.beams.Shutdown()
	}
	if err := o.deps.Journal.Close(); err != nil {
		o.deps.Logger.Error("Failed to close scan journal", "error", err)
	}
	o.deps.Logger.Info("Overlay shut down",
		"frames", o.deps.Session.Frame(),
		"journalWritten", o.deps.Journal.Written(),
		"journalDropped", o.deps.Journal.Dropped())
}

func (o *Overlay) classifyTask(time.Duration) error {
	raw := o.sampler.Sample()
	res := o.classifier.Classify(raw, proximity.Origin(o.host))
	o.scan = res
	o.tracker.SetScan(res.Player, res.Enemies)
	o.deps.Session.SetPlayer(res.PlayerName)

	if player, ok := res.Player.Get(); ok && !o.probe.Bound() {
		if err := o.probe.Bind(raw, player); err == nil {
			b, _ := o.probe.Binding()
			o.recordBinding(b, true, "")
		}
	}

	state := o.tracker.Update(o.host)
	o.recordScan(res, state)
	o.deps.Logger.Debug("Classification scan", "summary", res.Describe())
	return nil
}

func (o *Overlay) lootTask(time.Duration) error {
	o.spots = o.surveyor.Survey(o.sampler.Objects())
	beams := 0
	if o.beams != nil {
		beams = o.beams.Rebuild(o.spots)
	}
	o.recordLoot(beams)
	return nil
}

func (o *Overlay) flushTask(time.Duration) error {
	return o.deps.Journal.Flush()
}

func (o *Overlay) recordScan(res classify.Result, state proximity.State) {
	now := o.deps.Clock()
	sid := o.deps.Session.ID().String()

	bearings := make([]float64, 0, len(state.Contacts))
	for _, ct := range state.Contacts {
		if ct.HasBearing {
			bearings = append(bearings, ct.Bearing)
		}
	}
	o.deps.Journal.Scan(core.ScanEvent{
		SessionID:     sid,
		Time:          now,
		Frame:         o.deps.Session.Frame(),
		Entities:      res.Sampled,
		Candidates:    len(res.Candidates),
		Excluded:      len(res.Excluded),
		Enemies:       len(res.Enemies),
		PlayerName:    res.PlayerName,
		PlayerPos:     state.PlayerPos,
		HasPlayer:     state.HasPlayer,
		EnemyBearings: bearings,
	})

	if o.deps.Metrics == nil {
		return
	}
	nearest := -1.0
	if state.HasTarget {
		nearest = state.Distance
	}
	if err := o.deps.Metrics.WriteScan(influx.ScanMetrics{
		SessionID:  sid,
		Entities:   res.Sampled,
		Candidates: len(res.Candidates),
		Excluded:   len(res.Excluded),
		Enemies:    len(res.Enemies),
		HasPlayer:  state.HasPlayer,
		Nearest:    nearest,
	}, now); err != nil {
		o.deps.Logger.Debug("Failed to write scan metrics", "error", err)
	}
}

func (o *Overlay) recordLoot(beams int) {
	now := o.deps.Clock()
	sid := o.deps.Session.ID().String()

	events := make([]core.LootSpotEvent, 0, len(o.spots))
	for _, sp := range o.spots {
		ev := core.LootSpotEvent{
			Name:   sp.Name,
			Tier:   sp.Tier,
			Beamed: o.beams != nil && loot.Beamed(sp.Tier),
		}
		if n, ok := sp.Node.Get(); ok {
			ev.Position = n.Position()
		}
		events = append(events, ev)
	}
	o.deps.Journal.LootScan(core.LootScanEvent{
		SessionID: sid,
		Time:      now,
		Frame:     o.deps.Session.Frame(),
		Spots:     events,
	})

	if o.deps.Metrics == nil {
		return
	}
	count, best := loot.Summary(o.spots)
	if err := o.deps.Metrics.WriteLoot(influx.LootMetrics{
		SessionID: sid,
		Spots:     count,
		Beams:     beams,
		BestTier:  best,
	}, now); err != nil {
		o.deps.Logger.Debug("Failed to write loot metrics", "error", err)
	}
}

func (o *Overlay) recordBinding(b health.Binding, bound bool, reason string) {
	o.deps.Session.SetHealthBound(bound)
	o.deps.Journal.HealthBinding(core.HealthBindingEvent{
		SessionID: o.deps.Session.ID().String(),
		Time:      o.deps.Clock(),
		Frame:     o.deps.Session.Frame(),
		TypeName:  b.TypeName,
		Member:    b.Member.Name,
		Accessor:  b.Member.Accessor.String(),
		Bound:     bound,
		Reason:    reason,
	})
}
