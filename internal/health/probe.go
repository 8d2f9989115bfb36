// Package health finds the player's health component by heuristics and turns
// its current value into a ratio against an observed maximum.
package health

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/enemyradar/extension/internal/cache"
	"github.com/enemyradar/extension/internal/geo"
	"github.com/enemyradar/extension/internal/keywords"
	"github.com/enemyradar/extension/internal/sampler"
	"github.com/enemyradar/extension/pkg/attr"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

var (
	// ErrNoBinding is returned when no usable health source was found.
	ErrNoBinding = errors.New("no health binding")
	// ErrInvalidated is returned when a bound source stops being readable.
	ErrInvalidated = errors.New("health binding invalidated")
)

// minObservedMax is the smallest observed maximum a ratio is reported against.
const minObservedMax = 0.01

// Binding is the resolved accessor for the player's current health.
type Binding struct {
	Node     handle.Handle[hostapi.Node]
	Source   attr.Source
	TypeName string
	Member   attr.Member
	// Score is the field heuristic score; properties bind unscored.
	Score int
}

// Probe holds at most one binding and the observed maximum for it.
type Probe struct {
	binding     *Binding
	observedMax float64
	ratio       float64
	hasRatio    bool

	team   *cache.MemberCache
	logger *slog.Logger
}

// NewProbe creates an unbound Probe. logger may be nil.
func NewProbe(logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Probe{
		team:   cache.NewMemberCache("team"),
		logger: logger,
	}
}

// Bound reports whether a binding exists.
func (p *Probe) Bound() bool {
	return p.binding != nil
}

// Binding returns the current binding.
func (p *Probe) Binding() (Binding, bool) {
	if p.binding == nil {
		return Binding{}, false
	}
	return *p.binding, true
}

// ObservedMax returns the largest value sampled since binding, 0 if none.
func (p *Probe) ObservedMax() float64 {
	return p.observedMax
}

// Ratio returns the last sampled ratio.
func (p *Probe) Ratio() (float64, bool) {
	return p.ratio, p.hasRatio
}

// Low reports whether the banner condition holds: a valid ratio above zero
// and at or below threshold.
func (p *Probe) Low(threshold float64) bool {
	return p.hasRatio && p.observedMax > minObservedMax && p.ratio > 0 && p.ratio <= threshold
}

// Bind searches comps for the player's health source. It does nothing while a
// binding already exists.
func (p *Probe) Bind(comps []sampler.RawEntity, player hostapi.Node) error {
	if p.binding != nil {
		return nil
	}
	p.clear()
	if player == nil || !player.Alive() {
		return fmt.Errorf("%w: no player", ErrNoBinding)
	}

	best, ok := p.nearestPlayerHealth(comps, player)
	if !ok {
		p.logger.Debug("No player health component found")
		return fmt.Errorf("%w: no player health component", ErrNoBinding)
	}

	members, _ := attr.SafeMembers(best.Source)
	if m, score, ok := bestField(members); ok {
		p.bind(best, m, score)
		return nil
	}
	if m, ok := firstProperty(members); ok {
		p.bind(best, m, 0)
		return nil
	}
	p.logger.Debug("Health component has no numeric hp member", "type", best.TypeName)
	return fmt.Errorf("%w: %s has no numeric hp member", ErrNoBinding, best.TypeName)
}

func (p *Probe) bind(e sampler.RawEntity, m attr.Member, score int) {
	p.binding = &Binding{
		Node:     e.Node,
		Source:   e.Source,
		TypeName: e.TypeName,
		Member:   m,
		Score:    score,
	}
	p.observedMax = 0
	p.logger.Info("Player health bound", "type", e.TypeName, "member", m.Name, "accessor", m.Accessor.String())
}

// nearestPlayerHealth picks the health-typed component nearest the player
// whose team label is a player team. Components without a readable team are
// skipped.
func (p *Probe) nearestPlayerHealth(comps []sampler.RawEntity, player hostapi.Node) (sampler.RawEntity, bool) {
	var best sampler.RawEntity
	found := false
	bestDist := math.Inf(1)
	origin := player.Position()

	for _, e := range comps {
		if !strings.Contains(strings.ToLower(e.TypeName), "health") {
			continue
		}
		n, ok := e.Node.Get()
		if !ok {
			continue
		}
		v, err := p.team.Read(e.Source)
		if err != nil || !keywords.Player.Match(v.String()) {
			continue
		}
		d := n.Position().Distance(origin)
		if d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}

// Sample reads the bound value and updates the ratio. A read failure
// discards the binding and returns ErrInvalidated.
func (p *Probe) Sample() (float64, bool, error) {
	p.hasRatio = false
	p.ratio = 1
	if p.binding == nil {
		return p.ratio, false, nil
	}

	b := p.binding
	if !b.Node.Valid() {
		p.Invalidate("source destroyed")
		return p.ratio, false, fmt.Errorf("%w: source destroyed", ErrInvalidated)
	}
	v, err := attr.SafeGet(b.Source, b.Member.Name, b.Member.Accessor)
	if err != nil {
		p.Invalidate(err.Error())
		return p.ratio, false, fmt.Errorf("%w: %w", ErrInvalidated, err)
	}
	if v.IsNil() {
		return p.ratio, false, nil
	}
	cur, ok := v.Float()
	if !ok || math.IsNaN(cur) {
		p.Invalidate("value not numeric")
		return p.ratio, false, fmt.Errorf("%w: %s is %s", ErrInvalidated, b.Member.Name, v.Kind())
	}
	p.Observe(cur)
	return p.ratio, p.hasRatio, nil
}

// Observe feeds one current value through the ratio computation.
func (p *Probe) Observe(cur float64) {
	p.hasRatio = false
	p.ratio = 1
	if cur <= 0 {
		p.ratio = 0
		p.hasRatio = true
		return
	}
	if cur > p.observedMax {
		p.observedMax = cur
	}
	if p.observedMax <= minObservedMax {
		return
	}
	p.ratio = geo.Clamp01(cur / p.observedMax)
	p.hasRatio = true
}

// Invalidate discards the binding. It is re-acquired on the next Bind.
func (p *Probe) Invalidate(reason string) {
	if p.binding == nil {
		return
	}
	p.logger.Debug("Player health binding dropped", "type", p.binding.TypeName, "reason", reason)
	p.clear()
}

func (p *Probe) clear() {
	p.binding = nil
	p.observedMax = 0
	p.hasRatio = false
	p.ratio = 1
}

// Score rates a lower-cased numeric field name as a current-health source.
func Score(name string) int {
	n := strings.ToLower(name)
	s := 0
	if n == "hp" || n == "health" {
		s += 30
	}
	if strings.Contains(n, "cur") || strings.Contains(n, "current") || strings.Contains(n, "now") {
		s += 50
	}
	if strings.Contains(n, "max") {
		s -= 40
	}
	if strings.Contains(n, "hash") || strings.Contains(n, "id") || strings.Contains(n, "index") {
		s -= 60
	}
	return s
}

func healthLike(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "hp") || strings.Contains(n, "health") || strings.Contains(n, "life")
}

func bestField(members []attr.Member) (attr.Member, int, bool) {
	var best attr.Member
	bestScore := math.MinInt
	found := false
	for _, m := range members {
		if m.Accessor != attr.Field || !m.Kind.Numeric() || !healthLike(m.Name) {
			continue
		}
		if s := Score(m.Name); s > bestScore {
			best, bestScore, found = m, s, true
		}
	}
	return best, bestScore, found
}

func firstProperty(members []attr.Member) (attr.Member, bool) {
	for _, m := range members {
		if m.Accessor == attr.Property && m.Kind.Numeric() && healthLike(m.Name) {
			return m, true
		}
	}
	return attr.Member{}, false
}
