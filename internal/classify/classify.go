// Package classify assigns roles to sampled entities from their names, type
// names and team labels.
package classify

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/enemyradar/extension/internal/cache"
	"github.com/enemyradar/extension/internal/keywords"
	"github.com/enemyradar/extension/internal/sampler"
	"github.com/enemyradar/extension/pkg/core"
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// TeamAttribute is the attribute carrying an entity's team label.
const TeamAttribute = "team"

// Entity is a classified node.
type Entity struct {
	Node handle.Handle[hostapi.Node]
	Name string
	// Team is the last non-empty team label seen on the node.
	Team string
	Role core.Role
}

// Result is the outcome of one classification pass.
type Result struct {
	// Candidates are the team-bearing nodes that survived exclusion, in
	// first-seen order.
	Candidates []Entity
	Excluded   handle.Set
	Player     handle.Handle[hostapi.Node]
	PlayerName string
	Enemies    []handle.Handle[hostapi.Node]
	Sampled    int
}

// HasPlayer reports whether a player node was selected.
func (r Result) HasPlayer() bool {
	return !r.Player.IsZero()
}

// TeamRole maps a non-empty team label to a role.
func TeamRole(team string) core.Role {
	switch {
	case team == "":
		return core.RoleUnknown
	case keywords.Player.Match(team):
		return core.RolePlayer
	case keywords.Friendly.Match(team):
		return core.RoleAllyOrNeutral
	default:
		return core.RoleEnemy
	}
}

// Classifier is the entity classifier. It keeps a per-type team member cache
// across passes.
type Classifier struct {
	team   *cache.MemberCache
	logger *slog.Logger
}

// New creates a Classifier. logger may be nil.
func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{
		team:   cache.NewMemberCache(TeamAttribute),
		logger: logger,
	}
}

// TeamOf reads the team label of a component through the shared cache.
// Failures read as an empty label.
func (c *Classifier) TeamOf(e sampler.RawEntity) string {
	v, err := c.team.Read(e.Source)
	if err != nil {
		if _, ok := c.team.Resolve(e.Source); ok {
			c.logger.Debug("Team attribute unreadable", "type", e.TypeName, "error", err)
		}
		return ""
	}
	return v.String()
}

type accum struct {
	node   hostapi.Node
	handle handle.Handle[hostapi.Node]
	name   string
	team   string
	player bool
	enemy  bool
	ally   bool
}

// Classify runs one pass. viewOrigin is used to pick the player; pass the
// world origin when no view exists.
func (c *Classifier) Classify(raw []sampler.RawEntity, viewOrigin core.Position3D) Result {
	res := Result{Excluded: handle.Set{}, Sampled: len(raw)}
	if len(raw) == 0 {
		return res
	}

	byNode := make(map[handle.ID]*accum)
	var order []*accum

	for _, e := range raw {
		n, ok := e.Node.Get()
		if !ok {
			continue
		}

		team := c.TeamOf(e)
		if keywords.Excluded(e.Name, e.TypeName, team) {
			excludeChain(res.Excluded, n)
		}
		if team == "" {
			continue
		}

		a, seen := byNode[n.ID()]
		if !seen {
			a = &accum{node: n, handle: e.Node, name: e.Name}
			byNode[n.ID()] = a
			order = append(order, a)
		}
		a.team = team
		switch TeamRole(team) {
		case core.RolePlayer:
			a.player = true
		case core.RoleEnemy:
			a.enemy = true
		case core.RoleAllyOrNeutral:
			a.ally = true
		}
	}

	var live []*accum
	for _, a := range order {
		if res.Excluded.Has(a.node.ID()) || !a.handle.Valid() {
			continue
		}
		live = append(live, a)
	}
	if len(live) == 0 {
		c.logger.Debug("Classification found no candidates", "sampled", len(raw), "excluded", len(res.Excluded))
		return res
	}

	player := nearest(live, viewOrigin, func(a *accum) bool { return a.player })
	if player == nil {
		player = nearest(live, viewOrigin, func(*accum) bool { return true })
	}
	if player != nil {
		res.Player = player.handle
		res.PlayerName = player.name
	}

	for _, a := range live {
		role := a.role()
		if a == player {
			// The selected player is never hostile, whatever its label says.
			role = core.RolePlayer
		}
		res.Candidates = append(res.Candidates, Entity{
			Node: a.handle,
			Name: a.name,
			Team: a.team,
			Role: role,
		})
		if role != core.RoleEnemy {
			continue
		}
		res.Enemies = append(res.Enemies, a.handle)
	}

	c.logger.Debug("Classification complete",
		"sampled", len(raw),
		"candidates", len(res.Candidates),
		"excluded", len(res.Excluded),
		"enemies", len(res.Enemies),
		"player", res.PlayerName)
	return res
}

func (a *accum) role() core.Role {
	switch {
	case a.player:
		return core.RolePlayer
	case a.enemy:
		return core.RoleEnemy
	case a.ally:
		return core.RoleAllyOrNeutral
	}
	return core.RoleUnknown
}

// excludeChain adds n and its ownership ancestors, stopping at the first node
// already present.
func excludeChain(set handle.Set, n hostapi.Node) {
	for n != nil {
		if !set.Add(n.ID()) {
			return
		}
		p, ok := n.Parent()
		if !ok {
			return
		}
		n = p
	}
}

// nearest returns the first accepted entry with the smallest distance to origin.
func nearest(cands []*accum, origin core.Position3D, accept func(*accum) bool) *accum {
	var best *accum
	bestDist := math.Inf(1)
	for _, a := range cands {
		if !accept(a) {
			continue
		}
		d := a.node.Position().Distance(origin)
		if d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// Describe renders a compact one-line summary for logs.
func (r Result) Describe() string {
	player := "none"
	if r.HasPlayer() {
		player = r.PlayerName
	}
	return fmt.Sprintf("candidates=%d enemies=%d player=%s", len(r.Candidates), len(r.Enemies), player)
}
