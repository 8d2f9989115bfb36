package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enemyradar/extension/internal/sampler"
	"github.com/enemyradar/extension/internal/sim"
	"github.com/enemyradar/extension/pkg/attr"
	"github.com/enemyradar/extension/pkg/core"
)

type unit struct {
	Team string `attr:"team"`
}

type unitProp struct{ label string }

func (u *unitProp) Team() string { return u.label }

type brokenTeam struct{}

func (brokenTeam) TypeName() string { return "BrokenTeam" }
func (brokenTeam) Members() []attr.Member {
	return []attr.Member{{Name: "team", Accessor: attr.Field, Kind: attr.KindString}}
}
func (brokenTeam) Get(string, attr.Accessor) (attr.Value, error) { panic("disposed") }

func classify(w *sim.World) Result {
	origin, _, _ := w.View()
	return New(nil).Classify(sampler.New(w, nil).Sample(), origin)
}

func names(hs []Entity) []string {
	var out []string
	for _, e := range hs {
		out = append(out, e.Name)
	}
	return out
}

func TestTeamRole(t *testing.T) {
	tests := []struct {
		team string
		want core.Role
	}{
		{"", core.RoleUnknown},
		{"PlayerSquad", core.RolePlayer},
		{"player_ally", core.RolePlayer},
		{"Friendly", core.RoleAllyOrNeutral},
		{"Civilians", core.RoleAllyOrNeutral},
		{"ShopKeepers", core.RoleAllyOrNeutral},
		{"TrainingDummy", core.RoleAllyOrNeutral},
		{"HostileRaiders", core.RoleEnemy},
		{"Monster", core.RoleEnemy},
	}
	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			assert.Equal(t, tt.want, TeamRole(tt.team))
		})
	}
}

func TestClassify_PlayerAndEnemy(t *testing.T) {
	w := sim.NewWorld()
	w.SetCamera(core.Position3D{Y: 2}, core.Forward)
	hero := w.Spawn("Hero", core.Position3D{})
	hero.Attach(&unit{Team: "PlayerSquad"})
	raider := w.Spawn("Raider", core.Position3D{Z: 5})
	raider.Attach(&unit{Team: "HostileRaiders"})
	shop := w.Spawn("Merchant", core.Position3D{X: 3})
	shop.Attach(&unit{Team: "Vendor"})

	res := classify(w)

	require.True(t, res.HasPlayer())
	assert.True(t, res.Player.Is(hero.ID()))
	assert.Equal(t, "Hero", res.PlayerName)
	require.Len(t, res.Enemies, 1)
	assert.True(t, res.Enemies[0].Is(raider.ID()))
	assert.Equal(t, []string{"Hero", "Raider", "Merchant"}, names(res.Candidates))
	assert.Equal(t, core.RoleAllyOrNeutral, res.Candidates[2].Role)
	assert.Equal(t, 3, res.Sampled)
	assert.Equal(t, "candidates=3 enemies=1 player=Hero", res.Describe())
}

func TestClassify_PlayerNeverEnemy(t *testing.T) {
	// With no player-team label the nearest candidate becomes the player,
	// even if it is labelled hostile.
	w := sim.NewWorld()
	near := w.Spawn("A", core.Position3D{Z: 1})
	near.Attach(&unit{Team: "Raiders"})
	far := w.Spawn("B", core.Position3D{Z: 9})
	far.Attach(&unit{Team: "Raiders"})

	res := classify(w)

	require.True(t, res.HasPlayer())
	assert.True(t, res.Player.Is(near.ID()))
	require.Len(t, res.Enemies, 1)
	assert.True(t, res.Enemies[0].Is(far.ID()))
	for _, e := range res.Candidates {
		if e.Node.Same(res.Player) {
			assert.Equal(t, core.RolePlayer, e.Role)
		}
	}
	for _, h := range res.Enemies {
		assert.False(t, h.Same(res.Player))
	}
}

func TestClassify_PlayerNearestToView(t *testing.T) {
	w := sim.NewWorld()
	w.SetCamera(core.Position3D{X: 100}, core.Forward)
	w.Spawn("P1", core.Position3D{}).Attach(&unit{Team: "Player"})
	p2 := w.Spawn("P2", core.Position3D{X: 90})
	p2.Attach(&unit{Team: "Player"})

	res := classify(w)
	assert.True(t, res.Player.Is(p2.ID()))
}

func TestClassify_PlayerTieFirstWins(t *testing.T) {
	w := sim.NewWorld()
	first := w.Spawn("P1", core.Position3D{X: 1})
	first.Attach(&unit{Team: "Player"})
	w.Spawn("P2", core.Position3D{X: -1}).Attach(&unit{Team: "Player"})

	res := classify(w)
	assert.True(t, res.Player.Is(first.ID()))
}

func TestClassify_ExclusionClimbsAncestors(t *testing.T) {
	w := sim.NewWorld()
	w.Spawn("Hero", core.Position3D{}).Attach(&unit{Team: "Player"})

	camp := w.Spawn("Camp", core.Position3D{Z: 10})
	camp.Attach(&unit{Team: "Raiders"})
	wall := w.SpawnChild(camp, "Wall", core.Position3D{Z: 10})
	bag := w.SpawnChild(wall, "SandBag_02", core.Position3D{Z: 10})
	bag.Attach(&unit{Team: "Raiders"})

	owner := w.Spawn("Tamer", core.Position3D{Z: 4})
	owner.Attach(&unit{Team: "Raiders"})
	w.SpawnChild(owner, "Wolf", core.Position3D{Z: 4}).Attach(&unit{Team: "RaiderPet"})

	res := classify(w)

	for _, n := range []*sim.Node{camp, wall, bag, owner} {
		assert.True(t, res.Excluded.Has(n.ID()), n.Name())
	}
	assert.Empty(t, res.Enemies)
	assert.Equal(t, []string{"Hero"}, names(res.Candidates))
}

func TestClassify_ExcludedByTypeName(t *testing.T) {
	type TombStone struct {
		Team string `attr:"team"`
	}
	w := sim.NewWorld()
	w.Spawn("Hero", core.Position3D{}).Attach(&unit{Team: "Player"})
	w.Spawn("Grave", core.Position3D{Z: 3}).Attach(&TombStone{Team: "Undead"})

	res := classify(w)
	assert.Empty(t, res.Enemies)
	assert.Len(t, res.Excluded, 1)
}

func TestClassify_TeamAsProperty(t *testing.T) {
	w := sim.NewWorld()
	w.Spawn("Hero", core.Position3D{}).Attach(&unitProp{label: "Player"})
	w.Spawn("Orc", core.Position3D{Z: 3}).Attach(&unitProp{label: "Horde"})

	res := classify(w)
	assert.True(t, res.HasPlayer())
	assert.Len(t, res.Enemies, 1)
}

func TestClassify_NoTeamNoCandidate(t *testing.T) {
	type Crate struct{ Weight float64 }
	w := sim.NewWorld()
	w.Spawn("Crate", core.Position3D{}).Attach(&Crate{Weight: 3})
	w.Spawn("Orc", core.Position3D{}).Attach(&unit{Team: ""})
	w.Spawn("Broken", core.Position3D{}).AttachSource(brokenTeam{})

	res := classify(w)
	assert.Empty(t, res.Candidates)
	assert.False(t, res.HasPlayer())
	assert.Empty(t, res.Enemies)
}

func TestClassify_EmptyWorld(t *testing.T) {
	c := New(nil)
	var res Result
	assert.NotPanics(t, func() { res = c.Classify(nil, core.Position3D{}) })
	assert.Empty(t, res.Candidates)
	assert.False(t, res.HasPlayer())
	assert.Equal(t, "candidates=0 enemies=0 player=none", res.Describe())
}

func TestClassify_DeadNodesSkipped(t *testing.T) {
	w := sim.NewWorld()
	hero := w.Spawn("Hero", core.Position3D{})
	hero.Attach(&unit{Team: "Player"})
	orc := w.Spawn("Orc", core.Position3D{Z: 2})
	orc.Attach(&unit{Team: "Horde"})

	raw := sampler.New(w, nil).Sample()
	orc.Destroy()

	res := New(nil).Classify(raw, core.Position3D{})
	assert.Empty(t, res.Enemies)
	assert.Equal(t, []string{"Hero"}, names(res.Candidates))
}

func TestClassify_MultipleComponentsOneNode(t *testing.T) {
	w := sim.NewWorld()
	hero := w.Spawn("Hero", core.Position3D{})
	hero.Attach(&unit{Team: "Player"})
	hero.Attach(&unitProp{label: "Player"})

	res := classify(w)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Player", res.Candidates[0].Team)
}
