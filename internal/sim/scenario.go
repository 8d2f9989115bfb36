package sim

import (
	"math"
	"time"

	"github.com/enemyradar/extension/pkg/core"
)

// Unit is a team-labelled actor.
type Unit struct {
	Team string `attr:"team"`
}

// UnitHealth is the player's health component.
type UnitHealth struct {
	Team      string  `attr:"team"`
	MaxHP     float64 `attr:"maxHp"`
	CurrentHP float64 `attr:"currentHp"`
}

// Item is a graded inventory item.
type Item struct {
	DisplayQuality int `attr:"displayQuality"`
}

// Loot is the inventory of a drop bag.
type Loot struct {
	Items []*Item `attr:"items"`
}

// Cover is a destructible prop that still carries a team label.
type Cover struct {
	Team string `attr:"team"`
}

// LootBagName is the name drop bags are spawned with.
const LootBagName = "LootBox_EnemyDie_Template(Clone)"

type orbiter struct {
	node   *Node
	radius float64
	// angular speed in radians per second
	speed float64
	phase float64
}

// Patrol is a small scripted scene: a player standing at the origin,
// hostiles circling at near, mid and far range, a vendor, a sandbag wall
// held by the hostile team, and three graded drop bags. The player's health
// drains and recovers in a loop.
type Patrol struct {
	World  *World
	Player *Node
	Health *UnitHealth

	raiders []orbiter
}

// NewPatrol builds the Patrol scene.
func NewPatrol() *Patrol {
	w := NewWorld()
	p := &Patrol{World: w}

	p.Player = w.Spawn("Hero", core.Position3D{})
	p.Player.Attach(&Unit{Team: "PlayerSquad"})
	p.Health = &UnitHealth{Team: "PlayerSquad", MaxHP: 100, CurrentHP: 100}
	p.Player.Attach(p.Health)
	w.SetCamera(core.Position3D{Y: 1.7}, core.Forward)

	for i, o := range []struct {
		radius, speed, phase float64
	}{
		{5, 0.6, 0},
		{14, -0.3, math.Pi / 2},
		{28, 0.15, math.Pi},
	} {
		n := w.Spawn(raiderName(i), core.Position3D{})
		n.Attach(&Unit{Team: "HostileRaiders"})
		p.raiders = append(p.raiders, orbiter{node: n, radius: o.radius, speed: o.speed, phase: o.phase})
	}

	vendor := w.Spawn("Vendor", core.Position3D{X: -6, Z: 2})
	vendor.Attach(&Unit{Team: "ShopKeepers"})

	wall := w.Spawn("SandbagWall", core.Position3D{X: 8, Z: 8})
	gunner := w.SpawnChild(wall, "WallGunner", core.Position3D{X: 8, Y: 1, Z: 8})
	gunner.Attach(&Cover{Team: "HostileRaiders"})

	for _, b := range []struct {
		pos     core.Position3D
		quality int
	}{
		{core.Position3D{Z: 12}, 9},
		{core.Position3D{X: -10, Z: -4}, 4},
		{core.Position3D{X: 6, Z: -3}, 1},
	} {
		bag := w.Spawn(LootBagName, b.pos)
		bag.Attach(&Loot{Items: []*Item{{DisplayQuality: b.quality}}})
	}

	p.Step(0)
	return p
}

func raiderName(i int) string {
	return "Raider" + string(rune('A'+i))
}

// Step moves the scene to time t.
func (p *Patrol) Step(t time.Duration) {
	s := t.Seconds()
	for _, r := range p.raiders {
		a := r.phase + r.speed*s
		r.node.SetPosition(core.Position3D{X: r.radius * math.Sin(a), Z: r.radius * math.Cos(a)})
	}
	// 20 second cycle: full, drains to 10%, recovers.
	phase := math.Mod(s, 20) / 20
	p.Health.CurrentHP = 100 - 90*math.Sin(phase*math.Pi)
}
