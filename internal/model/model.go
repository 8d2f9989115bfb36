// Package model holds the GORM tables of the scan journal.
package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// DatabaseModels lists every journal table, in migration order.
var DatabaseModels = []any{
	&Session{},
	&ScanEvent{},
	&LootScanEvent{},
	&LootSpot{},
	&HealthBindingEvent{},
}

// Session is one overlay run.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	StartedAt time.Time `json:"startedAt"`
	Version   string    `json:"version" gorm:"size:32"`
}

func (*Session) TableName() string {
	return "sessions"
}

// ScanEvent is one classification scan.
type ScanEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID  string    `json:"sessionId" gorm:"size:36;index"`
	Time       time.Time `json:"time" gorm:"index"`
	Frame      uint64    `json:"frame"`
	Entities   int       `json:"entities"`
	Candidates int       `json:"candidates"`
	Excluded   int       `json:"excluded"`
	Enemies    int       `json:"enemies"`
	HasPlayer  bool      `json:"hasPlayer"`
	PlayerName string    `json:"playerName" gorm:"size:127"`
	// PlayerPosition is X/Z on the ground plane with height as Z.
	PlayerPosition geom.Point     `json:"playerPosition"`
	EnemyBearings  datatypes.JSON `json:"enemyBearings"`
}

func (*ScanEvent) TableName() string {
	return "scan_events"
}

// LootScanEvent is one loot scan.
type LootScanEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID string         `json:"sessionId" gorm:"size:36;index"`
	Time      time.Time      `json:"time" gorm:"index"`
	Frame     uint64         `json:"frame"`
	SpotCount int            `json:"spotCount"`
	BestTier  int            `json:"bestTier"`
	Tiers     datatypes.JSON `json:"tiers"`
	Spots     []LootSpot     `json:"spots" gorm:"foreignKey:LootScanEventID"`
}

func (*LootScanEvent) TableName() string {
	return "loot_scan_events"
}

// LootSpot is one container seen by a loot scan.
type LootSpot struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	LootScanEventID uint       `json:"lootScanEventId" gorm:"index"`
	Name            string     `json:"name" gorm:"size:127"`
	Location        geom.Point `json:"location"`
	Tier            int        `json:"tier"`
	Beamed          bool       `json:"beamed"`
}

func (*LootSpot) TableName() string {
	return "loot_spots"
}

// HealthBindingEvent records a health binding being made or dropped.
type HealthBindingEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"sessionId" gorm:"size:36;index"`
	Time      time.Time `json:"time"`
	Frame     uint64    `json:"frame"`
	TypeName  string    `json:"typeName" gorm:"size:127"`
	Member    string    `json:"member" gorm:"size:127"`
	Accessor  string    `json:"accessor" gorm:"size:16"`
	Bound     bool      `json:"bound"`
	Reason    string    `json:"reason" gorm:"size:255"`
}

func (*HealthBindingEvent) TableName() string {
	return "health_binding_events"
}
