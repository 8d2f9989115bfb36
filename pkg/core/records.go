package core

import "time"

// ScanEvent summarises one classification scan.
type ScanEvent struct {
	SessionID     string     `json:"sessionId"`
	Time          time.Time  `json:"time"`
	Frame         uint64     `json:"frame"`
	Entities      int        `json:"entities"`
	Candidates    int        `json:"candidates"`
	Excluded      int        `json:"excluded"`
	Enemies       int        `json:"enemies"`
	PlayerName    string     `json:"playerName"`
	PlayerPos     Position3D `json:"playerPos"`
	HasPlayer     bool       `json:"hasPlayer"`
	EnemyBearings []float64  `json:"enemyBearings"`
}

// LootSpotEvent is one container found by a loot scan.
type LootSpotEvent struct {
	Name     string     `json:"name"`
	Position Position3D `json:"position"`
	Tier     int        `json:"tier"`
	Beamed   bool       `json:"beamed"`
}

// LootScanEvent summarises one loot scan.
type LootScanEvent struct {
	SessionID string          `json:"sessionId"`
	Time      time.Time       `json:"time"`
	Frame     uint64          `json:"frame"`
	Spots     []LootSpotEvent `json:"spots"`
}

// HealthBindingEvent records a health binding being established or dropped.
type HealthBindingEvent struct {
	SessionID string    `json:"sessionId"`
	Time      time.Time `json:"time"`
	Frame     uint64    `json:"frame"`
	TypeName  string    `json:"typeName"`
	Member    string    `json:"member"`
	Accessor  string    `json:"accessor"`
	Bound     bool      `json:"bound"`
	Reason    string    `json:"reason"`
}

// SessionInfo identifies one overlay run.
type SessionInfo struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Version   string    `json:"version"`
}
