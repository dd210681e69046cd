package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Session statuses as stored in game_sessions.status.
const (
	SessionActive    = "ACTIVE"
	SessionCleared   = "CLEARED"
	SessionAbandoned = "ABANDONED"
	SessionClosed    = "CLOSED"
)

// GameSession is one racked table played from start to finish
type GameSession struct {
	ID         int64        `db:"id" json:"id"`
	Token      string       `db:"token" json:"token"`
	PlayerName string       `db:"player_name" json:"player_name"`
	Status     string       `db:"status" json:"status"`
	Score      int          `db:"score" json:"score"`
	Shots      int          `db:"shots" json:"shots"`
	Frames     int64        `db:"frames" json:"frames"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	EndedAt    sql.NullTime `db:"ended_at" json:"ended_at,omitempty"`
}

// SessionResult is what gets written when a session ends
type SessionResult struct {
	SessionID int64
	Status    string
	Score     int
	Shots     int
	Frames    uint64
}

// Shot is one fired impulse
type Shot struct {
	ID         int64     `db:"id" json:"id"`
	SessionID  int64     `db:"session_id" json:"session_id"`
	Frame      int64     `db:"frame" json:"frame"`
	BallNumber int       `db:"ball_number" json:"ball_number"`
	ImpulseX   float64   `db:"impulse_x" json:"impulse_x"`
	ImpulseY   float64   `db:"impulse_y" json:"impulse_y"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Capture is one ball dropping into a pocket
type Capture struct {
	ID         int64     `db:"id" json:"id"`
	SessionID  int64     `db:"session_id" json:"session_id"`
	Frame      int64     `db:"frame" json:"frame"`
	BallNumber int       `db:"ball_number" json:"ball_number"`
	PocketID   int       `db:"pocket_id" json:"pocket_id"`
	Cue        bool      `db:"cue" json:"cue"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ScoreEntry is one leaderboard row
type ScoreEntry struct {
	Token      string    `db:"token" json:"token"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Score      int       `db:"score" json:"score"`
	Shots      int       `db:"shots" json:"shots"`
	EndedAt    time.Time `db:"ended_at" json:"ended_at"`
}

// AdminAccount is an operator allowed to close sessions
type AdminAccount struct {
	Name        string         `db:"name" json:"name"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HasRole reports whether the account carries role.
func (a *AdminAccount) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AdminAudit records one admin action
type AdminAudit struct {
	ID        int64     `db:"id" json:"id"`
	AdminName string    `db:"admin_name" json:"admin_name"`
	IP        string    `db:"ip" json:"ip"`
	Route     string    `db:"route" json:"route"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	Success   bool      `db:"success" json:"success"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RuntimeConfig is one operator-tunable setting
type RuntimeConfig struct {
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	ValueType   string    `db:"value_type" json:"value_type"`
	Description string    `db:"description" json:"description"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
