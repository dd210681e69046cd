package game

import "github.com/playpool/billiards/internal/models"

// SessionStatus represents the lifecycle state of a hosted session
type SessionStatus string

const (
	StatusActive    SessionStatus = models.SessionActive
	StatusCleared   SessionStatus = models.SessionCleared
	StatusAbandoned SessionStatus = models.SessionAbandoned
	StatusClosed    SessionStatus = models.SessionClosed
)

// Terminal reports whether the status ends a session.
func (s SessionStatus) Terminal() bool {
	return s != StatusActive
}
