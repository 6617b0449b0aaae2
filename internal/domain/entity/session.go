package entity

import "time"

// SessionMeta is the durable part of a session: everything needed to
// regenerate its population deterministically.
type SessionMeta struct {
	SessionID string    `json:"session_id"`
	Seed      int64     `json:"seed"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
