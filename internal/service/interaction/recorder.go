// Package interaction records visitor conversations with digital twins so
// profile owners can review what their twin said while they were away.
package interaction

import (
	"context"
	"time"
)

// Record is one visitor-to-twin exchange.
type Record struct {
	ID             string    `json:"id"`
	ProfileID      string    `json:"profileId"`
	LobbyID        string    `json:"lobbyId"`
	VisitorMessage string    `json:"visitorMessage"`
	TwinResponse   string    `json:"twinResponse"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Recorder persists twin interactions. Writes are fire-and-forget at the
// call site: a failed write is logged by the caller and never affects the
// user-visible result.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, profileID string, limit int) ([]Record, error)
}
