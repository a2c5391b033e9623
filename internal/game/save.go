package game

import (
	"time"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

// Save is everything needed to resume a session.
type Save struct {
	SessionID string        `json:"sessionId"`
	Character Character     `json:"character"`
	History   *History      `json:"history"`
	Ledgers   *ledger.Store `json:"ledgers"`
	Scene     Scene         `json:"scene"`
	SavedAt   time.Time     `json:"savedAt"`
}
