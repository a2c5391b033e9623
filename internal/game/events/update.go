// Package events carries the notifications produced when a turn's directives
// are applied.
package events

import "fmt"

// Ledger names the part of the game state an update refers to.
type Ledger string

const (
	LedgerJournal    Ledger = "journal"
	LedgerReputation Ledger = "reputation"
	LedgerPeople     Ledger = "people"
	LedgerInventory  Ledger = "inventory"
	LedgerWorld      Ledger = "world"
	LedgerVitals     Ledger = "vitals"
	LedgerKnowledge  Ledger = "knowledge"
	LedgerAct        Ledger = "act"
	LedgerCue        Ledger = "cue"
	LedgerNone       Ledger = ""
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Update is one user-facing notification, e.g. "Item Acquired: Torn Cloak".
type Update struct {
	Ledger  Ledger `json:"ledger,omitempty"`
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

func Info(l Ledger, format string, args ...any) Update {
	return Update{Ledger: l, Message: fmt.Sprintf(format, args...), Level: LevelInfo}
}

func Warning(l Ledger, format string, args ...any) Update {
	return Update{Ledger: l, Message: fmt.Sprintf(format, args...), Level: LevelWarning}
}

func (u Update) IsWarning() bool { return u.Level == LevelWarning }

// Warnings returns the subset of us at warning level, in order.
func Warnings(us []Update) []Update {
	var out []Update
	for _, u := range us {
		if u.IsWarning() {
			out = append(out, u)
		}
	}
	return out
}

// Signed renders a delta the way notifications show it: "+2", "-1", "0".
func Signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
