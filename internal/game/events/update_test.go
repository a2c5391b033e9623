package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	u := Info(LedgerInventory, "Item Acquired: %s", "Torn Cloak")
	assert.Equal(t, Update{Ledger: LedgerInventory, Message: "Item Acquired: Torn Cloak", Level: LevelInfo}, u)
	assert.False(t, u.IsWarning())

	w := Warning(LedgerReputation, "unknown faction %q", "Nobody")
	assert.True(t, w.IsWarning())
	assert.Equal(t, `unknown faction "Nobody"`, w.Message)
}

func TestWarningsKeepsOrder(t *testing.T) {
	us := []Update{
		Warning(LedgerAct, "a"),
		Info(LedgerAct, "b"),
		Warning(LedgerNone, "c"),
	}
	got := Warnings(us)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Message)
	assert.Equal(t, "c", got[1].Message)
	assert.Nil(t, Warnings([]Update{Info(LedgerAct, "x")}))
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+1", Signed(1))
	assert.Equal(t, "-3", Signed(-3))
	assert.Equal(t, "0", Signed(0))
}
