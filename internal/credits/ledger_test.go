package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_GrantAndBalance(t *testing.T) {
	l := NewLedger()

	assert.Equal(t, 0, l.Balance("user-1"))
	assert.Equal(t, LoginGrant, l.Reset("user-1", LoginGrant))
	assert.Equal(t, LoginGrant, l.Balance("user-1"))

	assert.Equal(t, LoginGrant+Packs["starter"], l.Grant("user-1", Packs["starter"]))
}

func TestLedger_ResetIsIdempotent(t *testing.T) {
	l := NewLedger()

	l.Reset("user-1", LoginGrant)
	l.Debit("user-1", SendCost)
	assert.Equal(t, LoginGrant-SendCost, l.Balance("user-1"))

	// A fresh login restores the full grant rather than stacking it.
	l.Reset("user-1", LoginGrant)
	assert.Equal(t, LoginGrant, l.Balance("user-1"))
}

func TestLedger_DebitRejectsUnderflow(t *testing.T) {
	l := NewLedger()
	l.Reset("user-1", 40)

	// 40 < 5 + 95: the base charge lands but the artifact charge must not.
	assert.True(t, l.Debit("user-1", SendCost))
	assert.Equal(t, 35, l.Balance("user-1"))

	assert.False(t, l.Debit("user-1", ArtifactCost))
	assert.Equal(t, 35, l.Balance("user-1"))
}

func TestLedger_BalanceNeverNegative(t *testing.T) {
	l := NewLedger()
	l.Reset("user-1", 12)

	for i := 0; i < 10; i++ {
		l.Debit("user-1", SendCost)
	}
	assert.GreaterOrEqual(t, l.Balance("user-1"), 0)
	assert.Equal(t, 2, l.Balance("user-1"))
}
