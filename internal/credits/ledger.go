package credits

import "sync"

// Credit costs and grants. Credits are an abstract usage-cost unit; they are
// intentionally not persisted across restarts.
const (
	LoginGrant   = 1000
	SendCost     = 5
	ArtifactCost = 95
)

// Packs purchasable from the top-up surface.
var Packs = map[string]int{
	"starter":      5000,
	"professional": 25000,
	"enterprise":   100000,
}

// Ledger tracks per-user balances. A balance is never observable below zero:
// a debit that would underflow is rejected and leaves the balance unchanged.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]int)}
}

// Balance returns the user's current balance.
func (l *Ledger) Balance(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

// Grant adds amount to the user's balance.
func (l *Ledger) Grant(userID string, amount int) int {
	if amount < 0 {
		amount = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] += amount
	return l.balances[userID]
}

// Reset sets the balance to the fixed login grant.
func (l *Ledger) Reset(userID string, amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = amount
	return amount
}

// Debit subtracts amount when the balance covers it. Returns false and
// leaves the balance unchanged otherwise; the caller surfaces the top-up
// flow, not an error.
func (l *Ledger) Debit(userID string, amount int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[userID] < amount {
		return false
	}
	l.balances[userID] -= amount
	return true
}
