package sprout

import (
	"fmt"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// NO is a helper for test to create money from const wit no currency set
func NO(v float64) Money { return M(v, "") }

var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// sequence returns a deterministic id generator: h1, h2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// testLedger creates a ledger with deterministic ids and clock.
func testLedger(cash Money, holdings ...Holding) *Ledger {
	l := NewLedger(cash, holdings...)
	l.newID = sequence("h")
	l.now = func() time.Time { return testTime }
	return l
}

// holding is a helper to create a usd holding.
func holding(id, symbol string, shares, buy, current float64) Holding {
	return Holding{
		ID:           id,
		Symbol:       symbol,
		Name:         symbol,
		Shares:       Q(shares),
		BuyPrice:     USD(buy),
		CurrentPrice: USD(current),
		AcquiredAt:   testTime,
	}
}

// failingStore is a Store whose Save always fails.
type failingStore struct{ MemoryStore }

func (s *failingStore) Save(key string, data []byte) error {
	return fmt.Errorf("disk full")
}
