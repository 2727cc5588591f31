package models

// Change maps member names to signed balance deltas, the unit of
// every ledger mutation. The deltas of a fully-resolved expense or
// settlement sum to zero: money taken from debtors equals money
// credited to creditors.
type Change map[string]Money

// Reversed returns the change that undoes c when applied.
func (c Change) Reversed() Change {
	r := make(Change, len(c))
	for name, delta := range c {
		r[name] = -delta
	}
	return r
}

// Sum returns the net of all deltas. Zero for conserved changes.
func (c Change) Sum() Money {
	var sum Money
	for _, delta := range c {
		sum += delta
	}
	return sum
}
