package models

import "fmt"

// Member pairs a name with a signed net balance. The ledger owns the
// authoritative copies; the settlement planner consumes read-only
// snapshots of them.
type Member struct {
	Name    string `json:"name" yaml:"name"`
	Balance Money  `json:"balance" yaml:"balance"`
}

// Settlement is one recommended point-to-point payment: From pays To.
// Amount is always positive.
type Settlement struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Amount Money  `json:"amount" yaml:"amount"`
}

// NewSettlement builds a settlement, normalizing the amount to its magnitude.
func NewSettlement(from, to string, amount Money) Settlement {
	if amount < 0 {
		amount = -amount
	}
	return Settlement{From: from, To: to, Amount: amount}
}

func (s Settlement) String() string {
	return fmt.Sprintf("%s pays %s: %s", s.From, s.To, s.Amount)
}
