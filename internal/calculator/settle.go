package calculator

import (
	"sort"

	"github.com/grouptab/grouptab/internal/models"
)

// PlanSettlement computes a short list of point-to-point payments that
// zero out every member's balance. The input balances must net to zero,
// which the allocator guarantees by construction; zero-balance members
// are ignored.
//
// Two passes over the balances, both deterministic:
//  1. exact matching: each debtor is paired with a creditor whose
//     balance exactly offsets theirs, scanning creditors in ascending
//     balance order and stopping once creditors get too large;
//  2. remainder matching: two cursors walk the remaining debtors and
//     creditors, settling the smaller of need and surplus each step.
//
// The greedy pairing is not provably minimal in transaction count, but
// it is reproducible, which matters more: the list is user-visible.
func PlanSettlement(members []models.Member) []models.Settlement {
	var creditors, debtors []models.Member
	for _, m := range members {
		switch {
		case m.Balance > 0:
			creditors = append(creditors, m)
		case m.Balance < 0:
			debtors = append(debtors, m)
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Balance < creditors[j].Balance
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return -debtors[i].Balance < -debtors[j].Balance
	})

	var plan []models.Settlement

	// Exact-match pass.
	for di := range debtors {
		d := &debtors[di]
		for ci := range creditors {
			c := &creditors[ci]
			if c.Balance == 0 {
				continue
			}
			if -d.Balance < c.Balance {
				break
			}
			if d.Balance == -c.Balance {
				plan = append(plan, models.NewSettlement(d.Name, c.Name, c.Balance))
				d.Balance, c.Balance = 0, 0
				break
			}
		}
	}

	// Remainder pass.
	ci := 0
	for di := range debtors {
		d := &debtors[di]
		for d.Balance != 0 && ci < len(creditors) {
			c := &creditors[ci]
			if c.Balance == 0 {
				ci++
				continue
			}
			amount := c.Balance
			if -d.Balance < amount {
				amount = -d.Balance
			}
			plan = append(plan, models.NewSettlement(d.Name, c.Name, amount))
			d.Balance += amount
			c.Balance -= amount
			if c.Balance == 0 {
				ci++
			}
		}
	}
	return plan
}
