// Package calculator implements the allocation and settlement engine:
// directive parsing, equal-split distribution with exact remainder
// handling, expense allocation into zero-sum balance deltas, and the
// greedy debt-settlement planner. Everything here is a pure function
// over in-memory values; applying results to a group is the ledger's job.
package calculator

import (
	"fmt"

	"github.com/grouptab/grouptab/internal/models"
)

// SplitEqualAmong divides total into among integer shares that differ
// by at most one minor unit and sum to total exactly. The remainder is
// handed out one unit per share starting at index 0, in the direction
// of total's sign, so negative totals mirror positive ones.
func SplitEqualAmong(total models.Money, among int) []models.Money {
	shares := make([]models.Money, among)
	base := total / models.Money(among)
	rem := total % models.Money(among)
	step := models.Money(1)
	if rem < 0 {
		step = -1
	}
	for i := range shares {
		shares[i] = base
		if rem != 0 {
			shares[i] += step
			rem -= step
		}
	}
	return shares
}

// SplitIntoTransaction allocates an expense of total across the group.
//
// The from directives name who fronted the money, the to directives who
// explicitly consumed part of it; the unassigned remainder is consumed
// equally by everyone not named in to, or by the whole group when
// balanceRest is set. members is the group's member list in its stable
// order, which makes remainder assignment deterministic.
//
// The returned change maps every member to a signed delta and nets to
// zero. The resolved from/to targets are returned for logging.
func SplitIntoTransaction(total models.Money, members []string, from, to []string, balanceRest bool) (models.Change, []models.Target, []models.Target, error) {
	givers, fromSum, fromWildcards, err := ParseTargets(from, total)
	if err != nil {
		return nil, nil, nil, err
	}
	receivers, toSum, toWildcards, err := ParseTargets(to, total)
	if err != nil {
		return nil, nil, nil, err
	}
	if toWildcards > 0 {
		return nil, nil, nil, fmt.Errorf("%w: receiver amounts must be explicit", models.ErrInvalidTargetFormat)
	}
	if fromWildcards == 0 {
		if fromSum != total {
			return nil, nil, nil, fmt.Errorf("%w: payer amounts sum to %s, not the total %s; add a wildcard payer or adjust",
				models.ErrInvalidSemantic, fromSum, total)
		}
		if fromSum <= toSum {
			return nil, nil, nil, fmt.Errorf("%w: payer amounts must exceed receiver amounts or include a wildcard",
				models.ErrInvalidSemantic)
		}
	}

	known := make(map[string]bool, len(members))
	for _, name := range members {
		known[name] = true
	}
	giverFor := make(map[string]models.Target, len(givers))
	for _, g := range givers {
		if !known[g.Member] {
			return nil, nil, nil, fmt.Errorf("%w: %q", models.ErrMemberNotFound, g.Member)
		}
		if _, ok := giverFor[g.Member]; ok {
			return nil, nil, nil, fmt.Errorf("%w: %q appears more than once as a payer", models.ErrInvalidSemantic, g.Member)
		}
		giverFor[g.Member] = g
	}
	receiverFor := make(map[string]models.Target, len(receivers))
	for _, r := range receivers {
		if !known[r.Member] {
			return nil, nil, nil, fmt.Errorf("%w: %q", models.ErrMemberNotFound, r.Member)
		}
		if _, ok := receiverFor[r.Member]; ok {
			return nil, nil, nil, fmt.Errorf("%w: %q appears more than once as a receiver", models.ErrInvalidSemantic, r.Member)
		}
		receiverFor[r.Member] = r
	}

	// Positive leg: payers are credited what they fronted. Wildcard
	// payers share whatever the explicit payers left open.
	change := make(models.Change, len(members))
	var payerShares []models.Money
	if fromWildcards > 0 {
		payerShares = SplitEqualAmong(total-fromSum, fromWildcards)
	}
	pi := 0
	for _, name := range members {
		g, ok := giverFor[name]
		switch {
		case ok && g.Wildcard():
			change[name] = payerShares[pi]
			pi++
		case ok:
			change[name] = *g.Amount
		default:
			change[name] = 0
		}
	}

	// Negative leg: explicit receivers consume their stated amounts,
	// the rest of the expense is consumed equally. Without balanceRest
	// the explicit receivers sit out of that equal share.
	shareCount := len(receiverFor)
	rest := total - toSum
	consumers := len(members)
	if !balanceRest {
		consumers -= shareCount
	}
	var restShares []models.Money
	if consumers > 0 {
		restShares = SplitEqualAmong(rest, consumers)
	} else if rest != 0 {
		return nil, nil, nil, fmt.Errorf("%w: %s of the expense is left with nobody to consume it",
			models.ErrInvalidSemantic, rest)
	}
	si := 0
	for _, name := range members {
		if r, ok := receiverFor[name]; ok {
			change[name] -= *r.Amount
			if balanceRest {
				change[name] -= restShares[si]
				si++
			}
		} else {
			change[name] -= restShares[si]
			si++
		}
	}
	return change, givers, receivers, nil
}
