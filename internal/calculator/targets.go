package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/grouptab/grouptab/internal/models"
)

// ParseTarget turns one raw payer/receiver directive into a Target.
//
// The grammar is `<name>` or `<name>:<number>[%]`. A bare name is a
// wildcard target whose share is resolved later by equal distribution.
// A number ending in '%' is a percentage of total; otherwise the number
// is in major units (e.g. "25.22" euros) and converted to cents. Both
// '.' and ',' work as decimal separator. Rounding is half away from zero.
func ParseTarget(directive string, total models.Money) (models.Target, error) {
	percent := strings.HasSuffix(directive, "%")
	parts := strings.Split(strings.TrimSuffix(directive, "%"), ":")
	if parts[0] == "" {
		return models.Target{}, fmt.Errorf("%w: %q, use <name>[:<number>[%%]]", models.ErrInvalidTargetFormat, directive)
	}
	switch len(parts) {
	case 1:
		if !models.ValidName(parts[0]) {
			return models.Target{}, fmt.Errorf("%w: %q", models.ErrInvalidName, parts[0])
		}
		return models.Target{Member: parts[0]}, nil
	case 2:
		var amount models.Money
		if percent {
			f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(parts[1], ",", ".")), 64)
			if err != nil {
				return models.Target{}, fmt.Errorf("%w: %q in %q", models.ErrInvalidNumberFormat, parts[1], directive)
			}
			amount = models.Money(math.Round(f / 100 * float64(total)))
		} else {
			var err error
			amount, err = models.ParseDecimal(parts[1])
			if err != nil {
				return models.Target{}, fmt.Errorf("%w in %q", err, directive)
			}
		}
		return models.Target{Member: parts[0], Amount: &amount}, nil
	default:
		return models.Target{}, fmt.Errorf("%w: %q has more than one ':'", models.ErrInvalidTargetFormat, directive)
	}
}

// ParseTargets parses a list of directives against the expense total.
// It returns the targets, the sum of all explicit amounts and the
// number of wildcard targets. Explicit amounts exceeding the total in
// magnitude are rejected as ErrInvalidSemantic.
func ParseTargets(directives []string, total models.Money) ([]models.Target, models.Money, int, error) {
	targets := make([]models.Target, 0, len(directives))
	var explicit models.Money
	wildcards := 0
	for _, d := range directives {
		t, err := ParseTarget(d, total)
		if err != nil {
			return nil, 0, 0, err
		}
		if t.Wildcard() {
			wildcards++
		} else {
			explicit += *t.Amount
		}
		targets = append(targets, t)
	}
	if abs(explicit) > total {
		return nil, 0, 0, fmt.Errorf("%w: explicit amounts sum to %s, more than the total %s",
			models.ErrInvalidSemantic, explicit, total)
	}
	return targets, explicit, wildcards, nil
}

func abs(m models.Money) models.Money {
	if m < 0 {
		return -m
	}
	return m
}
