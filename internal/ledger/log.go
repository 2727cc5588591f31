package ledger

import (
	"fmt"
	"strings"

	"github.com/grouptab/grouptab/internal/models"
)

// LogKind discriminates what produced a log entry.
type LogKind string

const (
	LogSplit  LogKind = "split"
	LogPay    LogKind = "pay"
	LogSettle LogKind = "settle"
)

// LogEntry records one applied balance change with enough metadata to
// describe and reverse it. Entries are append-only; their position in
// the group log is their index.
type LogEntry struct {
	Kind        LogKind         `json:"kind" yaml:"kind"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty"`
	Amount      models.Money    `json:"amount,omitempty" yaml:"amount,omitempty"`
	From        []models.Target `json:"from,omitempty" yaml:"from,omitempty"`
	To          []models.Target `json:"to,omitempty" yaml:"to,omitempty"`
	Payer       string          `json:"payer,omitempty" yaml:"payer,omitempty"`
	Payee       string          `json:"payee,omitempty" yaml:"payee,omitempty"`
	BalanceRest bool            `json:"balance_rest,omitempty" yaml:"balance_rest,omitempty"`
	Change      models.Change   `json:"change" yaml:"change"`
	CreatedAt   int64           `json:"created_at" yaml:"created_at"`
}

// Reversed returns the change that undoes this entry.
func (e *LogEntry) Reversed() models.Change {
	return e.Change.Reversed()
}

// String renders the entry for log listings and undo confirmations.
func (e *LogEntry) String() string {
	switch e.Kind {
	case LogPay:
		return fmt.Sprintf("pay: %s to %s: %s", e.Payer, e.Payee, e.Amount)
	case LogSettle:
		return fmt.Sprintf("settle: %d members, %s moved", len(e.Change), e.Amount)
	case LogSplit:
		var b strings.Builder
		fmt.Fprintf(&b, "split: `%s` %s paid by ", e.Label, e.Amount)
		for i, t := range e.From {
			if i > 0 {
				b.WriteString(", ")
			}
			if t.Wildcard() {
				fmt.Fprintf(&b, "%s: *", t.Member)
			} else {
				fmt.Fprintf(&b, "%s: %s", t.Member, *t.Amount)
			}
		}
		if len(e.To) > 0 {
			b.WriteString(" for ")
			for i, t := range e.To {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s: %s", t.Member, *t.Amount)
			}
		}
		if e.BalanceRest {
			b.WriteString(", balancing the rest")
		}
		return b.String()
	default:
		return string(e.Kind)
	}
}
