package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// historyTimeLayout is the timestamp format used in rendered history lines.
const historyTimeLayout = "02-01-2006 15:04:05"

// HistoryKind identifies the mutation a history entry records.
type HistoryKind string

const (
	HistoryCreated         HistoryKind = "CREATED"
	HistoryBudgetEdited    HistoryKind = "BUDGET_EDITED"
	HistoryDetailsEdited   HistoryKind = "DETAILS_EDITED"
	HistoryReallocatedFrom HistoryKind = "REALLOCATED_FROM" // budget left this envelope
	HistoryReallocatedTo   HistoryKind = "REALLOCATED_TO"   // budget arrived in this envelope
)

// HistoryEntry is the structured form of one audit line on a
// responsibility. The storage contract is the rendered string; keeping the
// structured value internally lets callers build entries without string
// plumbing and keeps the wire format in one place.
type HistoryEntry struct {
	Kind         HistoryKind
	Actor        string
	At           time.Time
	Amount       decimal.Decimal // budget for CREATED, transfer amount for reallocations
	OldBudget    decimal.Decimal // BUDGET_EDITED only
	NewBudget    decimal.Decimal // BUDGET_EDITED only
	Counterparty string          // peer envelope name for reallocations
}

// Render produces the human-readable audit line persisted in the
// responsibility's history. Formats match the stored data of earlier
// deployments, so they must not change.
func (e HistoryEntry) Render() string {
	ts := e.At.Format(historyTimeLayout)
	switch e.Kind {
	case HistoryCreated:
		return fmt.Sprintf("Created by %s on %s with a budget of $%s", e.Actor, ts, e.Amount.StringFixed(2))
	case HistoryBudgetEdited:
		return fmt.Sprintf("Budget updated manually from $%s to $%s by %s on %s",
			e.OldBudget.StringFixed(2), e.NewBudget.StringFixed(2), e.Actor, ts)
	case HistoryDetailsEdited:
		return fmt.Sprintf("Details updated by %s on %s", e.Actor, ts)
	case HistoryReallocatedFrom:
		return fmt.Sprintf("Reallocated -$%s to '%s' by %s on %s", e.Amount.StringFixed(2), e.Counterparty, e.Actor, ts)
	case HistoryReallocatedTo:
		return fmt.Sprintf("Reallocated +$%s from '%s' by %s on %s", e.Amount.StringFixed(2), e.Counterparty, e.Actor, ts)
	}
	return fmt.Sprintf("Updated by %s on %s", e.Actor, ts)
}
