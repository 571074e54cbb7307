package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHistoryEntryRender(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)

	tests := []struct {
		name  string
		entry HistoryEntry
		want  string
	}{
		{
			name: "created",
			entry: HistoryEntry{
				Kind:   HistoryCreated,
				Actor:  "Mona Manager",
				At:     at,
				Amount: decimal.NewFromInt(1000),
			},
			want: "Created by Mona Manager on 14-03-2025 09:30:05 with a budget of $1000.00",
		},
		{
			name: "budget edited",
			entry: HistoryEntry{
				Kind:      HistoryBudgetEdited,
				Actor:     "Mona Manager",
				At:        at,
				OldBudget: decimal.NewFromInt(1000),
				NewBudget: decimal.NewFromFloat(1500.5),
			},
			want: "Budget updated manually from $1000.00 to $1500.50 by Mona Manager on 14-03-2025 09:30:05",
		},
		{
			name: "details edited",
			entry: HistoryEntry{
				Kind:  HistoryDetailsEdited,
				Actor: "Evan Employee",
				At:    at,
			},
			want: "Details updated by Evan Employee on 14-03-2025 09:30:05",
		},
		{
			name: "reallocated from",
			entry: HistoryEntry{
				Kind:         HistoryReallocatedFrom,
				Actor:        "Mona Manager",
				At:           at,
				Amount:       decimal.NewFromInt(250),
				Counterparty: "Marketing",
			},
			want: "Reallocated -$250.00 to 'Marketing' by Mona Manager on 14-03-2025 09:30:05",
		},
		{
			name: "reallocated to",
			entry: HistoryEntry{
				Kind:         HistoryReallocatedTo,
				Actor:        "Mona Manager",
				At:           at,
				Amount:       decimal.NewFromInt(250),
				Counterparty: "Operations",
			},
			want: "Reallocated +$250.00 from 'Operations' by Mona Manager on 14-03-2025 09:30:05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Render())
		})
	}
}
