package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestBuildShares(t *testing.T) {
	tests := []struct {
		name    string
		mode    SplitMode
		entries map[string]float64
		want    map[string]float64
		wantErr error
	}{
		{
			name:    "equal split ignores values",
			mode:    SplitEqual,
			entries: map[string]float64{"Bob": 1, "Carol": 70},
			want:    map[string]float64{"Bob": 0.5, "Carol": 0.5},
		},
		{
			name:    "blank entries are skipped",
			mode:    SplitEqual,
			entries: map[string]float64{"Bob": 1, "Carol": 0, "Dave": -3},
			want:    map[string]float64{"Bob": 1},
		},
		{
			name:    "unequal percentages",
			mode:    SplitUnequal,
			entries: map[string]float64{"Bob": 60, "Carol": 40},
			want:    map[string]float64{"Bob": 0.6, "Carol": 0.4},
		},
		{
			name:    "unequal percentages with decimals",
			mode:    SplitUnequal,
			entries: map[string]float64{"Bob": 33.3, "Carol": 33.3, "Dave": 33.4},
			want:    map[string]float64{"Bob": 0.333, "Carol": 0.333, "Dave": 0.334},
		},
		{
			name:    "unequal percentages must reach 100",
			mode:    SplitUnequal,
			entries: map[string]float64{"Bob": 60, "Carol": 30},
			wantErr: ErrSharesNotHundred,
		},
		{
			name:    "nothing selected",
			mode:    SplitEqual,
			entries: map[string]float64{"Bob": 0},
			wantErr: ErrNoShares,
		},
		{
			name:    "unknown mode",
			mode:    "thirds",
			entries: map[string]float64{"Bob": 1},
			wantErr: ErrInvalidSplitMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildShares(tt.mode, tt.entries)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for member, want := range tt.want {
				assert.InDelta(t, want, got[member], 1e-12, member)
			}
		})
	}
}

func TestValidateExpense(t *testing.T) {
	members := map[string]struct{}{"Alice": {}, "Bob": {}}
	shares := map[string]float64{"Bob": 1}

	tests := []struct {
		name    string
		total   float64
		payer   string
		shares  map[string]float64
		wantErr error
	}{
		{name: "valid", total: 10, payer: "Alice", shares: shares},
		{name: "zero total", total: 0, payer: "Alice", shares: shares, wantErr: ErrInvalidTotal},
		{name: "negative total", total: -5, payer: "Alice", shares: shares, wantErr: ErrInvalidTotal},
		{name: "no payer", total: 10, shares: shares, wantErr: ErrMissingPayer},
		{name: "payer outside group", total: 10, payer: "Zed", shares: shares, wantErr: models.ErrUnknownMember},
		{name: "no shares", total: 10, payer: "Alice", shares: map[string]float64{}, wantErr: ErrNoShares},
		{name: "share outside group", total: 10, payer: "Alice", shares: map[string]float64{"Zed": 1}, wantErr: models.ErrUnknownMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpense(tt.total, tt.payer, tt.shares, members)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
