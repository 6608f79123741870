package transfer

import (
	"testing"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionEpochs(t *testing.T) {
	tests := []struct {
		value uint64
		unit  Unit
		want  uint64
	}{
		{1, Days, 1},
		{0, Days, 1},
		{2, Weeks, 14},
		{3, Months, 90},
		{1, Years, 365},
	}
	for _, tt := range tests {
		got, err := RetentionEpochs(tt.value, tt.unit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d %s", tt.value, tt.unit)
	}

	_, err := RetentionEpochs(1, "fortnights")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParseRetention(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "5", want: 5},
		{in: "2w", want: 14},
		{in: "3 months", want: 90},
		{in: "1Y", want: 365},
		{in: " 10d ", want: 10},
		{in: "0d", want: 1},
		{in: "", wantErr: true},
		{in: "w", wantErr: true},
		{in: "2 lightyears", wantErr: true},
		{in: "-1d", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRetention(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
