package oddsmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		american int
		want     float64
	}{
		{100, 0.50},
		{-100, 0.50},
		{150, 0.40},
		{-150, 0.60},
		{-110, 0.5238},
	}

	for _, tt := range tests {
		got, err := AmericanToImpliedProbability(tt.american)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 0.0001, "odds %d", tt.american)
	}

	_, err := AmericanToImpliedProbability(0)
	assert.Error(t, err)
}

func TestProfitMultiplier(t *testing.T) {
	tests := []struct {
		american int
		want     float64
	}{
		{150, 1.5},
		{-110, 0.9091},
		{100, 1.0},
		{-100, 1.0},
	}

	for _, tt := range tests {
		got, err := ProfitMultiplier(tt.american)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 0.0001, "odds %d", tt.american)
	}

	_, err := ProfitMultiplier(0)
	assert.Error(t, err)
}
