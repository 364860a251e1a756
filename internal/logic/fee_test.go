package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFee(t *testing.T) {
	tests := []struct {
		name          string
		amount        float64
		priorEarnings float64
		want          float64
	}{
		{"第一档全额", 500, 0, 100.00},
		{"第二档全额", 1000, 500, 150.00},
		{"跨三档", 10000, 0, 1275.00},
		{"第一档部分", 400, 0, 80.00},
		{"跨一二档", 600, 400, 95.00},
		{"第三档全额", 2000, 6000, 200.00},
		{"小数金额", 99.99, 0, 20.00},
		{"零金额", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PlatformFee(tt.amount, tt.priorEarnings), 0.001)
		})
	}
}

func TestPlatformFeeTierBoundaries(t *testing.T) {
	// 区间为半开区间，第500元整落入第二档
	assert.InDelta(t, 0.15, PlatformFee(1, 500), 0.001)
	assert.InDelta(t, 0.20, PlatformFee(1, 499), 0.001)
	assert.InDelta(t, 0.10, PlatformFee(1, 5000), 0.001)
	assert.InDelta(t, 0.15, PlatformFee(1, 4999), 0.001)
}
