package circumvention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateFee(t *testing.T) {
	tests := []struct {
		name     string
		salary   float64
		percent  float64
		expected float64
	}{
		{name: "standard placement", salary: 120000, percent: 20, expected: 24000},
		{name: "reduced rate", salary: 80000, percent: 15, expected: 12000},
		{name: "no salary estimate yet", salary: 0, percent: 20, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateFee(tt.salary, tt.percent), 0.001)
		})
	}
}

func TestNewFlag(t *testing.T) {
	checkInID := int64(9)
	f := New(3, &checkInID, DetectionCheckIn, `{"status":"hired_there"}`, 120000, 20, time.Now())

	assert.Equal(t, int64(3), f.IntroductionID())
	assert.Equal(t, &checkInID, f.CheckInID())
	assert.Equal(t, DetectionCheckIn, f.DetectionMethod())
	assert.Equal(t, StatusOpen, f.Status())
	assert.True(t, f.Open())
	assert.InDelta(t, 24000, f.EstimatedFeeOwed(), 0.001)
}

func TestManualFlagWithoutCheckIn(t *testing.T) {
	f := New(5, nil, DetectionManual, "employer posted the candidate on LinkedIn", 0, 20, time.Now())

	assert.Nil(t, f.CheckInID())
	assert.Equal(t, DetectionManual, f.DetectionMethod())
	assert.Zero(t, f.EstimatedFeeOwed())
}

func TestResolutionValid(t *testing.T) {
	for _, r := range []Resolution{ResolutionFeeRecovered, ResolutionFeeWaived, ResolutionNoCircumvention, ResolutionInconclusive} {
		assert.True(t, r.Valid(), "resolution %q", r)
	}
	assert.False(t, Resolution("").Valid())
	assert.False(t, Resolution("dismissed").Valid())
}

func TestResolutionConfirmed(t *testing.T) {
	assert.True(t, ResolutionFeeRecovered.Confirmed())
	assert.True(t, ResolutionFeeWaived.Confirmed())
	assert.False(t, ResolutionNoCircumvention.Confirmed())
	assert.False(t, ResolutionInconclusive.Confirmed())
}
