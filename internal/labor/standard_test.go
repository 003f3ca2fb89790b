package labor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"laborsync/backend/internal/model"
)

func TestRecomputeStandardField_CycleTimeDrivesHeadcounts(t *testing.T) {
	rec := model.EngineeringStandard{DailyDemand: 1000, WorkTime: 8, BreakTime: 1}

	got := RecomputeStandardField(rec, FieldCycleTime, 60)

	assert.Equal(t, 60.0, got.CycleTime)
	assert.Equal(t, 60.0, got.HourlyProductivity)
	assert.Equal(t, 3, got.Headcounts) // ceil(1000 / (60*7))
}

func TestRecomputeStandardField_ProductivityDrivesCycleTime(t *testing.T) {
	rec := model.EngineeringStandard{DailyDemand: 1500, WorkTime: 8, BreakTime: 1}

	got := RecomputeStandardField(rec, FieldHourlyProductivity, "120")

	assert.Equal(t, 120.0, got.HourlyProductivity)
	assert.Equal(t, 30.0, got.CycleTime)
	assert.Equal(t, 2, got.Headcounts)
}

func TestRecomputeStandardField_RoundsToTwoDecimals(t *testing.T) {
	got := RecomputeStandardField(model.EngineeringStandard{}, FieldCycleTime, 7)
	assert.Equal(t, 514.29, got.HourlyProductivity)
}

func TestRecomputeStandardField_DirectFieldsRecomputeHeadcounts(t *testing.T) {
	rec := model.EngineeringStandard{CycleTime: 60, HourlyProductivity: 60, DailyDemand: 1000, WorkTime: 8, BreakTime: 1, Headcounts: 3}

	got := RecomputeStandardField(rec, FieldDailyDemand, 2000)
	assert.Equal(t, 5, got.Headcounts)

	got = RecomputeStandardField(got, FieldBreakTime, 8)
	assert.Equal(t, 0, got.Headcounts)

	got = RecomputeStandardField(got, FieldWorkTime, 10)
	assert.Equal(t, 2000.0, got.DailyDemand)
	assert.Equal(t, 17, got.Headcounts) // ceil(2000 / (60*2))
}

func TestRecomputeStandardField_NonNumericCoercedToZero(t *testing.T) {
	rec := model.EngineeringStandard{CycleTime: 60, HourlyProductivity: 60, DailyDemand: 1000, WorkTime: 8, BreakTime: 1}

	for _, v := range []interface{}{"abc", nil, math.NaN(), math.Inf(1), true, []int{1}} {
		got := RecomputeStandardField(rec, FieldCycleTime, v)
		assert.Equal(t, 0.0, got.CycleTime)
		assert.Equal(t, 0.0, got.HourlyProductivity)
		assert.Equal(t, 0, got.Headcounts)
	}
}

func TestRecomputeStandardField_NegativePassesThrough(t *testing.T) {
	got := RecomputeStandardField(model.EngineeringStandard{}, FieldCycleTime, -10)
	assert.Equal(t, -10.0, got.CycleTime)
	assert.Equal(t, 0.0, got.HourlyProductivity)
	assert.Equal(t, 0, got.Headcounts)
}

func TestRecomputeStandardField_DoesNotMutateInput(t *testing.T) {
	rec := model.EngineeringStandard{CycleTime: 60}
	_ = RecomputeStandardField(rec, FieldCycleTime, 30)
	assert.Equal(t, 60.0, rec.CycleTime)
}

func TestCycleTimeRoundTrip(t *testing.T) {
	for _, ct := range []float64{0.5, 1, 7, 13.37, 45, 60, 90, 120, 333.33, 3600} {
		hp := RecomputeStandardField(model.EngineeringStandard{}, FieldCycleTime, ct).HourlyProductivity
		back := RecomputeStandardField(model.EngineeringStandard{}, FieldHourlyProductivity, hp).CycleTime
		// 两次两位小数舍入带来的误差上界
		assert.InDelta(t, ct, back, 0.01+ct*ct*0.005/3600, "cycle_time=%v", ct)
	}
}

func TestHeadcounts_ZeroCases(t *testing.T) {
	assert.Equal(t, 0, Headcounts(0, 1000, 8, 1))
	assert.Equal(t, 0, Headcounts(60, 0, 8, 1))
	assert.Equal(t, 0, Headcounts(60, 1000, 8, 8))
	assert.Equal(t, 0, Headcounts(60, 1000, 1, 8))
	assert.Equal(t, 1, Headcounts(60, 1, 8, 1))
}

func TestNormalizeStandard(t *testing.T) {
	got := NormalizeStandard(model.EngineeringStandard{CycleTime: 120, HourlyProductivity: 999, DailyDemand: 400, WorkTime: 8, BreakTime: 1, Headcounts: 42})
	assert.Equal(t, 30.0, got.HourlyProductivity)
	assert.Equal(t, 2, got.Headcounts)

	got = NormalizeStandard(model.EngineeringStandard{HourlyProductivity: 20, DailyDemand: 300, WorkTime: 8, BreakTime: 1})
	assert.Equal(t, 180.0, got.CycleTime)
	assert.Equal(t, 3, got.Headcounts)

	got = NormalizeStandard(model.EngineeringStandard{CycleTime: -5, HourlyProductivity: -5, DailyDemand: 300, WorkTime: 8})
	assert.Equal(t, 0.0, got.CycleTime)
	assert.Equal(t, 0.0, got.HourlyProductivity)
	assert.Equal(t, 0, got.Headcounts)
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, 12.5, CoerceNumber(" 12.5 "))
	assert.Equal(t, 3.0, CoerceNumber(3))
	assert.Equal(t, 4.0, CoerceNumber(int64(4)))
	assert.Equal(t, 0.0, CoerceNumber(""))
	assert.Equal(t, 0.0, CoerceNumber(math.Inf(-1)))
}

func TestIsStandardField(t *testing.T) {
	assert.True(t, IsStandardField("cycle_time"))
	assert.True(t, IsStandardField("break_time"))
	assert.False(t, IsStandardField("headcounts"))
	assert.False(t, IsStandardField("cycleTime"))
}
