package labor

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"laborsync/backend/internal/model"
)

// secondsPerHour 周期时间（秒/单位）与小时产能（单位/小时）的换算基数
const secondsPerHour = 3600

// StandardField 工程标准中可由用户直接编辑的字段
type StandardField string

const (
	FieldCycleTime          StandardField = "cycle_time"
	FieldHourlyProductivity StandardField = "hourly_productivity"
	FieldDailyDemand        StandardField = "daily_demand"
	FieldWorkTime           StandardField = "work_time"
	FieldBreakTime          StandardField = "break_time"
)

// IsStandardField 判断字段名是否可编辑
func IsStandardField(s string) bool {
	switch StandardField(s) {
	case FieldCycleTime, FieldHourlyProductivity, FieldDailyDemand, FieldWorkTime, FieldBreakTime:
		return true
	}
	return false
}

// RecomputeStandardField 应用单字段修改并重算所有派生字段
// 周期时间与小时产能互为倒数（保留 2 位小数），随后按最新值重算人数
func RecomputeStandardField(rec model.EngineeringStandard, field StandardField, value interface{}) model.EngineeringStandard {
	v := CoerceNumber(value)

	switch field {
	case FieldCycleTime:
		rec.CycleTime = v
		rec.HourlyProductivity = invertRate(v)
	case FieldHourlyProductivity:
		rec.HourlyProductivity = v
		rec.CycleTime = invertRate(v)
	case FieldDailyDemand:
		rec.DailyDemand = v
	case FieldWorkTime:
		rec.WorkTime = v
	case FieldBreakTime:
		rec.BreakTime = v
	}

	rec.Headcounts = Headcounts(rec.HourlyProductivity, rec.DailyDemand, rec.WorkTime, rec.BreakTime)
	return rec
}

// NormalizeStandard 整条记录写入前的一致性修正
// 以周期时间为准推导小时产能；仅给出小时产能时反推周期时间
func NormalizeStandard(rec model.EngineeringStandard) model.EngineeringStandard {
	switch {
	case rec.CycleTime > 0:
		rec.HourlyProductivity = invertRate(rec.CycleTime)
	case rec.HourlyProductivity > 0:
		rec.CycleTime = invertRate(rec.HourlyProductivity)
	default:
		rec.CycleTime = 0
		rec.HourlyProductivity = 0
	}
	rec.Headcounts = Headcounts(rec.HourlyProductivity, rec.DailyDemand, rec.WorkTime, rec.BreakTime)
	return rec
}

// Headcounts 所需人数 = ceil(日需求 / (小时产能 × 有效工时))，任一因子非正时为 0
func Headcounts(hourlyProductivity, dailyDemand, workTime, breakTime float64) int {
	effective := workTime - breakTime
	if hourlyProductivity <= 0 || dailyDemand <= 0 || effective <= 0 {
		return 0
	}
	return int(math.Ceil(dailyDemand / (hourlyProductivity * effective)))
}

// invertRate 3600/x 保留两位小数，x 非正时为 0
func invertRate(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return Round(secondsPerHour/x, 2)
}

// CoerceNumber 将表单输入转换为数字，非数值（含 NaN、±Inf）一律为 0
func CoerceNumber(value interface{}) float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Round 四舍五入到指定小数位
func Round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
