package labor

import (
	"strings"
	"time"
)

// DateLayout 业务日期格式 DD/MM/YYYY
const DateLayout = "02/01/2006"

// 统计周期
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ParseDate 解析 DD/MM/YYYY，返回 UTC 零点表示的日历日
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate 将日历日格式化为 DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDay 取 t 在 loc 时区下的日历日（以 UTC 零点表示）
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InWindow 判断 DD/MM/YYYY 日期是否落在 [start, end] 闭区间内
// 无法解析的日期视为不在区间内
func InWindow(date string, start, end time.Time) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

// PeriodWindow 计算包含 ref 的统计区间
// week 以周一为起点，month 覆盖整个自然月
func PeriodWindow(period string, ref time.Time) (time.Time, time.Time, bool) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case "", PeriodDay:
		return day, day, true
	case PeriodWeek:
		start := WeekStart(day)
		return start, start.AddDate(0, 0, 6), true
	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// WeekStart 返回 day 所在周的周一
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
