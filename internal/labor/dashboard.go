package labor

import (
	"math"
	"time"

	"laborsync/backend/internal/model"
)

// headcountHistoryDays 人数与需求趋势覆盖的天数（含结束日）
const headcountHistoryDays = 7

// SnapshotInput 仪表盘聚合输入
// Logs 需按时间倒序；其余集合均已限定在该运营点范围内
type SnapshotInput struct {
	Operation  model.Operation
	Start      time.Time
	End        time.Time
	Activities []string // 为空表示全部作业环节
	Logs       []model.TimeLog
	Tasks      []model.TaskExecution
	Standards  []model.EngineeringStandard
	Employees  []model.Employee
	Location   *time.Location // 打卡时间换算为日历日所用时区
}

// ActivityDemand 单个作业环节的计划量与完成量
type ActivityDemand struct {
	Activity string
	Planned  float64
	Actual   float64
	Driver   string
}

// DailyHeadcount 某日所需人数与实际到岗人数
type DailyHeadcount struct {
	Date      time.Time
	Demand    int
	Headcount int
}

// Absenteeism 缺勤统计
type Absenteeism struct {
	EffectiveHeadcount int
	AbsentToday        int
	Rate               float64
}

// ActivityTotals 选定作业环节的计划量、完成量、进度与生产率
type ActivityTotals struct {
	Activities          []string
	Planned             float64
	Actual              float64
	Progress            float64
	OverallProductivity int
}

// Snapshot 仪表盘快照
// 汇总指标始终覆盖全部作业环节；Filtered 仅在指定作业环节时给出
type Snapshot struct {
	ActiveEmployees      int
	EmployeeDistribution map[string]int
	DemandVsExecution    []ActivityDemand
	PlannedTasksToday    float64
	TotalTasksToday      float64
	TasksProgress        float64
	OverallProductivity  int
	HeadcountVsDemand    []DailyHeadcount
	Absenteeism          *Absenteeism // 运营点总人数为 0 时不计算
	Filtered             *ActivityTotals
}

// BuildSnapshot 汇总运营点在 [Start, End] 区间内的仪表盘指标
func BuildSnapshot(in SnapshotInput) Snapshot {
	tasks := make([]model.TaskExecution, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		if InWindow(t.ExecutionDate, in.Start, in.End) {
			tasks = append(tasks, t)
		}
	}
	standards := make([]model.EngineeringStandard, 0, len(in.Standards))
	for _, s := range in.Standards {
		if InWindow(s.ExecutionDate, in.Start, in.End) {
			standards = append(standards, s)
		}
	}

	statuses := CurrentStatuses(in.Logs)
	snap := Snapshot{
		EmployeeDistribution: make(map[string]int),
		DemandVsExecution:    make([]ActivityDemand, 0, len(model.Activities)),
	}

	for _, st := range statuses {
		if st.Online {
			snap.ActiveEmployees++
		}
	}
	for _, e := range in.Employees {
		if st, ok := statuses[e.EmployeeID]; ok && st.Online {
			snap.EmployeeDistribution[st.Activity]++
		}
	}

	for _, a := range model.Activities {
		row := ActivityDemand{Activity: string(a), Driver: string(model.DriverLines)}
		driverSet := false
		for _, s := range standards {
			if s.Activity != row.Activity {
				continue
			}
			row.Planned += s.DailyDemand
			if !driverSet {
				row.Driver = s.Driver
				driverSet = true
			}
		}
		for _, t := range tasks {
			if t.Activity == row.Activity {
				row.Actual += t.Quantity
			}
		}
		snap.DemandVsExecution = append(snap.DemandVsExecution, row)
	}

	all := totalsFor(nil, snap.DemandVsExecution, tasks, standards)
	snap.PlannedTasksToday = all.Planned
	snap.TotalTasksToday = all.Actual
	snap.TasksProgress = all.Progress
	snap.OverallProductivity = all.OverallProductivity

	if selected := activitySet(in.Activities); selected != nil {
		filtered := totalsFor(selected, snap.DemandVsExecution, tasks, standards)
		filtered.Activities = in.Activities
		snap.Filtered = &filtered
	}

	snap.HeadcountVsDemand = headcountVsDemand(in)
	snap.Absenteeism = ComputeAbsenteeism(in.Operation, snap.ActiveEmployees)

	return snap
}

// totalsFor 按过滤器汇总计划量、完成量与生产率，nil 过滤器表示全部作业环节
func totalsFor(f activityFilter, rows []ActivityDemand, tasks []model.TaskExecution, standards []model.EngineeringStandard) ActivityTotals {
	var t ActivityTotals
	for _, row := range rows {
		if f.includes(row.Activity) {
			t.Planned += row.Planned
			t.Actual += row.Actual
		}
	}
	if t.Planned > 0 {
		t.Progress = t.Actual / t.Planned * 100
	}
	measured := MeasureProductivity(f.filterTasks(tasks), f.filterStandards(standards))
	t.OverallProductivity = int(math.Round(measured.Percent(100)))
	return t
}

// ComputeAbsenteeism 缺勤统计，运营点总人数为 0 时返回 nil
func ComputeAbsenteeism(op model.Operation, activeEmployees int) *Absenteeism {
	if op.TotalHeadcount <= 0 {
		return nil
	}
	a := &Absenteeism{EffectiveHeadcount: op.TotalHeadcount - op.EmployeesOnVacation}
	if absent := a.EffectiveHeadcount - activeEmployees; absent > 0 {
		a.AbsentToday = absent
	}
	if a.EffectiveHeadcount > 0 {
		a.Rate = float64(a.AbsentToday) / float64(a.EffectiveHeadcount) * 100
	}
	return a
}

// headcountVsDemand 截至 End 的最近 7 天：需求为当日标准人数之和，到岗为当日有签到的不同员工数
func headcountVsDemand(in SnapshotInput) []DailyHeadcount {
	days := make([]DailyHeadcount, headcountHistoryDays)
	index := make(map[string]int, headcountHistoryDays)
	for i := 0; i < headcountHistoryDays; i++ {
		d := in.End.AddDate(0, 0, i-headcountHistoryDays+1)
		days[i].Date = d
		index[FormatDate(d)] = i
	}

	for _, s := range in.Standards {
		if d, ok := ParseDate(s.ExecutionDate); ok {
			if i, hit := index[FormatDate(d)]; hit {
				days[i].Demand += s.Headcounts
			}
		}
	}

	present := make([]map[string]struct{}, headcountHistoryDays)
	for _, l := range in.Logs {
		if l.Type != string(model.LogCheckIn) {
			continue
		}
		i, hit := index[FormatDate(CalendarDay(l.Timestamp, in.Location))]
		if !hit {
			continue
		}
		if present[i] == nil {
			present[i] = make(map[string]struct{})
		}
		present[i][l.EmployeeID] = struct{}{}
	}
	for i := range days {
		days[i].Headcount = len(present[i])
	}
	return days
}

// activityFilter 作业环节过滤器，空集合表示不过滤
type activityFilter map[string]struct{}

func activitySet(activities []string) activityFilter {
	if len(activities) == 0 {
		return nil
	}
	f := make(activityFilter, len(activities))
	for _, a := range activities {
		f[a] = struct{}{}
	}
	return f
}

func (f activityFilter) includes(activity string) bool {
	if f == nil {
		return true
	}
	_, ok := f[activity]
	return ok
}

func (f activityFilter) filterTasks(tasks []model.TaskExecution) []model.TaskExecution {
	if f == nil {
		return tasks
	}
	out := make([]model.TaskExecution, 0, len(tasks))
	for _, t := range tasks {
		if f.includes(t.Activity) {
			out = append(out, t)
		}
	}
	return out
}

func (f activityFilter) filterStandards(standards []model.EngineeringStandard) []model.EngineeringStandard {
	if f == nil {
		return standards
	}
	out := make([]model.EngineeringStandard, 0, len(standards))
	for _, s := range standards {
		if f.includes(s.Activity) {
			out = append(out, s)
		}
	}
	return out
}
