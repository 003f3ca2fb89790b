package labor

import "laborsync/backend/internal/model"

// Measurement 标准工时与实际工时
type Measurement struct {
	StandardHours float64
	ActualHours   float64
}

// Percent 生产率百分比（不封顶）
// 实际工时为 0 时：两者皆为 0 返回 fallback，否则返回 0
func (m Measurement) Percent(fallback float64) float64 {
	if m.ActualHours > 0 {
		return m.StandardHours / m.ActualHours * 100
	}
	if m.StandardHours == 0 {
		return fallback
	}
	return 0
}

// MeasureProductivity 汇总一组任务对应的标准工时与实际工时
// 每个任务取列表中第一个同作业环节且小时产能 > 0 的标准；无匹配时标准工时记 0
func MeasureProductivity(tasks []model.TaskExecution, standards []model.EngineeringStandard) Measurement {
	var m Measurement
	for i := range tasks {
		t := &tasks[i]
		if s, ok := FirstStandardFor(t.Activity, standards); ok {
			m.StandardHours += t.Quantity / s.HourlyProductivity
		}
		m.ActualHours += t.ExecutionHours
	}
	return m
}

// ComputeProductivity 个人/团队视角的生产率，无数据时为 0
func ComputeProductivity(tasks []model.TaskExecution, standards []model.EngineeringStandard) float64 {
	return MeasureProductivity(tasks, standards).Percent(0)
}

// FirstStandardFor 按列表顺序查找首个同作业环节且小时产能 > 0 的标准
func FirstStandardFor(activity string, standards []model.EngineeringStandard) (model.EngineeringStandard, bool) {
	for _, s := range standards {
		if s.Activity == activity && s.HourlyProductivity > 0 {
			return s, true
		}
	}
	return model.EngineeringStandard{}, false
}

// TasksOf 过滤指定员工的任务
func TasksOf(employeeID string, tasks []model.TaskExecution) []model.TaskExecution {
	out := make([]model.TaskExecution, 0)
	for _, t := range tasks {
		if t.EmployeeID == employeeID {
			out = append(out, t)
		}
	}
	return out
}

// TasksInActivity 过滤指定作业环节的任务
func TasksInActivity(activity string, tasks []model.TaskExecution) []model.TaskExecution {
	out := make([]model.TaskExecution, 0)
	for _, t := range tasks {
		if t.Activity == activity {
			out = append(out, t)
		}
	}
	return out
}

// ActivityComparison 员工与团队在同一作业环节上的生产率对比
type ActivityComparison struct {
	Activity string
	Employee float64
	Team     float64
}

// EmployeeProductivity 员工详情页的生产率视图
type EmployeeProductivity struct {
	Overall     float64
	ByActivity  []ActivityComparison
	TeamAverage float64
}

// CompareWithTeam 计算员工总体生产率、各作业环节员工与团队对比及团队均值
// 团队为具备该作业技能的全部员工；数值保留 1 位小数
// 员工没有任何作业技能时团队均值取 100
func CompareWithTeam(
	employee model.Employee,
	team []model.Employee,
	tasks []model.TaskExecution,
	standards []model.EngineeringStandard,
) EmployeeProductivity {
	own := TasksOf(employee.EmployeeID, tasks)
	result := EmployeeProductivity{
		Overall:    Round(ComputeProductivity(own, standards), 1),
		ByActivity: make([]ActivityComparison, 0, len(employee.Activities)),
	}

	sum := 0.0
	for _, activity := range employee.Activities {
		members := make(map[string]struct{})
		for _, e := range team {
			if e.HasActivity(activity) {
				members[e.EmployeeID] = struct{}{}
			}
		}

		teamTasks := make([]model.TaskExecution, 0)
		for _, t := range tasks {
			if _, ok := members[t.EmployeeID]; ok && t.Activity == activity {
				teamTasks = append(teamTasks, t)
			}
		}

		cmp := ActivityComparison{
			Activity: activity,
			Employee: Round(ComputeProductivity(TasksInActivity(activity, own), standards), 1),
			Team:     Round(ComputeProductivity(teamTasks, standards), 1),
		}
		sum += cmp.Team
		result.ByActivity = append(result.ByActivity, cmp)
	}

	if len(result.ByActivity) == 0 {
		result.TeamAverage = 100
	} else {
		result.TeamAverage = Round(sum/float64(len(result.ByActivity)), 1)
	}
	return result
}
