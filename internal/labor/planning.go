package labor

import (
	"sort"
	"time"

	"laborsync/backend/internal/model"
)

// planDays 周计划覆盖周一至周五
const planDays = 5

// ShiftCell 某员工某日的排班：Activity 为空表示休息
// WorkHours 为班次总时长（含休息），BreakHours 为其中的休息时长
type ShiftCell struct {
	Activity   string
	WorkHours  float64
	BreakHours float64
}

// Off 是否休息
func (c ShiftCell) Off() bool { return c.Activity == "" }

// ShiftRow 单个员工一周的排班
type ShiftRow struct {
	EmployeeID   string
	EmployeeName string
	Days         [planDays]ShiftCell
}

// Coverage 某日某作业环节的需求覆盖情况
type Coverage struct {
	Date      time.Time
	Activity  string
	Required  int
	Assigned  int
	Shortfall int
}

// ShiftPlan 周排班计划
type ShiftPlan struct {
	WeekStart time.Time
	Days      [planDays]time.Time
	Rows      []ShiftRow
	Coverage  []Coverage
}

// PlanInput 排班输入
type PlanInput struct {
	WeekStart        time.Time // 任意日期，按所在周的周一对齐
	Employees        []model.Employee
	Standards        []model.EngineeringStandard
	DefaultWorkHours  float64 // 无标准可参考时的工时
	DefaultBreakHours float64 // 工时取默认值时同时采用的休息时长
}

// dayRequirement 某日某作业环节的需求人数与单班工时
type dayRequirement struct {
	required   int
	workHours  float64
	breakHours float64
}

// PlanShifts 贪心生成周一至周五的排班
// 每日按规范作业顺序依次分配：候选人须具备该技能且当日未排班，
// 已排天数少者优先，天数相同按姓名排序；未被分配者当日休息
func PlanShifts(in PlanInput) ShiftPlan {
	plan := ShiftPlan{WeekStart: WeekStart(in.WeekStart)}
	for i := 0; i < planDays; i++ {
		plan.Days[i] = plan.WeekStart.AddDate(0, 0, i)
	}

	employees := make([]model.Employee, len(in.Employees))
	copy(employees, in.Employees)
	sort.SliceStable(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].EmployeeID < employees[j].EmployeeID
	})

	rows := make([]ShiftRow, len(employees))
	rowIndex := make(map[string]int, len(employees))
	for i, e := range employees {
		rows[i] = ShiftRow{EmployeeID: e.EmployeeID, EmployeeName: e.Name}
		rowIndex[e.EmployeeID] = i
	}

	fallback := firstStandardPerActivity(in.Standards)
	assignedDays := make(map[string]int, len(employees))

	for d, day := range plan.Days {
		reqs := requirementsFor(day, in.Standards, fallback, in.DefaultWorkHours, in.DefaultBreakHours)
		busy := make(map[string]bool, len(employees))

		for _, activity := range model.Activities {
			req, ok := reqs[string(activity)]
			if !ok || req.required == 0 {
				continue
			}

			candidates := make([]model.Employee, 0)
			for _, e := range employees {
				if !busy[e.EmployeeID] && e.HasActivity(string(activity)) {
					candidates = append(candidates, e)
				}
			}
			// 已排天数少者优先，其次沿用姓名顺序
			sort.SliceStable(candidates, func(i, j int) bool {
				return assignedDays[candidates[i].EmployeeID] < assignedDays[candidates[j].EmployeeID]
			})

			n := req.required
			if n > len(candidates) {
				n = len(candidates)
			}
			for _, c := range candidates[:n] {
				busy[c.EmployeeID] = true
				assignedDays[c.EmployeeID]++
				rows[rowIndex[c.EmployeeID]].Days[d] = ShiftCell{
					Activity:   string(activity),
					WorkHours:  req.workHours,
					BreakHours: req.breakHours,
				}
			}

			plan.Coverage = append(plan.Coverage, Coverage{
				Date:      day,
				Activity:  string(activity),
				Required:  req.required,
				Assigned:  n,
				Shortfall: req.required - n,
			})
		}
	}

	plan.Rows = rows
	return plan
}

// requirementsFor 当日有标准时取当日标准人数之和，否则取各作业环节首个标准
func requirementsFor(
	day time.Time,
	standards []model.EngineeringStandard,
	fallback map[string]model.EngineeringStandard,
	defaultWorkHours, defaultBreakHours float64,
) map[string]dayRequirement {
	reqs := make(map[string]dayRequirement)
	for _, s := range standards {
		d, ok := ParseDate(s.ExecutionDate)
		if !ok || !d.Equal(day) {
			continue
		}
		r := reqs[s.Activity]
		r.required += s.Headcounts
		if r.workHours == 0 {
			r.workHours = s.WorkTime
			r.breakHours = s.BreakTime
		}
		reqs[s.Activity] = r
	}

	if len(reqs) == 0 {
		for activity, s := range fallback {
			reqs[activity] = dayRequirement{required: s.Headcounts, workHours: s.WorkTime, breakHours: s.BreakTime}
		}
	}

	for activity, r := range reqs {
		if r.workHours <= 0 {
			r.workHours = defaultWorkHours
			r.breakHours = defaultBreakHours
		}
		if r.breakHours < 0 || r.breakHours >= r.workHours {
			r.breakHours = 0
		}
		reqs[activity] = r
	}
	return reqs
}

func firstStandardPerActivity(standards []model.EngineeringStandard) map[string]model.EngineeringStandard {
	first := make(map[string]model.EngineeringStandard)
	for _, s := range standards {
		if _, ok := first[s.Activity]; !ok {
			first[s.Activity] = s
		}
	}
	return first
}
