package labor

import (
	"sort"
	"time"

	"laborsync/backend/internal/model"
)

// Status 由最新打卡记录推导出的员工状态
type Status struct {
	Online   bool
	Activity string
	Since    time.Time
}

// SortLogsDescending 按时间倒序稳定排序，时间相同保持原有顺序
func SortLogsDescending(logs []model.TimeLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}

// CurrentStatuses 折叠倒序打卡记录，每名员工取第一条
func CurrentStatuses(logs []model.TimeLog) map[string]Status {
	statuses := make(map[string]Status)
	for _, l := range logs {
		if _, seen := statuses[l.EmployeeID]; seen {
			continue
		}
		statuses[l.EmployeeID] = Status{
			Online:   l.Type == string(model.LogCheckIn),
			Activity: l.Activity,
			Since:    l.Timestamp,
		}
	}
	return statuses
}

// StatusOf 单个员工的当前状态，无打卡记录视为离线
func StatusOf(employeeID string, logs []model.TimeLog) Status {
	for _, l := range logs {
		if l.EmployeeID == employeeID {
			return Status{
				Online:   l.Type == string(model.LogCheckIn),
				Activity: l.Activity,
				Since:    l.Timestamp,
			}
		}
	}
	return Status{}
}
