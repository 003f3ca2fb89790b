package model

// Activity 仓库作业环节
type Activity string

const (
	ActivityReceiving  Activity = "Receiving"
	ActivityPutaway    Activity = "Putaway"
	ActivityPicking    Activity = "Picking"
	ActivityPacking    Activity = "Packing"
	ActivityDispatch   Activity = "Dispatch"
	ActivityReallocate Activity = "Reallocate"
)

// Activities 全部作业环节（规范顺序，所有全量枚举均按此顺序输出）
var Activities = []Activity{
	ActivityReceiving,
	ActivityPutaway,
	ActivityPicking,
	ActivityPacking,
	ActivityDispatch,
	ActivityReallocate,
}

// IsValidActivity 判断字符串是否为合法作业环节
func IsValidActivity(s string) bool {
	for _, a := range Activities {
		if string(a) == s {
			return true
		}
	}
	return false
}

// Driver 需求计量单位
type Driver string

const (
	DriverLines  Driver = "Lines"
	DriverEach   Driver = "Each"
	DriverVolume Driver = "Volume"
)

// IsValidDriver 判断字符串是否为合法计量单位
func IsValidDriver(s string) bool {
	switch Driver(s) {
	case DriverLines, DriverEach, DriverVolume:
		return true
	}
	return false
}

// ProcessType 作业流程类型
type ProcessType string

const (
	ProcessSystemic ProcessType = "Sistêmico"
	ProcessManual   ProcessType = "Manual"
)

// IsValidProcessType 判断字符串是否为合法流程类型
func IsValidProcessType(s string) bool {
	return s == string(ProcessSystemic) || s == string(ProcessManual)
}

// LogType 打卡类型
type LogType string

const (
	LogCheckIn  LogType = "Check-in"
	LogCheckOut LogType = "Check-out"
)

// IsValidLogType 判断字符串是否为合法打卡类型
func IsValidLogType(s string) bool {
	return s == string(LogCheckIn) || s == string(LogCheckOut)
}

// 用户角色
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleViewer  = "Viewer"
)

// IsValidRole 判断字符串是否为合法角色
func IsValidRole(s string) bool {
	return s == RoleAdmin || s == RoleManager || s == RoleViewer
}

// TaskSource 任务记录来源
const (
	TaskSourceManual = "manual"
	TaskSourceImport = "import"
	TaskSourceAPI    = "api"
)
