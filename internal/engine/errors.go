package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

type ViolationKind string

const (
	ViolationAlreadyAssigned          ViolationKind = "ALREADY_ASSIGNED"
	ViolationBlockedByAvailability    ViolationKind = "BLOCKED_BY_AVAILABILITY"
	ViolationPositionMismatch         ViolationKind = "POSITION_MISMATCH"
	ViolationNotInCompanyOrLocation   ViolationKind = "NOT_IN_COMPANY_OR_LOCATION"
	ViolationOverlappingShift         ViolationKind = "OVERLAPPING_SHIFT"
	ViolationPositionCapacityExceeded ViolationKind = "POSITION_CAPACITY_EXCEEDED"
)

// RuleViolation 表示校验链中某条规则未通过
// 每个错误都要能让调用方准确知道是哪条规则失败了
type RuleViolation struct {
	Kind             ViolationKind
	AvailabilityType domain.AvailabilityType // 仅 BLOCKED_BY_AVAILABILITY 时有值
	Current          int32                   // 仅 POSITION_CAPACITY_EXCEEDED 时有值
	Cap              int32                   // 同上
}

func (v *RuleViolation) Error() string {
	switch v.Kind {
	case ViolationAlreadyAssigned:
		return "该员工已被安排到这个班次"
	case ViolationBlockedByAvailability:
		return fmt.Sprintf("该员工当天的假勤状态（%s）不允许排班", v.AvailabilityType)
	case ViolationPositionMismatch:
		return "该员工的岗位不在这个班次的岗位要求中"
	case ViolationNotInCompanyOrLocation:
		return "该员工不属于这个门店或其所属公司"
	case ViolationOverlappingShift:
		return "该员工当天已有时间重叠的班次"
	case ViolationPositionCapacityExceeded:
		return fmt.Sprintf("该岗位的排班人数已达上限（%d/%d）", v.Current, v.Cap)
	default:
		return string(v.Kind)
	}
}

// ConflictError 表示生成班次时目标日期范围内已存在班次实例
// 冲突日期作为数据返回，调用方可以据此决定是否使用替换模式重试
type ConflictError struct {
	Dates []time.Time
}

func (e *ConflictError) Error() string {
	days := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		days[i] = d.Format("2006-01-02")
	}
	return "以下日期已存在班次实例：" + strings.Join(days, "、")
}

func newConflictError(dates map[time.Time]struct{}) *ConflictError {
	err := &ConflictError{Dates: make([]time.Time, 0, len(dates))}
	for d := range dates {
		err.Dates = append(err.Dates, d)
	}
	sort.Slice(err.Dates, func(i, j int) bool { return err.Dates[i].Before(err.Dates[j]) })
	return err
}
