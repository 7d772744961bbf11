package engine

import (
	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

// ValidationInput 是校验一次排班所需的全部数据快照，
// 由 repository 在同一个事务中加载（期间持有 occurrence 的行锁），
// 这样整条校验链是纯函数，可以脱离数据库测试
type ValidationInput struct {
	Occurrence *domain.Occurrence
	Blueprint  *domain.Blueprint
	Location   *domain.Location
	Employee   *domain.Employee

	// 该员工与 Occurrence.Date 重叠的假勤记录（只含未删除的）
	Availability []*domain.AvailabilityRecord

	// 该实例上所有未删除排班的员工 id 与岗位 id
	Assignees []Assignee

	// 该员工当天其他未删除排班对应的班次实例
	SameDayOccurrences []*domain.Occurrence
}

// Assignee 是 (员工, 岗位) 的最小投影，用于容量统计
type Assignee struct {
	EmployeeID int64
	PositionID int64
}

// ValidateAssignment 按固定顺序执行排班资格校验链，返回第一条未通过的规则
// 顺序本身是业务约定的一部分，调整顺序会改变调用方收到的错误种类
func ValidateAssignment(in *ValidationInput) *RuleViolation {
	// 1. 不允许重复排班
	for _, a := range in.Assignees {
		if a.EmployeeID == in.Employee.ID {
			return &RuleViolation{Kind: ViolationAlreadyAssigned}
		}
	}

	// 2. 假勤状态：阻断类型覆盖当天则拒绝，按日期（不含时刻）比较
	for _, rec := range in.Availability {
		if !rec.Type.Blocking() {
			continue
		}
		date := DateOnly(in.Occurrence.Date)
		if !date.Before(DateOnly(rec.StartDate)) && !date.After(DateOnly(rec.EndDate)) {
			return &RuleViolation{Kind: ViolationBlockedByAvailability, AvailabilityType: rec.Type}
		}
	}

	// 3. 岗位必须出现在蓝图的岗位要求中
	line := in.Blueprint.LineForPosition(in.Employee.PositionID)
	if line == nil {
		return &RuleViolation{Kind: ViolationPositionMismatch}
	}

	// 4. 必须属于门店所在公司，且被明确分配到该门店
	if !in.Employee.BelongsToCompany(in.Location.CompanyID) || !in.Employee.WorksAtLocation(in.Occurrence.LocationID) {
		return &RuleViolation{Kind: ViolationNotInCompanyOrLocation}
	}

	// 5. 语言要求：刻意不做硬性校验
	// 语言覆盖只影响候选人排序（见 Tier），如果在这里卡死，
	// 没有合适语言的门店会永远排不满班，排满优先于语言覆盖

	// 6. 当天不允许有时间重叠的班次（闭边界，首尾相接也算重叠）
	for _, other := range in.SameDayOccurrences {
		if other.ID == in.Occurrence.ID {
			continue
		}
		if TimesOverlap(in.Occurrence.StartTime, in.Occurrence.EndTime, other.StartTime, other.EndTime) {
			return &RuleViolation{Kind: ViolationOverlappingShift}
		}
	}

	// 7. 岗位容量：上限取理想人数，未设置理想人数时取最低人数
	var current int32
	for _, a := range in.Assignees {
		if a.PositionID == in.Employee.PositionID {
			current++
		}
	}
	if current+1 > line.Cap() {
		return &RuleViolation{Kind: ViolationPositionCapacityExceeded, Current: current, Cap: line.Cap()}
	}

	return nil
}
