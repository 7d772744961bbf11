package domain

import "time"

type AvailabilityType string

const (
	AvailabilityAvailable          AvailabilityType = "AVAILABLE"
	AvailabilityVacation           AvailabilityType = "VACATION"
	AvailabilitySickLeave          AvailabilityType = "SICK_LEAVE"
	AvailabilityPersonalLeave      AvailabilityType = "PERSONAL_LEAVE"
	AvailabilityUnjustifiedAbsence AvailabilityType = "UNJUSTIFIED_ABSENCE"
	AvailabilityUnavailable        AvailabilityType = "UNAVAILABLE"
)

// Blocking 表示该状态覆盖的日期内禁止排班
func (t AvailabilityType) Blocking() bool {
	switch t {
	case AvailabilityVacation, AvailabilitySickLeave, AvailabilityPersonalLeave,
		AvailabilityUnjustifiedAbsence, AvailabilityUnavailable:
		return true
	default:
		return false
	}
}

// AvailabilityRecord 由假勤模块维护，本引擎只读
type AvailabilityRecord struct {
	ID         int64            `json:"id"`
	EmployeeID int64            `json:"employeeID"`
	StartDate  time.Time        `json:"startDate"`
	EndDate    time.Time        `json:"endDate"` // 闭区间，按日期比较
	Type       AvailabilityType `json:"type"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type CalendarExceptionKind string

const (
	CalendarBlackout     CalendarExceptionKind = "BLACKOUT"
	CalendarSpecialHours CalendarExceptionKind = "SPECIAL_HOURS"
)

// CalendarException 表示门店某天的例外（停业日或特殊营业时间），
// 同一 (location, date) 只会存在其中一种，由日历模块在创建时保证
type CalendarException struct {
	ID         int64                 `json:"id"`
	LocationID int64                 `json:"locationID"`
	Date       time.Time             `json:"date"`
	Kind       CalendarExceptionKind `json:"kind"`
	Note       string                `json:"note"`
}
