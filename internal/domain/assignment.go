package domain

import "time"

// Assignment 把一名员工和一个班次实例关联起来
// 约束：同一个 (occurrence, employee) 至多存在一条未删除的记录，
// 已软删除的记录不参与唯一性、容量和时间冲突的判断
type Assignment struct {
	ID           int64      `json:"id"`
	OccurrenceID int64      `json:"occurrenceID"`
	EmployeeID   int64      `json:"employeeID"`
	IsConfirmed  bool       `json:"isConfirmed"`
	AssignedBy   int64      `json:"assignedBy"`
	AssignedAt   time.Time  `json:"assignedAt"`
	ConfirmedAt  *time.Time `json:"confirmedAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
	Version      int32      `json:"-"`
}
