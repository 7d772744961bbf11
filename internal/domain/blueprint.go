package domain

import "time"

// StaffingLine 描述某个岗位在该班次蓝图中需要的人数
// 约束：同一个蓝图中每个岗位至多出现一次
type StaffingLine struct {
	ID            int64  `json:"id"`
	PositionID    int64  `json:"positionID"`
	RequiredCount int32  `json:"requiredCount"`
	IdealCount    *int32 `json:"idealCount"` // 为空时以 RequiredCount 为准
}

// Cap 返回该岗位允许的最大排班人数
func (l *StaffingLine) Cap() int32 {
	if l.IdealCount != nil {
		return *l.IdealCount
	}
	return l.RequiredCount
}

// LanguageHint 描述该班次蓝图期望的语言覆盖，仅用于候选人排序，不做硬性校验
// 约束：同一个蓝图中每种语言至多出现一次
type LanguageHint struct {
	ID            int64 `json:"id"`
	LanguageID    int64 `json:"languageID"`
	RequiredCount int32 `json:"requiredCount"`
}

type Blueprint struct {
	ID         int64  `json:"id"`
	LocationID int64  `json:"locationID"`
	Name       string `json:"name"`
	StartTime  string `json:"startTime"` // 门店本地时间，不做时区换算
	EndTime    string `json:"endTime"`
	IsActive   bool   `json:"isActive"`
	Priority   int32  `json:"priority"` // 越小越优先

	StaffingLines []StaffingLine `json:"staffingLines"`
	LanguageHints []LanguageHint `json:"languageHints"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// LineForPosition 找出某个岗位对应的人数要求，不存在时返回 nil
func (b *Blueprint) LineForPosition(positionID int64) *StaffingLine {
	for i := range b.StaffingLines {
		if b.StaffingLines[i].PositionID == positionID {
			return &b.StaffingLines[i]
		}
	}
	return nil
}

// TotalRequired 计算该蓝图所有岗位的最低总人数
func (b *Blueprint) TotalRequired() int32 {
	var total int32
	for i := range b.StaffingLines {
		total += b.StaffingLines[i].RequiredCount
	}
	return total
}

// TotalIdeal 计算该蓝图所有岗位的理想总人数
func (b *Blueprint) TotalIdeal() int32 {
	var total int32
	for i := range b.StaffingLines {
		total += b.StaffingLines[i].Cap()
	}
	return total
}
