package domain

import "time"

// Occurrence 是蓝图在某一天的具体实例
// 生成时从蓝图复制 location 和人数要求，之后蓝图的修改不影响已生成的实例
type Occurrence struct {
	ID                int64      `json:"id"`
	BlueprintID       int64      `json:"blueprintID"`
	LocationID        int64      `json:"locationID"`
	Date              time.Time  `json:"date"` // 仅日期部分有意义
	StartTime         string     `json:"startTime"`
	EndTime           string     `json:"endTime"`
	RequiredHeadcount int32      `json:"requiredHeadcount"`
	IdealHeadcount    *int32     `json:"idealHeadcount"`
	IsComplete        bool       `json:"isComplete"` // 派生字段，随排班变更同步重算
	Note              string     `json:"note"`
	DeletedAt         *time.Time `json:"deletedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	Version           int32      `json:"-"`
}

// CapacitySummary 描述某个实例当前的排班完成度
type CapacitySummary struct {
	OccurrenceID      int64           `json:"occurrenceID"`
	TotalAssigned     int32           `json:"totalAssigned"`
	RequiredHeadcount int32           `json:"requiredHeadcount"`
	IsComplete        bool            `json:"isComplete"`
	ByPosition        map[int64]int32 `json:"byPosition"`
}
