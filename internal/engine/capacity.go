package engine

import (
	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

// Summarize 从当前未删除的排班记录重新推导实例的完成度
// 这是展示用的派生数据，不是独立的事实来源：任何时刻都必须能
// 从未删除的排班记录完整重算出来，禁止做增量计数
func Summarize(occ *domain.Occurrence, assignees []Assignee) domain.CapacitySummary {
	summary := domain.CapacitySummary{
		OccurrenceID:      occ.ID,
		RequiredHeadcount: occ.RequiredHeadcount,
		ByPosition:        make(map[int64]int32),
	}

	for _, a := range assignees {
		summary.TotalAssigned++
		summary.ByPosition[a.PositionID]++
	}

	summary.IsComplete = summary.TotalAssigned >= occ.RequiredHeadcount

	return summary
}
