package engine

import (
	"testing"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func generatorBlueprints() []*domain.Blueprint {
	return []*domain.Blueprint{
		{
			ID:         2,
			LocationID: 10,
			Name:       "晚班",
			StartTime:  "17:00:00",
			EndTime:    "22:00:00",
			IsActive:   true,
			Priority:   2,
			StaffingLines: []domain.StaffingLine{
				{PositionID: 100, RequiredCount: 1},
			},
		},
		{
			ID:         1,
			LocationID: 10,
			Name:       "早班",
			StartTime:  "09:00:00",
			EndTime:    "17:00:00",
			IsActive:   true,
			Priority:   1,
			StaffingLines: []domain.StaffingLine{
				{PositionID: 100, RequiredCount: 1, IdealCount: i32(2)},
				{PositionID: 101, RequiredCount: 1},
			},
		},
		{
			ID:         3,
			LocationID: 10,
			Name:       "已停用",
			StartTime:  "08:00:00",
			EndTime:    "12:00:00",
			IsActive:   false,
			Priority:   0,
			StaffingLines: []domain.StaffingLine{
				{PositionID: 100, RequiredCount: 1},
			},
		},
	}
}

// 2025-02-03（周一）到 2025-02-09（周日）
func weekRange() (time.Time, time.Time) {
	return date("2025-02-03"), date("2025-02-09")
}

func TestPlanOccurrencesFullWeek(t *testing.T) {
	start, end := weekRange()

	plan, err := PlanOccurrences(generatorBlueprints(), start, end, nil, nil, false)
	require.NoError(t, err)
	require.Empty(t, plan.ReplacedDates)

	// 7 天 × 2 个活跃蓝图，停用蓝图不展开
	require.Len(t, plan.Creations, 14)

	// 同一天内按优先级升序：早班（priority 1）在前
	require.Equal(t, int64(1), plan.Creations[0].BlueprintID)
	require.Equal(t, int64(2), plan.Creations[1].BlueprintID)
	require.True(t, SameDate(plan.Creations[0].Date, start))
	require.True(t, SameDate(plan.Creations[13].Date, end))
}

func TestPlanOccurrencesCopiesHeadcounts(t *testing.T) {
	start, end := weekRange()

	plan, err := PlanOccurrences(generatorBlueprints(), start, end, nil, nil, false)
	require.NoError(t, err)

	morning := plan.Creations[0]
	require.Equal(t, "09:00:00", morning.StartTime)
	require.Equal(t, "17:00:00", morning.EndTime)
	require.Equal(t, int32(2), morning.RequiredHeadcount)
	require.NotNil(t, morning.IdealHeadcount)
	require.Equal(t, int32(3), *morning.IdealHeadcount)

	// 晚班没有设置理想人数，生成的实例也留空
	evening := plan.Creations[1]
	require.Equal(t, int32(1), evening.RequiredHeadcount)
	require.Nil(t, evening.IdealHeadcount)
}

func TestPlanOccurrencesConflictWithoutReplace(t *testing.T) {
	start, end := weekRange()

	plan, err := PlanOccurrences(generatorBlueprints(), start, end,
		[]time.Time{date("2025-02-05")}, nil, false)

	// 全有或全无：一个冲突日期就不创建任何东西，并准确报告该日期
	require.Nil(t, plan)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Dates, 1)
	require.True(t, SameDate(date("2025-02-05"), conflict.Dates[0]))
}

func TestPlanOccurrencesConflictReportsAllDates(t *testing.T) {
	start, end := weekRange()

	_, err := PlanOccurrences(generatorBlueprints(), start, end,
		[]time.Time{date("2025-02-07"), date("2025-02-04")}, nil, false)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Dates, 2)
	// 冲突日期按时间升序返回
	require.True(t, conflict.Dates[0].Before(conflict.Dates[1]))
}

func TestPlanOccurrencesRangeOutsideExistingDates(t *testing.T) {
	start, end := weekRange()

	// 范围外的已有实例不算冲突
	plan, err := PlanOccurrences(generatorBlueprints(), start, end,
		[]time.Time{date("2025-02-10")}, nil, false)
	require.NoError(t, err)
	require.Len(t, plan.Creations, 14)
}

func TestPlanOccurrencesReplaceExisting(t *testing.T) {
	start, end := weekRange()

	plan, err := PlanOccurrences(generatorBlueprints(), start, end,
		[]time.Time{date("2025-02-05")}, nil, true)
	require.NoError(t, err)

	// 替换模式：冲突日期先删后建，整个范围照常生成
	require.Len(t, plan.ReplacedDates, 1)
	require.True(t, SameDate(date("2025-02-05"), plan.ReplacedDates[0]))
	require.Len(t, plan.Creations, 14)
}

func TestPlanOccurrencesSkipsBlackoutDates(t *testing.T) {
	start, end := weekRange()

	plan, err := PlanOccurrences(generatorBlueprints(), start, end,
		nil, []time.Time{date("2025-02-06")}, false)
	require.NoError(t, err)

	// 停业日整天不生成
	require.Len(t, plan.Creations, 12)
	for _, occ := range plan.Creations {
		require.False(t, SameDate(occ.Date, date("2025-02-06")))
	}
}

// 停业日在替换模式下同样生效
func TestPlanOccurrencesBlackoutWithReplace(t *testing.T) {
	start, end := weekRange()

	plan, err := PlanOccurrences(generatorBlueprints(), start, end,
		[]time.Time{date("2025-02-06")}, []time.Time{date("2025-02-06")}, true)
	require.NoError(t, err)

	require.Len(t, plan.ReplacedDates, 1)
	require.Len(t, plan.Creations, 12)
}

func TestISOWeekday(t *testing.T) {
	require.Equal(t, int32(1), ISOWeekday(date("2025-02-03"))) // 周一
	require.Equal(t, int32(6), ISOWeekday(date("2025-02-08"))) // 周六
	require.Equal(t, int32(7), ISOWeekday(date("2025-02-09"))) // 周日
}
