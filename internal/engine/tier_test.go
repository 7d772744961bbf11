package engine

import (
	"testing"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

// 2025-02-03 是星期一
func tierFixture() (*domain.Employee, *domain.Occurrence, *domain.Blueprint) {
	bp := &domain.Blueprint{
		ID:         1,
		LocationID: 10,
		StaffingLines: []domain.StaffingLine{
			{PositionID: 100, RequiredCount: 1},
		},
		LanguageHints: []domain.LanguageHint{
			{LanguageID: 1, RequiredCount: 1},
		},
	}
	occ := &domain.Occurrence{ID: 1000, BlueprintID: 1, LocationID: 10, Date: date("2025-02-03")}
	e := &domain.Employee{
		ID:                    200,
		PositionID:            100,
		LanguageIDs:           []int64{1},
		PreferredBlueprintIDs: []int64{1},
	}
	return e, occ, bp
}

func TestTierLevels(t *testing.T) {
	t.Run("全部命中为一级", func(t *testing.T) {
		e, occ, bp := tierFixture()
		require.Equal(t, int32(1), Tier(e, occ, bp))
	})

	t.Run("语言不匹配为二级", func(t *testing.T) {
		e, occ, bp := tierFixture()
		e.LanguageIDs = nil
		require.Equal(t, int32(2), Tier(e, occ, bp))
	})

	t.Run("不在偏好班次中为三级", func(t *testing.T) {
		e, occ, bp := tierFixture()
		e.PreferredBlueprintIDs = nil
		require.Equal(t, int32(3), Tier(e, occ, bp))
	})

	t.Run("岗位不匹配为四级", func(t *testing.T) {
		e, occ, bp := tierFixture()
		e.PositionID = 999
		require.Equal(t, int32(4), Tier(e, occ, bp))
	})

	t.Run("落在偏好休息日一律为五级", func(t *testing.T) {
		// 其余条件全部满足也压不过休息日
		e, occ, bp := tierFixture()
		monday := int32(1)
		e.PreferredDayOff = &monday
		require.Equal(t, int32(5), Tier(e, occ, bp))
	})

	t.Run("休息日不是当天则不影响", func(t *testing.T) {
		e, occ, bp := tierFixture()
		sunday := int32(7)
		e.PreferredDayOff = &sunday
		require.Equal(t, int32(1), Tier(e, occ, bp))
	})
}

// 没有语言提示时语言维度视为满足
func TestTierNoLanguageHints(t *testing.T) {
	e, occ, bp := tierFixture()
	bp.LanguageHints = nil
	e.LanguageIDs = nil
	require.Equal(t, int32(1), Tier(e, occ, bp))
}

// 语言提示是「任一命中」语义：会其中一种就算匹配
func TestTierLanguageAnyMatch(t *testing.T) {
	e, occ, bp := tierFixture()
	bp.LanguageHints = []domain.LanguageHint{
		{LanguageID: 1, RequiredCount: 1},
		{LanguageID: 2, RequiredCount: 1},
	}
	e.LanguageIDs = []int64{2}
	require.Equal(t, int32(1), Tier(e, occ, bp))
}

// Tier 是纯函数：相同输入必须得到相同输出
func TestTierDeterministic(t *testing.T) {
	e, occ, bp := tierFixture()
	first := Tier(e, occ, bp)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Tier(e, occ, bp))
	}
}

func TestRankCandidatesOrdering(t *testing.T) {
	_, occ, bp := tierFixture()
	monday := int32(1)

	employees := []*domain.Employee{
		{ID: 1, PositionID: 999},                                                            // 四级
		{ID: 2, PositionID: 100, LanguageIDs: []int64{1}, PreferredBlueprintIDs: []int64{1}}, // 一级
		{ID: 3, PositionID: 100, PreferredDayOff: &monday},                                   // 五级
		{ID: 4, PositionID: 100},                                                            // 三级
		{ID: 5, PositionID: 100, PreferredBlueprintIDs: []int64{1}},                          // 二级
	}

	ranked := RankCandidates(employees, occ, bp)

	require.Len(t, ranked, 5)
	require.Equal(t, []CandidateTier{
		{EmployeeID: 2, Tier: 1},
		{EmployeeID: 5, Tier: 2},
		{EmployeeID: 4, Tier: 3},
		{EmployeeID: 1, Tier: 4},
		{EmployeeID: 3, Tier: 5},
	}, ranked)
}

func TestRankCandidatesStableTieBreak(t *testing.T) {
	_, occ, bp := tierFixture()
	bp.LanguageHints = nil

	employees := []*domain.Employee{
		{ID: 9, PositionID: 100},
		{ID: 3, PositionID: 100},
		{ID: 6, PositionID: 100},
	}

	ranked := RankCandidates(employees, occ, bp)
	require.Equal(t, int64(3), ranked[0].EmployeeID)
	require.Equal(t, int64(6), ranked[1].EmployeeID)
	require.Equal(t, int64(9), ranked[2].EmployeeID)
}
