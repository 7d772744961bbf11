package engine

import (
	"testing"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestWarningsNone(t *testing.T) {
	e, occ, bp := tierFixture()

	warnings := Warnings(e, occ, bp)
	require.NotNil(t, warnings)
	require.Empty(t, warnings)
}

func TestWarningsPreferredDayOff(t *testing.T) {
	e, occ, bp := tierFixture()
	monday := int32(1)
	e.PreferredDayOff = &monday

	warnings := Warnings(e, occ, bp)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "星期一")
}

func TestWarningsNotPreferredBlueprint(t *testing.T) {
	e, occ, bp := tierFixture()
	e.PreferredBlueprintIDs = []int64{42}

	warnings := Warnings(e, occ, bp)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "偏好的班次")
}

// 没配置偏好班次时不提示「不在偏好列表中」
func TestWarningsNoPreferenceConfigured(t *testing.T) {
	e, occ, bp := tierFixture()
	e.PreferredBlueprintIDs = nil

	require.Empty(t, Warnings(e, occ, bp))
}

func TestWarningsBoth(t *testing.T) {
	e, occ, bp := tierFixture()
	monday := int32(1)
	e.PreferredDayOff = &monday
	e.PreferredBlueprintIDs = []int64{42}

	require.Len(t, Warnings(e, occ, bp), 2)
}

func TestSummarize(t *testing.T) {
	occ := &domain.Occurrence{ID: 1000, RequiredHeadcount: 2}

	t.Run("无排班", func(t *testing.T) {
		s := Summarize(occ, nil)
		require.Equal(t, int32(0), s.TotalAssigned)
		require.False(t, s.IsComplete)
		require.Empty(t, s.ByPosition)
	})

	t.Run("未满", func(t *testing.T) {
		s := Summarize(occ, []Assignee{{EmployeeID: 1, PositionID: 100}})
		require.Equal(t, int32(1), s.TotalAssigned)
		require.False(t, s.IsComplete)
	})

	t.Run("刚好满足", func(t *testing.T) {
		s := Summarize(occ, []Assignee{
			{EmployeeID: 1, PositionID: 100},
			{EmployeeID: 2, PositionID: 101},
		})
		require.Equal(t, int32(2), s.TotalAssigned)
		require.True(t, s.IsComplete)
		require.Equal(t, int32(1), s.ByPosition[100])
		require.Equal(t, int32(1), s.ByPosition[101])
	})

	t.Run("超出最低人数仍然完整", func(t *testing.T) {
		s := Summarize(occ, []Assignee{
			{EmployeeID: 1, PositionID: 100},
			{EmployeeID: 2, PositionID: 100},
			{EmployeeID: 3, PositionID: 100},
		})
		require.True(t, s.IsComplete)
		require.Equal(t, int32(3), s.ByPosition[100])
	})
}
