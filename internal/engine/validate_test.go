package engine

import (
	"testing"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func i32(v int32) *int32 { return &v }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// 构造一套默认能通过全部校验的输入，各用例在此基础上修改
func validInput() *ValidationInput {
	bp := &domain.Blueprint{
		ID:         1,
		LocationID: 10,
		Name:       "早班",
		StartTime:  "09:00:00",
		EndTime:    "17:00:00",
		IsActive:   true,
		StaffingLines: []domain.StaffingLine{
			{ID: 1, PositionID: 100, RequiredCount: 2, IdealCount: i32(3)},
		},
	}

	return &ValidationInput{
		Occurrence: &domain.Occurrence{
			ID:                1000,
			BlueprintID:       bp.ID,
			LocationID:        10,
			Date:              date("2025-02-03"),
			StartTime:         "09:00:00",
			EndTime:           "17:00:00",
			RequiredHeadcount: 2,
			IdealHeadcount:    i32(3),
		},
		Blueprint: bp,
		Location:  &domain.Location{ID: 10, CompanyID: 5, Name: "中山北店"},
		Employee: &domain.Employee{
			ID:          200,
			FullName:    "王小明",
			PositionID:  100,
			CompanyIDs:  []int64{5},
			LocationIDs: []int64{10},
		},
	}
}

func TestValidateAssignmentPasses(t *testing.T) {
	require.Nil(t, ValidateAssignment(validInput()))
}

func TestValidateAssignmentAlreadyAssigned(t *testing.T) {
	in := validInput()
	in.Assignees = []Assignee{{EmployeeID: 200, PositionID: 100}}

	v := ValidateAssignment(in)
	require.NotNil(t, v)
	require.Equal(t, ViolationAlreadyAssigned, v.Kind)
}

func TestValidateAssignmentBlockingAvailability(t *testing.T) {
	blocking := []domain.AvailabilityType{
		domain.AvailabilityVacation,
		domain.AvailabilitySickLeave,
		domain.AvailabilityPersonalLeave,
		domain.AvailabilityUnjustifiedAbsence,
		domain.AvailabilityUnavailable,
	}

	for _, typ := range blocking {
		t.Run(string(typ), func(t *testing.T) {
			in := validInput()
			in.Availability = []*domain.AvailabilityRecord{
				{EmployeeID: 200, StartDate: date("2025-02-01"), EndDate: date("2025-02-05"), Type: typ},
			}

			v := ValidateAssignment(in)
			require.NotNil(t, v)
			require.Equal(t, ViolationBlockedByAvailability, v.Kind)
			require.Equal(t, typ, v.AvailabilityType)
		})
	}

	t.Run("AVAILABLE不阻断", func(t *testing.T) {
		in := validInput()
		in.Availability = []*domain.AvailabilityRecord{
			{EmployeeID: 200, StartDate: date("2025-02-01"), EndDate: date("2025-02-05"), Type: domain.AvailabilityAvailable},
		}
		require.Nil(t, ValidateAssignment(in))
	})

	t.Run("不覆盖当天的记录不阻断", func(t *testing.T) {
		in := validInput()
		in.Availability = []*domain.AvailabilityRecord{
			{EmployeeID: 200, StartDate: date("2025-02-04"), EndDate: date("2025-02-06"), Type: domain.AvailabilityVacation},
		}
		require.Nil(t, ValidateAssignment(in))
	})

	t.Run("边界日期按闭区间处理", func(t *testing.T) {
		in := validInput()
		in.Availability = []*domain.AvailabilityRecord{
			{EmployeeID: 200, StartDate: date("2025-02-03"), EndDate: date("2025-02-03"), Type: domain.AvailabilityVacation},
		}
		v := ValidateAssignment(in)
		require.NotNil(t, v)
		require.Equal(t, ViolationBlockedByAvailability, v.Kind)
	})
}

func TestValidateAssignmentPositionMismatch(t *testing.T) {
	in := validInput()
	in.Employee.PositionID = 999

	v := ValidateAssignment(in)
	require.NotNil(t, v)
	require.Equal(t, ViolationPositionMismatch, v.Kind)
}

func TestValidateAssignmentMembership(t *testing.T) {
	t.Run("不属于公司", func(t *testing.T) {
		in := validInput()
		in.Employee.CompanyIDs = []int64{6}

		v := ValidateAssignment(in)
		require.NotNil(t, v)
		require.Equal(t, ViolationNotInCompanyOrLocation, v.Kind)
	})

	t.Run("没有分配到门店", func(t *testing.T) {
		in := validInput()
		in.Employee.LocationIDs = []int64{11}

		v := ValidateAssignment(in)
		require.NotNil(t, v)
		require.Equal(t, ViolationNotInCompanyOrLocation, v.Kind)
	})
}

// 语言要求刻意不阻断：蓝图要求的语言员工一种都不会，校验也要通过
func TestValidateAssignmentLanguageNeverBlocks(t *testing.T) {
	in := validInput()
	in.Blueprint.LanguageHints = []domain.LanguageHint{
		{LanguageID: 1, RequiredCount: 1},
		{LanguageID: 2, RequiredCount: 1},
	}
	in.Employee.LanguageIDs = nil

	require.Nil(t, ValidateAssignment(in))
}

func TestValidateAssignmentOverlap(t *testing.T) {
	t.Run("首尾相接也算重叠", func(t *testing.T) {
		in := validInput()
		in.Occurrence.StartTime = "09:00:00"
		in.Occurrence.EndTime = "14:00:00"
		in.SameDayOccurrences = []*domain.Occurrence{
			{ID: 2000, Date: date("2025-02-03"), StartTime: "14:00:00", EndTime: "18:00:00"},
		}

		v := ValidateAssignment(in)
		require.NotNil(t, v)
		require.Equal(t, ViolationOverlappingShift, v.Kind)
	})

	t.Run("留出一分钟间隔则不重叠", func(t *testing.T) {
		in := validInput()
		in.Occurrence.StartTime = "09:00:00"
		in.Occurrence.EndTime = "13:59:00"
		in.SameDayOccurrences = []*domain.Occurrence{
			{ID: 2000, Date: date("2025-02-03"), StartTime: "14:00:00", EndTime: "18:00:00"},
		}

		require.Nil(t, ValidateAssignment(in))
	})
}

func TestValidateAssignmentCapacity(t *testing.T) {
	// 最低 2 人、理想 3 人：第 4 个同岗位员工应被拒绝，且报告 (3, 3)
	in := validInput()
	in.Assignees = []Assignee{
		{EmployeeID: 201, PositionID: 100},
		{EmployeeID: 202, PositionID: 100},
		{EmployeeID: 203, PositionID: 100},
	}

	v := ValidateAssignment(in)
	require.NotNil(t, v)
	require.Equal(t, ViolationPositionCapacityExceeded, v.Kind)
	require.Equal(t, int32(3), v.Current)
	require.Equal(t, int32(3), v.Cap)
}

func TestValidateAssignmentCapacityIgnoresOtherPositions(t *testing.T) {
	in := validInput()
	in.Blueprint.StaffingLines = append(in.Blueprint.StaffingLines,
		domain.StaffingLine{ID: 2, PositionID: 101, RequiredCount: 5})
	in.Assignees = []Assignee{
		{EmployeeID: 201, PositionID: 101},
		{EmployeeID: 202, PositionID: 101},
		{EmployeeID: 203, PositionID: 101},
	}

	require.Nil(t, ValidateAssignment(in))
}

func TestValidateAssignmentCapacityWithoutIdeal(t *testing.T) {
	// 未设置理想人数时上限取最低人数
	in := validInput()
	in.Blueprint.StaffingLines[0].IdealCount = nil
	in.Blueprint.StaffingLines[0].RequiredCount = 1
	in.Assignees = []Assignee{{EmployeeID: 201, PositionID: 100}}

	v := ValidateAssignment(in)
	require.NotNil(t, v)
	require.Equal(t, ViolationPositionCapacityExceeded, v.Kind)
	require.Equal(t, int32(1), v.Current)
	require.Equal(t, int32(1), v.Cap)
}

// 校验链的顺序是约定的一部分：重复排班要先于假勤被报告
func TestValidateAssignmentOrder(t *testing.T) {
	in := validInput()
	in.Assignees = []Assignee{{EmployeeID: 200, PositionID: 100}}
	in.Availability = []*domain.AvailabilityRecord{
		{EmployeeID: 200, StartDate: date("2025-02-03"), EndDate: date("2025-02-03"), Type: domain.AvailabilityVacation},
	}

	v := ValidateAssignment(in)
	require.NotNil(t, v)
	require.Equal(t, ViolationAlreadyAssigned, v.Kind)
}

func TestTimesOverlap(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		expected       bool
	}{
		{"完全重叠", "09:00:00", "17:00:00", "09:00:00", "17:00:00", true},
		{"部分重叠", "09:00:00", "14:00:00", "12:00:00", "18:00:00", true},
		{"包含", "09:00:00", "18:00:00", "10:00:00", "12:00:00", true},
		{"首尾相接", "09:00:00", "14:00:00", "14:00:00", "18:00:00", true},
		{"反向首尾相接", "14:00:00", "18:00:00", "09:00:00", "14:00:00", true},
		{"相差一分钟", "09:00:00", "13:59:00", "14:00:00", "18:00:00", false},
		{"完全分离", "09:00:00", "10:00:00", "15:00:00", "18:00:00", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, TimesOverlap(c.s1, c.e1, c.s2, c.e2))
		})
	}
}
