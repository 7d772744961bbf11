package engine

import (
	"sort"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

// Tier 计算 (员工, 班次实例) 的候选等级，1 最优，5 最差
// 纯函数，只用于排序，永远不作为排班资格的门槛：
// 等级为 5 的员工依然可以被合法排班
func Tier(e *domain.Employee, occ *domain.Occurrence, bp *domain.Blueprint) int32 {
	notPreferredDayOff := e.PreferredDayOff == nil || *e.PreferredDayOff != ISOWeekday(occ.Date)
	positionMatch := bp.LineForPosition(e.PositionID) != nil
	languageMatch := languageMatch(e, bp)
	shiftInPreferences := e.PrefersBlueprint(bp.ID)

	// 按顺序取第一条命中的规则
	switch {
	case notPreferredDayOff && shiftInPreferences && languageMatch && positionMatch:
		return 1
	case positionMatch && notPreferredDayOff && shiftInPreferences:
		return 2
	case positionMatch && notPreferredDayOff:
		return 3
	case notPreferredDayOff:
		return 4
	default:
		// 走到这里说明班次落在员工的偏好休息日上
		return 5
	}
}

// languageMatch 的语义是「任一命中」：只要员工会说蓝图提示语言中的一种就算匹配
// 注意这意味着一个要求中英双语的蓝图会被只会英语的员工「匹配」，
// 这是沿用下来的产品行为，未经确认不要改成「全部命中」
func languageMatch(e *domain.Employee, bp *domain.Blueprint) bool {
	if len(bp.LanguageHints) == 0 {
		return true
	}
	for _, hint := range bp.LanguageHints {
		if e.Speaks(hint.LanguageID) {
			return true
		}
	}
	return false
}

type CandidateTier struct {
	EmployeeID int64 `json:"employeeID"`
	Tier       int32 `json:"tier"`
}

// RankCandidates 为一组候选员工计算等级并按等级升序返回
// 等级相同的按员工 id 升序，保证结果稳定
func RankCandidates(employees []*domain.Employee, occ *domain.Occurrence, bp *domain.Blueprint) []CandidateTier {
	result := make([]CandidateTier, 0, len(employees))
	for _, e := range employees {
		result = append(result, CandidateTier{
			EmployeeID: e.ID,
			Tier:       Tier(e, occ, bp),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Tier != result[j].Tier {
			return result[i].Tier < result[j].Tier
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})

	return result
}
