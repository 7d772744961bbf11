package engine

import (
	"fmt"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

var weekdayNames = map[int32]string{
	1: "星期一",
	2: "星期二",
	3: "星期三",
	4: "星期四",
	5: "星期五",
	6: "星期六",
	7: "星期日",
}

// Warnings 生成排班成功后附带的提示信息，只提示、不阻断
// 两个条件相互独立，可能返回 0、1 或 2 条；没有提示时返回空切片而不是 nil
func Warnings(e *domain.Employee, occ *domain.Occurrence, bp *domain.Blueprint) []string {
	warnings := make([]string, 0, 2)

	if e.PreferredDayOff != nil && *e.PreferredDayOff == ISOWeekday(occ.Date) {
		warnings = append(warnings, fmt.Sprintf("该班次落在员工的偏好休息日（%s）", weekdayNames[*e.PreferredDayOff]))
	}

	if len(e.PreferredBlueprintIDs) > 0 && !e.PrefersBlueprint(bp.ID) {
		warnings = append(warnings, "该班次不在员工偏好的班次列表中")
	}

	return warnings
}
