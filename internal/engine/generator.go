package engine

import (
	"sort"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

// GenerationPlan 是一次生成操作要落库的全部变更
// 先算好再写库，让 repository 可以在一个事务里一次性执行
type GenerationPlan struct {
	// 需要先软删除已有实例的日期（仅替换模式下非空）
	ReplacedDates []time.Time
	// 按日期、蓝图优先级排好序的新实例
	Creations []*domain.Occurrence
}

// PlanOccurrences 把门店的活跃蓝图展开成日期范围内的班次实例
//
// 前置条件（由调用方校验，这里不重复推导）：start 落在固定的起始星期，
// end = start + 6 天的整数倍，范围不超过 8 周。
//
//   - replaceExisting 为 false 时，范围内只要有任何日期已存在实例，
//     整个操作不创建任何东西，并把全部冲突日期返回（全有或全无的预检，
//     不是先创建再回滚）
//   - replaceExisting 为 true 时，冲突日期上的已有实例先被移除，
//     然后为范围内每一天、每个活跃蓝图生成新实例
//   - 停业日在任何模式下都不生成实例
func PlanOccurrences(
	blueprints []*domain.Blueprint,
	start, end time.Time,
	existingDates []time.Time,
	blackoutDates []time.Time,
	replaceExisting bool,
) (*GenerationPlan, error) {
	start, end = DateOnly(start), DateOnly(end)

	existing := make(map[time.Time]struct{}, len(existingDates))
	for _, d := range existingDates {
		existing[DateOnly(d)] = struct{}{}
	}
	blackout := make(map[time.Time]struct{}, len(blackoutDates))
	for _, d := range blackoutDates {
		blackout[DateOnly(d)] = struct{}{}
	}

	// 冲突预检：范围内已存在实例的日期
	conflicts := make(map[time.Time]struct{})
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := existing[d]; ok {
			conflicts[d] = struct{}{}
		}
	}

	if len(conflicts) > 0 && !replaceExisting {
		return nil, newConflictError(conflicts)
	}

	// 只展开活跃蓝图，按优先级升序（越小越优先），同优先级按 id
	active := make([]*domain.Blueprint, 0, len(blueprints))
	for _, bp := range blueprints {
		if bp.IsActive {
			active = append(active, bp)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority < active[j].Priority
		}
		return active[i].ID < active[j].ID
	})

	plan := &GenerationPlan{}

	for d := range conflicts {
		plan.ReplacedDates = append(plan.ReplacedDates, d)
	}
	sort.Slice(plan.ReplacedDates, func(i, j int) bool {
		return plan.ReplacedDates[i].Before(plan.ReplacedDates[j])
	})

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := blackout[d]; ok {
			continue
		}

		for _, bp := range active {
			occ := &domain.Occurrence{
				BlueprintID:       bp.ID,
				LocationID:        bp.LocationID,
				Date:              d,
				StartTime:         bp.StartTime,
				EndTime:           bp.EndTime,
				RequiredHeadcount: bp.TotalRequired(),
			}
			// 只有蓝图明确设置了理想人数时才复制，否则留空
			if hasIdeal(bp) {
				ideal := bp.TotalIdeal()
				occ.IdealHeadcount = &ideal
			}
			plan.Creations = append(plan.Creations, occ)
		}
	}

	return plan, nil
}

func hasIdeal(bp *domain.Blueprint) bool {
	for i := range bp.StaffingLines {
		if bp.StaffingLines[i].IdealCount != nil {
			return true
		}
	}
	return false
}
