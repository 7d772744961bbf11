package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

type staffingLineRequest struct {
	PositionID    int64  `json:"positionID" validate:"required"`
	RequiredCount int32  `json:"requiredCount" validate:"required,min=1"`
	IdealCount    *int32 `json:"idealCount"`
}

type languageHintRequest struct {
	LanguageID    int64 `json:"languageID" validate:"required"`
	RequiredCount int32 `json:"requiredCount" validate:"required,min=1"`
}

// validateBlueprintShape 校验蓝图中不依赖数据库的部分：
// 时间格式、人数关系和岗位唯一性
func validateBlueprintShape(startTime, endTime string, lines []staffingLineRequest) error {
	start, err := time.Parse("15:04:05", startTime)
	if err != nil {
		return errors.New("开始时间格式不正确，应为 HH:MM:SS")
	}
	end, err := time.Parse("15:04:05", endTime)
	if err != nil {
		return errors.New("结束时间格式不正确，应为 HH:MM:SS")
	}
	if !start.Before(end) {
		return errors.New("开始时间必须早于结束时间")
	}

	seen := map[int64]struct{}{}
	for _, line := range lines {
		if _, ok := seen[line.PositionID]; ok {
			return fmt.Errorf("岗位 %d 在蓝图中重复出现", line.PositionID)
		}
		seen[line.PositionID] = struct{}{}

		if line.IdealCount != nil && *line.IdealCount < line.RequiredCount {
			return fmt.Errorf("岗位 %d 的理想人数不能小于最低人数", line.PositionID)
		}
	}

	return nil
}

func (h *Handler) CreateBlueprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LocationID    int64                 `json:"locationID" validate:"required"`
		Name          string                `json:"name" validate:"required"`
		StartTime     string                `json:"startTime" validate:"required"`
		EndTime       string                `json:"endTime" validate:"required"`
		Priority      int32                 `json:"priority"`
		StaffingLines []staffingLineRequest `json:"staffingLines" validate:"required,min=1,dive"`
		LanguageHints []languageHintRequest `json:"languageHints" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := validateBlueprintShape(req.StartTime, req.EndTime, req.StaffingLines); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	bp := &domain.Blueprint{
		LocationID: req.LocationID,
		Name:       req.Name,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		IsActive:   true,
		Priority:   req.Priority,
	}
	for _, line := range req.StaffingLines {
		bp.StaffingLines = append(bp.StaffingLines, domain.StaffingLine{
			PositionID:    line.PositionID,
			RequiredCount: line.RequiredCount,
			IdealCount:    line.IdealCount,
		})
	}
	for _, hint := range req.LanguageHints {
		bp.LanguageHints = append(bp.LanguageHints, domain.LanguageHint{
			LanguageID:    hint.LanguageID,
			RequiredCount: hint.RequiredCount,
		})
	}

	if err := h.repository.CreateBlueprint(bp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "staffing_lines_blueprint_id_position_id_key":
				h.badRequest(w, r, errors.New("同一岗位在蓝图中只能出现一次"))
			case pgErr.ConstraintName == "language_hints_blueprint_id_language_id_key":
				h.badRequest(w, r, errors.New("同一语言在蓝图中只能出现一次"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "蓝图创建成功", bp)
}

func (h *Handler) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	bp := r.Context().Value(BlueprintCtx).(*domain.Blueprint)
	h.successResponse(w, r, "获取蓝图成功", bp)
}

func (h *Handler) UpdateBlueprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          *string               `json:"name"`
		StartTime     *string               `json:"startTime"`
		EndTime       *string               `json:"endTime"`
		Priority      *int32                `json:"priority"`
		StaffingLines []staffingLineRequest `json:"staffingLines" validate:"omitempty,min=1,dive"`
		LanguageHints []languageHintRequest `json:"languageHints" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bp := r.Context().Value(BlueprintCtx).(*domain.Blueprint)

	if req.Name != nil {
		bp.Name = *req.Name
	}
	if req.StartTime != nil {
		bp.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		bp.EndTime = *req.EndTime
	}
	if req.Priority != nil {
		bp.Priority = *req.Priority
	}
	if req.StaffingLines != nil {
		bp.StaffingLines = bp.StaffingLines[:0]
		for _, line := range req.StaffingLines {
			bp.StaffingLines = append(bp.StaffingLines, domain.StaffingLine{
				PositionID:    line.PositionID,
				RequiredCount: line.RequiredCount,
				IdealCount:    line.IdealCount,
			})
		}
	}
	if req.LanguageHints != nil {
		bp.LanguageHints = bp.LanguageHints[:0]
		for _, hint := range req.LanguageHints {
			bp.LanguageHints = append(bp.LanguageHints, domain.LanguageHint{
				LanguageID:    hint.LanguageID,
				RequiredCount: hint.RequiredCount,
			})
		}
	}

	if err := validateBlueprintShape(bp.StartTime, bp.EndTime, req.StaffingLines); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.UpdateBlueprint(bp); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新蓝图失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新蓝图成功", bp)
}

func (h *Handler) DeactivateBlueprint(w http.ResponseWriter, r *http.Request) {
	bp := r.Context().Value(BlueprintCtx).(*domain.Blueprint)

	if err := h.repository.DeactivateBlueprint(bp.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "蓝图已处于停用状态")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "停用蓝图成功", nil)
}

func (h *Handler) GetLocationBlueprints(w http.ResponseWriter, r *http.Request) {
	loc := r.Context().Value(LocationCtx).(*domain.Location)

	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	blueprints, err := h.repository.GetBlueprintsByLocation(loc.ID, activeOnly)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取蓝图列表成功", blueprints)
}
