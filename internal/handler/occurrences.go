package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/engine"
)

func (h *Handler) GetLocationOccurrences(w http.ResponseWriter, r *http.Request) {
	loc := r.Context().Value(LocationCtx).(*domain.Location)

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		h.errorResponse(w, r, "from 参数格式不正确，应为 YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		h.errorResponse(w, r, "to 参数格式不正确，应为 YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		h.errorResponse(w, r, "to 不能早于 from")
		return
	}

	occurrences, err := h.repository.ListOccurrences(loc.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次实例列表成功", occurrences)
}

func (h *Handler) GenerateOccurrences(w http.ResponseWriter, r *http.Request) {
	loc := r.Context().Value(LocationCtx).(*domain.Location)

	var req struct {
		StartDate       string `json:"startDate" validate:"required"`
		EndDate         string `json:"endDate" validate:"required"`
		ReplaceExisting bool   `json:"replaceExisting"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期格式不正确")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "结束日期格式不正确")
		return
	}
	if end.Before(start) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}

	// 生成范围必须从周一开始并且是整周，这些前置条件在这里校验，
	// 生成逻辑本身不再重复推导
	if engine.ISOWeekday(start) != 1 {
		h.errorResponse(w, r, "开始日期必须是周一")
		return
	}

	// 日期范围闭区间，天数按两端都包含计算
	days := int(end.Sub(start).Hours()/24) + 1
	if days%7 != 0 {
		h.errorResponse(w, r, "日期范围必须是整周")
		return
	}
	if days > h.config.Generation.MaxRangeDays {
		h.errorResponse(w, r, fmt.Sprintf("单次生成的日期范围不能超过 %d 天", h.config.Generation.MaxRangeDays))
		return
	}

	occurrences, err := h.repository.GenerateOccurrences(loc.ID, start, end, req.ReplaceExisting)
	if err != nil {
		var conflictErr *engine.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			// 冲突日期作为数据返回，调用方可以据此改用替换模式重试
			dates := make([]string, len(conflictErr.Dates))
			for i, d := range conflictErr.Dates {
				dates[i] = d.Format("2006-01-02")
			}
			h.errorResponseWithData(w, r, conflictErr.Error(), dates)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "生成班次实例成功", occurrences)
}

func (h *Handler) GetOccurrence(w http.ResponseWriter, r *http.Request) {
	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)
	h.successResponse(w, r, "获取班次实例成功", occ)
}

func (h *Handler) UpdateOccurrenceNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)
	occ.Note = req.Note

	if err := h.repository.UpdateOccurrenceNote(occ); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新备注失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新备注成功", occ)
}

func (h *Handler) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)

	if err := h.repository.SoftDeleteOccurrence(occ.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次实例不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除班次实例成功", nil)
}

func (h *Handler) GetOccurrenceCapacity(w http.ResponseWriter, r *http.Request) {
	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)

	summary, err := h.repository.GetCapacitySummary(occ.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取完成度成功", summary)
}
