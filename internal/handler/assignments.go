package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/engine"
)

func (h *Handler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)

	var req struct {
		EmployeeID int64 `json:"employeeID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	actor, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	assignment, warnings, err := h.repository.AssignEmployee(occ.ID, req.EmployeeID, actor)
	if err != nil {
		var violation *engine.RuleViolation
		switch {
		case errors.As(err, &violation):
			h.errorResponse(w, r, violation.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次实例或员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 排班已经落库，通知失败只记录日志
	if employee, err := h.repository.GetEmployeeByID(req.EmployeeID); err != nil {
		h.logInternalServerError(r, err)
	} else {
		h.tryPublishNotification(domain.NotificationMessage{
			Type: "assignment_created",
			To:   employee.Email,
			Data: domain.AssignmentCreatedMailData{
				FullName:  employee.FullName,
				Date:      occ.Date.Format("2006-01-02"),
				StartTime: occ.StartTime,
				EndTime:   occ.EndTime,
				Warnings:  strings.Join(warnings, "；"),
			},
		})
	}

	h.successResponse(w, r, "排班成功", struct {
		Assignment *domain.Assignment `json:"assignment"`
		Warnings   []string           `json:"warnings"`
	}{
		Assignment: assignment,
		Warnings:   warnings,
	})
}

func (h *Handler) GetOccurrenceAssignments(w http.ResponseWriter, r *http.Request) {
	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)

	assignments, err := h.repository.ListAssignmentsByOccurrence(occ.ID, false)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班列表成功", assignments)
}

// RankCandidates 为一组候选员工计算该班次实例上的候选等级
// 等级只用于排序展示，不是排班资格的门槛
func (h *Handler) RankCandidates(w http.ResponseWriter, r *http.Request) {
	occ := r.Context().Value(OccurrenceCtx).(*domain.Occurrence)

	var req struct {
		EmployeeIDs []int64 `json:"employeeIDs" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bp, err := h.repository.GetBlueprintByID(occ.BlueprintID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	employees, err := h.repository.GetEmployeesByIDs(req.EmployeeIDs)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "候选员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取候选等级成功", engine.RankCandidates(employees, occ, bp))
}

func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentIDParam := chi.URLParam(r, "id")
	assignmentID, err := strconv.ParseInt(assignmentIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班ID无效")
		return
	}

	assignment, err := h.repository.RemoveAssignment(assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 与排班创建一样，通知失败不影响接口返回
	employee, err := h.repository.GetEmployeeByID(assignment.EmployeeID)
	if err != nil {
		h.logInternalServerError(r, err)
	} else {
		occ, err := h.repository.GetOccurrenceByID(assignment.OccurrenceID, true)
		if err != nil {
			h.logInternalServerError(r, err)
		} else {
			h.tryPublishNotification(domain.NotificationMessage{
				Type: "assignment_removed",
				To:   employee.Email,
				Data: domain.AssignmentRemovedMailData{
					FullName:  employee.FullName,
					Date:      occ.Date.Format("2006-01-02"),
					StartTime: occ.StartTime,
					EndTime:   occ.EndTime,
				},
			})
		}
	}

	h.successResponse(w, r, "取消排班成功", assignment)
}

func (h *Handler) ConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentIDParam := chi.URLParam(r, "id")
	assignmentID, err := strconv.ParseInt(assignmentIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班ID无效")
		return
	}

	assignment, err := h.repository.GetAssignmentByID(assignmentID, false)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 普通员工只能确认自己的排班
	actor, err := h.actorID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	if role == domain.RoleEmployee && assignment.EmployeeID != actor {
		h.errorResponse(w, r, "只能确认自己的排班")
		return
	}

	if assignment.IsConfirmed {
		h.errorResponse(w, r, "该排班已确认")
		return
	}

	confirmed, err := h.repository.ConfirmAssignment(assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "确认排班成功", confirmed)
}
