package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string  `json:"username" validate:"required"`
		FullName        string  `json:"fullName" validate:"required"`
		Email           string  `json:"email" validate:"required,email"`
		Role            string  `json:"role" validate:"required,oneof=普通员工 门店经理 系统管理员"`
		PositionID      int64   `json:"positionID" validate:"required"`
		PreferredDayOff *int32  `json:"preferredDayOff" validate:"omitempty,min=1,max=7"`
		CompanyIDs      []int64 `json:"companyIDs"`
		LocationIDs     []int64 `json:"locationIDs"`
		LanguageIDs     []int64 `json:"languageIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewEmployee.PasswordLength)

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 插入员工到数据库中
	employee := &domain.Employee{
		Username:        req.Username,
		PasswordHash:    string(hashedPassword),
		FullName:        req.FullName,
		Email:           req.Email,
		Role:            domain.Role(req.Role),
		PositionID:      req.PositionID,
		PreferredDayOff: req.PreferredDayOff,
		IsActive:        true,
		CompanyIDs:      req.CompanyIDs,
		LocationIDs:     req.LocationIDs,
		LanguageIDs:     req.LanguageIDs,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_username_key":
				h.badRequest(w, r, errors.New("用户名已存在"))
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 将初始密码通过邮件发送给新员工
	if err := h.publishNotification(domain.NotificationMessage{
		Type: "create_employee",
		To:   employee.Email,
		Data: domain.CreateEmployeeMailData{
			FullName: req.FullName,
			Username: req.Username,
			Password: password,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工创建成功", employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工信息成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email                 *string  `json:"email" validate:"omitempty,email"`
		Role                  *string  `json:"role" validate:"omitempty,oneof=普通员工 门店经理 系统管理员"`
		PositionID            *int64   `json:"positionID"`
		PreferredDayOff       *int32   `json:"preferredDayOff" validate:"omitempty,min=1,max=7"`
		IsActive              *bool    `json:"isActive"`
		CompanyIDs            *[]int64 `json:"companyIDs"`
		LocationIDs           *[]int64 `json:"locationIDs"`
		LanguageIDs           *[]int64 `json:"languageIDs"`
		PreferredBlueprintIDs *[]int64 `json:"preferredBlueprintIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Role != nil {
		employee.Role = domain.Role(*req.Role)
	}
	if req.PositionID != nil {
		employee.PositionID = *req.PositionID
	}
	if req.PreferredDayOff != nil {
		employee.PreferredDayOff = req.PreferredDayOff
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	if req.CompanyIDs != nil {
		employee.CompanyIDs = *req.CompanyIDs
	}
	if req.LocationIDs != nil {
		employee.LocationIDs = *req.LocationIDs
	}
	if req.LanguageIDs != nil {
		employee.LanguageIDs = *req.LanguageIDs
	}
	if req.PreferredBlueprintIDs != nil {
		employee.PreferredBlueprintIDs = *req.PreferredBlueprintIDs
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

func (h *Handler) CreateAvailabilityRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Type      string `json:"type" validate:"required,oneof=AVAILABLE VACATION SICK_LEAVE PERSONAL_LEAVE UNJUSTIFIED_ABSENCE UNAVAILABLE"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期格式不正确")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "结束日期格式不正确")
		return
	}
	if endDate.Before(startDate) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}

	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	record := &domain.AvailabilityRecord{
		EmployeeID: employee.ID,
		StartDate:  startDate,
		EndDate:    endDate,
		Type:       domain.AvailabilityType(req.Type),
	}

	if err := h.repository.CreateAvailabilityRecord(record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建假勤记录成功", record)
}
