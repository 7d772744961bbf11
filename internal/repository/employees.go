package repository

import (
	"context"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getEmployee(ctx, r.dbpool, id)
}

func (r *Repository) getEmployee(ctx context.Context, q queryer, id int64) (*domain.Employee, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, position_id, preferred_day_off, is_active, created_at, version
		FROM employees WHERE id = $1
	`

	e := &domain.Employee{
		ID: id,
	}

	dst := []any{&e.Username, &e.PasswordHash, &e.FullName, &e.Email, &e.Role, &e.PositionID, &e.PreferredDayOff, &e.IsActive, &e.CreatedAt, &e.Version}
	if err := q.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadEmployeeAssociations(ctx, q, e); err != nil {
		return nil, err
	}

	return e, nil
}

// loadEmployeeAssociations 加载员工的各个关联 id 集合
// 关联一律用 id 表示，不在实体之间嵌对象
func (r *Repository) loadEmployeeAssociations(ctx context.Context, q queryer, e *domain.Employee) error {
	queries := []struct {
		query string
		dst   *[]int64
	}{
		{`SELECT company_id FROM employee_companies WHERE employee_id = $1 ORDER BY company_id`, &e.CompanyIDs},
		{`SELECT location_id FROM employee_locations WHERE employee_id = $1 ORDER BY location_id`, &e.LocationIDs},
		{`SELECT language_id FROM employee_languages WHERE employee_id = $1 ORDER BY language_id`, &e.LanguageIDs},
		{`SELECT blueprint_id FROM employee_preferred_blueprints WHERE employee_id = $1 ORDER BY sort_order`, &e.PreferredBlueprintIDs},
	}

	for _, item := range queries {
		rows, err := q.QueryContext(ctx, item.query, e.ID)
		if err != nil {
			return err
		}

		ids := make([]int64, 0)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		*item.dst = ids
	}

	return nil
}

func (r *Repository) GetEmployeeByUsername(username string) (*domain.Employee, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, position_id, preferred_day_off, is_active, created_at, version
		FROM employees WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	e := &domain.Employee{
		Username: username,
	}

	dst := []any{&e.ID, &e.PasswordHash, &e.FullName, &e.Email, &e.Role, &e.PositionID, &e.PreferredDayOff, &e.IsActive, &e.CreatedAt, &e.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadEmployeeAssociations(ctx, r.dbpool, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, username, full_name, email, role, position_id, preferred_day_off, is_active, created_at, version
		FROM employees
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		dst := []any{&e.ID, &e.Username, &e.FullName, &e.Email, &e.Role, &e.PositionID, &e.PreferredDayOff, &e.IsActive, &e.CreatedAt, &e.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetEmployeesByIDs 批量加载候选员工（含关联集合），用于候选人排序
func (r *Repository) GetEmployeesByIDs(ids []int64) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employees := make([]*domain.Employee, 0, len(ids))
	for _, id := range ids {
		e, err := r.getEmployee(ctx, r.dbpool, id)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO employees (username, password_hash, full_name, email, role, position_id, preferred_day_off, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	params := []any{e.Username, e.PasswordHash, e.FullName, e.Email, e.Role, e.PositionID, e.PreferredDayOff, e.IsActive}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&e.ID, &e.CreatedAt, &e.Version); err != nil {
		return err
	}

	if err := r.replaceEmployeeAssociations(ctx, tx, e); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) replaceEmployeeAssociations(ctx context.Context, q queryer, e *domain.Employee) error {
	tables := []struct {
		deleteQuery string
		insertQuery string
		ids         []int64
	}{
		{
			`DELETE FROM employee_companies WHERE employee_id = $1`,
			`INSERT INTO employee_companies (employee_id, company_id) VALUES ($1, $2)`,
			e.CompanyIDs,
		},
		{
			`DELETE FROM employee_locations WHERE employee_id = $1`,
			`INSERT INTO employee_locations (employee_id, location_id) VALUES ($1, $2)`,
			e.LocationIDs,
		},
		{
			`DELETE FROM employee_languages WHERE employee_id = $1`,
			`INSERT INTO employee_languages (employee_id, language_id) VALUES ($1, $2)`,
			e.LanguageIDs,
		},
	}

	for _, table := range tables {
		if _, err := q.ExecContext(ctx, table.deleteQuery, e.ID); err != nil {
			return err
		}
		for _, id := range table.ids {
			if _, err := q.ExecContext(ctx, table.insertQuery, e.ID, id); err != nil {
				return err
			}
		}
	}

	// 偏好班次是有序集合，单独处理
	if _, err := q.ExecContext(ctx, `DELETE FROM employee_preferred_blueprints WHERE employee_id = $1`, e.ID); err != nil {
		return err
	}
	for i, blueprintID := range e.PreferredBlueprintIDs {
		query := `INSERT INTO employee_preferred_blueprints (employee_id, blueprint_id, sort_order) VALUES ($1, $2, $3)`
		if _, err := q.ExecContext(ctx, query, e.ID, blueprintID, i); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) UpdateEmployee(e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE employees
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			position_id = $4,
			preferred_day_off = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	params := []any{e.PasswordHash, e.Email, e.Role, e.PositionID, e.PreferredDayOff, e.IsActive, e.ID, e.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&e.Version); err != nil {
		return err
	}

	if err := r.replaceEmployeeAssociations(ctx, tx, e); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM employees WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
