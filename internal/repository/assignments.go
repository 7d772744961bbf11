package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/engine"
)

// AssignEmployee 执行完整的「校验-写入-重算」单元：
// 校验链、排班写入和完成度重算要么一起成功，要么什么都不落库
//
// 并发说明：同一个实例上的两个并发排班请求如果都先读计数再写入，
// 会双双通过容量校验导致超编。这里在事务一开始就对 occurrence 行
// 加排他锁（FOR UPDATE），让同一实例上的写入者串行化；锁粒度只到
// 单个实例，不同实例之间互不影响。(occurrence, employee) 的唯一性
// 另外由部分唯一索引兜底，但索引本身挡不住不同员工之间的超编
func (r *Repository) AssignEmployee(occurrenceID, employeeID, actorID int64) (*domain.Assignment, []string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	occ, err := r.getOccurrenceForUpdate(ctx, tx, occurrenceID)
	if err != nil {
		return nil, nil, err
	}

	bp, err := r.getBlueprint(ctx, tx, occ.BlueprintID)
	if err != nil {
		return nil, nil, err
	}

	loc, err := r.getLocation(ctx, tx, occ.LocationID)
	if err != nil {
		return nil, nil, err
	}

	e, err := r.getEmployee(ctx, tx, employeeID)
	if err != nil {
		return nil, nil, err
	}

	availability, err := r.findOverlappingAvailability(ctx, tx, employeeID, occ.Date, occ.Date, nil)
	if err != nil {
		return nil, nil, err
	}

	assignees, err := r.listAssignees(ctx, tx, occurrenceID)
	if err != nil {
		return nil, nil, err
	}

	sameDay, err := r.listEmployeeOccurrencesOnDate(ctx, tx, employeeID, occ.Date)
	if err != nil {
		return nil, nil, err
	}

	if violation := engine.ValidateAssignment(&engine.ValidationInput{
		Occurrence:         occ,
		Blueprint:          bp,
		Location:           loc,
		Employee:           e,
		Availability:       availability,
		Assignees:          assignees,
		SameDayOccurrences: sameDay,
	}); violation != nil {
		return nil, nil, violation
	}

	assignment := &domain.Assignment{
		OccurrenceID: occurrenceID,
		EmployeeID:   employeeID,
		AssignedBy:   actorID,
	}

	query := `
		INSERT INTO assignments (occurrence_id, employee_id, assigned_by)
		VALUES ($1, $2, $3)
		RETURNING id, is_confirmed, assigned_at, version
	`
	dst := []any{&assignment.ID, &assignment.IsConfirmed, &assignment.AssignedAt, &assignment.Version}
	if err := tx.QueryRowContext(ctx, query, occurrenceID, employeeID, actorID).Scan(dst...); err != nil {
		return nil, nil, err
	}

	assignees = append(assignees, engine.Assignee{EmployeeID: employeeID, PositionID: e.PositionID})
	if err := r.storeCompleteness(ctx, tx, occ, assignees); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return assignment, engine.Warnings(e, occ, bp), nil
}

// RemoveAssignment 软删除排班：不走校验链，只确认记录存在，
// 并在同一事务中重算实例完成度
func (r *Repository) RemoveAssignment(assignmentID int64) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	assignment, err := r.getAssignment(ctx, tx, assignmentID, false)
	if err != nil {
		return nil, err
	}

	// 与排班写入相同的锁顺序，避免死锁
	occ, err := r.getOccurrenceForUpdate(ctx, tx, assignment.OccurrenceID)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE assignments
		SET deleted_at = NOW(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING deleted_at, version
	`
	if err := tx.QueryRowContext(ctx, query, assignmentID).Scan(&assignment.DeletedAt, &assignment.Version); err != nil {
		return nil, err
	}

	assignees, err := r.listAssignees(ctx, tx, assignment.OccurrenceID)
	if err != nil {
		return nil, err
	}

	if err := r.storeCompleteness(ctx, tx, occ, assignees); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) ConfirmAssignment(assignmentID int64) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignment, err := r.getAssignment(ctx, r.dbpool, assignmentID, false)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE assignments
		SET is_confirmed = true, confirmed_at = NOW(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING is_confirmed, confirmed_at, version
	`
	if err := r.dbpool.QueryRowContext(ctx, query, assignmentID).Scan(&assignment.IsConfirmed, &assignment.ConfirmedAt, &assignment.Version); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) GetAssignmentByID(id int64, includeDeleted bool) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getAssignment(ctx, r.dbpool, id, includeDeleted)
}

func (r *Repository) getAssignment(ctx context.Context, q queryer, id int64, includeDeleted bool) (*domain.Assignment, error) {
	query := `
		SELECT occurrence_id, employee_id, is_confirmed, assigned_by, assigned_at, confirmed_at, deleted_at, version
		FROM assignments
		WHERE id = $1 AND ($2 = true OR deleted_at IS NULL)
	`

	a := &domain.Assignment{
		ID: id,
	}

	dst := []any{&a.OccurrenceID, &a.EmployeeID, &a.IsConfirmed, &a.AssignedBy, &a.AssignedAt, &a.ConfirmedAt, &a.DeletedAt, &a.Version}
	if err := q.QueryRowContext(ctx, query, id, includeDeleted).Scan(dst...); err != nil {
		return nil, err
	}

	return a, nil
}

// ListAssignmentsByOccurrence 列出实例上的排班记录
func (r *Repository) ListAssignmentsByOccurrence(occurrenceID int64, includeDeleted bool) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, employee_id, is_confirmed, assigned_by, assigned_at, confirmed_at, deleted_at, version
		FROM assignments
		WHERE occurrence_id = $1 AND ($2 = true OR deleted_at IS NULL)
		ORDER BY assigned_at, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, occurrenceID, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*domain.Assignment{}
	for rows.Next() {
		a := &domain.Assignment{
			OccurrenceID: occurrenceID,
		}
		dst := []any{&a.ID, &a.EmployeeID, &a.IsConfirmed, &a.AssignedBy, &a.AssignedAt, &a.ConfirmedAt, &a.DeletedAt, &a.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// GetCapacitySummary 从未删除的排班记录现算实例完成度（展示用途）
func (r *Repository) GetCapacitySummary(occurrenceID int64) (*domain.CapacitySummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	occ := &domain.Occurrence{ID: occurrenceID}
	query := `
		SELECT required_headcount FROM occurrences
		WHERE id = $1 AND deleted_at IS NULL
	`
	if err := r.dbpool.QueryRowContext(ctx, query, occurrenceID).Scan(&occ.RequiredHeadcount); err != nil {
		return nil, err
	}

	assignees, err := r.listAssignees(ctx, r.dbpool, occurrenceID)
	if err != nil {
		return nil, err
	}

	summary := engine.Summarize(occ, assignees)
	return &summary, nil
}

func (r *Repository) getOccurrenceForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Occurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM occurrences
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	occ := &domain.Occurrence{
		ID: id,
	}

	if err := tx.QueryRowContext(ctx, query, id).Scan(scanOccurrence(occ)...); err != nil {
		return nil, err
	}

	return occ, nil
}

func (r *Repository) listAssignees(ctx context.Context, q queryer, occurrenceID int64) ([]engine.Assignee, error) {
	query := `
		SELECT a.employee_id, e.position_id
		FROM assignments a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.occurrence_id = $1 AND a.deleted_at IS NULL
		ORDER BY a.id
	`

	rows, err := q.QueryContext(ctx, query, occurrenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignees := []engine.Assignee{}
	for rows.Next() {
		var a engine.Assignee
		if err := rows.Scan(&a.EmployeeID, &a.PositionID); err != nil {
			return nil, err
		}
		assignees = append(assignees, a)
	}

	return assignees, rows.Err()
}

// listEmployeeOccurrencesOnDate 列出员工当天其他未删除排班对应的实例，用于时间重叠校验
func (r *Repository) listEmployeeOccurrencesOnDate(ctx context.Context, q queryer, employeeID int64, date time.Time) ([]*domain.Occurrence, error) {
	query := `
		SELECT o.id, o.blueprint_id, o.location_id, o.date, o.start_time, o.end_time
		FROM assignments a
		JOIN occurrences o ON o.id = a.occurrence_id
		WHERE a.employee_id = $1
			AND a.deleted_at IS NULL
			AND o.deleted_at IS NULL
			AND o.date = $2
		ORDER BY o.id
	`

	rows, err := q.QueryContext(ctx, query, employeeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occurrences := []*domain.Occurrence{}
	for rows.Next() {
		var occ domain.Occurrence
		dst := []any{&occ.ID, &occ.BlueprintID, &occ.LocationID, &occ.Date, &occ.StartTime, &occ.EndTime}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		occurrences = append(occurrences, &occ)
	}

	return occurrences, rows.Err()
}

// storeCompleteness 在事务内用当前排班全量重算完成度并写回
func (r *Repository) storeCompleteness(ctx context.Context, tx *sql.Tx, occ *domain.Occurrence, assignees []engine.Assignee) error {
	summary := engine.Summarize(occ, assignees)

	query := `
		UPDATE occurrences
		SET is_complete = $1, version = version + 1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, summary.IsComplete, occ.ID); err != nil {
		return err
	}

	return nil
}
