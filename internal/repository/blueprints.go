package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

func (r *Repository) CreateBlueprint(bp *domain.Blueprint) error {
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
		INSERT INTO blueprints (location_id, name, start_time, end_time, is_active, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	params := []any{bp.LocationID, bp.Name, bp.StartTime, bp.EndTime, bp.IsActive, bp.Priority}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&bp.ID, &bp.CreatedAt, &bp.Version); err != nil {
		return err
	}

	for i := range bp.StaffingLines {
		// 唯一约束 staffing_lines_blueprint_id_position_id_key 保证
		// 同一蓝图中每个岗位至多一条
		query = `
			INSERT INTO staffing_lines (blueprint_id, position_id, required_count, ideal_count)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		params := []any{bp.ID, bp.StaffingLines[i].PositionID, bp.StaffingLines[i].RequiredCount, bp.StaffingLines[i].IdealCount}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&bp.StaffingLines[i].ID); err != nil {
			return err
		}
	}

	for i := range bp.LanguageHints {
		query = `
			INSERT INTO language_hints (blueprint_id, language_id, required_count)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		params := []any{bp.ID, bp.LanguageHints[i].LanguageID, bp.LanguageHints[i].RequiredCount}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&bp.LanguageHints[i].ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetBlueprintByID(id int64) (*domain.Blueprint, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getBlueprint(ctx, r.dbpool, id)
}

func (r *Repository) getBlueprint(ctx context.Context, q queryer, id int64) (*domain.Blueprint, error) {
	query := `
		SELECT location_id, name, start_time, end_time, is_active, priority, created_at, version
		FROM blueprints WHERE id = $1
	`

	bp := &domain.Blueprint{
		ID: id,
	}

	dst := []any{&bp.LocationID, &bp.Name, &bp.StartTime, &bp.EndTime, &bp.IsActive, &bp.Priority, &bp.CreatedAt, &bp.Version}
	if err := q.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadBlueprintChildren(ctx, q, bp); err != nil {
		return nil, err
	}

	return bp, nil
}

func (r *Repository) loadBlueprintChildren(ctx context.Context, q queryer, bp *domain.Blueprint) error {
	query := `
		SELECT id, position_id, required_count, ideal_count
		FROM staffing_lines
		WHERE blueprint_id = $1
		ORDER BY id
	`

	rows, err := q.QueryContext(ctx, query, bp.ID)
	if err != nil {
		return err
	}

	bp.StaffingLines = make([]domain.StaffingLine, 0)
	for rows.Next() {
		var line domain.StaffingLine
		if err := rows.Scan(&line.ID, &line.PositionID, &line.RequiredCount, &line.IdealCount); err != nil {
			rows.Close()
			return err
		}
		bp.StaffingLines = append(bp.StaffingLines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	query = `
		SELECT id, language_id, required_count
		FROM language_hints
		WHERE blueprint_id = $1
		ORDER BY id
	`

	rows, err = q.QueryContext(ctx, query, bp.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	bp.LanguageHints = make([]domain.LanguageHint, 0)
	for rows.Next() {
		var hint domain.LanguageHint
		if err := rows.Scan(&hint.ID, &hint.LanguageID, &hint.RequiredCount); err != nil {
			return err
		}
		bp.LanguageHints = append(bp.LanguageHints, hint)
	}

	return rows.Err()
}

// GetBlueprintsByLocation 获取某个门店的蓝图，activeOnly 为 true 时只返回活跃的
func (r *Repository) GetBlueprintsByLocation(locationID int64, activeOnly bool) ([]*domain.Blueprint, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getBlueprintsByLocation(ctx, r.dbpool, locationID, activeOnly)
}

func (r *Repository) getBlueprintsByLocation(ctx context.Context, q queryer, locationID int64, activeOnly bool) ([]*domain.Blueprint, error) {
	query := `
		SELECT id, name, start_time, end_time, is_active, priority, created_at, version
		FROM blueprints
		WHERE location_id = $1 AND ($2 = false OR is_active = true)
		ORDER BY priority, id
	`

	rows, err := q.QueryContext(ctx, query, locationID, activeOnly)
	if err != nil {
		return nil, err
	}

	blueprints := []*domain.Blueprint{}
	for rows.Next() {
		bp := &domain.Blueprint{
			LocationID: locationID,
		}
		dst := []any{&bp.ID, &bp.Name, &bp.StartTime, &bp.EndTime, &bp.IsActive, &bp.Priority, &bp.CreatedAt, &bp.Version}
		if err := rows.Scan(dst...); err != nil {
			rows.Close()
			return nil, err
		}
		blueprints = append(blueprints, bp)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, bp := range blueprints {
		if err := r.loadBlueprintChildren(ctx, q, bp); err != nil {
			return nil, err
		}
	}

	return blueprints, nil
}

func (r *Repository) UpdateBlueprint(bp *domain.Blueprint) error {
	// 只允许更新蓝图本体的字段，岗位和语言要求的调整走删除重建，
	// 已生成的实例不受影响（生成时已复制所需数据）
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
		UPDATE blueprints
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			is_active = $4,
			priority = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	params := []any{bp.Name, bp.StartTime, bp.EndTime, bp.IsActive, bp.Priority, bp.ID, bp.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&bp.Version); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM staffing_lines WHERE blueprint_id = $1`, bp.ID); err != nil {
		return err
	}
	for i := range bp.StaffingLines {
		query := `
			INSERT INTO staffing_lines (blueprint_id, position_id, required_count, ideal_count)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		params := []any{bp.ID, bp.StaffingLines[i].PositionID, bp.StaffingLines[i].RequiredCount, bp.StaffingLines[i].IdealCount}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&bp.StaffingLines[i].ID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM language_hints WHERE blueprint_id = $1`, bp.ID); err != nil {
		return err
	}
	for i := range bp.LanguageHints {
		query := `
			INSERT INTO language_hints (blueprint_id, language_id, required_count)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		params := []any{bp.ID, bp.LanguageHints[i].LanguageID, bp.LanguageHints[i].RequiredCount}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&bp.LanguageHints[i].ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeactivateBlueprint 停用蓝图：已有实例还引用它，所以永远不做物理删除
func (r *Repository) DeactivateBlueprint(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE blueprints
		SET is_active = false, version = version + 1
		WHERE id = $1 AND is_active = true
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
