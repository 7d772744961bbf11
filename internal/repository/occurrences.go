package repository

import (
	"context"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/engine"
)

const occurrenceColumns = `blueprint_id, location_id, date, start_time, end_time, required_headcount, ideal_headcount, is_complete, note, deleted_at, created_at, version`

func scanOccurrence(occ *domain.Occurrence) []any {
	return []any{
		&occ.BlueprintID,
		&occ.LocationID,
		&occ.Date,
		&occ.StartTime,
		&occ.EndTime,
		&occ.RequiredHeadcount,
		&occ.IdealHeadcount,
		&occ.IsComplete,
		&occ.Note,
		&occ.DeletedAt,
		&occ.CreatedAt,
		&occ.Version,
	}
}

// GetOccurrenceByID 获取班次实例
// includeDeleted 为 false 时走「仅未删除」读取路径，引擎内部的读取一律走这条路径
func (r *Repository) GetOccurrenceByID(id int64, includeDeleted bool) (*domain.Occurrence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + occurrenceColumns + `
		FROM occurrences
		WHERE id = $1 AND ($2 = true OR deleted_at IS NULL)
	`

	occ := &domain.Occurrence{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id, includeDeleted).Scan(scanOccurrence(occ)...); err != nil {
		return nil, err
	}

	return occ, nil
}

// ListOccurrences 按门店和日期范围列出未删除的班次实例
func (r *Repository) ListOccurrences(locationID int64, from, to time.Time) ([]*domain.Occurrence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, ` + occurrenceColumns + `
		FROM occurrences
		WHERE location_id = $1 AND date BETWEEN $2 AND $3 AND deleted_at IS NULL
		ORDER BY date, start_time, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, locationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occurrences := []*domain.Occurrence{}
	for rows.Next() {
		var occ domain.Occurrence
		dst := append([]any{&occ.ID}, scanOccurrence(&occ)...)
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		occurrences = append(occurrences, &occ)
	}

	return occurrences, rows.Err()
}

func (r *Repository) UpdateOccurrenceNote(occ *domain.Occurrence) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE occurrences
		SET note = $1, version = version + 1
		WHERE id = $2 AND version = $3 AND deleted_at IS NULL
		RETURNING version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, occ.Note, occ.ID, occ.Version).Scan(&occ.Version); err != nil {
		return err
	}

	return nil
}

// SoftDeleteOccurrence 软删除班次实例及其上的全部排班
func (r *Repository) SoftDeleteOccurrence(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先拿行锁，和排班写入串行化
	query := `
		SELECT id FROM occurrences
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`
	var lockedID int64
	if err := tx.QueryRowContext(ctx, query, id).Scan(&lockedID); err != nil {
		return err
	}

	query = `UPDATE assignments SET deleted_at = NOW() WHERE occurrence_id = $1 AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `UPDATE occurrences SET deleted_at = NOW(), version = version + 1 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return tx.Commit()
}

// GenerateOccurrences 把门店的活跃蓝图展开为日期范围内的班次实例
//
// 预检和写入在同一个事务中完成，事务内先拿以门店 id 为键的咨询锁，
// 防止两次生成操作在预检和写入之间互相穿插
func (r *Repository) GenerateOccurrences(locationID int64, start, end time.Time, replaceExisting bool) ([]*domain.Occurrence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, locationID); err != nil {
		return nil, err
	}

	blueprints, err := r.getBlueprintsByLocation(ctx, tx, locationID, true)
	if err != nil {
		return nil, err
	}

	existingDates, err := r.listOccurrenceDates(ctx, tx, locationID, start, end)
	if err != nil {
		return nil, err
	}

	blackoutDates, err := r.listBlackoutDates(ctx, tx, locationID, start, end)
	if err != nil {
		return nil, err
	}

	plan, err := engine.PlanOccurrences(blueprints, start, end, existingDates, blackoutDates, replaceExisting)
	if err != nil {
		return nil, err
	}

	// 替换模式：冲突日期上的已有实例连同排班一起软删除
	for _, date := range plan.ReplacedDates {
		query := `
			UPDATE assignments SET deleted_at = NOW()
			WHERE deleted_at IS NULL AND occurrence_id IN (
				SELECT id FROM occurrences
				WHERE location_id = $1 AND date = $2 AND deleted_at IS NULL
			)
		`
		if _, err := tx.ExecContext(ctx, query, locationID, date); err != nil {
			return nil, err
		}

		query = `
			UPDATE occurrences SET deleted_at = NOW(), version = version + 1
			WHERE location_id = $1 AND date = $2 AND deleted_at IS NULL
		`
		if _, err := tx.ExecContext(ctx, query, locationID, date); err != nil {
			return nil, err
		}
	}

	for _, occ := range plan.Creations {
		query := `
			INSERT INTO occurrences (blueprint_id, location_id, date, start_time, end_time, required_headcount, ideal_headcount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, is_complete, note, created_at, version
		`
		params := []any{occ.BlueprintID, occ.LocationID, occ.Date, occ.StartTime, occ.EndTime, occ.RequiredHeadcount, occ.IdealHeadcount}
		dst := []any{&occ.ID, &occ.IsComplete, &occ.Note, &occ.CreatedAt, &occ.Version}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return plan.Creations, nil
}

func (r *Repository) listOccurrenceDates(ctx context.Context, q queryer, locationID int64, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date FROM occurrences
		WHERE location_id = $1 AND date BETWEEN $2 AND $3 AND deleted_at IS NULL
		ORDER BY date
	`

	rows, err := q.QueryContext(ctx, query, locationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}
