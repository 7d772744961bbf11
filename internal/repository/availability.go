package repository

import (
	"context"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

// FindOverlappingAvailability 查询员工与日期范围重叠的假勤记录（按日期闭区间比较）
// excludeID 用于在编辑场景下排除记录本身，传 nil 表示不排除
func (r *Repository) FindOverlappingAvailability(employeeID int64, rangeStart, rangeEnd time.Time, excludeID *int64) ([]*domain.AvailabilityRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.findOverlappingAvailability(ctx, r.dbpool, employeeID, rangeStart, rangeEnd, excludeID)
}

func (r *Repository) findOverlappingAvailability(ctx context.Context, q queryer, employeeID int64, rangeStart, rangeEnd time.Time, excludeID *int64) ([]*domain.AvailabilityRecord, error) {
	query := `
		SELECT id, employee_id, start_date, end_date, type, created_at
		FROM availability_records
		WHERE employee_id = $1
			AND start_date <= $3
			AND end_date >= $2
			AND ($4::bigint IS NULL OR id <> $4)
		ORDER BY start_date
	`

	rows, err := q.QueryContext(ctx, query, employeeID, rangeStart, rangeEnd, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.AvailabilityRecord{}
	for rows.Next() {
		var rec domain.AvailabilityRecord
		dst := []any{&rec.ID, &rec.EmployeeID, &rec.StartDate, &rec.EndDate, &rec.Type, &rec.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *Repository) CreateAvailabilityRecord(rec *domain.AvailabilityRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO availability_records (employee_id, start_date, end_date, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	params := []any{rec.EmployeeID, rec.StartDate, rec.EndDate, rec.Type}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return err
	}

	return nil
}

// ExistsCalendarException 判断门店某天是否存在指定类型的日历例外
func (r *Repository) ExistsCalendarException(locationID int64, date time.Time, kind domain.CalendarExceptionKind) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM calendar_exceptions
			WHERE location_id = $1 AND date = $2 AND kind = $3
		)
	`

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, query, locationID, date, kind).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) listBlackoutDates(ctx context.Context, q queryer, locationID int64, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT date FROM calendar_exceptions
		WHERE location_id = $1 AND kind = $2 AND date BETWEEN $3 AND $4
		ORDER BY date
	`

	rows, err := q.QueryContext(ctx, query, locationID, domain.CalendarBlackout, from, to)
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
