package repository

import (
	"context"
	"time"

	"github.com/shiftwise-dev/roster/backend/internal/domain"
)

func (r *Repository) GetLocationByID(id int64) (*domain.Location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getLocation(ctx, r.dbpool, id)
}

func (r *Repository) getLocation(ctx context.Context, q queryer, id int64) (*domain.Location, error) {
	query := `
		SELECT company_id, name, created_at, version
		FROM locations WHERE id = $1
	`

	loc := &domain.Location{
		ID: id,
	}

	if err := q.QueryRowContext(ctx, query, id).Scan(&loc.CompanyID, &loc.Name, &loc.CreatedAt, &loc.Version); err != nil {
		return nil, err
	}

	return loc, nil
}

func (r *Repository) GetCompanyByID(id int64) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, created_at, version
		FROM companies WHERE id = $1
	`

	company := &domain.Company{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&company.Name, &company.CreatedAt, &company.Version); err != nil {
		return nil, err
	}

	return company, nil
}

func (r *Repository) CreateCompany(company *domain.Company) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO companies (name) VALUES ($1)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, company.Name).Scan(&company.ID, &company.CreatedAt, &company.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateLocation(loc *domain.Location) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO locations (company_id, name) VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, loc.CompanyID, loc.Name).Scan(&loc.ID, &loc.CreatedAt, &loc.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllLocations() ([]*domain.Location, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, `SELECT id, company_id, name, created_at, version FROM locations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []*domain.Location{}
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.CompanyID, &loc.Name, &loc.CreatedAt, &loc.Version); err != nil {
			return nil, err
		}
		locations = append(locations, &loc)
	}

	return locations, rows.Err()
}

func (r *Repository) CreatePosition(p *domain.Position) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `INSERT INTO positions (name) VALUES ($1) RETURNING id`

	return r.dbpool.QueryRowContext(ctx, query, p.Name).Scan(&p.ID)
}

func (r *Repository) GetAllPositions() ([]*domain.Position, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, `SELECT id, name FROM positions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := []*domain.Position{}
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		positions = append(positions, &p)
	}

	return positions, rows.Err()
}

func (r *Repository) CreateLanguage(l *domain.Language) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `INSERT INTO languages (name) VALUES ($1) RETURNING id`

	return r.dbpool.QueryRowContext(ctx, query, l.Name).Scan(&l.ID)
}

func (r *Repository) GetAllLanguages() ([]*domain.Language, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, `SELECT id, name FROM languages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := []*domain.Language{}
	for rows.Next() {
		var l domain.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		languages = append(languages, &l)
	}

	return languages, rows.Err()
}
