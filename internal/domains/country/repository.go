package country

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/database"
)

type Repository interface {
	crud.Repository[Country, CountrySearch]

	// Exists reports whether another country holds the name or the ISO code.
	Exists(ctx context.Context, name, code string, excludeID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanCountry(row pgx.Row) (*Country, error) {
	var c Country
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Insert(ctx context.Context, c *Country) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `INSERT INTO countries (id, name, code, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := q.Exec(ctx, query, c.ID, c.Name, c.Code, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCountry
		}
		return fmt.Errorf("failed to insert country: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Country, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `SELECT id, name, code, created_at, updated_at FROM countries WHERE id = $1`
	c, err := scanCountry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country by id: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) Save(ctx context.Context, c *Country) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `UPDATE countries SET name = $2, code = $3, updated_at = $4 WHERE id = $1`
	_, err := q.Exec(ctx, query, c.ID, c.Name, c.Code, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCountry
		}
		return fmt.Errorf("failed to update country: %w", err)
	}
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM countries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, search CountrySearch, limit, offset int) ([]*Country, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT id, name, code, created_at, updated_at FROM countries WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	sb.WriteString(" ORDER BY name ASC")
	if limit >= 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	var countries []*Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, search CountrySearch) (int64, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM countries WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	var total int64
	if err := q.QueryRow(ctx, sb.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return total, nil
}

func applyFilter(sb *strings.Builder, search CountrySearch, args []interface{}) []interface{} {
	if search.Name != "" {
		args = append(args, "%"+search.Name+"%")
		fmt.Fprintf(sb, " AND name ILIKE $%d", len(args))
	}
	if search.Code != "" {
		args = append(args, search.Code)
		fmt.Fprintf(sb, " AND code = $%d", len(args))
	}
	return args
}

func (r *postgresRepository) Exists(ctx context.Context, name, code string, excludeID uuid.UUID) (bool, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        SELECT EXISTS (
            SELECT 1 FROM countries
            WHERE (LOWER(TRIM(name)) = LOWER(TRIM($1)) OR code = $2) AND id <> $3
        )
    `
	var exists bool
	if err := q.QueryRow(ctx, query, name, code, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check country: %w", err)
	}
	return exists, nil
}
