package genre

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

// Repository is the genre store. InUse supports the delete guard;
// ExistsByName supports the uniqueness hooks.
type Repository interface {
	crud.Repository[Genre, GenreSearch]

	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	InUse(ctx context.Context, id uuid.UUID) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanGenre(row pgx.Row) (*Genre, error) {
	var g Genre
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *postgresRepository) Insert(ctx context.Context, g *Genre) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `INSERT INTO genres (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	_, err := q.Exec(ctx, query, g.ID, g.Name, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGenre
		}
		return fmt.Errorf("failed to insert genre: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Genre, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `SELECT id, name, created_at, updated_at FROM genres WHERE id = $1`
	g, err := scanGenre(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get genre by id: %w", err)
	}
	return g, nil
}

func (r *postgresRepository) Save(ctx context.Context, g *Genre) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `UPDATE genres SET name = $2, updated_at = $3 WHERE id = $1`
	_, err := q.Exec(ctx, query, g.ID, g.Name, g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGenre
		}
		return fmt.Errorf("failed to update genre: %w", err)
	}
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, search GenreSearch, limit, offset int) ([]*Genre, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT id, name, created_at, updated_at FROM genres WHERE 1=1`)
	var args []interface{}
	if search.Name != "" {
		args = append(args, "%"+search.Name+"%")
		fmt.Fprintf(&sb, " AND name ILIKE $%d", len(args))
	}

	sb.WriteString(" ORDER BY name ASC")
	if limit >= 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []*Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, search GenreSearch) (int64, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM genres WHERE 1=1`)
	var args []interface{}
	if search.Name != "" {
		args = append(args, "%"+search.Name+"%")
		fmt.Fprintf(&sb, " AND name ILIKE $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, sb.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count genres: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        SELECT EXISTS (
            SELECT 1 FROM genres
            WHERE LOWER(TRIM(name)) = LOWER(TRIM($1)) AND id <> $2
        )
    `
	var exists bool
	if err := q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check genre name: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var inUse bool
	query := `SELECT EXISTS (SELECT 1 FROM book_genres WHERE genre_id = $1)`
	if err := q.QueryRow(ctx, query, id).Scan(&inUse); err != nil {
		return false, fmt.Errorf("failed to check genre references: %w", err)
	}
	return inUse, nil
}
