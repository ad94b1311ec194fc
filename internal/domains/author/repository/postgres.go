package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"readinghub-backend/internal/domains/author/model"
	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/pkg/cache"
	"readinghub-backend/pkg/database"
)

const (
	authorCacheKeyPrefix = "author:"
	authorCacheTTL       = 15 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{pool: pool, cache: cache}
}

const authorColumns = `id, name, date_of_birth, biography, country_id, photo_url, state, created_by, created_at, updated_at`

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	var rawState string
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.DateOfBirth,
		&a.Biography,
		&a.CountryID,
		&a.PhotoURL,
		&rawState,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.State = moderation.Parse(rawState)
	return &a, nil
}

func (r *postgresRepository) Insert(ctx context.Context, a *model.Author) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        INSERT INTO authors (id, name, date_of_birth, biography, country_id, photo_url, state, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := q.Exec(ctx, query,
		a.ID, a.Name, a.DateOfBirth, a.Biography, a.CountryID, a.PhotoURL,
		a.State.String(), a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateAuthor
		}
		return fmt.Errorf("failed to insert author: %w", err)
	}

	r.invalidate(ctx, a.ID)
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	// Cache is bypassed inside a unit of work: uncommitted rows must not
	// leak into the cache, and reloads after a write need fresh data.
	_, inTx := database.TxFrom(ctx)

	cacheKey := authorCacheKeyPrefix + id.String()
	if !inTx && r.cache != nil {
		var a model.Author
		if found, err := r.cache.Get(ctx, cacheKey, &a); err == nil && found {
			return &a, nil
		}
	}

	q := database.QuerierFrom(ctx, r.pool)

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`
	a, err := scanAuthor(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	if !inTx && r.cache != nil {
		r.cache.Set(ctx, cacheKey, a, authorCacheTTL)
	}
	return a, nil
}

func (r *postgresRepository) Save(ctx context.Context, a *model.Author) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        UPDATE authors
        SET name = $2, date_of_birth = $3, biography = $4, country_id = $5, photo_url = $6, state = $7, updated_at = $8
        WHERE id = $1
    `
	_, err := q.Exec(ctx, query,
		a.ID, a.Name, a.DateOfBirth, a.Biography, a.CountryID, a.PhotoURL,
		a.State.String(), a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateAuthor
		}
		return fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidate(ctx, a.ID)
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, authorCacheKeyPrefix+id.String())
}

func applyFilter(sb *strings.Builder, search model.AuthorSearch, args []interface{}) []interface{} {
	if search.Name != "" {
		args = append(args, "%"+search.Name+"%")
		fmt.Fprintf(sb, " AND name ILIKE $%d", len(args))
	}
	if search.State != "" {
		args = append(args, search.State)
		fmt.Fprintf(sb, " AND state = $%d", len(args))
	}
	if search.CountryID != nil {
		args = append(args, *search.CountryID)
		fmt.Fprintf(sb, " AND country_id = $%d", len(args))
	}
	if search.CreatedBy != nil {
		args = append(args, *search.CreatedBy)
		fmt.Fprintf(sb, " AND created_by = $%d", len(args))
	}
	return args
}

func (r *postgresRepository) List(ctx context.Context, search model.AuthorSearch, limit, offset int) ([]*model.Author, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + authorColumns + ` FROM authors WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	sb.WriteString(" ORDER BY created_at DESC")
	if limit >= 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []*model.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, search model.AuthorSearch) (int64, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM authors WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	var total int64
	if err := q.QueryRow(ctx, sb.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ExistsByNameAndBirthDate(ctx context.Context, name string, dateOfBirth time.Time, excludeID uuid.UUID) (bool, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        SELECT EXISTS (
            SELECT 1 FROM authors
            WHERE LOWER(TRIM(name)) = LOWER(TRIM($1))
              AND date_of_birth = $2
              AND id <> $3
        )
    `
	var exists bool
	if err := q.QueryRow(ctx, query, name, dateOfBirth, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check author natural key: %w", err)
	}
	return exists, nil
}
