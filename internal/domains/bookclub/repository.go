package bookclub

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
	crud.Repository[BookClub, BookClubSearch]
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectClause joins the member count in so a single query serves both the
// list and the detail read.
const selectClause = `
    SELECT c.id, c.name, c.description, c.created_by, c.created_at, c.updated_at,
           COUNT(m.user_id) AS member_count
    FROM book_clubs c
    LEFT JOIN book_club_members m ON m.club_id = c.id
`

const groupClause = ` GROUP BY c.id, c.name, c.description, c.created_by, c.created_at, c.updated_at`

func scanBookClub(row pgx.Row) (*BookClub, error) {
	var b BookClub
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.CreatedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.MemberCount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) Insert(ctx context.Context, b *BookClub) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        INSERT INTO book_clubs (id, name, description, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := q.Exec(ctx, query, b.ID, b.Name, b.Description, b.CreatedBy, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBookClub
		}
		return fmt.Errorf("failed to insert book club: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*BookClub, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := selectClause + ` WHERE c.id = $1` + groupClause
	b, err := scanBookClub(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book club by id: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) Save(ctx context.Context, b *BookClub) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `UPDATE book_clubs SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	_, err := q.Exec(ctx, query, b.ID, b.Name, b.Description, b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBookClub
		}
		return fmt.Errorf("failed to update book club: %w", err)
	}
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM book_clubs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete book club: %w", err)
	}
	return nil
}

func applyFilter(sb *strings.Builder, search BookClubSearch, args []interface{}) []interface{} {
	if search.Name != "" {
		args = append(args, "%"+search.Name+"%")
		fmt.Fprintf(sb, " AND c.name ILIKE $%d", len(args))
	}
	if search.CreatedBy != nil {
		args = append(args, *search.CreatedBy)
		fmt.Fprintf(sb, " AND c.created_by = $%d", len(args))
	}
	return args
}

func (r *postgresRepository) List(ctx context.Context, search BookClubSearch, limit, offset int) ([]*BookClub, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(selectClause)
	sb.WriteString(` WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	sb.WriteString(groupClause)
	sb.WriteString(" ORDER BY c.created_at DESC")
	if limit >= 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list book clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*BookClub
	for rows.Next() {
		b, err := scanBookClub(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book club: %w", err)
		}
		clubs = append(clubs, b)
	}
	return clubs, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, search BookClubSearch) (int64, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM book_clubs c WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	var total int64
	if err := q.QueryRow(ctx, sb.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count book clubs: %w", err)
	}
	return total, nil
}
