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

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/pkg/cache"
	"readinghub-backend/pkg/database"
)

const (
	bookCacheKeyPrefix = "book:"
	bookListKeyPattern = "books:list:*"
	bookCacheTTL       = 15 * time.Minute
)

// postgresRepository implements RepositoryInterface on pgx. Writes go
// through the ambient unit-of-work transaction when one is present.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{pool: pool, cache: cache}
}

const bookColumns = `b.id, b.title, b.author_id, b.description, b.page_count, b.state, b.created_by, b.created_at, b.updated_at, a.name`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var rawState string
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.AuthorID,
		&b.Description,
		&b.PageCount,
		&rawState,
		&b.CreatedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	// Parse panics on a corrupted state name; that is deliberate.
	b.State = moderation.Parse(rawState)
	return &b, nil
}

func (r *postgresRepository) Insert(ctx context.Context, b *model.Book) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        INSERT INTO books (id, title, author_id, description, page_count, state, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := q.Exec(ctx, query,
		b.ID, b.Title, b.AuthorID, b.Description, b.PageCount,
		b.State.String(), b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		// The natural-key unique index is the schema-level backstop for
		// concurrent creates that both pass the check-then-act lookup.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateBook
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	r.invalidate(ctx, b.ID)
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	// Cache is bypassed inside a unit of work: uncommitted rows must not
	// leak into the cache, and reloads after a write need fresh data.
	_, inTx := database.TxFrom(ctx)

	cacheKey := bookCacheKeyPrefix + id.String()
	if !inTx && r.cache != nil {
		var b model.Book
		if found, err := r.cache.Get(ctx, cacheKey, &b); err == nil && found {
			return &b, nil
		}
	}

	q := database.QuerierFrom(ctx, r.pool)
	query := `
        SELECT ` + bookColumns + `
        FROM books b
        JOIN authors a ON a.id = b.author_id
        WHERE b.id = $1
    `
	b, err := scanBook(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	if err := r.loadGenres(ctx, b); err != nil {
		return nil, err
	}

	if !inTx && r.cache != nil {
		r.cache.Set(ctx, cacheKey, b, bookCacheTTL)
	}
	return b, nil
}

func (r *postgresRepository) loadGenres(ctx context.Context, b *model.Book) error {
	q := database.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
        SELECT g.id, g.name
        FROM book_genres bg
        JOIN genres g ON g.id = bg.genre_id
        WHERE bg.book_id = $1
        ORDER BY g.name
    `, b.ID)
	if err != nil {
		return fmt.Errorf("failed to load book genres: %w", err)
	}
	defer rows.Close()

	b.Genres = []model.GenreRef{}
	for rows.Next() {
		var g model.GenreRef
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return fmt.Errorf("failed to scan genre: %w", err)
		}
		b.Genres = append(b.Genres, g)
	}
	return rows.Err()
}

func (r *postgresRepository) Save(ctx context.Context, b *model.Book) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        UPDATE books
        SET title = $2, author_id = $3, description = $4, page_count = $5, state = $6, updated_at = $7
        WHERE id = $1
    `
	_, err := q.Exec(ctx, query,
		b.ID, b.Title, b.AuthorID, b.Description, b.PageCount,
		b.State.String(), b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateBook
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	r.invalidate(ctx, b.ID)
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	// book_genres rows go with the book via ON DELETE CASCADE.
	if _, err := q.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	r.invalidate(ctx, id)
	return nil
}

// applyFilter translates the search object into WHERE constraints. Shared
// by List and Count so the total count always matches the filtered set.
func applyFilter(sb *strings.Builder, search model.BookSearch, args []interface{}) []interface{} {
	if search.Title != "" {
		args = append(args, "%"+search.Title+"%")
		fmt.Fprintf(sb, " AND b.title ILIKE $%d", len(args))
	}
	if search.AuthorID != nil {
		args = append(args, *search.AuthorID)
		fmt.Fprintf(sb, " AND b.author_id = $%d", len(args))
	}
	if search.State != "" {
		args = append(args, search.State)
		fmt.Fprintf(sb, " AND b.state = $%d", len(args))
	}
	if search.CreatedBy != nil {
		args = append(args, *search.CreatedBy)
		fmt.Fprintf(sb, " AND b.created_by = $%d", len(args))
	}
	if search.GenreID != nil {
		args = append(args, *search.GenreID)
		fmt.Fprintf(sb, " AND EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = b.id AND bg.genre_id = $%d)", len(args))
	}
	return args
}

func (r *postgresRepository) List(ctx context.Context, search model.BookSearch, limit, offset int) ([]*model.Book, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`
        SELECT ` + bookColumns + `
        FROM books b
        JOIN authors a ON a.id = b.author_id
        WHERE 1=1
    `)
	args := applyFilter(&sb, search, nil)

	sb.WriteString(" ORDER BY b.created_at DESC")
	if limit >= 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadGenresForPage(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// loadGenresForPage attaches genre associations to every book on the page
// with a single query over the listed ids.
func (r *postgresRepository) loadGenresForPage(ctx context.Context, books []*model.Book) error {
	if len(books) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Book, len(books))
	ids := make([]uuid.UUID, len(books))
	for i, b := range books {
		ids[i] = b.ID
		byID[b.ID] = b
		b.Genres = []model.GenreRef{}
	}

	q := database.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
        SELECT bg.book_id, g.id, g.name
        FROM book_genres bg
        JOIN genres g ON g.id = bg.genre_id
        WHERE bg.book_id = ANY($1)
        ORDER BY g.name
    `, ids)
	if err != nil {
		return fmt.Errorf("failed to load genres for listing: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID uuid.UUID
		var g model.GenreRef
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return fmt.Errorf("failed to scan genre: %w", err)
		}
		byID[bookID].Genres = append(byID[bookID].Genres, g)
	}
	return rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, search model.BookSearch) (int64, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM books b WHERE 1=1`)
	args := applyFilter(&sb, search, nil)

	var total int64
	if err := q.QueryRow(ctx, sb.String(), args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ExistsByTitleAndAuthor(ctx context.Context, title string, authorID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
        SELECT EXISTS (
            SELECT 1 FROM books
            WHERE LOWER(TRIM(title)) = LOWER(TRIM($1))
              AND author_id = $2
              AND id <> $3
        )
    `
	var exists bool
	if err := q.QueryRow(ctx, query, title, authorID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check book natural key: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ReplaceGenres(ctx context.Context, bookID uuid.UUID, genreIDs []uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM book_genres WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("failed to clear book genres: %w", err)
	}
	for _, genreID := range genreIDs {
		if _, err := q.Exec(ctx, `INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)`, bookID, genreID); err != nil {
			return fmt.Errorf("failed to insert book genre: %w", err)
		}
	}

	r.invalidate(ctx, bookID)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, bookCacheKeyPrefix+id.String())
	r.cache.DeletePattern(ctx, bookListKeyPattern)
}
