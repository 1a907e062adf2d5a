package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/user/bookshelf-go/apperror"
)

// Service is the persistence boundary for books. Every operation executes a
// single statement, relying on the database's per-statement transaction
// semantics; the dynamic update applies all columns in one atomic UPDATE.
type Service struct {
	db *sqlx.DB
}

// NewService creates a book Service over the given database handle.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

const (
	sqlCountBooks = `SELECT COUNT(*) FROM books`

	// id ascending keeps pagination deterministic across repeated calls.
	sqlPageBooks = `
		SELECT id, title, author, published_date, summary, genre
		FROM   books
		ORDER  BY id
		LIMIT  $1 OFFSET $2`

	sqlInsertBook = `
		INSERT INTO books (title, author, published_date, summary, genre)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	sqlGetBookByID = `
		SELECT id, title, author, published_date, summary, genre
		FROM   books
		WHERE  id = $1`

	sqlDeleteBook = `DELETE FROM books WHERE id = $1`
)

// Count returns the total number of book rows.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, sqlCountBooks); err != nil {
		return 0, apperror.NewDatabaseError("Database error", err)
	}
	return n, nil
}

// Page returns the books at offset (page-1)*perPage, limited to perPage, in
// id order. Callers validate the bounds (page >= 1, perPage in [1,100]).
func (s *Service) Page(ctx context.Context, page, perPage int) ([]Book, error) {
	offset := (page - 1) * perPage
	records := []Book{}
	if err := s.db.SelectContext(ctx, &records, sqlPageBooks, perPage, offset); err != nil {
		return nil, apperror.NewDatabaseError("Database error", err)
	}
	return records, nil
}

// ListPage assembles the paginated list response: total count, page count
// via ceiling division, and the requested page echoed unclamped.
func (s *Service) ListPage(ctx context.Context, page, perPage int) (*PaginatedBooks, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.Page(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return &PaginatedBooks{
		TotalBooks:  total,
		TotalPages:  (total + int64(perPage) - 1) / int64(perPage),
		CurrentPage: page,
		Books:       records,
	}, nil
}

// Insert stores a new book and returns it with the assigned id. Field
// constraints are enforced at the validation boundary before this point.
func (s *Service) Insert(ctx context.Context, book Book) (*Book, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, sqlInsertBook,
		book.Title, book.Author, book.PublishedDate, book.Summary, book.Genre,
	).Scan(&id)
	if err != nil {
		return nil, apperror.NewDatabaseError("Database error", err)
	}
	book.ID = &id
	return &book, nil
}

// GetByID returns a single book by primary key.
func (s *Service) GetByID(ctx context.Context, id int64) (*Book, error) {
	var book Book
	if err := s.db.GetContext(ctx, &book, sqlGetBookByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Book not found", nil)
		}
		return nil, apperror.NewDatabaseError("Database error", err)
	}
	return &book, nil
}

// UpdateFields applies a partial update as a single atomic statement. The
// whole request is rejected before any column is touched when a field name
// is outside the allow-list (InvalidFieldError) or a value violates its
// constraint (ValidationError). An empty update set is a no-op returning
// the current record.
func (s *Service) UpdateFields(ctx context.Context, id int64, updates map[string]string) (*Book, error) {
	for name := range updates {
		if _, ok := ParseUpdatableField(name); !ok {
			return nil, apperror.NewInvalidFieldError(name)
		}
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	var badFields []string
	argIdx := 1
	for _, f := range updatableFields {
		raw, ok := updates[string(f)]
		if !ok {
			continue
		}
		value, err := f.ParseValue(raw)
		if err != nil {
			badFields = append(badFields, string(f))
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", f, argIdx))
		args = append(args, value)
		argIdx++
	}
	if len(badFields) > 0 {
		return nil, apperror.NewFieldValidationError(badFields...)
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE books
		SET    %s
		WHERE  id = $%d
		RETURNING id, title, author, published_date, summary, genre`,
		strings.Join(setClauses, ", "), argIdx)

	var book Book
	if err := s.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Book not found", nil)
		}
		return nil, apperror.NewDatabaseError("Database error", err)
	}
	return &book, nil
}

// Delete removes a book by id, failing with NotFound when no row matched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteBook, id)
	if err != nil {
		return apperror.NewDatabaseError("Database error", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabaseError("Database error", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError("Book not found", nil)
	}
	return nil
}
