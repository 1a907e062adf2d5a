package books_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/books"
)

func newTestService(t *testing.T) *books.Service {
	t.Helper()

	database, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.Exec(`
		CREATE TABLE books (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT NOT NULL,
			author         TEXT NOT NULL,
			summary        TEXT NOT NULL,
			genre          TEXT NOT NULL,
			published_date DATE NOT NULL
		)`)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	return books.NewService(database)
}

func testBook(t *testing.T, title string) books.Book {
	t.Helper()
	date, err := books.ParseDate("1999-12-31")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return books.Book{
		Title:         title,
		Author:        "Test Author",
		PublishedDate: date,
		Summary:       "A test summary.",
		Genre:         "Fiction",
	}
}

func TestService_InsertAndGet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, testBook(t, "First"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == nil || *created.ID == 0 {
		t.Fatal("expected a non-zero assigned id")
	}

	got, err := s.GetByID(ctx, *created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "First" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.PublishedDate.String() != "1999-12-31" {
		t.Fatalf("unexpected published_date: %q", got.PublishedDate)
	}
}

func TestService_GetMissing(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetByID(context.Background(), 42)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestService_ListPage(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Insert(ctx, testBook(t, "Book")); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	page, err := s.ListPage(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalBooks != 5 {
		t.Fatalf("total_books = %d, want 5", page.TotalBooks)
	}
	if page.TotalPages != 3 {
		t.Fatalf("total_pages = %d, want 3", page.TotalPages)
	}
	if page.CurrentPage != 1 {
		t.Fatalf("current_page = %d, want 1", page.CurrentPage)
	}
	if len(page.Books) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Books))
	}

	// Walk all pages; ids must not repeat and every record must appear.
	seen := map[int64]bool{}
	for p := 1; p <= 3; p++ {
		page, err := s.ListPage(ctx, p, 2)
		if err != nil {
			t.Fatalf("list page %d: %v", p, err)
		}
		for _, b := range page.Books {
			if seen[*b.ID] {
				t.Fatalf("id %d appeared on more than one page", *b.ID)
			}
			seen[*b.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Fatalf("saw %d distinct ids across pages, want 5", len(seen))
	}
}

func TestService_ListPageBeyondEnd(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.Insert(ctx, testBook(t, "Only")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	page, err := s.ListPage(ctx, 7, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Books) != 0 {
		t.Fatalf("expected empty page, got %d books", len(page.Books))
	}
	if page.TotalBooks != 1 || page.TotalPages != 1 {
		t.Fatalf("unexpected totals: %d/%d", page.TotalBooks, page.TotalPages)
	}
	// The requested page is echoed back even when out of range.
	if page.CurrentPage != 7 {
		t.Fatalf("current_page = %d, want 7", page.CurrentPage)
	}
}

func TestService_UpdateFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, testBook(t, "Before"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := s.UpdateFields(ctx, *created.ID, map[string]string{
		"title":          "After",
		"published_date": "2001-01-01",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "After" {
		t.Fatalf("title = %q, want %q", updated.Title, "After")
	}
	if updated.PublishedDate.String() != "2001-01-01" {
		t.Fatalf("published_date = %q, want 2001-01-01", updated.PublishedDate)
	}
	// Untouched fields keep their values.
	if updated.Author != "Test Author" {
		t.Fatalf("author changed unexpectedly: %q", updated.Author)
	}
}

func TestService_UpdateEmptySet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, testBook(t, "Unchanged"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.UpdateFields(ctx, *created.ID, map[string]string{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if got.Title != "Unchanged" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
}

func TestService_UpdateUnknownFieldRejectsWholeRequest(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, testBook(t, "Before"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = s.UpdateFields(ctx, *created.ID, map[string]string{
		"publisher": "nope",
	})
	if !apperror.IsInvalidField(err) {
		t.Fatalf("expected InvalidFieldError, got %v", err)
	}

	// A mixed batch with one bad name must not apply the good fields either.
	_, err = s.UpdateFields(ctx, *created.ID, map[string]string{
		"title":     "After",
		"publisher": "nope",
	})
	if !apperror.IsInvalidField(err) {
		t.Fatalf("expected InvalidFieldError, got %v", err)
	}
	got, err := s.GetByID(ctx, *created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Before" {
		t.Fatalf("partial update applied: title = %q", got.Title)
	}
}

func TestService_UpdateInvalidValue(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, testBook(t, "Before"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = s.UpdateFields(ctx, *created.ID, map[string]string{
		"published_date": "not-a-date",
	})
	if !apperror.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, err = s.UpdateFields(ctx, *created.ID, map[string]string{
		"genre": "",
	})
	if !apperror.IsValidationError(err) {
		t.Fatalf("expected ValidationError for empty value, got %v", err)
	}
}

func TestService_UpdateMissingBook(t *testing.T) {
	s := newTestService(t)

	_, err := s.UpdateFields(context.Background(), 42, map[string]string{
		"title": "After",
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, testBook(t, "Doomed"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Delete(ctx, *created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, *created.ID); !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
	// Deleting again reports the absence.
	if err := s.Delete(ctx, *created.ID); !apperror.IsNotFound(err) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}
