package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/platform/logger"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the
// BookStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// Create implements store.BookStore.Create
// Returns store.ErrISBNExists if a book with the same ISBN already exists.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("isbn", book.ISBN))
		return err
	}

	query := `
		INSERT INTO books (isbn, title, author, edition, publisher, genre,
			page_count, language, publication_year, added_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		book.ISBN,
		book.Title,
		book.Author,
		book.Edition,
		book.Publisher,
		book.Genre,
		book.PageCount,
		book.Language,
		book.PublicationYear,
		book.AddedAt,
		book.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate ISBN during book creation",
				slog.String("isbn", book.ISBN))
			return fmt.Errorf("%w: %v", store.ErrISBNExists, err)
		}

		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("isbn", book.ISBN))
		return MapError(err)
	}

	log.Info("book created successfully", slog.String("isbn", book.ISBN))
	return nil
}

// GetByISBN implements store.BookStore.GetByISBN
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT isbn, title, author, edition, publisher, genre,
			page_count, language, publication_year, added_at, updated_at
		FROM books
		WHERE isbn = $1
	`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, isbn))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found", slog.String("isbn", isbn))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book by ISBN",
			slog.String("error", err.Error()),
			slog.String("isbn", isbn))
		return nil, MapError(err)
	}

	return book, nil
}

// List implements store.BookStore.List
// It returns one catalog page ordered by ISBN descending, mirroring the
// catalog listing order users see.
func (s *PostgresBookStore) List(ctx context.Context, page, pageSize int) (*store.BookPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		log.Error("failed to count books", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	query := `
		SELECT isbn, title, author, edition, publisher, genre,
			page_count, language, publication_year, added_at, updated_at
		FROM books
		ORDER BY isbn DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, pageSize, page*pageSize)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Error("failed to scan book row", slog.String("error", err.Error()))
			return nil, err
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &store.BookPage{
		Books:      books,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// Update implements store.BookStore.Update
// The ISBN identifies the book and is never changed.
// Returns store.ErrBookNotFound if no book with the given ISBN exists.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during update",
			slog.String("error", err.Error()),
			slog.String("isbn", book.ISBN))
		return err
	}

	query := `
		UPDATE books
		SET title = $1, author = $2, edition = $3, publisher = $4, genre = $5,
			page_count = $6, language = $7, publication_year = $8, updated_at = $9
		WHERE isbn = $10
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.Edition,
		book.Publisher,
		book.Genre,
		book.PageCount,
		book.Language,
		book.PublicationYear,
		book.UpdatedAt,
		book.ISBN,
	)

	if err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("isbn", book.ISBN))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBookNotFound); err != nil {
		log.Debug("book not found for update", slog.String("isbn", book.ISBN))
		return err
	}

	log.Info("book updated successfully", slog.String("isbn", book.ISBN))
	return nil
}

// Delete implements store.BookStore.Delete
// Returns store.ErrBookNotFound if the book does not exist.
// Loan ledger entries referencing the ISBN are retained.
func (s *PostgresBookStore) Delete(ctx context.Context, isbn string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		log.Error("failed to delete book",
			slog.String("error", err.Error()),
			slog.String("isbn", isbn))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrBookNotFound); err != nil {
		log.Debug("book not found for delete", slog.String("isbn", isbn))
		return err
	}

	log.Info("book deleted successfully", slog.String("isbn", isbn))
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var book domain.Book
	err := row.Scan(
		&book.ISBN,
		&book.Title,
		&book.Author,
		&book.Edition,
		&book.Publisher,
		&book.Genre,
		&book.PageCount,
		&book.Language,
		&book.PublicationYear,
		&book.AddedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}
