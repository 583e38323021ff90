package lessons

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/integration/database/pg"
)

// Migrations holds the goose migrations for the lessons table, under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

const (
	countLessonsQuery = `SELECT count(*) FROM lessons`
	listLessonsQuery  = `SELECT id, description, completed FROM lessons ORDER BY id LIMIT $1 OFFSET $2`
	insertLessonQuery = `INSERT INTO lessons (description, completed) VALUES ($1, $2) RETURNING id, description, completed`
	allLessonsQuery   = `SELECT id, description, completed FROM lessons ORDER BY id`
)

// Querier is the subset of pgxpool.Pool and pgx.Tx used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource serves lesson pages from the lessons table. Queries run in
// the transaction attached to the context by pg.WithTx when there is one.
type PostgresSource struct {
	db Querier
}

// NewPostgresSource returns a Source reading from db.
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// FetchPage implements Source.
func (s *PostgresSource) FetchPage(ctx context.Context, number, size int) stream.Observable[Page] {
	return stream.FromFunc(ctx, func(ctx context.Context) (Page, error) {
		if err := validatePage(number, size); err != nil {
			return Page{}, err
		}

		q := s.querier(ctx)

		var total int
		if err := q.QueryRow(ctx, countLessonsQuery).Scan(&total); err != nil {
			return Page{}, fmt.Errorf("count lessons: %w", err)
		}

		page := Page{Number: number, Size: size, Total: total, Lessons: []Lesson{}}
		if number > page.Pages() {
			return page, nil
		}

		rows, err := q.Query(ctx, listLessonsQuery, size, (number-1)*size)
		if err != nil {
			return Page{}, fmt.Errorf("list lessons: %w", err)
		}
		list, err := pgx.CollectRows(rows, pgx.RowToStructByName[Lesson])
		if err != nil {
			return Page{}, fmt.Errorf("scan lessons: %w", err)
		}

		page.Lessons = list
		return page, nil
	})
}

// Insert stores a new lesson and returns it with its generated ID.
func (s *PostgresSource) Insert(ctx context.Context, l Lesson) (Lesson, error) {
	l, err := normalize(l)
	if err != nil {
		return Lesson{}, err
	}

	rows, err := s.querier(ctx).Query(ctx, insertLessonQuery, l.Description, l.Completed)
	if err != nil {
		return Lesson{}, fmt.Errorf("insert lesson: %w", err)
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Lesson])
}

// All loads every lesson, for seeding a Store.
func (s *PostgresSource) All(ctx context.Context) ([]Lesson, error) {
	rows, err := s.querier(ctx).Query(ctx, allLessonsQuery)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Lesson])
}

func (s *PostgresSource) querier(ctx context.Context) Querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.db
}
