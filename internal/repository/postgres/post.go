package postgres

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type postRepo[T model.Post] struct {
	db       DBTX
	logger   *zap.Logger
	table    string
	writable []string
	columns  []string
	orderBy  string
}

func newPostRepo[T model.Post](db DBTX, logger *zap.Logger) Posts[T] {
	var zero T
	writable := writableColumns(zero.Record())

	orderBy := "id ASC"
	if zero.Kind() == model.CategoryLounge {
		orderBy = "created_at DESC"
	}

	return &postRepo[T]{
		db:       db,
		logger:   logger,
		table:    zero.Kind().Table(),
		writable: writable,
		columns:  append([]string{"id", "created_at"}, writable...),
		orderBy:  orderBy,
	}
}

func (r *postRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := r.db.Query(ctx, buildSelect(r.table, r.columns, r.orderBy))
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

func (r *postRepo[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	rows, err := r.db.Query(ctx, buildSelectByID(r.table, r.columns), id)
	if err != nil {
		return nil, err
	}

	post, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo[T]) Create(ctx context.Context, post T) (*T, error) {
	record := post.Record()
	args := make([]any, 0, len(r.writable))
	for _, column := range r.writable {
		args = append(args, record[column])
	}

	rows, err := r.db.Query(ctx, buildInsert(r.table, r.writable, r.columns), args...)
	if err != nil {
		return nil, err
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *postRepo[T]) Update(ctx context.Context, id int64, patch model.Patch) (*T, error) {
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	for field := range patch {
		if !slices.Contains(r.writable, field) {
			return nil, ErrFieldsNotAllowedToUpdate
		}
	}

	fields := slices.Sorted(maps.Keys(patch))
	args := make([]any, 0, len(fields)+1)
	for _, field := range fields {
		args = append(args, patch[field])
	}
	args = append(args, id)

	rows, err := r.db.Query(ctx, buildUpdate(r.table, fields, r.columns), args...)
	if err != nil {
		return nil, err
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *postRepo[T]) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", quote(r.table)), id)
	if err != nil {
		return 0, err
	}

	if tag.RowsAffected() == 0 {
		r.logger.Sugar().Debugf("delete from %s matched no post(%d)", r.table, id)
	}

	return tag.RowsAffected(), nil
}

func writableColumns(record map[string]any) []string {
	return slices.Sorted(maps.Keys(record))
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func columnList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = quote(column)
	}
	return strings.Join(quoted, ", ")
}

func buildSelect(table string, columns []string, orderBy string) string {
	return "SELECT " + columnList(columns) + " FROM " + quote(table) + " ORDER BY " + orderBy
}

func buildSelectByID(table string, columns []string) string {
	return "SELECT " + columnList(columns) + " FROM " + quote(table) + " WHERE id = $1"
}

func buildInsert(table string, writable []string, returning []string) string {
	placeholders := make([]string, len(writable))
	for i := range writable {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	return "INSERT INTO " + quote(table) + " (" + columnList(writable) + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") RETURNING " + columnList(returning)
}

func buildUpdate(table string, fields []string, returning []string) string {
	query := "UPDATE " + quote(table) + " SET "
	i := 1
	for _, field := range fields {
		query += quote(field) + " = $" + strconv.Itoa(i) + ", "
		i++
	}

	return query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i) + " RETURNING " + columnList(returning)
}
