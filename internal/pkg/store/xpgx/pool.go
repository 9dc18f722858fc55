package xpgx

import (
	"context"
	"fmt"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"reflect"
)

// Pool runs squirrel-built statements against postgres.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error)
	Queryx(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error)
	Getx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error
	Selectx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error
	Ping(ctx context.Context) error
	Close()
}

type pool struct {
	*pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (Pool, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err = p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}
	return &pool{p}, nil
}

func (p *pool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.Pool.Exec(ctx, sql, args...)
}

func (p *pool) Queryx(ctx context.Context, query squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.Pool.Query(ctx, sql, args...)
}

// Selectx scans every row into dest, a pointer to a slice of structs whose db
// tags name the selected columns.
func (p *pool) Selectx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Pointer || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("xpgx.Selectx: dest must be a pointer to a slice, got %T", dest)
	}
	slice = slice.Elem()

	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	slice.SetLen(0)
	for rows.Next() {
		elem := reflect.New(slice.Type().Elem())
		if err = scanStruct(rows, elem); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return rows.Err()
}

// Getx scans the first row into dest, a pointer to a struct. It returns
// pgx.ErrNoRows when the query selects nothing.
func (p *pool) Getx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	row := reflect.ValueOf(dest)
	if row.Kind() != reflect.Pointer || row.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("xpgx.Getx: dest must be a pointer to a struct, got %T", dest)
	}

	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return err
		}
		return pgx.ErrNoRows
	}
	if err = scanStruct(rows, row); err != nil {
		return err
	}
	rows.Close()
	return rows.Err()
}

// scanStruct scans the current row into the struct ptr points to, matching
// columns to db tags.
func scanStruct(rows pgx.Rows, ptr reflect.Value) error {
	st := ptr.Elem()
	fields := rows.FieldDescriptions()
	targets := make([]interface{}, len(fields))
	for i, fd := range fields {
		idx := fieldByTag(st.Type(), fd.Name)
		if idx < 0 {
			return fmt.Errorf("xpgx: column %q has no db field in %s", fd.Name, st.Type())
		}
		targets[i] = st.Field(idx).Addr().Interface()
	}
	return rows.Scan(targets...)
}

func fieldByTag(t reflect.Type, column string) int {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("db") == column {
			return i
		}
	}
	return -1
}
