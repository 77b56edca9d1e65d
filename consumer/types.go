package consumer

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=types.go -destination=mocks/queryer.mock.go -package=mocks

// Queryer 是驱动提供的查询能力, *sql.DB, *sql.Tx 和 *sql.Conn 都实现了它
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Queryer = (*sql.DB)(nil)
	_ Queryer = (*sql.Tx)(nil)
	_ Queryer = (*sql.Conn)(nil)
)
