package consumer

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

var (
	_ Session = &DB{}
)

type DBOption func(db *DB)

type DB struct {
	core
	q Queryer

	// 只有通过 *sql.DB 创建时才有值, 用于事务和关闭连接
	db *sql.DB
	// Open 创建的连接由我们负责关闭
	owned bool
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	if db.db == nil {
		return nil, errs.ErrTxUnsupported
	}
	tx, err := db.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, db: db}, nil
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.q.QueryContext(ctx, query, args...)
}

func (db *DB) getCore() core {
	return db.core
}

func (db *DB) DoTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error, opts *sql.TxOptions) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	panicked := true
	defer func() {
		if panicked || err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errs.NewErrFailedToRollbackTx(err, rollbackErr, panicked)
			}
		} else {
			err = tx.Commit()
		}
	}()
	err = fn(ctx, tx)
	// 执行过程中没有发生panic, 则标志位置为false
	panicked = false
	return err
}

// Close 只关闭 Open 创建的连接, 调用方传进来的连接由调用方自己管理
func (db *DB) Close() error {
	if db.owned && db.db != nil {
		return db.db.Close()
	}
	return nil
}

func Open(driver string, dataSourceName string, opts ...DBOption) (*DB, error) {
	sqlDB, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}
	db, err := OpenDB(sqlDB, opts...)
	if err != nil {
		return nil, err
	}
	db.owned = true
	return db, nil
}

func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	newDB, err := NewDB(db, opts...)
	if err != nil {
		return nil, err
	}
	newDB.db = db
	return newDB, nil
}

// NewDB 用任意 Queryer 创建 DB, 如 *sql.Conn 或者测试用的 mock
// 这种方式创建的 DB 不支持事务
func NewDB(q Queryer, opts ...DBOption) (*DB, error) {
	if q == nil {
		return nil, errs.ErrNilQueryer
	}
	newDB := &DB{
		core: core{
			r:      DefaultRegistry(),
			logger: zap.NewNop(),
		},
		q: q,
	}

	for _, opt := range opts {
		opt(newDB)
	}

	return newDB, nil
}

func MustOpenDB(db *sql.DB, opts ...DBOption) *DB {
	newDB, err := OpenDB(db, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func MustOpen(driver string, dataSourceName string, opts ...DBOption) *DB {
	newDB, err := Open(driver, dataSourceName, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func DBWithRegistry(r *Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

// DBWithLogger 设置日志, 转换失败的诊断信息会以 Debug 级别输出
func DBWithLogger(logger *zap.Logger) DBOption {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}
