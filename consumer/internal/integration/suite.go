//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/consumer"
	"github.com/startdusk/rowconsumer/consumer/internal/test"
)

type Suite struct {
	suite.Suite

	driver  string
	dsn     string
	dialect dialect

	sqlDB *sql.DB
	db    *consumer.DB
}

func (s *Suite) SetupSuite() {
	t := s.T()
	sqlDB, err := sql.Open(s.driver, s.dsn)
	require.NoError(t, err)
	s.sqlDB = sqlDB
	s.db, err = consumer.OpenDB(sqlDB, consumer.DBWithLogger(zap.NewExample()))
	require.NoError(t, err)

	_, err = sqlDB.ExecContext(context.Background(), s.dialect.createTable())
	require.NoError(t, err)
}

func (s *Suite) TearDownSuite() {
	_, _ = s.sqlDB.ExecContext(context.Background(), "DROP TABLE "+s.dialect.quote("simple_struct"))
	_ = s.sqlDB.Close()
}

// 每个测试结束后清空数据
func (s *Suite) TearDownTest() {
	_, err := s.sqlDB.ExecContext(context.Background(), "DELETE FROM "+s.dialect.quote("simple_struct"))
	require.NoError(s.T(), err)
}

func (s *Suite) insert(ctx context.Context, vals ...*test.SimpleStruct) {
	for _, val := range vals {
		_, err := s.sqlDB.ExecContext(ctx, s.dialect.insert(), val.Values()...)
		require.NoError(s.T(), err)
	}
}

// insertID 只插入主键, 其他列都是 NULL
func (s *Suite) insertID(ctx context.Context, id uint64) {
	query := fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)",
		s.dialect.quote("simple_struct"), s.dialect.quote("id"), s.dialect.placeholder(1))
	_, err := s.sqlDB.ExecContext(ctx, query, id)
	require.NoError(s.T(), err)
}

func (s *Suite) selectAll() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		s.dialect.columns(), s.dialect.quote("simple_struct"), s.dialect.quote("id"))
}

// dialect 只处理建表和插入时各个数据库的差异, 查询结果的转换不区分数据库
type dialect struct {
	quote       func(name string) string
	placeholder func(idx int) string
	blob        string
}

var (
	mysqlDialect = dialect{
		quote:       func(name string) string { return "`" + name + "`" },
		placeholder: func(int) string { return "?" },
		blob:        "BLOB",
	}
	postgresDialect = dialect{
		quote:       func(name string) string { return `"` + name + `"` },
		placeholder: func(idx int) string { return fmt.Sprintf("$%d", idx) },
		blob:        "BYTEA",
	}
	sqliteDialect = dialect{
		quote:       func(name string) string { return `"` + name + `"` },
		placeholder: func(int) string { return "?" },
		blob:        "BLOB",
	}
)

func (d dialect) columnType(col string) string {
	col = strings.TrimSuffix(col, "_ptr")
	col = strings.TrimPrefix(col, "null_")
	switch {
	case col == "id":
		return "BIGINT PRIMARY KEY"
	case col == "bool":
		return "BOOLEAN"
	case col == "float32":
		return "REAL"
	case col == "float64":
		return "DOUBLE PRECISION"
	case col == "byte_array":
		return d.blob
	case col == "string":
		return "TEXT"
	default:
		return "BIGINT"
	}
}

func (d dialect) createTable() string {
	cols := test.SimpleStruct{}.Columns()
	defs := make([]string, 0, len(cols))
	for _, col := range cols {
		defs = append(defs, d.quote(col)+" "+d.columnType(col))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.quote("simple_struct"), strings.Join(defs, ", "))
}

func (d dialect) columns() string {
	cols := test.SimpleStruct{}.Columns()
	quoted := make([]string, 0, len(cols))
	for _, col := range cols {
		quoted = append(quoted, d.quote(col))
	}
	return strings.Join(quoted, ", ")
}

func (d dialect) insert() string {
	cols := test.SimpleStruct{}.Columns()
	phs := make([]string, 0, len(cols))
	for i := range cols {
		phs = append(phs, d.placeholder(i+1))
	}
	return fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)", d.quote("simple_struct"), d.columns(), strings.Join(phs, ", "))
}
