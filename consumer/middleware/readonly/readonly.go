package readonly

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/consumer"
)

var ErrWriteStatement = errors.New("rowconsumer: 只允许执行读语句")

// MiddlewareBuilder 拦截写语句, 如 DELETE ... RETURNING 这种也能返回行的语句
// WITH 和 EXPLAIN 开头的语句会继续检查其中是否包含写操作, 如 WITH d AS (DELETE ... RETURNING *) SELECT ...
type MiddlewareBuilder struct {
	allowed map[string]struct{}
	logger  *zap.Logger
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	m := &MiddlewareBuilder{
		allowed: make(map[string]struct{}),
		logger:  zap.NewNop(),
	}
	return m.Allow("SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE")
}

// Allow 追加允许的关键字, 如 sqlite 的 PRAGMA
func (m *MiddlewareBuilder) Allow(keywords ...string) *MiddlewareBuilder {
	for _, kw := range keywords {
		m.allowed[strings.ToUpper(kw)] = struct{}{}
	}
	return m
}

func (m *MiddlewareBuilder) Logger(logger *zap.Logger) *MiddlewareBuilder {
	m.logger = logger
	return m
}

func (m MiddlewareBuilder) Build() consumer.Middleware {
	return func(next consumer.Handler) consumer.Handler {
		return func(ctx context.Context, qc *consumer.QueryContext) *consumer.QueryResult {
			kw := leadingKeyword(qc.Query)
			_, ok := m.allowed[kw]
			if ok && nested[kw] {
				if w := writeKeyword(qc.Query); w != "" {
					kw, ok = w, false
				}
			}
			if !ok {
				m.logger.Warn("rowconsumer: 拒绝执行写语句", zap.String("keyword", kw), zap.String("model", qc.Model))
				return &consumer.QueryResult{
					Err: ErrWriteStatement,
				}
			}
			return next(ctx, qc)
		}
	}
}

// leadingKeyword 返回语句的第一个关键字(大写), 跳过空白, 注释和左括号
func leadingKeyword(query string) string {
	s := query
	for {
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || r == '('
		})
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = s[idx+1:]
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = s[idx+2:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !unicode.IsLetter(r)
			})
			if end < 0 {
				end = len(s)
			}
			return strings.ToUpper(s[:end])
		}
	}
}

// nested 中的语句可以包含子语句, 需要检查整条语句
var nested = map[string]bool{
	"WITH":    true,
	"EXPLAIN": true,
}

var writes = map[string]struct{}{
	"INSERT":   {},
	"UPDATE":   {},
	"DELETE":   {},
	"MERGE":    {},
	"TRUNCATE": {},
	"DROP":     {},
	"ALTER":    {},
	"CREATE":   {},
}

// writeKeyword 返回语句中第一个写操作的关键字, 字符串, 带引号的标识符和注释不参与匹配
// SELECT ... FOR UPDATE 是加锁读, 不算写
func writeKeyword(query string) string {
	var prev string
	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				return ""
			}
			i += end + 2
		case strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				return ""
			}
			i += end + 1
		case strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i:], "*/")
			if end < 0 {
				return ""
			}
			i += end + 2
		case isWordByte(c):
			start := i
			for i < len(query) && isWordByte(query[i]) {
				i++
			}
			word := strings.ToUpper(query[start:i])
			if _, ok := writes[word]; ok && !(word == "UPDATE" && prev == "FOR") {
				return word
			}
			prev = word
		default:
			i++
		}
	}
	return ""
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
