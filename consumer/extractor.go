package consumer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"net"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

var errInvalidJSON = errors.New("不是合法的 JSON")

// convert 把驱动返回的原始值转换成 T
// 普通类型复用 database/sql 自己的赋值规则(sql.Null[T]), 特殊类型单独处理
func convert[T any](src any) (T, error) {
	var dst T
	var err error
	switch d := any(&dst).(type) {
	case *net.IP:
		err = assignIP(src, d)
	case **net.IP:
		err = assignPtr(src, d, assignIP)
	case *net.HardwareAddr:
		err = assignMAC(src, d)
	case **net.HardwareAddr:
		err = assignPtr(src, d, assignMAC)
	case *json.RawMessage:
		err = assignJSON(src, d)
	case **json.RawMessage:
		err = assignPtr(src, d, assignJSON)
	case *uuid.UUID:
		// uuid.UUID.Scan 遇到 NULL 不报错, 这里要求非空
		if src == nil {
			return dst, errs.ErrUnexpectedNull
		}
		err = d.Scan(src)
	case sql.Scanner:
		// sql.NullString 之类的类型自己处理 NULL
		err = d.Scan(src)
	default:
		if src == nil {
			if nullable(reflect.TypeOf(&dst).Elem()) {
				return dst, nil
			}
			return dst, errs.ErrUnexpectedNull
		}
		var n sql.Null[T]
		err = n.Scan(src)
		dst = n.V
	}
	if err != nil {
		var zero T
		if errors.Is(err, errs.ErrUnexpectedNull) {
			return zero, err
		}
		return zero, errs.NewErrConvert(src, typeName(reflect.TypeOf(&dst).Elem()), err)
	}
	return dst, nil
}

func nullable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	default:
		return false
	}
}

func assignPtr[V any](src any, dst **V, fn func(src any, dst *V) error) error {
	if src == nil {
		*dst = nil
		return nil
	}
	v := new(V)
	if err := fn(src, v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func asText(src any) (string, error) {
	switch val := src.(type) {
	case nil:
		return "", errs.ErrUnexpectedNull
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return "", errs.NewErrConvert(src, "string", errors.ErrUnsupported)
	}
}

func assignIP(src any, dst *net.IP) error {
	s, err := asText(src)
	if err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	// postgres 的 inet 可能带掩码, 如 10.0.0.1/32
	if strings.Contains(s, "/") {
		ip, _, err := net.ParseCIDR(s)
		if err != nil {
			return err
		}
		*dst = ip
		return nil
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return &net.ParseError{Type: "IP address", Text: s}
	}
	*dst = ip
	return nil
}

func assignMAC(src any, dst *net.HardwareAddr) error {
	s, err := asText(src)
	if err != nil {
		return err
	}
	mac, err := net.ParseMAC(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*dst = mac
	return nil
}

func assignJSON(src any, dst *json.RawMessage) error {
	s, err := asText(src)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(s)) {
		return errInvalidJSON
	}
	*dst = json.RawMessage(s)
	return nil
}

func typeName(typ reflect.Type) string {
	if typ.Name() != "" {
		return typ.Name()
	}
	return typ.String()
}

// extractor 是某个类型的提取规则: 如何从原始值赋给字段, 以及失败时的默认值
type extractor struct {
	assign   func(src any, dst reflect.Value) error
	fallback func(dst reflect.Value)
}

func extractorOf[T any]() extractor {
	return extractor{
		assign: func(src any, dst reflect.Value) error {
			v, err := convert[T](src)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(&v).Elem())
			return nil
		},
		fallback: func(dst reflect.Value) {
			v := defaultValue[T]()
			dst.Set(reflect.ValueOf(&v).Elem())
		},
	}
}

// extractors 是封闭的类型表, 反射模型只支持这里登记过的字段类型
var extractors = map[reflect.Type]extractor{}

func register[T any]() {
	extractors[reflect.TypeOf((*T)(nil)).Elem()] = extractorOf[T]()
	extractors[reflect.TypeOf((**T)(nil)).Elem()] = extractorOf[*T]()
}

func init() {
	register[bool]()
	register[int]()
	register[int8]()
	register[int16]()
	register[int32]()
	register[int64]()
	register[uint]()
	register[uint8]()
	register[uint16]()
	register[uint32]()
	register[uint64]()
	register[float32]()
	register[float64]()
	register[string]()
	register[[]byte]()
	register[time.Time]()
	register[net.IP]()
	register[net.HardwareAddr]()
	register[uuid.UUID]()
	register[uuid.NullUUID]()
	register[json.RawMessage]()
	register[sql.NullString]()
	register[sql.NullInt16]()
	register[sql.NullInt32]()
	register[sql.NullInt64]()
	register[sql.NullFloat64]()
	register[sql.NullBool]()
	register[sql.NullTime]()
	register[sql.NullByte]()
}

// lookupExtractor 先查类型表, 找不到再按底层类型处理具名的基础类型, 如 type Status int 和 type Blob []byte
func lookupExtractor(typ reflect.Type) (extractor, bool) {
	if ext, ok := extractors[typ]; ok {
		return ext, true
	}
	if implementsScanner(typ) {
		return scannerExtractor(typ), true
	}
	return kindExtractor(typ)
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

func implementsScanner(typ reflect.Type) bool {
	return reflect.PointerTo(typ).Implements(scannerType)
}

func scannerExtractor(typ reflect.Type) extractor {
	return extractor{
		assign: func(src any, dst reflect.Value) error {
			val := reflect.New(typ)
			if err := val.Interface().(sql.Scanner).Scan(src); err != nil {
				return errs.NewErrConvert(src, typeName(typ), err)
			}
			dst.Set(val.Elem())
			return nil
		},
		fallback: zeroFallback(typ),
	}
}

func zeroFallback(typ reflect.Type) func(dst reflect.Value) {
	return func(dst reflect.Value) {
		val := reflect.New(typ)
		if d, ok := val.Interface().(Defaulter); ok {
			d.RowDefault()
		}
		dst.Set(val.Elem())
	}
}

func kindExtractor(typ reflect.Type) (extractor, bool) {
	var assign func(src any, dst reflect.Value) error
	switch typ.Kind() {
	case reflect.Bool:
		assign = func(src any, dst reflect.Value) error {
			v, err := convert[bool](src)
			if err != nil {
				return err
			}
			dst.SetBool(v)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		assign = func(src any, dst reflect.Value) error {
			v, err := convert[int64](src)
			if err != nil {
				return err
			}
			if dst.OverflowInt(v) {
				return errs.NewErrConvert(src, typeName(typ), errOutOfRange)
			}
			dst.SetInt(v)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		assign = func(src any, dst reflect.Value) error {
			v, err := convert[uint64](src)
			if err != nil {
				return err
			}
			if dst.OverflowUint(v) {
				return errs.NewErrConvert(src, typeName(typ), errOutOfRange)
			}
			dst.SetUint(v)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		assign = func(src any, dst reflect.Value) error {
			v, err := convert[float64](src)
			if err != nil {
				return err
			}
			if typ.Kind() == reflect.Float32 && math.Abs(v) > math.MaxFloat32 {
				return errs.NewErrConvert(src, typeName(typ), errOutOfRange)
			}
			dst.SetFloat(v)
			return nil
		}
	case reflect.String:
		assign = func(src any, dst reflect.Value) error {
			v, err := convert[string](src)
			if err != nil {
				return err
			}
			dst.SetString(v)
			return nil
		}
	case reflect.Slice:
		// 只支持具名的字节切片, 如 type Blob []byte
		if typ.Elem().Kind() != reflect.Uint8 {
			return extractor{}, false
		}
		assign = func(src any, dst reflect.Value) error {
			v, err := convert[[]byte](src)
			if err != nil {
				return err
			}
			dst.SetBytes(v)
			return nil
		}
	default:
		return extractor{}, false
	}
	return extractor{
		assign:   assign,
		fallback: zeroFallback(typ),
	}, true
}

var errOutOfRange = errors.New("数值超出范围")
