// Package test 是用于辅助测试的包。仅限于内部使用
package test

import (
	"database/sql"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
)

//go:generate go run ../../../cmd/consumergen -src types.go

// User 字段的声明顺序就是 JSON 的输出顺序
//
//rowconsumer:generate
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Profile 覆盖需要特殊处理的类型
//
//rowconsumer:generate
type Profile struct {
	ID      int64
	Email   *string
	IP      net.IP
	MAC     net.HardwareAddr
	Token   uuid.UUID
	Extra   json.RawMessage
	Created time.Time
	Status  Status
}

// Status 转换失败时默认是 StatusUnknown, 而不是零值
type Status int

const (
	StatusUnknown Status = -1
	StatusActive  Status = 1
)

func (s *Status) RowDefault() {
	*s = StatusUnknown
}

// ReflectUser 没有生成代码, 走反射
type ReflectUser struct {
	ID       int64
	Name     string
	Age      int8
	Nick     *string
	Status   Status
	password string
	Ignored  string `rowconsumer:"-"`
}

func NewReflectUser(id int64) *ReflectUser {
	nick := "nick"
	return &ReflectUser{
		ID:     id,
		Name:   "Tom",
		Age:    18,
		Nick:   &nick,
		Status: StatusActive,
	}
}

// SimpleStruct 包含反射支持的所有类型
type SimpleStruct struct {
	ID      uint64
	Bool    bool
	BoolPtr *bool

	Int    int
	IntPtr *int

	Int8    int8
	Int8Ptr *int8

	Int16    int16
	Int16Ptr *int16

	Int32    int32
	Int32Ptr *int32

	Int64    int64
	Int64Ptr *int64

	Uint    uint
	UintPtr *uint

	Uint8    uint8
	Uint8Ptr *uint8

	Uint16    uint16
	Uint16Ptr *uint16

	Uint32    uint32
	Uint32Ptr *uint32

	Uint64    uint64
	Uint64Ptr *uint64

	Float32    float32
	Float32Ptr *float32

	Float64    float64
	Float64Ptr *float64

	ByteArray []byte
	String    string

	// 特殊类型
	NullString  sql.NullString
	NullInt16   sql.NullInt16
	NullInt32   sql.NullInt32
	NullInt64   sql.NullInt64
	NullBool    sql.NullBool
	NullFloat64 sql.NullFloat64
}

// Columns 返回 SimpleStruct 对应的建表语句中的列, 顺序和字段一致
func (SimpleStruct) Columns() []string {
	return []string{
		"id", "bool", "bool_ptr",
		"int", "int_ptr", "int8", "int8_ptr", "int16", "int16_ptr",
		"int32", "int32_ptr", "int64", "int64_ptr",
		"uint", "uint_ptr", "uint8", "uint8_ptr", "uint16", "uint16_ptr",
		"uint32", "uint32_ptr", "uint64", "uint64_ptr",
		"float32", "float32_ptr", "float64", "float64_ptr",
		"byte_array", "string",
		"null_string", "null_int16", "null_int32", "null_int64", "null_bool", "null_float64",
	}
}

func NewSimpleStruct(id uint64) *SimpleStruct {
	return &SimpleStruct{
		ID:          id,
		Bool:        true,
		BoolPtr:     ToPtr[bool](false),
		Int:         12,
		IntPtr:      ToPtr[int](13),
		Int8:        8,
		Int8Ptr:     ToPtr[int8](-8),
		Int16:       16,
		Int16Ptr:    ToPtr[int16](-16),
		Int32:       32,
		Int32Ptr:    ToPtr[int32](-32),
		Int64:       64,
		Int64Ptr:    ToPtr[int64](-64),
		Uint:        14,
		UintPtr:     ToPtr[uint](15),
		Uint8:       8,
		Uint8Ptr:    ToPtr[uint8](18),
		Uint16:      16,
		Uint16Ptr:   ToPtr[uint16](116),
		Uint32:      32,
		Uint32Ptr:   ToPtr[uint32](132),
		Uint64:      64,
		Uint64Ptr:   ToPtr[uint64](164),
		Float32:     3.2,
		Float32Ptr:  ToPtr[float32](-3.2),
		Float64:     6.4,
		Float64Ptr:  ToPtr[float64](-6.4),
		ByteArray:   []byte("hello"),
		String:      "world",
		NullString:  sql.NullString{String: "null string", Valid: true},
		NullInt16:   sql.NullInt16{Int16: 16, Valid: true},
		NullInt32:   sql.NullInt32{Int32: 32, Valid: true},
		NullInt64:   sql.NullInt64{Int64: 64, Valid: true},
		NullBool:    sql.NullBool{Bool: true, Valid: true},
		NullFloat64: sql.NullFloat64{Float64: 6.4, Valid: true},
	}
}

// Values 按字段顺序返回插入用的参数
func (s *SimpleStruct) Values() []any {
	return []any{
		s.ID, s.Bool, s.BoolPtr,
		s.Int, s.IntPtr, s.Int8, s.Int8Ptr, s.Int16, s.Int16Ptr,
		s.Int32, s.Int32Ptr, s.Int64, s.Int64Ptr,
		s.Uint, s.UintPtr, s.Uint8, s.Uint8Ptr, s.Uint16, s.Uint16Ptr,
		s.Uint32, s.Uint32Ptr, s.Uint64, s.Uint64Ptr,
		s.Float32, s.Float32Ptr, s.Float64, s.Float64Ptr,
		s.ByteArray, s.String,
		s.NullString, s.NullInt16, s.NullInt32, s.NullInt64, s.NullBool, s.NullFloat64,
	}
}

func ToPtr[T any](t T) *T {
	return &t
}
