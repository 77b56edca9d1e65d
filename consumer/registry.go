package consumer

import (
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultCapacity = 256

// Registry 代表元数据的注册中心
// 反射解析出来的 Model 放在 LRU 里, Schema 由用户显式注册, 不会被淘汰
type Registry struct {
	// 用 reflect.Type 作为 key, 同名但不同包的结构体也能区分开
	models *lru.Cache[reflect.Type, *Model]

	// 多个 goroutine 第一次同时解析同一个类型时, 只解析一次
	group singleflight.Group

	schemas sync.Map
}

type RegistryOption func(r *registryConfig)

type registryConfig struct {
	capacity int
}

// RegistryWithCapacity 设置 Model 缓存的容量
func RegistryWithCapacity(capacity int) RegistryOption {
	return func(r *registryConfig) {
		r.capacity = capacity
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.capacity <= 0 {
		cfg.capacity = defaultCapacity
	}
	// 只有 size <= 0 时才会返回 error
	models, _ := lru.New[reflect.Type, *Model](cfg.capacity)
	return &Registry{
		models: models,
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry 返回进程级别的注册中心, FromRow 和 FromRows 使用它
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Get 返回 typ 对应的 Model, 第一次访问时解析
func (r *Registry) Get(typ reflect.Type) (*Model, error) {
	if m, ok := r.models.Get(typ); ok {
		return m, nil
	}

	key := typ.PkgPath() + "|" + typ.String()
	val, err, _ := r.group.Do(key, func() (any, error) {
		// double check, 可能别的 goroutine 刚刚解析完
		if m, ok := r.models.Get(typ); ok {
			return m, nil
		}
		m, err := parseModel(typ)
		if err != nil {
			return nil, err
		}
		r.models.Add(typ, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	m := val.(*Model)
	// 匿名结构体的 key 可能冲突, 冲突时直接解析
	if m.Type != typ {
		return parseModel(typ)
	}
	return m, nil
}

// Len 返回缓存中 Model 的数量
func (r *Registry) Len() int {
	return r.models.Len()
}

func (r *Registry) schema(typ reflect.Type) (any, bool) {
	return r.schemas.Load(typ)
}

// RegisterSchema 注册 T 的 Schema, 之后 T 的转换都使用这个 Schema
func RegisterSchema[T any](r *Registry, s *Schema[T]) {
	r.schemas.Store(reflect.TypeOf((*T)(nil)).Elem(), s)
}
