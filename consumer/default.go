package consumer

import (
	"net"
)

// Defaulter 由需要自定义默认值的类型实现
// 字段转换失败时, 用 RowDefault 设置的值代替零值
type Defaulter interface {
	RowDefault()
}

var loopback = net.IPv4(127, 0, 0, 1)

// defaultValue 返回 T 的默认值
func defaultValue[T any]() T {
	var v T
	switch d := any(&v).(type) {
	case *net.IP:
		*d = append(net.IP(nil), loopback...)
	case Defaulter:
		d.RowDefault()
	}
	return v
}
