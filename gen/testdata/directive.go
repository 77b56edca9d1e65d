package testdata

import (
	jsoniter "encoding/json"
	"net"
)

//rowconsumer:generate
type Host struct {
	Addr  net.IP
	Extra jsoniter.RawMessage
}

type NotSelected struct {
	Name string
}
