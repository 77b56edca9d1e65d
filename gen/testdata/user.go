package testdata

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        int64
	Name      string
	Age       *int
	NickName  sql.NullString
	Picture   []byte
	CreatedAt time.Time
	password  string
	Ignored   string `rowconsumer:"-"`
}

type UserDetail struct {
	UserID  uuid.UUID
	Address string
}

type Status int

func NewUser() *User {
	type local struct {
		A int
	}
	_ = local{}
	return &User{}
}
