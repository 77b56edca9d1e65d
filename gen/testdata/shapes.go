package testdata

type Base struct {
	ID int64
}

type Embedded struct {
	Base
	Name string
}

type Empty struct{}

type Private struct {
	name string
}

type Kind int

type Page[T any] struct {
	Items []T
}
