package testdata

type Broken struct {
	ID int64
