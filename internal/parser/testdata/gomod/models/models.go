package models

import "fixture/marker"

type Poco struct {
	marker.Serializable[Poco]

	TestInt    int
	TestString string
	note       string
}

func (p Poco) Describe() string { return p.note }

type Base struct {
	marker.Serializable[Base]
	ID int
}

type Derived struct {
	*Base
	Name string
}

type Name string

type Text = string

type Tagged struct {
	marker.Serializable[Tagged]
	Label   Name
	Caption Text
}

type Plain struct {
	X int
}

type Pair struct {
	marker.Codec[Pair, string]
}

type Box[T any] struct {
	marker.Serializable[Box[T]]
	Value T
}

type Loop struct {
	*Loop2
}

type Loop2 struct {
	*Loop
}
