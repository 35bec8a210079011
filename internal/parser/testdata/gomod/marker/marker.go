package marker

// Serializable mirrors jsonser.Serializable for loader tests.
type Serializable[T any] struct{}

type Codec[T, U any] struct{}
