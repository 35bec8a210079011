package generator

import "jsongen/internal/model"

// RenderStrategy says how a member value is written.
type RenderStrategy int

const (
	// Raw writes the value's text form unquoted.
	Raw RenderStrategy = iota
	// Quoted wraps the value's text form in double quotes.
	Quoted
)

func (s RenderStrategy) String() string {
	if s == Quoted {
		return "quoted"
	}
	return "raw"
}

// Classify picks the render strategy for m. Only the built-in string type is
// quoted; numbers, booleans, collections and nested serializable types all
// go out raw, as whatever their text form produces.
func Classify(m model.Member) RenderStrategy {
	if m.Type.Special == model.SpecialString {
		return Quoted
	}
	return Raw
}
