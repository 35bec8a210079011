// Package jsonser is the runtime half of jsongen.
//
// A type opts into generation by embedding Serializable bound to itself:
//
//	type Poco struct {
//		jsonser.Serializable[Poco]
//
//		TestInt    int
//		TestString string
//	}
//
// jsongen then writes a Serialize(TextWriter) method for it into a separate
// file of the same package.
package jsonser

import (
	"io"
	"strings"
)

// Serializable marks the embedding type for serializer generation. T is
// conventionally the embedding type itself.
type Serializable[T any] struct{}

// TextWriter is the write-only sink generated code writes into.
type TextWriter interface {
	Write(s string)
	WriteLine(s string)
}

// Serializer is implemented by every type jsongen generated code for.
type Serializer interface {
	Serialize(w TextWriter)
}

// StringWriter captures everything written into an in-memory buffer.
type StringWriter struct {
	sb strings.Builder
}

func (w *StringWriter) Write(s string) {
	w.sb.WriteString(s)
}

func (w *StringWriter) WriteLine(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// String returns the text written so far.
func (w *StringWriter) String() string {
	return w.sb.String()
}

// Writer adapts an io.Writer to TextWriter. The first write error is kept
// and every later write is dropped.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a TextWriter writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Write("\n")
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

// Marshal runs v's generated serializer against a fresh StringWriter.
func Marshal(v Serializer) string {
	var w StringWriter
	v.Serialize(&w)
	return w.String()
}
