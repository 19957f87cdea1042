// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package decode

import (
	"fmt"
	"strings"
)

// Error is a structural decode failure. Decoders are compositional, so
// their errors form a tree rather than a flat message:
//
//   - [Leaf]: a terminating message
//   - [Key]: the error occurred under a named field
//   - [Index]: the error occurred under an array element
//   - [Union]: both alternatives of an alternation failed
//
// [Render] walks the tree and reconstructs a dotted/bracketed path such
// as "items[2].title: required".
type Error interface {
	decodeError()
}

// Leaf is a terminating decode failure message.
type Leaf struct {
	Message string
}

// Key wraps an error with the struct field it occurred under.
type Key struct {
	Name string
	Err  Error
}

// Index wraps an error with the array position it occurred under.
type Index struct {
	Pos int
	Err Error
}

// Union joins the errors of two failed alternatives, left first.
type Union struct {
	Left  Error
	Right Error
}

func (Leaf) decodeError()  {}
func (Key) decodeError()   {}
func (Index) decodeError() {}
func (Union) decodeError() {}

// leaff creates a Leaf with a formatted message.
func leaff(format string, args ...any) Leaf {
	return Leaf{Message: fmt.Sprintf(format, args...)}
}

// Render draws the error tree as a human-readable string. Each failing
// branch renders as "<path>: <message>" where the path is dotted for keys
// and bracketed for indices; union branches are joined with "; ".
func Render(e Error) string {
	var sb strings.Builder
	render(&sb, e, "")
	return sb.String()
}

func render(sb *strings.Builder, e Error, path string) {
	switch n := e.(type) {
	case Leaf:
		if path != "" {
			sb.WriteString(path)
			sb.WriteString(": ")
		}
		sb.WriteString(n.Message)
	case Key:
		render(sb, n.Err, joinKey(path, n.Name))
	case Index:
		render(sb, n.Err, fmt.Sprintf("%s[%d]", path, n.Pos))
	case Union:
		render(sb, n.Left, path)
		sb.WriteString("; ")
		render(sb, n.Right, path)
	default:
		panic("decode: unknown error node")
	}
}

func joinKey(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Keys returns the top-level field names present in the error tree, in
// rendering order. Callers use this to map failures back onto specific
// form fields.
func Keys(e Error) []string {
	var names []string
	var walk func(Error)
	walk = func(e Error) {
		switch n := e.(type) {
		case Key:
			names = append(names, n.Name)
		case Index:
			walk(n.Err)
		case Union:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return names
}
