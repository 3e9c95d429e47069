// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patch

import "fmt"

// Op describes a line level operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op
type Op int

const (
	Equal  Op = iota // A line present in both the source and the target
	Insert           // A line only present in the target
	Delete           // A line only present in the source
)

// Operation is a single line of a hunk.
//
//   - Equal consumes a source line and produces a target line.
//   - Delete consumes a source line.
//   - Insert produces a target line.
type Operation struct {
	Op   Op
	Text string
}

// String returns the operation as it appears in the body of a hunk.
func (o Operation) String() string {
	return string(o.Op.prefix()) + o.Text
}

func (op Op) prefix() byte {
	switch op {
	case Equal:
		return prefixEqual
	case Insert:
		return prefixInsert
	case Delete:
		return prefixDelete
	default:
		panic(fmt.Sprintf("unknown op: %v", op))
	}
}

const (
	prefixEqual  = ' '
	prefixInsert = '+'
	prefixDelete = '-'
)
