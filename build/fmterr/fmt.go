// Copyright 2025 Google LLC
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

package fmterr

import "github.com/gx-org/pyflat/build/pyast"

// File attaches errors to positions in a named source file.
type File struct {
	Name string
}

// Errorf returns an error at the position of a node.
func (f File) Errorf(node pyast.Node, format string, a ...any) error {
	return Errorf(f.Name, node.Pos(), format, a...)
}

// ErrorfAt returns an error at a position.
func (f File) ErrorfAt(pos pyast.Pos, format string, a ...any) error {
	return Errorf(f.Name, pos, format, a...)
}
