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

// Package uname provides unique names.
package uname

import (
	"strconv"
	"strings"
)

// Seq generates names by appending a counter to a prefix.
// The first name is the prefix followed by 0.
type Seq struct {
	prefix string
	next   int
}

// NewSeq returns a new name generator.
func NewSeq(prefix string) *Seq {
	return &Seq{prefix: prefix}
}

// Next returns a name that has not been returned since the last reset.
func (s *Seq) Next() string {
	name := s.prefix + strconv.Itoa(s.next)
	s.next++
	return name
}

// Reset the counter to 0.
func (s *Seq) Reset() {
	s.next = 0
}

// Count returns the number of names returned since the last reset.
func (s *Seq) Count() int {
	return s.next
}

// Prefix returns the prefix of all generated names.
func (s *Seq) Prefix() string {
	return s.prefix
}

// Generated returns true if name could have been generated by a sequence
// with the given prefix, that is if name is the prefix followed by a decimal number.
func Generated(prefix, name string) bool {
	num, ok := strings.CutPrefix(name, prefix)
	if !ok || num == "" {
		return false
	}
	if len(num) > 1 && num[0] == '0' {
		return false
	}
	for _, c := range num {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
