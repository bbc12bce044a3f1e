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

// Package pyflag provides flag types for pyflat tools.
package pyflag

import (
	"flag"
	"strings"
)

// ListValue is a flag.Value accumulating comma-separated strings.
// Empty elements are ignored and each occurrence of the flag appends
// to the list.
type ListValue struct {
	list *[]string
}

var _ flag.Value = (*ListValue)(nil)

// NewListValue returns a value appending to list.
func NewListValue(list *[]string) *ListValue {
	return &ListValue{list: list}
}

func (lv *ListValue) String() string {
	if lv == nil || lv.list == nil {
		return ""
	}
	return strings.Join(*lv.list, ",")
}

// Set appends the comma-separated elements of values to the list.
func (lv *ListValue) Set(values string) error {
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		*lv.list = append(*lv.list, value)
	}
	return nil
}

// StringList returns a flag to pass a list of string from the command line.
func StringList(name, doc string) *[]string {
	return StringListVar(flag.CommandLine, name, doc)
}

// StringListVar defines a list flag in a flag set.
func StringListVar(fs *flag.FlagSet, name, doc string) *[]string {
	var list []string
	fs.Var(NewListValue(&list), name, doc)
	return &list
}
