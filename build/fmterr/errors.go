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

import (
	"fmt"
	"strings"
)

// Errors is a set of errors.
type Errors struct {
	errs []error
}

// Append an error to the list of errors.
// Always returns false so that callers can write: return errs.Append(err).
func (errs *Errors) Append(err error) bool {
	if err != nil {
		errs.errs = append(errs.errs, err)
	}
	return false
}

// Empty returns true if no error has been declared.
func (errs *Errors) Empty() bool {
	return errs == nil || len(errs.errs) == 0
}

// Len returns the number of errors in the set.
func (errs *Errors) Len() int {
	if errs == nil {
		return 0
	}
	return len(errs.errs)
}

// Error returns the current set of errors as a string.
func (errs *Errors) Error() string {
	ss := make([]string, len(errs.errs))
	for i, err := range errs.errs {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "\n")
}

// Errors returns the list of all collected errors.
func (errs *Errors) Errors() []error {
	if errs == nil {
		return nil
	}
	return append([]error{}, errs.errs...)
}

// ToError returns the errors as an error interface.
func (errs *Errors) ToError() error {
	if errs.Empty() {
		return nil
	}
	return errs
}

// Format writes the error into the state of the formatter.
func (errs *Errors) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	for i, e := range errs.errs {
		if i > 0 {
			fmt.Fprint(s, "\n")
		}
		format := fmt.Sprintf("%%%s%s", flag, string(verb))
		fmt.Fprintf(s, format, e)
	}
}

// String representation of the error.
func (errs *Errors) String() string {
	return errs.Error()
}
