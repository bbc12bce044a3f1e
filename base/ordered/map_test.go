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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/pyflat/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
			want: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
				{k: "b", v: 2},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "a", v: 2},
			},
			want: []entry{
				{k: "a", v: 2},
			},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, entry := range test.entries {
			m.Store(entry.k, entry.v)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		var got []entry
		for k, v := range m.Iter() {
			got = append(got, entry{k: k, v: v})
		}
		if !cmp.Equal(got, test.want, cmp.AllowUnexported(entry{})) {
			t.Errorf("test %d: got %v but want %v", ti, got, test.want)
		}
		var wantKeys []string
		var wantValues []int
		for _, e := range test.want {
			wantKeys = append(wantKeys, e.k)
			wantValues = append(wantValues, e.v)
		}
		if gotKeys := slices.Collect(m.Keys()); !cmp.Equal(gotKeys, wantKeys) {
			t.Errorf("test %d: got keys %v but want %v", ti, gotKeys, wantKeys)
		}
		if gotValues := slices.Collect(m.Values()); !cmp.Equal(gotValues, wantValues) {
			t.Errorf("test %d: got values %v but want %v", ti, gotValues, wantValues)
		}
	}
}

func TestLoadOrStore(t *testing.T) {
	m := ordered.NewMap[string, int]()
	if v, loaded := m.LoadOrStore("a", 1); loaded || v != 1 {
		t.Errorf("first LoadOrStore: got %d,%t but want 1,false", v, loaded)
	}
	if v, loaded := m.LoadOrStore("a", 2); !loaded || v != 1 {
		t.Errorf("second LoadOrStore: got %d,%t but want 1,true", v, loaded)
	}
	if v, ok := m.Load("a"); !ok || v != 1 {
		t.Errorf("Load: got %d,%t but want 1,true", v, ok)
	}
	if _, ok := m.Load("b"); ok {
		t.Errorf("Load of a missing key returned true")
	}
}
