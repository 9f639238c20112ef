// Copyright 2024 The Blockval Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package blockval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestScenarios runs the end-to-end documents of spec.md §8 verbatim.
func TestScenarios(t *testing.T) {
	greetingCount := NewValueMap(2)
	greetingCount.Set(StringValue("greeting"), StringValue("Hello"))
	greetingCount.Set(StringValue("count"), IntValue(3))

	rootABC := NewValueMap(1)
	innerC := NewValueMap(1)
	innerC.Set(StringValue("c"), IntValue(2))
	innerAB := NewValueMap(2)
	innerAB.Set(StringValue("a"), IntValue(1))
	innerAB.Set(StringValue("b"), MapValue(innerC))
	rootABC.Set(StringValue("root"), MapValue(innerAB))

	tests := []struct {
		name string
		doc  string
		want Value
	}{
		{
			name: "scalar",
			doc:  "42\n",
			want: IntValue(42),
		},
		{
			name: "map with comment",
			doc:  "# greeting\ngreeting: Hello\ncount: 3\n",
			want: MapValue(greetingCount),
		},
		{
			name: "list of mixed scalars",
			doc:  "- 1\n- true\n- \"x\"\n",
			want: ListValue([]Value{IntValue(1), BoolValue(true), StringValue("x")}),
		},
		{
			name: "literal block via specifier (inline)",
			doc:  ":literal:  abc\n           def\n",
			want: StringValue("abc\ndef\n"),
		},
		{
			name: "folded quoted string",
			doc:  "\"a\n b\n c\"\n",
			want: StringValue("a b c"),
		},
		{
			name: "nested map",
			doc:  "root:\n    a: 1\n    b:\n        c: 2\n",
			want: MapValue(rootABC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.doc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.doc, diff)
			}
		})
	}
}
