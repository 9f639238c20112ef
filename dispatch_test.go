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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDispatchKeywords(t *testing.T) {
	tests := []struct {
		doc  string
		want Value
	}{
		{"null\n", NullValue()},
		{"true\n", BoolValue(true)},
		{"false\n", BoolValue(false)},
		{"nullable\n", StringValue("nullable")},
		{"truest\n", StringValue("truest")},
	}
	for _, tt := range tests {
		got := mustParse(t, tt.doc)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.doc, diff)
		}
	}
}

func TestDispatchLiteralStringBareword(t *testing.T) {
	got := mustParse(t, "hello world\n")
	want := StringValue("hello world")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchLiteralStringStopsAtComment(t *testing.T) {
	got := mustParse(t, "hello # trailing comment\n")
	want := StringValue("hello")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchBarewordStartingWithHyphenIsString(t *testing.T) {
	got := mustParse(t, "-foo\n")
	want := StringValue("-foo")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchLiteralStringKeyPivotsToMap(t *testing.T) {
	got := mustParse(t, "name: Alice\nage: 30\n")
	m := NewValueMap(2)
	m.Set(StringValue("name"), StringValue("Alice"))
	m.Set(StringValue("age"), IntValue(30))
	want := MapValue(m)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchQuotedStringKeyPivotsToMap(t *testing.T) {
	got := mustParse(t, "\"full name\": Alice\n")
	m := NewValueMap(1)
	m.Set(StringValue("full name"), StringValue("Alice"))
	want := MapValue(m)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchNumberKeyPivotsToMap(t *testing.T) {
	got := mustParse(t, "42: the answer\n")
	m := NewValueMap(1)
	m.Set(IntValue(42), StringValue("the answer"))
	want := MapValue(m)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchApostropheOpenerIsLiteralString(t *testing.T) {
	// An apostrophe opener is not a quote: it is reserved as a digit
	// separator, so a line starting with one parses as a literal string.
	got := mustParse(t, "'tis a string\n")
	want := StringValue("'tis a string")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchUnrecognizedSpecifierFallsBackToLiteralString(t *testing.T) {
	got := mustParse(t, ":bogus: rest\n")
	want := StringValue(":bogus: rest")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchBadCharacterAfterQuotedScalar(t *testing.T) {
	_, err := ParseString("\"abc\"xyz\n")
	if err == nil {
		t.Fatal("want error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Description != msgBadCharAfterQuoted {
		t.Errorf("err = %v, want %q", err, msgBadCharAfterQuoted)
	}
}

func TestDispatchBareValueSpanningMultipleLinesIsOneLiteral(t *testing.T) {
	// spec.md §4.6: the non-map case of parse_literal_string_or_map
	// treats the whole block, not just the first physical line, as the
	// literal string.
	doc := "body:\n  line one\n  line two\nafter: x\n"
	got := mustParse(t, doc)
	m, ok := got.AsMap()
	if !ok {
		t.Fatalf("kind = %v, want Map", got.Kind())
	}
	body, ok := m.Get(StringValue("body"))
	if !ok {
		t.Fatal("missing key body")
	}
	want := StringValue("line one\nline two\n")
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	after, ok := m.Get(StringValue("after"))
	if !ok {
		t.Fatal("missing key after")
	}
	if diff := cmp.Diff(StringValue("x"), after); diff != "" {
		t.Errorf("after mismatch (-want +got):\n%s", diff)
	}
}

// ParseString is a small test helper wrapping Parse for a string
// document.
func ParseString(doc string) (Value, error) {
	return Parse(strings.NewReader(doc))
}
