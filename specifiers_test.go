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

func TestCustomParserOverridesBuiltin(t *testing.T) {
	p := NewParser(strings.NewReader(":literal: abc\n"))
	p.SetCustomParser("literal", func(pp *Parser) (Value, error) {
		v, err := parseLiteral(pp)
		if err != nil {
			return Value{}, err
		}
		s, _ := v.String()
		return StringValue(strings.ToUpper(s)), nil
	})
	got, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := StringValue("ABC")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomParserRegistersNewSpecifier(t *testing.T) {
	p := NewParser(strings.NewReader(":upper: shout\n"))
	p.SetCustomParser("upper", func(pp *Parser) (Value, error) {
		lines, err := pp.readBlock()
		if err != nil {
			return Value{}, err
		}
		return StringValue(strings.ToUpper(joinBlockLines(dedent(lines)))), nil
	})
	got, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := StringValue("SHOUT")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestIsodateTimestampJSONAreRegisteredButNotImplemented(t *testing.T) {
	for _, name := range []string{"isodate", "timestamp", "json"} {
		doc := ":" + name + ": x\n"
		_, err := ParseString(doc)
		if err == nil {
			t.Errorf("Parse(%q): want not-implemented error, got nil", doc)
		}
	}
}

func TestSpecifierEmptyBlockIsError(t *testing.T) {
	_, err := ParseString(":literal:\n")
	if err == nil {
		t.Fatal("want error for a specifier with nothing in its nested block")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Description != msgEmptyBlock {
		t.Errorf("err = %v, want %q", err, msgEmptyBlock)
	}
}

func TestSpecifierMapKeyExpectedRejectsColonOpener(t *testing.T) {
	// spec.md §4.5: a map key must not start with ':'. Here the second
	// map entry's key position is reached (key "a" already parsed), and
	// the next line opens with a specifier instead of an ordinary key.
	_, err := ParseString("a: 1\n:literal: x: 2\n")
	if err == nil {
		t.Fatal("want error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Description != msgMapKeyExpected {
		t.Errorf("err = %v, want %q", err, msgMapKeyExpected)
	}
}
