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

// Lexical helpers shared by the block reader, dispatcher and scalar
// sub-parsers: indent measurement, trailing-space trim, character
// classification and substring comparison (spec.md §2, "Lexical
// helpers").

// indentOf counts line's leading ASCII space characters. Tabs are not
// indentation (spec.md is explicit that tabs are tolerated as single
// ordinary characters, not indent columns); a line beginning with a
// tab has an indentOf of 0 and the tab remains part of its content.
func indentOf(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// rightTrim strips trailing spaces, tabs and carriage returns from
// line, matching the block reader's "right-trim trailing whitespace"
// step (spec.md §4.2 step 3).
func rightTrim(line string) string {
	end := len(line)
	for end > 0 && isTrailingSpace(line[end-1]) {
		end--
	}
	return line[:end]
}

func isTrailingSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// firstNonSpaceByte returns the first non-space byte of line and
// whether one was found.
func firstNonSpaceByte(line string) (byte, bool) {
	i := indentOf(line)
	if i >= len(line) {
		return 0, false
	}
	return line[i], true
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigitByte(b byte) bool {
	return isDigitByte(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctalDigitByte(b byte) bool {
	return b >= '0' && b <= '7'
}

// matchAt reports whether line has the literal substring s starting
// at pos, without allocating a sub-slice for comparison purposes
// beyond what the Go runtime already does for string equality.
func matchAt(line string, pos int, s string) bool {
	if pos < 0 || pos+len(s) > len(line) {
		return false
	}
	return line[pos:pos+len(s)] == s
}
