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
	"errors"
	"io"
	"strconv"
	"strings"
)

// commonIndent returns the smallest leading-space count among lines'
// non-empty entries, or 0 if every line is empty.
func commonIndent(lines []string) int {
	min := -1
	for _, l := range lines {
		if l == "" {
			continue
		}
		n := indentOf(l)
		if min == -1 || n < min {
			min = n
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

func dedent(lines []string) []string {
	n := commonIndent(lines)
	if n == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = stripIndent(l, n)
	}
	return out
}

// joinBlockLines implements the literal/raw joining rule common to
// spec.md §4.10 and §4.12: a single collected line produces exactly
// that line's text, with no trailing newline; two or more lines are
// newline-joined with a trailing newline, so the string always ends
// the way a text editor would leave the file.
func joinBlockLines(lines []string) string {
	if len(lines) <= 1 {
		if len(lines) == 0 {
			return ""
		}
		return lines[0]
	}
	return strings.Join(lines, "\n") + "\n"
}

// parseLiteral is the "literal" conversion specifier (spec.md §4.10):
// collect the block, strip the common leading-space prefix, and join
// verbatim.
func parseLiteral(p *Parser) (Value, error) {
	lines, err := p.readBlock()
	if err != nil {
		return Value{}, err
	}
	return StringValue(joinBlockLines(dedent(lines))), nil
}

// parseFolded is the "folded" conversion specifier (spec.md §4.11):
// like literal, but consecutive non-blank lines within a paragraph
// are joined with a single space rather than a newline; blank lines
// separate paragraphs.
func parseFolded(p *Parser) (Value, error) {
	lines, err := p.readBlock()
	if err != nil {
		return Value{}, err
	}
	lines = dedent(lines)

	var paragraphs []string
	var cur []string
	for _, l := range lines {
		if l == "" {
			paragraphs = append(paragraphs, strings.Join(cur, " "))
			cur = nil
			continue
		}
		cur = append(cur, l)
	}
	paragraphs = append(paragraphs, strings.Join(cur, " "))
	return StringValue(joinBlockLines(paragraphs)), nil
}

// parseRaw is the "raw" conversion specifier (spec.md §4.12): collect
// the block and join it verbatim, with no dedent and no folding.
func parseRaw(p *Parser) (Value, error) {
	lines, err := p.readBlock()
	if err != nil {
		return Value{}, err
	}
	return StringValue(joinBlockLines(lines)), nil
}

// quotedLine is one physical line's contribution to a multi-line quoted
// string, paired with its own 1-based line number so escape errors
// within it are reported against the line that actually contains them
// rather than whichever line was read last (spec.md §9 notes the
// reference implementation's line-tracking bug here; this zips the two
// properly).
type quotedLine struct {
	text   string
	lineNo int
}

// findUnescapedQuote returns the index of the first '"' in s at or
// after from that is not escaped by a preceding backslash — a
// backslash always pairs with whatever follows it, quote or not, so
// scanning simply hops two bytes at every backslash (spec.md §4.13:
// "finding the closing quote ignores quote characters that are
// escaped by a preceding backslash").
func findUnescapedQuote(s string, from int) (int, bool) {
	i := from
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case '"':
			return i, true
		default:
			i++
		}
	}
	return 0, false
}

// unescapeSegment runs unescapeLine over the whole of s, attributing
// any decode error to lineNo at column col plus the escape's offset
// within s (col is the column s starts at in that line).
func unescapeSegment(lineNo, col int, s string) (string, error) {
	var sb strings.Builder
	pos := 0
	for pos < len(s) {
		if s[pos] == '\\' {
			decoded, consumed, err := unescapeLine(s, pos)
			if err != nil {
				return "", newParseError(lineNo, col+pos, err.Error())
			}
			sb.WriteString(decoded)
			pos += consumed
			continue
		}
		sb.WriteByte(s[pos])
		pos++
	}
	return sb.String(), nil
}

// parseQuoted scans a double-quoted string starting at startPos
// (which must hold the opening '"'). A single-line string (the
// closing quote found on the opening line) is returned as-is, spaces
// preserved, no folding. A multi-line string is dedented, has its
// blank lines dropped, and is folded into a single space-joined line —
// like the "folded" conversion specifier, except that blank lines are
// dropped rather than separating paragraphs (spec.md §4.13) — and can
// never be a map key, which the caller enforces using the returned
// multiline flag.
//
// parseQuoted returns the decoded value and the column just past the
// closing quote on the final physical line consumed.
func (p *Parser) parseQuoted(startPos int) (Value, int, bool, error) {
	line := p.currentLine
	openingLineNo := p.lineNumber

	if closeIdx, ok := findUnescapedQuote(line, startPos+1); ok {
		decoded, err := unescapeSegment(openingLineNo, startPos+1, line[startPos+1:closeIdx])
		if err != nil {
			return Value{}, 0, false, err
		}
		return StringValue(decoded), closeIdx + 1, false, nil
	}

	lines := []quotedLine{{text: line[startPos+1:], lineNo: openingLineNo}}

	parentIndent := p.blockIndent
	p.blockIndent = startPos + 1
	// A quoted string collects its own blank and '#'-led lines as
	// content, the same as parseRaw/parseLiteral/parseFolded do via
	// readBlock: none of them are document comments once we are inside
	// the quotes.
	savedSkip := p.skipComments
	p.skipComments = false

	var endPos int
	found := false
	for !found {
		err := p.readBlockLine()
		if err != nil {
			if errors.Is(err, errEndOfBlock) || errors.Is(err, io.EOF) {
				break
			}
			p.blockIndent = parentIndent
			p.skipComments = savedSkip
			return Value{}, 0, true, err
		}
		raw := stripIndent(p.currentLine, p.blockIndent)
		if closeIdx, ok := findUnescapedQuote(raw, 0); ok {
			lines = append(lines, quotedLine{text: raw[:closeIdx], lineNo: p.lineNumber})
			endPos = p.blockIndent + closeIdx + 1
			found = true
			break
		}
		lines = append(lines, quotedLine{text: raw, lineNo: p.lineNumber})
	}
	p.blockIndent = parentIndent
	p.skipComments = savedSkip

	if !found {
		// Acceptable alternative (spec.md §4.13): the line that closed
		// the block out begins at exactly the opening quote's column
		// with the matching quote.
		if err := p.readBlockLine(); err == nil && p.currentIndent == startPos {
			if b, ok := firstNonSpaceByte(p.currentLine); ok && b == '"' {
				found = true
				endPos = startPos + 1
			}
		}
		if !found {
			return Value{}, 0, true, newParseError(p.lineNumber, 0, msgNoClosingQuote)
		}
	}

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.text
	}
	// Every collected text starts at column startPos+1 of its line;
	// dedent then removes the same common prefix from each.
	textCol := startPos + 1 + commonIndent(texts)
	texts = dedent(texts)

	var sb strings.Builder
	wrote := false
	for i, l := range lines {
		if texts[i] == "" {
			continue
		}
		decoded, err := unescapeSegment(l.lineNo, textCol, texts[i])
		if err != nil {
			return Value{}, 0, true, err
		}
		if wrote {
			sb.WriteByte(' ')
		}
		wrote = true
		sb.WriteString(decoded)
	}
	return StringValue(sb.String()), endPos, true, nil
}

// unescapeLine decodes a single escape sequence beginning at line[pos]
// (line[pos] must be '\\'), returning the decoded text, how many
// bytes of line it consumed, and any error (spec.md §4.14). A
// trailing backslash with nothing after it decodes as a literal
// backslash; an unrecognized escape letter decodes as a literal
// backslash followed by that letter.
func unescapeLine(line string, pos int) (decoded string, consumed int, err error) {
	next := pos + 1
	if next >= len(line) {
		return "\\", 1, nil
	}
	switch c := line[next]; c {
	case '\'':
		return "'", 2, nil
	case '"':
		return "\"", 2, nil
	case '?':
		return "?", 2, nil
	case '\\':
		return "\\", 2, nil
	case 'a':
		return "\a", 2, nil
	case 'b':
		return "\b", 2, nil
	case 'f':
		return "\f", 2, nil
	case 'n':
		return "\n", 2, nil
	case 'r':
		return "\r", 2, nil
	case 't':
		return "\t", 2, nil
	case 'v':
		return "\v", 2, nil
	case 'o':
		start := next + 1
		j := start
		for j < len(line) && j-start < 3 && isOctalDigitByte(line[j]) {
			j++
		}
		if j == start {
			return "", 0, errors.New(msgIncompleteOctal)
		}
		val, convErr := strconv.ParseUint(line[start:j], 8, 32)
		if convErr != nil {
			return "", 0, errors.New(msgBadOctal)
		}
		// spec.md §4.14: \o is a raw octal code unit, a single byte —
		// not a Unicode code point like \u/\U.
		return string([]byte{byte(val)}), j - pos, nil
	case 'x':
		return unescapeFixedHex(line, pos, next+1, 2, msgIncompleteHex, msgBadHex, true)
	case 'u':
		return unescapeFixedHex(line, pos, next+1, 4, msgIncompleteHex, msgBadHex, false)
	case 'U':
		return unescapeFixedHex(line, pos, next+1, 8, msgIncompleteHex, msgBadHex, false)
	default:
		return "\\" + string(c), 2, nil
	}
}

// unescapeFixedHex decodes an n-digit hexadecimal escape. asByte
// selects \x's raw-8-bit-code-unit semantics (the decoded value is
// written as a single byte); \u/\U decode a Unicode code point instead
// (spec.md §4.14).
func unescapeFixedHex(line string, pos, digitsStart, n int, incompleteMsg, badMsg string, asByte bool) (string, int, error) {
	if digitsStart+n > len(line) {
		return "", 0, errors.New(incompleteMsg)
	}
	for k := 0; k < n; k++ {
		if !isHexDigitByte(line[digitsStart+k]) {
			return "", 0, errors.New(incompleteMsg)
		}
	}
	val, err := strconv.ParseUint(line[digitsStart:digitsStart+n], 16, 32)
	if err != nil {
		return "", 0, errors.New(badMsg)
	}
	if asByte {
		return string([]byte{byte(val)}), (digitsStart + n) - pos, nil
	}
	return string(rune(val)), (digitsStart + n) - pos, nil
}
