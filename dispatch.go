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
	"strings"
)

// parseValue dispatches on the character at the value's start
// position, per spec.md §4.5's table. nestedValuePos is non-nil when
// a map key is expected: the scalar is returned as the key, and the
// position just past its key-value separator is written back through
// the pointer instead of parse_value recursing into a value itself.
func (p *Parser) parseValue(nestedValuePos *int) (Value, error) {
	startPos := p.getStartPosition()
	line := p.currentLine
	if startPos >= len(line) {
		return p.parseLiteralStringOrMap(startPos, nestedValuePos)
	}

	switch c := line[startPos]; {
	case c == ':':
		return p.parseSpecifierDispatch(startPos, nestedValuePos)
	case c == '-':
		return p.parseHyphenDispatch(startPos, nestedValuePos)
	case c == '"':
		return p.parseQuotedDispatch(startPos, nestedValuePos)
	default:
		if v, matched, err := p.tryKeyword(startPos, "null", NullValue(), nestedValuePos); matched || err != nil {
			return v, err
		}
		if v, matched, err := p.tryKeyword(startPos, "true", BoolValue(true), nestedValuePos); matched || err != nil {
			return v, err
		}
		if v, matched, err := p.tryKeyword(startPos, "false", BoolValue(false), nestedValuePos); matched || err != nil {
			return v, err
		}
		if isDigitByte(c) || c == '+' {
			return p.parseNumberDispatch(startPos, nestedValuePos)
		}
		return p.parseLiteralStringOrMap(startPos, nestedValuePos)
	}
}

// tryKeyword reports whether line has the literal keyword kw at
// startPos, bounded by end-of-value (spec.md §4.5: keywords are
// matched by exact substring equality at start_pos, not by tokenizing
// an identifier, so "nullable" is a literal string, not null followed
// by garbage).
func (p *Parser) tryKeyword(startPos int, kw string, val Value, nestedValuePos *int) (Value, bool, error) {
	line := p.currentLine
	if !matchAt(line, startPos, kw) {
		return Value{}, false, nil
	}
	end := startPos + len(kw)
	if end < len(line) {
		b := line[end]
		if b != ' ' && b != '#' && b != ':' {
			return Value{}, false, nil
		}
	}
	v, err := p.checkValueEnd(val, end, nestedValuePos)
	return v, true, err
}

// parseHyphenDispatch implements the '-' branch: a bare hyphen
// (followed by end-of-line or a space) opens a list; a hyphen
// followed by a digit opens a negative number; anything else is the
// first character of a literal string/map key.
func (p *Parser) parseHyphenDispatch(startPos int, nestedValuePos *int) (Value, error) {
	line := p.currentLine
	next := startPos + 1
	switch {
	case next >= len(line) || line[next] == ' ':
		if nestedValuePos != nil {
			return Value{}, newParseErrorf(p.lineNumber, startPos, msgMapKeyExpected)
		}
		return p.parseList(startPos)
	case isDigitByte(line[next]):
		return p.parseNumberDispatch(startPos, nestedValuePos)
	default:
		return p.parseLiteralStringOrMap(startPos, nestedValuePos)
	}
}

func (p *Parser) parseNumberDispatch(startPos int, nestedValuePos *int) (Value, error) {
	val, endPos, err := p.parseNumber(startPos)
	if err != nil {
		return Value{}, err
	}
	return p.checkValueEnd(val, endPos, nestedValuePos)
}

func (p *Parser) parseQuotedDispatch(startPos int, nestedValuePos *int) (Value, error) {
	val, endPos, multiline, err := p.parseQuoted(startPos)
	if err != nil {
		return Value{}, err
	}
	if multiline && nestedValuePos != nil {
		return Value{}, newParseErrorf(p.lineNumber, startPos, msgMapKeyExpected)
	}
	if multiline {
		pos := endPos
		for pos < len(p.currentLine) && p.currentLine[pos] == ' ' {
			pos++
		}
		if p.isKVSeparator(pos) {
			return Value{}, newParseErrorf(p.lineNumber, pos, msgBadCharAfterQuoted)
		}
	}
	return p.checkValueEndMsg(val, endPos, nestedValuePos, msgBadCharAfterQuoted)
}

// parseSpecifierDispatch handles a value position that begins with
// ':': either a recognized ":specifier:" between the opening colon
// and the next, run as that specifier's sub-parser, or — if the name
// is absent or unregistered — a pure literal string starting with that
// colon (spec.md §4.5: unlike parse_literal_string_or_map, this never
// pivots into a map, since a map key must not start with ':').
func (p *Parser) parseSpecifierDispatch(startPos int, nestedValuePos *int) (Value, error) {
	if nestedValuePos != nil {
		return Value{}, newParseErrorf(p.lineNumber, startPos, msgMapKeyExpected)
	}
	name, afterPos, ok := p.scanSpecifier(startPos)
	fn, registered := p.lookupSpecifier(name)
	if !ok || !registered {
		return p.parseLiteralString(startPos)
	}

	line := p.currentLine
	rest := afterPos
	for rest < len(line) && line[rest] == ' ' {
		rest++
	}
	if rest >= len(line) || line[rest] == '#' {
		return p.parseNestedBlockFromNextLine(fn)
	}
	return p.parseNestedBlock(afterPos, fn)
}

func (p *Parser) lookupSpecifier(name string) (SpecifierFunc, bool) {
	fn, ok := p.specifiers[name]
	return fn, ok
}

// scanSpecifier scans a ":name:" style specifier token whose leading
// colon sits at startPos; name is the text between the two colons and
// afterPos is the column right after the closing colon. ok is false
// if no closing colon is found before the line ends, a space, or a
// comment marker.
func (p *Parser) scanSpecifier(startPos int) (name string, afterPos int, ok bool) {
	line := p.currentLine
	if startPos >= len(line) || line[startPos] != ':' {
		return "", 0, false
	}
	for i := startPos + 1; i < len(line); i++ {
		switch line[i] {
		case ':':
			return line[startPos+1 : i], i + 1, true
		case ' ', '#':
			return "", 0, false
		}
	}
	return "", 0, false
}

// isKVSeparator reports whether the ':' at pos introduces a value:
// followed by end-of-line, whitespace, or the opening colon of a
// recognized "::name:" conversion specifier (spec.md §4.7).
func (p *Parser) isKVSeparator(pos int) bool {
	line := p.currentLine
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return false
	}
	next := pos + 1
	if next >= len(line) {
		return true
	}
	switch line[next] {
	case ' ', '\t':
		return true
	case ':':
		name, _, ok := p.scanSpecifier(next)
		if !ok {
			return false
		}
		_, registered := p.lookupSpecifier(name)
		return registered
	default:
		return false
	}
}

// checkValueEnd runs after a scalar has been parsed, at endPos just
// past its last character (spec.md §4.5). With nestedValuePos non-nil
// (a map key is expected), it requires a key-value separator at or
// after endPos and writes the column after it back through the
// pointer. Otherwise it either closes the value out (end of line or a
// comment), discovers the scalar was actually a map's first key (a
// separator follows it) and pivots into parse_map, or reports
// badCharMsg.
func (p *Parser) checkValueEnd(scalar Value, endPos int, nestedValuePos *int) (Value, error) {
	return p.checkValueEndMsg(scalar, endPos, nestedValuePos, msgBadCharacter)
}

// checkValueEndMsg is checkValueEnd with the trailing-garbage error
// message parameterized: a quoted scalar reports "Bad character after
// quoted string" (spec.md §7) instead of the generic message every
// other scalar kind uses.
func (p *Parser) checkValueEndMsg(scalar Value, endPos int, nestedValuePos *int, badCharMsg string) (Value, error) {
	line := p.currentLine
	pos := endPos
	for pos < len(line) && line[pos] == ' ' {
		pos++
	}

	if pos < len(line) && line[pos] == ':' && p.isKVSeparator(pos) {
		valuePos := pos + 1
		if valuePos < len(line) && line[valuePos] == ' ' {
			valuePos++
		}
		if nestedValuePos != nil {
			*nestedValuePos = valuePos
			return scalar, nil
		}
		return p.parseMap(scalar, valuePos)
	}

	if nestedValuePos != nil {
		return Value{}, newParseErrorf(p.lineNumber, pos, msgMapKeyExpected)
	}

	if pos >= len(line) || line[pos] == '#' {
		if err := p.readBlockLine(); err != nil {
			if !errors.Is(err, errEndOfBlock) && !errors.Is(err, io.EOF) {
				return Value{}, err
			}
		}
		return scalar, nil
	}

	return Value{}, newParseErrorf(p.lineNumber, pos, badCharMsg)
}

// parseLiteralStringOrMap implements spec.md §4.6: scan the unquoted
// run of characters from startPos. If it is immediately followed by a
// key-value separator, the run is a map key and parsing continues as
// a map. If a comment cuts the line short, or a map key is expected
// and none was found, the run (right-trimmed) is returned as a
// single-line scalar through the same end-of-value handling every
// other scalar goes through. Otherwise — the line runs out with
// neither a separator nor a comment — the whole block, not just this
// line, is the literal string (spec.md §4.6, §4.10): a bare value may
// continue onto further lines at or past its own start column.
func (p *Parser) parseLiteralStringOrMap(startPos int, nestedValuePos *int) (Value, error) {
	line := p.currentLine
	pos := startPos
	for pos < len(line) {
		if line[pos] == '#' {
			break
		}
		if line[pos] == ':' && p.isKVSeparator(pos) {
			break
		}
		pos++
	}
	if pos < len(line) || nestedValuePos != nil {
		text := strings.TrimRight(line[startPos:pos], " ")
		return p.checkValueEnd(StringValue(text), startPos+len(text), nestedValuePos)
	}
	return parseLiteral(p)
}

// parseLiteralString implements the unrecognized-specifier fallback of
// spec.md §4.5: the block starting at startPos is a literal string, no
// different from parseLiteralStringOrMap's non-map case, except a ':'
// found while scanning is never treated as a key-value separator — an
// unregistered "::name:" specifier must never pivot into a map keyed
// on its own closing colon.
func (p *Parser) parseLiteralString(startPos int) (Value, error) {
	line := p.currentLine
	pos := startPos
	for pos < len(line) && line[pos] != '#' {
		pos++
	}
	if pos < len(line) {
		text := strings.TrimRight(line[startPos:pos], " ")
		return p.checkValueEnd(StringValue(text), startPos+len(text), nil)
	}
	return parseLiteral(p)
}
