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
	"math"
	"strconv"
	"strings"
)

// parseNumber implements spec.md §4.15: an optional sign, an optional
// radix prefix (0x/0o/0b — hexadecimal/octal/binary; otherwise
// decimal), digits with '_' or '\'' separators permitted between
// them, and — decimal only — a fractional part and/or exponent. An
// integer whose magnitude fits a signed 64-bit integer parses as [Int]
// regardless of sign; a positive magnitude too large for that parses
// as [Uint] instead (the same magnitude negative is an "Integer
// overflow"); anything with a fractional part or exponent parses as
// [Float].
func (p *Parser) parseNumber(startPos int) (Value, int, error) {
	line := p.currentLine
	pos := startPos
	neg := false
	if pos < len(line) && (line[pos] == '+' || line[pos] == '-') {
		neg = line[pos] == '-'
		pos++
	}
	if pos >= len(line) || !isDigitByte(line[pos]) {
		return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgBadNumber)
	}

	radix := 10
	if line[pos] == '0' && pos+1 < len(line) {
		switch line[pos+1] {
		case 'x', 'X':
			radix = 16
			pos += 2
		case 'o', 'O':
			radix = 8
			pos += 2
		case 'b', 'B':
			radix = 2
			pos += 2
		}
	}

	var intDigits strings.Builder
	if !scanDigits(line, &pos, radix, &intDigits) || intDigits.Len() == 0 {
		return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgBadNumber)
	}

	isFloat := false
	var fracDigits strings.Builder
	if radix == 10 && pos+1 < len(line) && line[pos] == '.' && isDigitByte(line[pos+1]) {
		isFloat = true
		pos++
		if !scanDigits(line, &pos, 10, &fracDigits) {
			return Value{}, 0, newParseErrorf(p.lineNumber, pos, msgBadNumber)
		}
	}

	expSign := ""
	var expDigits strings.Builder
	if radix == 10 && pos < len(line) && (line[pos] == 'e' || line[pos] == 'E') {
		epos := pos + 1
		sign := ""
		if epos < len(line) && (line[epos] == '+' || line[epos] == '-') {
			sign = string(line[epos])
			epos++
		}
		if epos < len(line) && isDigitByte(line[epos]) {
			pos = epos
			if !scanDigits(line, &pos, 10, &expDigits) {
				return Value{}, 0, newParseErrorf(p.lineNumber, pos, msgBadNumber)
			}
			isFloat = true
			expSign = sign
		}
	}

	if radix != 10 && isFloat {
		return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgDecimalFloatOnly)
	}

	endPos := pos
	if !p.isNumberBoundary(endPos) {
		return Value{}, 0, newParseErrorf(p.lineNumber, endPos, msgBadNumber)
	}

	if isFloat {
		text := intDigits.String()
		if fracDigits.Len() > 0 {
			text += "." + fracDigits.String()
		}
		if expDigits.Len() > 0 {
			text += "e" + expSign + expDigits.String()
		}
		if neg {
			text = "-" + text
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgFloatOverflow)
			}
			return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgBadNumber)
		}
		return FloatValue(f), endPos, nil
	}

	mag, err := strconv.ParseUint(intDigits.String(), radix, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			// The unsigned accumulator itself overflowed (magnitude
			// doesn't fit uint64) — spec.md §4.15 step 2, distinct from
			// the later int64-negation overflow below.
			return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgNumericOverflow)
		}
		return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgBadNumber)
	}
	if neg {
		if mag > uint64(math.MaxInt64)+1 {
			return Value{}, 0, newParseErrorf(p.lineNumber, startPos, msgIntegerOverflow)
		}
		return IntValue(-int64(mag)), endPos, nil
	}
	if mag <= uint64(math.MaxInt64) {
		return IntValue(int64(mag)), endPos, nil
	}
	return UintValue(mag), endPos, nil
}

// scanDigits consumes digits valid for radix from line starting at
// *pos, allowing a single '_' or '\'' separator between two digits
// (never leading, trailing, or doubled), and writes the digits
// (without separators) to out.
func scanDigits(line string, pos *int, radix int, out *strings.Builder) bool {
	validDigit := func(b byte) bool {
		switch radix {
		case 16:
			return isHexDigitByte(b)
		case 8:
			return isOctalDigitByte(b)
		case 2:
			return b == '0' || b == '1'
		default:
			return isDigitByte(b)
		}
	}
	lastWasDigit := false
	for *pos < len(line) {
		b := line[*pos]
		if validDigit(b) {
			out.WriteByte(b)
			*pos++
			lastWasDigit = true
			continue
		}
		if (b == '_' || b == '\'') && lastWasDigit && *pos+1 < len(line) && validDigit(line[*pos+1]) {
			*pos++
			lastWasDigit = false
			continue
		}
		break
	}
	return true
}

// isNumberBoundary reports whether pos is a valid place for a number
// literal to end: end of line, whitespace, a comment marker, or a
// key-value separator.
func (p *Parser) isNumberBoundary(pos int) bool {
	line := p.currentLine
	if pos >= len(line) {
		return true
	}
	switch line[pos] {
	case ' ', '#':
		return true
	case ':':
		return p.isKVSeparator(pos)
	default:
		return false
	}
}
