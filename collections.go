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
)

// parseList implements spec.md §4.8: startPos is the column of the
// list's first '-' marker. Every item shares that column; the item's
// value follows the marker on the same line (after one or more spaces)
// or, if nothing follows, on the next deeper block.
func (p *Parser) parseList(startPos int) (Value, error) {
	var items []Value
	for {
		itemLine := p.lineNumber
		item, err := p.parseListItemValue(startPos)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)

		// The item's own value was parsed one block level deeper than
		// this list. If that deeper block ended (a dedented line was
		// pushed back, or the input ran out), re-read here at the list's
		// own block_indent to see the next sibling (readBlockLine's eof
		// shortcut makes a repeat read after true end-of-input cheap and
		// safe). If instead the item stopped on a later line still inside
		// its own block, that line is current and is checked as-is.
		if p.blockEnded || p.lineNumber == itemLine {
			err = p.readBlockLine()
			if err != nil {
				if errors.Is(err, errEndOfBlock) || errors.Is(err, io.EOF) {
					break
				}
				return Value{}, err
			}
		}
		if p.currentIndent != startPos {
			return Value{}, newParseErrorf(p.lineNumber, p.currentIndent, msgBadIndentationListItem)
		}
		if b, ok := firstNonSpaceByte(p.currentLine); !ok || b != '-' {
			return Value{}, newParseErrorf(p.lineNumber, startPos, msgBadListItem)
		}
	}
	return ListValue(items), nil
}

func (p *Parser) parseListItemValue(startPos int) (Value, error) {
	line := p.currentLine
	rest := startPos + 1
	for rest < len(line) && line[rest] == ' ' {
		rest++
	}
	if rest >= len(line) || line[rest] == '#' {
		return p.parseNestedBlockFromNextLine(func(pp *Parser) (Value, error) {
			return pp.parseValue(nil)
		})
	}
	return p.parseNestedBlock(rest, func(pp *Parser) (Value, error) {
		return pp.parseValue(nil)
	})
}

// parseMap implements spec.md §4.9. firstKey and firstValuePos are
// the key and post-separator column already discovered by
// check_value_end's pivot out of a scalar parse; startPos is that
// key's column, used to enforce that every later key lines up with
// it.
func (p *Parser) parseMap(firstKey Value, firstValuePos int) (Value, error) {
	startPos := p.getStartPosition()
	m := NewValueMap(4)

	key := firstKey
	valuePos := firstValuePos
	for {
		entryLine := p.lineNumber
		val, err := p.parseMapEntryValue(valuePos)
		if err != nil {
			return Value{}, err
		}
		if !key.IsValidKey() {
			return Value{}, newParseErrorf(p.lineNumber, startPos, msgBadCharacter)
		}
		m.Set(key, val)

		// See the analogous comment in parseList: re-read here, at the
		// map's own block_indent, unless the value stopped on a later
		// line still inside its own block.
		if p.blockEnded || p.lineNumber == entryLine {
			err = p.readBlockLine()
			if err != nil {
				if errors.Is(err, errEndOfBlock) || errors.Is(err, io.EOF) {
					break
				}
				return Value{}, err
			}
		}
		if p.currentIndent != startPos {
			return Value{}, newParseErrorf(p.lineNumber, p.currentIndent, msgBadIndentationMapKey)
		}

		var nextValuePos int
		nextKey, err := p.parseValue(&nextValuePos)
		if err != nil {
			return Value{}, err
		}
		key = nextKey
		valuePos = nextValuePos
	}
	return MapValue(m), nil
}

func (p *Parser) parseMapEntryValue(valuePos int) (Value, error) {
	line := p.currentLine
	rest := valuePos
	for rest < len(line) && line[rest] == ' ' {
		rest++
	}
	if rest >= len(line) || line[rest] == '#' {
		return p.parseNestedBlockFromNextLine(func(pp *Parser) (Value, error) {
			return pp.parseValue(nil)
		})
	}
	return p.parseNestedBlock(rest, func(pp *Parser) (Value, error) {
		return pp.parseValue(nil)
	})
}
