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

// defaultMaxBlockLevel bounds nesting depth against stack-exhausting
// input; see [Parser.SetMaxBlockLevel].
const defaultMaxBlockLevel = 100

// SpecifierFunc parses the block a conversion specifier has been
// routed to and returns the resulting Value. It runs with the parser
// already positioned at the block's opening line, block_indent set to
// the block's left margin (spec.md §4.16).
type SpecifierFunc func(p *Parser) (Value, error)

// Parser holds the state of one recursive-descent pass over a
// document: the current line and its indent, the line number, the
// indent column and recursion depth of the block currently being
// parsed, and the registry of conversion specifiers available to
// ":name:" blocks (spec.md §3, §6).
type Parser struct {
	input LineReader

	currentLine   string
	currentIndent int
	lineNumber    int

	blockIndent int
	blockLevel  int
	blockEnded  bool

	skipComments  bool
	eof           bool
	maxBlockLevel int

	specifiers map[string]SpecifierFunc
}

// NewParser returns a [Parser] reading from r.
func NewParser(r io.Reader) *Parser {
	return NewParserFromLineReader(NewLineReader(r))
}

// NewParserFromLineReader returns a [Parser] reading from a
// caller-supplied [LineReader], for callers whose source is not
// naturally an io.Reader (spec.md §6).
func NewParserFromLineReader(lr LineReader) *Parser {
	p := &Parser{
		input:         lr,
		maxBlockLevel: defaultMaxBlockLevel,
		specifiers:    make(map[string]SpecifierFunc),
		skipComments:  true,
	}
	registerBuiltinSpecifiers(p)
	return p
}

// SetCustomParser registers fn as the sub-parser invoked for
// ":name:" conversion specifiers, overriding any built-in of the same
// name (spec.md §4.16, §6).
func (p *Parser) SetCustomParser(name string, fn SpecifierFunc) {
	p.specifiers[name] = fn
}

// SetMaxBlockLevel overrides the nesting-depth cap (default 100).
// Values less than 1 are ignored.
func (p *Parser) SetMaxBlockLevel(n int) {
	if n >= 1 {
		p.maxBlockLevel = n
	}
}

// Parse reads a complete document from r and returns its single
// top-level value. Parse is a convenience wrapper around
// [NewParser] and [Parser.Parse] for callers with no need to register
// custom conversion specifiers.
func Parse(r io.Reader) (Value, error) {
	return NewParser(r).Parse()
}

// Parse reads one top-level value from p's input and verifies nothing
// but blank lines and comments follow it (spec.md §6). An input with
// no value at all — or nothing but blank lines and comments — is
// reported as a [*ParseError].
func (p *Parser) Parse() (Value, error) {
	if err := p.readBlockLine(); err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, newParseError(0, 0, msgEmptyInput)
		}
		return Value{}, err
	}

	val, err := p.parseNestedBlock(0, func(pp *Parser) (Value, error) {
		return pp.parseValue(nil)
	})
	if err != nil {
		return Value{}, err
	}
	return p.finishTopLevel(val)
}

// finishTopLevel enforces that nothing but blank lines and comments
// trail the parsed top-level value. Since skip_comments is on for
// ordinary (non-raw-block) reading, any such trailing line has
// already been silently skipped by the last readBlockLine call that
// positioned the parser here; what is left to check is simply whether
// the block ended or real content remains.
func (p *Parser) finishTopLevel(val Value) (Value, error) {
	if p.blockEnded {
		return val, nil
	}
	return Value{}, newParseErrorf(p.lineNumber, p.currentIndent, msgExtraData)
}

// readBlockLine implements spec.md §4.2: fetch the next line
// belonging to the current block, skipping blank and comment-only
// lines while skip_comments is set, and reporting [errEndOfBlock]
// once a line dedents below block_indent (pushing that line back for
// the enclosing block to see) or the source is exhausted mid-block. A
// dedented comment line is always transparently skipped, even with
// skip_comments unset, since it can never be mistaken for block
// content at any indent.
//
// skip_comments is on by default and only turned off around
// [Parser.readBlock] and the multi-line collection loop of
// [Parser.parseQuoted], where blank lines and '#'-led lines are the
// block's own literal content rather than document comments.
func (p *Parser) readBlockLine() error {
	p.blockEnded = false
	if p.eof {
		p.currentLine = ""
		p.blockEnded = true
		if p.blockLevel > 0 {
			return errEndOfBlock
		}
		return io.EOF
	}

	for {
		raw, err := p.input.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			p.eof = true
			p.currentLine = ""
			p.blockEnded = true
			if p.blockLevel > 0 {
				return errEndOfBlock
			}
			return io.EOF
		}

		line := rightTrim(raw)
		indent := indentOf(line)
		lineNo := p.input.LineNumber()

		if p.skipComments {
			if line == "" {
				continue
			}
			if b, _ := firstNonSpaceByte(line); b == '#' {
				continue
			}
		}

		if line == "" {
			p.currentLine = line
			p.currentIndent = 0
			p.lineNumber = lineNo
			return nil
		}

		if indent >= p.blockIndent {
			p.currentLine = line
			p.currentIndent = indent
			p.lineNumber = lineNo
			return nil
		}

		if b, _ := firstNonSpaceByte(line); b == '#' {
			continue
		}

		p.input.UnreadLine(line)
		p.currentLine = ""
		p.blockEnded = true
		return errEndOfBlock
	}
}

// readBlock collects every line of the current block, starting with
// the line already loaded into current_line, stripping the first
// block_indent characters from each (spec.md §4.3). It is the raw
// material for parse_literal, parse_folded and parse_raw.
func (p *Parser) readBlock() ([]string, error) {
	saved := p.skipComments
	p.skipComments = false
	defer func() { p.skipComments = saved }()

	var lines []string
	for {
		lines = append(lines, stripIndent(p.currentLine, p.blockIndent))
		err := p.readBlockLine()
		if err != nil {
			if errors.Is(err, errEndOfBlock) || errors.Is(err, io.EOF) {
				return lines, nil
			}
			return nil, err
		}
	}
}

func stripIndent(line string, n int) string {
	if len(line) >= n {
		return line[n:]
	}
	return ""
}

// parseNestedBlock runs fn with block_indent and block_level
// temporarily set to blockPos and block_level+1, enforcing the
// nesting-depth cap (spec.md §4.4). It does not read a new line: fn
// operates on whatever line is already current.
func (p *Parser) parseNestedBlock(blockPos int, fn func(*Parser) (Value, error)) (Value, error) {
	if p.blockLevel+1 > p.maxBlockLevel {
		return Value{}, newParseErrorf(p.lineNumber, blockPos, msgTooManyNestedBlocks)
	}
	savedIndent, savedLevel := p.blockIndent, p.blockLevel
	p.blockIndent = blockPos
	p.blockLevel++
	defer func() {
		p.blockIndent = savedIndent
		p.blockLevel = savedLevel
	}()
	return fn(p)
}

// parseNestedBlockFromNextLine opens a block whose content starts on
// the line after the one current now: it requires at least one more
// line indented past the parent block, reads it, and enters a nested
// block at that depth (spec.md §4.4).
func (p *Parser) parseNestedBlockFromNextLine(fn func(*Parser) (Value, error)) (Value, error) {
	parentIndent := p.blockIndent
	p.blockIndent = parentIndent + 1
	err := p.readBlockLine()
	p.blockIndent = parentIndent
	if err != nil {
		if errors.Is(err, errEndOfBlock) || errors.Is(err, io.EOF) {
			return Value{}, newParseErrorf(p.lineNumber, 0, msgEmptyBlock)
		}
		return Value{}, err
	}
	return p.parseNestedBlock(parentIndent+1, fn)
}

// getStartPosition computes where the value on the current line
// begins: current_indent itself when the line's own indent already
// exceeds block_indent (a line that opens its own nested block), or
// otherwise the first non-space column at or after block_indent (a
// value continuing on the same physical line as its key or list
// marker) — spec.md §4.5.
func (p *Parser) getStartPosition() int {
	if p.currentIndent > p.blockIndent {
		return p.currentIndent
	}
	pos := p.blockIndent
	line := p.currentLine
	for pos < len(line) && line[pos] == ' ' {
		pos++
	}
	return pos
}
