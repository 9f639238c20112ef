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

// Package blockval parses an indentation-structured, human-authored
// markup notation into a tree of typed [Value]s.
//
// The notation resembles a cleaned-up block-style YAML: scalars, lists
// and maps delimited purely by indentation, three multi-line string
// folding policies (literal, folded, raw), quoted strings with escape
// sequences, numeric literals with radix prefixes and digit grouping,
// and an extensible conversion-specifier mechanism (":name:") that
// routes a block to a caller-supplied sub-parser.
//
// Parsing is single-pass and recursive-descent: [Parser] reads one
// line at a time, tracks the indentation column that delimits the
// current block, and dispatches on the shape of each line to recognize
// scalars, lists, maps, quoted strings, and conversion-specified
// blocks. The first error halts parsing; there is no recovery.
package blockval
