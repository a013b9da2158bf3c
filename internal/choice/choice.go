/*
 * Copyright (c) 2023-Present, Centrify, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package choice implements numbered selection from a list of labels. A
// single option is taken without prompting; otherwise the operator types a
// number in [1, N] and invalid entries re-prompt, they never fail the run.
package choice

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/centrify/centrify-aws-cli/internal/logger"
)

// ErrNoOptions there is nothing to select from
var ErrNoOptions = errors.New("no options to choose from")

// ErrInputClosed the input stream ended before a valid selection was made
var ErrInputClosed = errors.New("input closed before a selection was made")

// Pick Parses a 1-based selection entry against n options, returning the
// 0-based index.
func Pick(entry string, n int) (int, error) {
	entry = strings.TrimSpace(entry)
	i, err := strconv.Atoi(entry)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", entry)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%d is not between 1 and %d", i, n)
	}
	return i - 1, nil
}

// Selector Reads numbered selections from a line-oriented stream; prompts go
// to stderr so stdout stays clean for the shell.
type Selector struct {
	in     *bufio.Reader
	logger *logger.FullLogger
}

// NewSelector Selector constructor
func NewSelector(in io.Reader, l *logger.FullLogger) *Selector {
	return &Selector{
		in:     bufio.NewReader(in),
		logger: l,
	}
}

// Select Presents the labels and returns the 0-based index of the chosen
// option. A list of one is auto-selected without touching the input.
func (s *Selector) Select(title string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, ErrNoOptions
	}
	if len(labels) == 1 {
		return 0, nil
	}

	s.logger.Warn("%s\n", title)
	for i, label := range labels {
		s.logger.Warn("  %d: %s\n", i+1, label)
	}

	for {
		s.logger.Warn("Selection [1-%d]: ", len(labels))
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, ErrInputClosed
		}
		idx, pickErr := Pick(line, len(labels))
		if pickErr != nil {
			s.logger.Warn("%v, try again\n", pickErr)
			if err != nil {
				// stream ended on an invalid trailing entry
				return 0, ErrInputClosed
			}
			continue
		}
		return idx, nil
	}
}
