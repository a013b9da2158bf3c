/*
 * Copyright (c) 2022-Present, Centrify, Inc.
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

package choice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centrify/centrify-aws-cli/internal/logger"
)

func TestPick(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		n       int
		want    int
		wantErr bool
	}{
		{
			name:  "first option",
			entry: "1",
			n:     3,
			want:  0,
		},
		{
			name:  "last option",
			entry: "3",
			n:     3,
			want:  2,
		},
		{
			name:  "surrounding whitespace",
			entry: " 2\n",
			n:     3,
			want:  1,
		},
		{
			name:    "zero is out of range",
			entry:   "0",
			n:       3,
			wantErr: true,
		},
		{
			name:    "beyond last option",
			entry:   "4",
			n:       3,
			wantErr: true,
		},
		{
			name:    "negative",
			entry:   "-1",
			n:       3,
			wantErr: true,
		},
		{
			name:    "not a number",
			entry:   "second",
			n:       3,
			wantErr: true,
		},
		{
			name:    "empty",
			entry:   "",
			n:       3,
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Pick(test.entry, test.n)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestSelectSingleOptionSkipsPrompt(t *testing.T) {
	// no input available at all; a single option must not read from it
	s := NewSelector(strings.NewReader(""), &logger.FullLogger{})
	idx, err := s.Select("Choose:", []string{"only"})
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestSelectNoOptions(t *testing.T) {
	s := NewSelector(strings.NewReader(""), &logger.FullLogger{})
	_, err := s.Select("Choose:", []string{})
	require.ErrorIs(t, err, ErrNoOptions)
}

func TestSelectRepromptsOnInvalidEntry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "valid first try",
			input: "2\n",
			want:  1,
		},
		{
			name:  "out of range then valid",
			input: "9\n1\n",
			want:  0,
		},
		{
			name:  "garbage then valid",
			input: "nope\n\n3\n",
			want:  2,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewSelector(strings.NewReader(test.input), &logger.FullLogger{})
			idx, err := s.Select("Choose:", []string{"a", "b", "c"})
			require.NoError(t, err)
			require.Equal(t, test.want, idx)
		})
	}
}

func TestSelectInputClosed(t *testing.T) {
	s := NewSelector(strings.NewReader("nope\n"), &logger.FullLogger{})
	_, err := s.Select("Choose:", []string{"a", "b"})
	require.ErrorIs(t, err, ErrInputClosed)
}
