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

package output

import (
	caws "github.com/centrify/centrify-aws-cli/internal/aws"
	"github.com/centrify/centrify-aws-cli/internal/config"
)

// NoopCredentials no operation credentials output formatter; useful when the
// run exists only for its side effect, opening the console or executing a
// subcommand.
type NoopCredentials struct{}

// NewNoopCredentials Creates a new NoopCredentials
func NewNoopCredentials() *NoopCredentials {
	return &NoopCredentials{}
}

// Output Satisfies the Outputter interface and outputs nothing
func (n *NoopCredentials) Output(c *config.Config, cc *caws.CredentialContainer) error {
	return nil
}
