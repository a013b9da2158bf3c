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

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/logrusorgru/aurora"
)

// RunConfigChecks Walks the evaluated settings and the optional centrify.yaml
// printing a colored pass/fail line per check. Returns an error if any check
// failed.
func (c *Config) RunConfigChecks() error {
	failed := false
	check := func(ok bool, label string) {
		if ok {
			c.Logger.Warn("%s %s\n", aurora.Green("✔"), label)
			return
		}
		failed = true
		c.Logger.Warn("%s %s\n", aurora.Red("✖"), label)
	}

	check(c.tenant != "", fmt.Sprintf("tenant host is set (--%s / %s)", TenantFlag, TenantEnvVar))
	check(c.appKey != "", fmt.Sprintf("application key is set (--%s / %s)", AppKeyFlag, AppKeyEnvVar))
	check(c.username != "", fmt.Sprintf("username is set (--%s / %s)", UsernameFlag, UsernameEnvVar))
	check(c.awsSessionDuration >= 900 && c.awsSessionDuration <= 43200,
		fmt.Sprintf("session duration %d is within 900..43200", c.awsSessionDuration))

	yamlPath, err := CentrifyYamlPath()
	if err == nil {
		if _, statErr := os.Stat(yamlPath); statErr == nil {
			_, parseErr := NewCentrifyYamlConfig()
			check(parseErr == nil, fmt.Sprintf("%s is parseable", yamlPath))
		} else {
			c.Logger.Warn("  %s not present, skipping label checks\n", yamlPath)
		}
	}

	if failed {
		return errors.New("config checks failed")
	}
	return nil
}
