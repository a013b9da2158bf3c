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
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// CentrifyYamlConfig Operator settings from the optional
// $HOME/.centrify/centrify.yaml file. The idps and roles maps key ARN values
// (treated as regexps on lookup misses) to friendly labels shown in
// selection lists.
type CentrifyYamlConfig struct {
	AWSCLI struct {
		IDPS  map[string]string `yaml:"idps"`
		ROLES map[string]string `yaml:"roles"`
	} `yaml:"awscli"`
}

// CentrifyYamlPath Path to the $HOME/.centrify/centrify.yaml file
func CentrifyYamlPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, DotCentrifyDir, CentrifyYaml), nil
}

// NewCentrifyYamlConfig Reads and parses centrify.yaml if it exists.
func NewCentrifyYamlConfig() (*CentrifyYamlConfig, error) {
	yamlPath, err := CentrifyYamlPath()
	if err != nil {
		return nil, err
	}
	yamlData, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, err
	}
	conf := CentrifyYamlConfig{}
	err = yaml.Unmarshal(yamlData, &conf)
	if err != nil {
		return nil, err
	}

	return &conf, nil
}
