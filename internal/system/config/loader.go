/*
 * Copyright (c) 2025, OpenRegistro (https://www.openregistro.cl).
 *
 * OpenRegistro licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment YAML file under the service home directory
// and resolves environment variable placeholders for secrets.
func LoadConfig(serviceHome, configFile string) (*Config, error) {

	configPath := filepath.Join(serviceHome, configFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides lets secrets be supplied via the environment instead of
// the checked-in deployment file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDS_DB_PASSWORD"); v != "" {
		cfg.DataSource.Password = v
	}
	if v := os.Getenv("PDS_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PDS_HISTORY_URI"); v != "" {
		cfg.HistoryStore.URI = v
	}
}
