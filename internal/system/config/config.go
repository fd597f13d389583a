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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	JWTSecret          string   `yaml:"jwt_secret"`
	Audience           string   `yaml:"audience"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type HistoryStoreConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type ImportConfig struct {
	WorkerCount       int `yaml:"worker_count"`
	QueueSize         int `yaml:"queue_size"`
	ProgressBatchSize int `yaml:"progress_batch_size"`
}

type Config struct {
	Addr         AddrConfig         `yaml:"addr"`
	Log          LogConfig          `yaml:"log"`
	Auth         AuthConfig         `yaml:"auth"`
	DataSource   DataSourceConfig   `yaml:"datasource"`
	HistoryStore HistoryStoreConfig `yaml:"history_store"`
	Import       ImportConfig       `yaml:"import"`
}
