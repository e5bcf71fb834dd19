// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
)

type Config struct {
	ConfigVersion string           `json:"config_version"`
	Server        *ServerConfig    `json:"server"`
	Database      *DatabaseConfig  `json:"database"`
	Ingestion     *IngestionConfig `json:"ingestion"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigVersion: ConfVersion.String(),
		Server:        defaultServerConfig(),
		Database:      defaultDatabaseConfig(),
		Ingestion:     defaultIngestionConfig(),
	}
}

func (c *Config) CheckValid(logger log.LoggerInterface) *ValidResult {
	if version, err := newVersion(c.ConfigVersion); err != nil {
		return ValidFailWith(errors.New("version string parse fail"), err)
	} else if result := ConfVersion.checkVersion(version); result != AllMatch {
		return ValidFail(fmt.Errorf("config version mismatch, expected %s, got %s", ConfVersion.String(), version.String()))
	}
	if c.Database == nil || c.Server == nil || c.Ingestion == nil {
		return ValidFail(errors.New("configuration file is missing one of database, server or ingestion section"))
	}
	if result := c.Database.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Server.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Ingestion.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}
