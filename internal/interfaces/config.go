// Package interfaces
package interfaces

import (
	. "github.com/half-nothing/event-logistics/internal/interfaces/config"
)

type ConfigManagerInterface interface {
	Config() *Config
	SaveConfig() error
}
