// Package config
package config

import (
	"errors"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"golang.org/x/crypto/bcrypt"
)

type GeneralConfig struct {
	BcryptCost     int  `json:"bcrypt_cost"`
	BootstrapAdmin bool `json:"bootstrap_admin"` // 用户表为空时自动创建管理员账号
}

func defaultGeneralConfig() *GeneralConfig {
	return &GeneralConfig{
		BcryptCost:     12,
		BootstrapAdmin: true,
	}
}

func (config *GeneralConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return ValidFail(errors.New("bcrypt_cost out of range, must between 4 and 31"))
	}
	return ValidPass()
}
