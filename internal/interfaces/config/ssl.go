// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"os"
)

type SSLConfig struct {
	Enable          bool   `json:"enable"`
	EnableHSTS      bool   `json:"enable_hsts"`
	ForceSSL        bool   `json:"force_ssl"`
	HstsExpiredTime int    `json:"hsts_expired_time"` // 秒
	IncludeDomain   bool   `json:"include_domain"`
	CertFile        string `json:"cert_file"`
	KeyFile         string `json:"key_file"`
}

func defaultSSLConfig() *SSLConfig {
	return &SSLConfig{HstsExpiredTime: 5184000}
}

// disable 关闭TLS以及所有依赖TLS的选项
func (config *SSLConfig) disable() {
	config.Enable = false
	config.EnableHSTS = false
	config.ForceSSL = false
	config.IncludeDomain = false
}

func (config *SSLConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.Enable {
		if config.EnableHSTS || config.ForceSSL {
			logger.Warn("HSTS and force_ssl require ssl.enable, ignoring them")
		}
		config.disable()
		return ValidPass()
	}

	if config.CertFile == "" || config.KeyFile == "" {
		logger.WarnF("HTTPS requires both cert and key files (cert %q, key %q), falling back to HTTP", config.CertFile, config.KeyFile)
		config.disable()
		return ValidPass()
	}

	for _, file := range []string{config.CertFile, config.KeyFile} {
		if _, err := os.Stat(file); err != nil {
			return ValidFailWith(fmt.Errorf("ssl file %s is not readable", file), err)
		}
	}

	if config.EnableHSTS && config.HstsExpiredTime <= 0 {
		return ValidFail(errors.New("hsts_expired_time must be positive when HSTS is enabled"))
	}
	return ValidPass()
}
