// Package config
package config

import (
	"errors"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"gopkg.in/gomail.v2"
)

type EmailConfig struct {
	Enabled           bool                 `json:"enabled"`
	Host              string               `json:"host"`
	Port              int                  `json:"port"`
	EmailServer       *gomail.Dialer       `json:"-"`
	Username          string               `json:"username"`
	Password          string               `json:"password"`
	MaxReportedErrors int                  `json:"max_reported_errors"` // 报告邮件中最多列出的错误行数
	Template          *EmailTemplateConfig `json:"template"`
}

func defaultEmailConfig() *EmailConfig {
	return &EmailConfig{
		Enabled:           false,
		Host:              "smtp.example.com",
		Port:              465,
		Username:          "noreply@example.com",
		Password:          "123456",
		MaxReportedErrors: 20,
		Template:          defaultEmailTemplateConfig(),
	}
}

func (config *EmailConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}

	if config.MaxReportedErrors < 0 {
		return ValidFail(errors.New("invalid json field http_server.email.max_reported_errors, cannot be negative"))
	}

	if result := config.Template.checkValid(logger); result.IsFail() {
		return result
	}

	config.EmailServer = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	dial, err := config.EmailServer.Dial()
	if err != nil {
		return ValidFailWith(errors.New("connecting to smtp server fail"), err)
	}
	_ = dial.Close()

	return ValidPass()
}
