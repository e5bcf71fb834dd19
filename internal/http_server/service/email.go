// Package service
package service

import (
	"errors"
	"html/template"
	"strings"

	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"gopkg.in/gomail.v2"
)

var (
	ErrRenderingTemplate      = errors.New("error rendering template")
	ErrTemplateNotInitialized = errors.New("error template not initialized")
)

// MailSender *gomail.Dialer 满足该接口
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	logger log.LoggerInterface
	config *config.EmailConfig
	sender MailSender
}

type EmailIngestionReportData struct {
	Username         string
	FileName         string
	EventName        string
	ProcessedRecords int
	FailedRecords    int
	Errors           []RowErrorReport
	Truncated        bool
}

func NewEmailService(logger log.LoggerInterface, config *config.EmailConfig) *EmailService {
	service := &EmailService{logger: logger, config: config}
	if config.EmailServer != nil {
		service.sender = config.EmailServer
	}
	return service
}

// NewEmailServiceWithSender 使用指定的发送方, 主要用于测试
func NewEmailServiceWithSender(logger log.LoggerInterface, config *config.EmailConfig, sender MailSender) *EmailService {
	return &EmailService{logger: logger, config: config, sender: sender}
}

func (emailService *EmailService) RenderTemplate(template *template.Template, data interface{}) (string, error) {
	if template == nil {
		return "", ErrTemplateNotInitialized
	}
	var sb strings.Builder
	if err := template.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// SendIngestionReportEmail 邮件未启用或用户没有邮箱时直接返回nil
func (emailService *EmailService) SendIngestionReportEmail(user *operation.User, event *operation.Event, report *IngestionReport) error {
	if emailService.sender == nil || !emailService.config.Enabled {
		return nil
	}
	if emailService.config.Template == nil || !emailService.config.Template.EnableIngestionReportEmail {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return nil
	}

	data := &EmailIngestionReportData{
		Username:         user.Username,
		FileName:         report.FileName,
		EventName:        event.Name,
		ProcessedRecords: report.ProcessedRecords,
		FailedRecords:    report.FailedRecords,
		Errors:           report.Errors,
	}
	if limit := emailService.config.MaxReportedErrors; len(data.Errors) > limit {
		data.Errors = data.Errors[:limit]
		data.Truncated = true
	}

	message, err := emailService.RenderTemplate(emailService.config.Template.IngestionReportTemplate, data)
	if err != nil {
		emailService.logger.WarnF("Error rendering ingestion report template: %v", err)
		return ErrRenderingTemplate
	}

	m := gomail.NewMessage()
	m.SetHeader("From", emailService.config.Username)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Flight schedule upload report: "+event.Name)
	m.SetBody("text/html", message)

	emailService.logger.InfoF("Sending ingestion report email to %s(%d)", email, user.ID)

	return emailService.sender.DialAndSend(m)
}
