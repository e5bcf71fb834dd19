// Package config
package config

import (
	"errors"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"html/template"
)

const defaultIngestionReportTemplate = `<html>
<body>
<p>Hello {{.Username}},</p>
<p>The flight schedule workbook <b>{{.FileName}}</b> uploaded for <b>{{.EventName}}</b> has been processed.</p>
<ul>
<li>Processed rows: {{.ProcessedRecords}}</li>
<li>Failed rows: {{.FailedRecords}}</li>
</ul>
{{if .Errors}}<table border="1" cellpadding="4">
<tr><th>Row</th><th>Reason</th></tr>
{{range .Errors}}<tr><td>{{.Row}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{if .Truncated}}<p>Only the first {{len .Errors}} errors are listed.</p>{{end}}{{end}}
</body>
</html>
`

type EmailTemplateConfig struct {
	IngestionReportTemplateFile string             `json:"ingestion_report_template_file"`
	IngestionReportTemplate     *template.Template `json:"-"`
	EnableIngestionReportEmail  bool               `json:"enable_ingestion_report_email"`
}

func defaultEmailTemplateConfig() *EmailTemplateConfig {
	return &EmailTemplateConfig{
		IngestionReportTemplateFile: "template/ingestion_report.template",
		EnableIngestionReportEmail:  true,
	}
}

func (config *EmailTemplateConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.EnableIngestionReportEmail {
		return ValidPass()
	}
	if bytes, err := cachedContent(logger, config.IngestionReportTemplateFile, []byte(defaultIngestionReportTemplate)); err != nil {
		return ValidFailWith(errors.New("fail to load ingestion_report_template_file"), err)
	} else if parse, err := template.New("ingestion_report").Parse(string(bytes)); err != nil {
		return ValidFailWith(errors.New("fail to parse ingestion_report_template"), err)
	} else {
		config.IngestionReportTemplate = parse
	}
	return ValidPass()
}
