package ingestion

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheetName = "Flights"
	TemplateFileName  = "flight_schedule_template.xlsx"
)

// TemplateWorkbook 生成只包含标准表头的工作簿
func TemplateWorkbook() (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", TemplateSheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, fieldCount)
	for _, label := range canonicalHeader {
		header = append(header, label)
	}
	if err := file.SetSheetRow(TemplateSheetName, "A1", &header); err != nil {
		return nil, err
	}

	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := file.SetRowStyle(TemplateSheetName, 1, 1, style); err != nil {
		return nil, err
	}

	lastColumn, err := excelize.ColumnNumberToName(int(fieldCount))
	if err != nil {
		return nil, err
	}
	if err := file.SetColWidth(TemplateSheetName, "A", lastColumn, 18); err != nil {
		return nil, err
	}

	return file.WriteToBuffer()
}
