// Package config
package config

import (
	"errors"
	"fmt"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"time"
)

type IngestionConfig struct {
	TimeZone         string         `json:"time_zone"` // 表格中日期时间所在的时区, IANA名称
	Location         *time.Location `json:"-"`
	MaxRows          int            `json:"max_rows"` // 单次上传的最大数据行数, 0表示不限制
	ArchiveWorkbooks bool           `json:"archive_workbooks"`
}

func defaultIngestionConfig() *IngestionConfig {
	return &IngestionConfig{
		TimeZone:         "UTC",
		MaxRows:          5000,
		ArchiveWorkbooks: true,
	}
}

func (config *IngestionConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if location, err := time.LoadLocation(config.TimeZone); err != nil {
		return ValidFailWith(fmt.Errorf("invalid json field ingestion.time_zone %q", config.TimeZone), err)
	} else {
		config.Location = location
	}
	if config.MaxRows < 0 {
		return ValidFail(errors.New("invalid json field ingestion.max_rows, cannot be negative"))
	}
	return ValidPass()
}
