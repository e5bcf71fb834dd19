package ingestion

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedMediaType 声明的内容类型不是两种表格类型之一, 不会尝试解码
	ErrUnsupportedMediaType = errors.New("unsupported media type, expected an xlsx or xls workbook")
	// ErrNoDataRows 表头之后没有任何数据行
	ErrNoDataRows = errors.New("workbook contains no data rows")
	// ErrEventNotFound 目标活动不存在
	ErrEventNotFound = errors.New("event does not exist")
	// ErrTooManyRows 数据行数超过配置的上限
	ErrTooManyRows = errors.New("workbook exceeds the maximum number of data rows")
)

// DecodeError 文件不是一个完整可读的工作簿
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("unable to decode workbook: %v", e.Err)
	}
	return fmt.Sprintf("unable to decode %s workbook: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError 表头缺少必需的列
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// StorageError 批量写入被数据库拒绝, 整批回滚
type StorageError struct {
	Rows int
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to store %d flight schedules: %v", e.Rows, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
