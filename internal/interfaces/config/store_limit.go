// Package config
package config

import (
	"errors"
	"github.com/half-nothing/event-logistics/internal/interfaces/global"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"os"
	"path/filepath"
)

type HttpServerStoreFileLimit struct {
	MaxFileSize    int64    `json:"max_file_size"`
	AllowedFileExt []string `json:"allowed_file_ext"`
	StorePrefix    string   `json:"store_prefix"`
	StoreInServer  bool     `json:"store_in_server"`
	RootPath       string   `json:"-"`
}

func (config *HttpServerStoreFileLimit) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.MaxFileSize < 0 {
		return ValidFail(errors.New("invalid json field http_server.store.file_limit.max_file_size, cannot be negative"))
	}
	if len(config.AllowedFileExt) == 0 {
		return ValidFail(errors.New("invalid json field http_server.store.file_limit.allowed_file_ext, cannot be empty"))
	}
	return ValidPass()
}

type HttpServerStoreFileLimits struct {
	WorkbookLimit *HttpServerStoreFileLimit `json:"workbook_limit"`
}

func defaultHttpServerStoreFileLimits() *HttpServerStoreFileLimits {
	return &HttpServerStoreFileLimits{
		WorkbookLimit: &HttpServerStoreFileLimit{
			MaxFileSize:    8 * 1024 * 1024,
			AllowedFileExt: []string{".xlsx", ".xls"},
			StorePrefix:    "workbooks",
			StoreInServer:  true,
		},
	}
}

func (config *HttpServerStoreFileLimits) checkValid(logger log.LoggerInterface) *ValidResult {
	if config.WorkbookLimit == nil {
		return ValidFail(errors.New("invalid json field http_server.store.file_limit.workbook_limit, cannot be empty"))
	}
	return config.WorkbookLimit.checkValid(logger)
}

func (config *HttpServerStoreFileLimits) CheckLocalStore(_ log.LoggerInterface, localStore bool) *ValidResult {
	if !localStore {
		return ValidPass()
	}
	if !config.WorkbookLimit.StoreInServer {
		return ValidFail(errors.New("when you use local store, store_in_server must be true"))
	}
	return ValidPass()
}

func (config *HttpServerStoreFileLimits) CreateDir(_ log.LoggerInterface, root string) *ValidResult {
	config.WorkbookLimit.RootPath = root
	if config.WorkbookLimit.StoreInServer {
		workbookPath := filepath.Join(root, config.WorkbookLimit.StorePrefix)
		if err := os.MkdirAll(workbookPath, global.DefaultDirectoryPermission); err != nil {
			return ValidFailWith(errors.New("error creating the workbook directory"), err)
		}
	}
	return ValidPass()
}
