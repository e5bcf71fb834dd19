// Package store
package store

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/global"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
)

type LocalStoreService struct {
	logger log.LoggerInterface
	config *config.HttpServerStore
}

func NewLocalStoreService(logger log.LoggerInterface, config *config.HttpServerStore) *LocalStoreService {
	return &LocalStoreService{
		logger: logger,
		config: config,
	}
}

func (store *LocalStoreService) CheckWorkbook(file *multipart.FileHeader) (*StoreInfo, *ApiStatus) {
	return WORKBOOKS.GenerateStoreInfo(store.config.FileLimit.WorkbookLimit, file)
}

// SaveWorkbook store_in_server为false时只返回路径信息, 不写磁盘
func (store *LocalStoreService) SaveWorkbook(info *StoreInfo, content []byte) (*StoreInfo, error) {
	if !info.StoreInServer {
		return info, nil
	}
	if err := os.MkdirAll(filepath.Dir(info.FilePath), global.DefaultDirectoryPermission); err != nil {
		store.logger.ErrorF("LocalStoreService.SaveWorkbook create directory error: %v", err)
		return nil, err
	}
	if err := os.WriteFile(info.FilePath, content, global.DefaultFilePermissions); err != nil {
		store.logger.ErrorF("LocalStoreService.SaveWorkbook write file error: %v", err)
		return nil, err
	}
	return info, nil
}
