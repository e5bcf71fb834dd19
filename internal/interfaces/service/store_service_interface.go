// Package service
package service

import (
	"fmt"
	c "github.com/half-nothing/event-logistics/internal/interfaces/config"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrFileOverSize       = ApiStatus{"FILE_OVER_SIZE", "file is too large", BadRequest}
	ErrFileExtUnsupported = ApiStatus{"FILE_EXT_UNSUPPORTED", "only .xlsx and .xls workbooks are accepted", UnsupportedMediaType}
	ErrFileNameIllegal    = ApiStatus{"FILE_NAME_ILLEGAL", "illegal file name", BadRequest}
)

type FileType int

const (
	WORKBOOKS FileType = iota
	UNKNOWN
)

// StoreInfo 文件存储信息
type StoreInfo struct {
	FileType      FileType                    // 文件类型 [FileType]
	FileLimit     *c.HttpServerStoreFileLimit // 该类型文件限制 [c.HttpServerStoreFileLimit]
	RootPath      string                      // 存储根目录
	FilePath      string                      // 文件存储路径
	RemotePath    string                      // 远程文件存储路径
	FileName      string                      // 相对于根目录的文件名
	FileExt       string                      // 文件扩展名, 小写
	FileSize      int64                       // 文件大小
	StoreInServer bool                        // 是否保存在本地
}

func NewStoreInfo(fileType FileType, fileLimit *c.HttpServerStoreFileLimit, file *multipart.FileHeader) *StoreInfo {
	return &StoreInfo{
		FileType:      fileType,
		FileLimit:     fileLimit,
		RootPath:      fileLimit.RootPath,
		FileExt:       strings.ToLower(filepath.Ext(file.Filename)),
		FileSize:      file.Size,
		StoreInServer: fileLimit.StoreInServer,
	}
}

// GenerateStoreInfo 校验文件名, 扩展名与大小, 存储位置由 Locate 决定
func (fileType FileType) GenerateStoreInfo(fileLimit *c.HttpServerStoreFileLimit, file *multipart.FileHeader) (*StoreInfo, *ApiStatus) {
	if file.Filename == "" || strings.ContainsAny(file.Filename, `/\`) {
		return nil, &ErrFileNameIllegal
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))

	if !slices.Contains(fileLimit.AllowedFileExt, ext) {
		return nil, &ErrFileExtUnsupported
	}

	if fileLimit.MaxFileSize > 0 && file.Size > fileLimit.MaxFileSize {
		return nil, &ErrFileOverSize
	}

	return NewStoreInfo(fileType, fileLimit, file), nil
}

// Locate 归档路径为 <prefix>/<eventId>/<batchId><ext>
func (info *StoreInfo) Locate(eventId uint, batchId string) *StoreInfo {
	info.FileName = filepath.Join(info.FileLimit.StorePrefix, fmt.Sprintf("%d", eventId), batchId+info.FileExt)
	info.FilePath = filepath.Join(info.RootPath, info.FileName)
	info.RemotePath = filepath.ToSlash(info.FileName)
	return info
}

type StoreServiceInterface interface {
	// CheckWorkbook 校验上传的表格文件, 不写入任何内容
	CheckWorkbook(file *multipart.FileHeader) (*StoreInfo, *ApiStatus)
	// SaveWorkbook 把已定位的表格内容写入存储
	SaveWorkbook(info *StoreInfo, content []byte) (*StoreInfo, error)
}
