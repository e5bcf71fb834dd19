// Package store
package store

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/tencentyun/cos-go-sdk-v5"
)

type TencentCosStoreService struct {
	logger     log.LoggerInterface
	localStore StoreServiceInterface
	config     *config.HttpServerStore
	client     *cos.Client
}

func NewTencentCosStoreService(
	logger log.LoggerInterface,
	config *config.HttpServerStore,
	localStore StoreServiceInterface,
) *TencentCosStoreService {
	service := &TencentCosStoreService{logger: logger, localStore: localStore, config: config}
	bucketUrl, _ := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", config.Bucket, strings.ToLower(config.Region)))
	serviceUrl, _ := url.Parse(fmt.Sprintf("https://cos.%s.myqcloud.com", strings.ToLower(config.Region)))
	baseUrl := &cos.BaseURL{BucketURL: bucketUrl, ServiceURL: serviceUrl}
	service.client = cos.NewClient(baseUrl, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessId,
			SecretKey: config.AccessKey,
		},
	})
	return service
}

func (store *TencentCosStoreService) CheckWorkbook(file *multipart.FileHeader) (*StoreInfo, *ApiStatus) {
	return store.localStore.CheckWorkbook(file)
}

func (store *TencentCosStoreService) SaveWorkbook(info *StoreInfo, content []byte) (*StoreInfo, error) {
	info, err := store.localStore.SaveWorkbook(info, content)
	if err != nil {
		return nil, err
	}

	info.RemotePath = path.Join(store.config.RemoteStorePath, info.RemotePath)

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	if _, err = store.client.Object.Put(ctx, info.RemotePath, bytes.NewReader(content), nil); err != nil {
		store.logger.ErrorF("TencentCosStoreService.SaveWorkbook upload workbook to remote storage error: %v", err)
		return nil, err
	}
	return info, nil
}
