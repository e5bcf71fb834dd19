// Package store
package store

import (
	"bytes"
	"context"
	"mime/multipart"
	"path"
	"time"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
)

const uploadTimeout = 30 * time.Second

type ALiYunOssStoreService struct {
	logger     log.LoggerInterface
	localStore StoreServiceInterface
	config     *config.HttpServerStore
	client     *oss.Client
}

func NewALiYunOssStoreService(
	logger log.LoggerInterface,
	config *config.HttpServerStore,
	localStore StoreServiceInterface,
) *ALiYunOssStoreService {
	service := &ALiYunOssStoreService{logger: logger, localStore: localStore, config: config}
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessId, config.AccessKey)).
		WithRegion(config.Region).
		WithUseInternalEndpoint(config.UseInternalUrl)
	service.client = oss.NewClient(cfg)
	return service
}

func (store *ALiYunOssStoreService) CheckWorkbook(file *multipart.FileHeader) (*StoreInfo, *ApiStatus) {
	return store.localStore.CheckWorkbook(file)
}

func (store *ALiYunOssStoreService) SaveWorkbook(info *StoreInfo, content []byte) (*StoreInfo, error) {
	info, err := store.localStore.SaveWorkbook(info, content)
	if err != nil {
		return nil, err
	}

	info.RemotePath = path.Join(store.config.RemoteStorePath, info.RemotePath)

	putRequest := &oss.PutObjectRequest{
		Bucket:       oss.Ptr(store.config.Bucket),
		Key:          oss.Ptr(info.RemotePath),
		StorageClass: oss.StorageClassStandard,
		Body:         bytes.NewReader(content),
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	if _, err = store.client.PutObject(ctx, putRequest); err != nil {
		store.logger.ErrorF("ALiYunOssStoreService.SaveWorkbook upload workbook to remote storage error: %v", err)
		return nil, err
	}
	return info, nil
}
