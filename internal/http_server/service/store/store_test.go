package store

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/half-nothing/event-logistics/internal/base"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T, storeInServer bool) *LocalStoreService {
	t.Helper()
	root := t.TempDir()
	return NewLocalStoreService(base.NewLoggerWithWriter(io.Discard, false), &config.HttpServerStore{
		LocalStorePath: root,
		FileLimit: &config.HttpServerStoreFileLimits{
			WorkbookLimit: &config.HttpServerStoreFileLimit{
				MaxFileSize:    1024,
				AllowedFileExt: []string{".xlsx", ".xls"},
				StorePrefix:    "workbooks",
				StoreInServer:  storeInServer,
				RootPath:       root,
			},
		},
	})
}

func TestCheckWorkbook(t *testing.T) {
	store := newLocalStore(t, true)
	tests := []struct {
		name     string
		file     *multipart.FileHeader
		expected *service.ApiStatus
	}{
		{"xlsx", &multipart.FileHeader{Filename: "flights.xlsx", Size: 100}, nil},
		{"upper case xls", &multipart.FileHeader{Filename: "FLIGHTS.XLS", Size: 100}, nil},
		{"csv", &multipart.FileHeader{Filename: "flights.csv", Size: 100}, &service.ErrFileExtUnsupported},
		{"too large", &multipart.FileHeader{Filename: "flights.xlsx", Size: 2048}, &service.ErrFileOverSize},
		{"path", &multipart.FileHeader{Filename: "../flights.xlsx", Size: 100}, &service.ErrFileNameIllegal},
		{"empty name", &multipart.FileHeader{Filename: "", Size: 100}, &service.ErrFileNameIllegal},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			info, res := store.CheckWorkbook(test.file)
			assert.Equal(t, test.expected, res)
			if test.expected == nil {
				require.NotNil(t, info)
				assert.Contains(t, []string{".xlsx", ".xls"}, info.FileExt)
			}
		})
	}
}

func TestSaveWorkbookWritesUnderEventDirectory(t *testing.T) {
	store := newLocalStore(t, true)
	info, res := store.CheckWorkbook(&multipart.FileHeader{Filename: "flights.xlsx", Size: 4})
	require.Nil(t, res)

	info, err := store.SaveWorkbook(info.Locate(12, "batch-1"), []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "workbooks/12/batch-1.xlsx", info.RemotePath)
	assert.Equal(t, filepath.Join(store.config.LocalStorePath, "workbooks", "12", "batch-1.xlsx"), info.FilePath)

	content, err := os.ReadFile(info.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), content)
}

func TestSaveWorkbookSkipsDiskWhenNotStoredInServer(t *testing.T) {
	store := newLocalStore(t, false)
	info, res := store.CheckWorkbook(&multipart.FileHeader{Filename: "flights.xls", Size: 4})
	require.Nil(t, res)

	info, err := store.SaveWorkbook(info.Locate(1, "batch-2"), []byte("data"))
	require.NoError(t, err)
	_, err = os.Stat(info.FilePath)
	assert.True(t, os.IsNotExist(err))
}
