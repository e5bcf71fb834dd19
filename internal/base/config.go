package base

import (
	"encoding/json"
	"errors"
	. "github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/global"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/utils"
	"os"
)

var ErrConfigCreated = errors.New("the configuration file does not exist and has been created. Please try again after editing the configuration file")

func readConfig(logger log.LoggerInterface, path string) (*Config, *ValidResult) {
	config := DefaultConfig()

	// 配置文件不存在时写出默认配置并要求用户编辑
	if bytes, err := os.ReadFile(path); err != nil {
		if err := saveConfig(path, config); err != nil {
			return nil, ValidFailWith(errors.New("fail to save configuration file while creating configuration file"), err)
		}
		return nil, ValidFail(ErrConfigCreated)
	} else if err := json.Unmarshal(bytes, config); err != nil {
		return nil, ValidFailWith(errors.New("the configuration file does not contain valid JSON"), err)
	} else if result := config.CheckValid(logger); result.IsFail() {
		return nil, result
	}
	return config, ValidPass()
}

func saveConfig(path string, config *Config) error {
	if writer, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, global.DefaultFilePermissions); err != nil {
		return err
	} else if data, err := json.MarshalIndent(config, "", "\t"); err != nil {
		_ = writer.Close()
		return err
	} else if _, err = writer.Write(data); err != nil {
		_ = writer.Close()
		return err
	} else if err := writer.Close(); err != nil {
		return err
	}
	return nil
}

type Manager struct {
	path   string
	config *utils.CachedValue[Config]
	logger log.LoggerInterface
}

func NewManager(logger log.LoggerInterface) *Manager {
	return NewManagerWithPath(logger, *global.ConfigFilePath)
}

func NewManagerWithPath(logger log.LoggerInterface, path string) *Manager {
	manager := &Manager{
		path:   path,
		logger: logger,
	}
	manager.config = utils.NewCachedValue(0, manager.getConfig)
	return manager
}

// Load 读取并校验配置, 失败时返回错误而不是panic
func (manager *Manager) Load() (*Config, error) {
	config, result := readConfig(manager.logger, manager.path)
	if result.IsFail() {
		if result.OriginErr() != nil {
			return nil, errors.Join(result.Error(), result.OriginErr())
		}
		return nil, result.Error()
	}
	return config, nil
}

func (manager *Manager) getConfig() *Config {
	if config, result := readConfig(manager.logger, manager.path); result.IsFail() {
		manager.logger.Fatal(result.Error().Error())
		if result.OriginErr() != nil {
			panic(result.OriginErr())
		}
		panic(result.Error())
	} else {
		return config
	}
}

func (manager *Manager) Config() *Config {
	return manager.config.GetValue()
}

func (manager *Manager) SaveConfig() error {
	return saveConfig(manager.path, manager.Config())
}
