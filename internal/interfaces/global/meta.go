// Package global
package global

import (
	"flag"
	"os"
	"strconv"
)

var (
	DebugMode      = flag.Bool("debug", false, "Enable debug mode")
	ConfigFilePath = flag.String("config", "./config.json", "Path to configuration file")
	LogFilePath    = flag.String("log", "./logs/latest.log", "Path to log file")
)

const (
	AppVersion    = "1.2.0"
	ConfigVersion = "1.2.0"

	DefaultFilePermissions     = 0644
	DefaultDirectoryPermission = 0755

	BootstrapAdminUsername = "admin"
	MetricsNamespace       = "logistics"
)

// ApplyEnvironment 使用环境变量覆盖未在命令行中显式指定的参数
func ApplyEnvironment() {
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if value := os.Getenv("LOGISTICS_CONFIG"); value != "" && !explicit["config"] {
		*ConfigFilePath = value
	}
	if value := os.Getenv("LOGISTICS_LOG"); value != "" && !explicit["log"] {
		*LogFilePath = value
	}
	if value := os.Getenv("LOGISTICS_DEBUG"); value != "" && !explicit["debug"] {
		if debug, err := strconv.ParseBool(value); err == nil {
			*DebugMode = debug
		}
	}
}
