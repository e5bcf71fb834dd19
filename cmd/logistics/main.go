package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/half-nothing/event-logistics/internal/base"
	"github.com/half-nothing/event-logistics/internal/database"
	"github.com/half-nothing/event-logistics/internal/http_server"
	impl "github.com/half-nothing/event-logistics/internal/http_server/service"
	"github.com/half-nothing/event-logistics/internal/interfaces"
	"github.com/half-nothing/event-logistics/internal/interfaces/global"
	"github.com/joho/godotenv"
)

func recoverFromError() {
	if r := recover(); r != nil {
		fmt.Printf("It looks like there are some serious errors, the details are as follows: %v", r)
	}
}

func main() {
	envErr := godotenv.Load()

	flag.Parse()
	global.ApplyEnvironment()

	defer recoverFromError()

	logger := base.NewLogger()
	logger.Init(*global.DebugMode)

	logger.InfoF("Application initializing, version %s", global.AppVersion)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.WarnF("Fail to load .env file: %v", envErr)
	}

	cleaner := base.NewCleaner(logger)
	cleaner.Init()
	defer cleaner.Clean()

	configManager := base.NewManager(logger)
	config := configManager.Config()

	shutdownCallback, databaseOperation, err := database.ConnectDatabase(logger, config, *global.DebugMode)
	if err != nil {
		logger.FatalF("Error occurred while initializing operation, details: %v", err)
		return
	}

	cleaner.Add(shutdownCallback)

	applicationContent := interfaces.NewApplicationContent(configManager, cleaner, logger, databaseOperation)

	httpConfig := config.Server.HttpServer
	if config.Server.General.BootstrapAdmin {
		userService := impl.NewUserService(
			logger,
			httpConfig,
			impl.NewValidator(httpConfig.Limits),
			databaseOperation.UserOperation(),
			databaseOperation.AuditLogOperation(),
		)
		password, err := userService.EnsureBootstrapAdmin()
		if err != nil {
			logger.FatalF("Fail to create bootstrap administrator, details: %v", err)
			return
		}
		if password != "" {
			logger.WarnF("No user found, created administrator %s with password %s, change it after first login",
				global.BootstrapAdminUsername, password)
		}
	}

	if !httpConfig.Enabled {
		logger.Warn("Http server is disabled, nothing to serve")
		return
	}

	http_server.StartHttpServer(applicationContent)
}
