// Package http_server
package http_server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/half-nothing/event-logistics/internal/http_server/controller"
	mid "github.com/half-nothing/event-logistics/internal/http_server/middleware"
	"github.com/half-nothing/event-logistics/internal/http_server/realtime"
	impl "github.com/half-nothing/event-logistics/internal/http_server/service"
	"github.com/half-nothing/event-logistics/internal/http_server/service/store"
	. "github.com/half-nothing/event-logistics/internal/interfaces"
	"github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/half-nothing/event-logistics/internal/metrics"
	"github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/slog-echo"
)

const websocketPath = "/api/ws"

type HttpServerShutdownCallback struct {
	serverHandler *echo.Echo
}

func NewHttpServerShutdownCallback(serverHandler *echo.Echo) *HttpServerShutdownCallback {
	return &HttpServerShutdownCallback{
		serverHandler: serverHandler,
	}
}

func (hc *HttpServerShutdownCallback) Invoke(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return hc.serverHandler.Shutdown(timeoutCtx)
}

func skipWebsocket(c echo.Context) bool {
	return strings.HasPrefix(c.Path(), websocketPath)
}

func newStoreService(applicationContent *ApplicationContent, storeConfig *config.HttpServerStore) service.StoreServiceInterface {
	logger := applicationContent.Logger()
	var storeService service.StoreServiceInterface
	storeService = store.NewLocalStoreService(logger, storeConfig)
	switch storeConfig.StoreType {
	case config.ALiYunOssStore:
		storeService = store.NewALiYunOssStoreService(logger, storeConfig, storeService)
	case config.TencentCosStore:
		storeService = store.NewTencentCosStoreService(logger, storeConfig, storeService)
	}
	return storeService
}

// NewHttpServer 创建echo实例并注册全部中间件与路由, 不启动监听
func NewHttpServer(
	applicationContent *ApplicationContent,
	hub *realtime.Hub,
	collector *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *echo.Echo {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(log.OFF)
	httpConfig := config.Server.HttpServer

	switch httpConfig.ProxyType {
	case 0:
		e.IPExtractor = echo.ExtractIPDirect()
	case 1:
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	case 2:
		e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	default:
		logger.WarnF("Invalid proxy type %d, using default (direct)", httpConfig.ProxyType)
		e.IPExtractor = echo.ExtractIPDirect()
	}

	if httpConfig.SSL.ForceSSL {
		e.Use(middleware.HTTPSRedirect())
	}

	requestTimeout := httpConfig.RequestDuration
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper: skipWebsocket,
		Timeout: requestTimeout,
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(ctx echo.Context, err error, stack []byte) error {
			logger.ErrorF("Recovered from a fatal error: %v, stack: %s", err, string(stack))
			return err
		},
	}))

	loggerConfig := slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}
	e.Use(slogecho.NewWithConfig(slog.Default(), loggerConfig))
	hstsMaxAge := 0
	if httpConfig.SSL.EnableHSTS {
		hstsMaxAge = httpConfig.SSL.HstsExpiredTime
	}
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            hstsMaxAge,
		HSTSExcludeSubdomains: !httpConfig.SSL.IncludeDomain,
	}))
	e.Use(middleware.CORS())
	if httpConfig.BodyLimit != "" {
		e.Use(middleware.BodyLimit(httpConfig.BodyLimit))
	}
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: skipWebsocket,
		Level:   5,
	}))

	if httpConfig.Limits.RateLimit <= 0 {
		logger.WarnF("Invalid rate limit value %d, using default 60", httpConfig.Limits.RateLimit)
		httpConfig.Limits.RateLimit = 60
	}

	if httpConfig.Limits.RateLimitDuration <= 0 {
		logger.WarnF("Invalid rate limit duration %v, using default 1m", httpConfig.Limits.RateLimitDuration)
		httpConfig.Limits.RateLimitDuration = time.Minute
	}

	ipPathLimiter := mid.NewSlidingWindowLimiter(
		httpConfig.Limits.RateLimitDuration,
		httpConfig.Limits.RateLimit,
	)
	cleanupInterval := httpConfig.Limits.RateLimitDuration * 2
	if cleanupInterval > time.Hour {
		cleanupInterval = time.Hour
		logger.InfoF("Limiting cleanup interval to 1 hour for efficiency")
	}
	ipPathLimiter.StartCleanup(cleanupInterval)
	applicationContent.Cleaner().Add(mid.NewLimiterShutdownCallback(ipPathLimiter))

	e.Use(mid.RateLimitMiddleware(ipPathLimiter, mid.CombinedKeyFunc))

	jwtConfig := echojwt.Config{
		SigningKey:    []byte(httpConfig.JWT.Secret),
		TokenLookup:   "header:Authorization:Bearer ",
		SigningMethod: "HS512",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var data *service.ApiResponse[any]
			switch {
			case errors.Is(err, echojwt.ErrJWTMissing):
				data = service.NewApiResponse[any](&service.ErrMissingOrMalformedJwt, service.Unsatisfied, nil)
			case errors.Is(err, echojwt.ErrJWTInvalid):
				data = service.NewApiResponse[any](&service.ErrInvalidOrExpiredJwt, service.Unsatisfied, nil)
			default:
				data = service.NewApiResponse[any](&service.ErrUnknown, service.Unsatisfied, nil)
			}
			return data.Response(c)
		},
	}

	jwtMiddleware := echojwt.WithConfig(jwtConfig)

	// 浏览器无法为websocket握手设置请求头, 允许通过查询参数传递token
	wsJwtConfig := jwtConfig
	wsJwtConfig.TokenLookup = "header:Authorization:Bearer ,query:token"
	wsJwtMiddleware := echojwt.WithConfig(wsJwtConfig)

	validator := impl.NewValidator(httpConfig.Limits)
	emailService := impl.NewEmailService(logger, httpConfig.Email)
	storeService := newStoreService(applicationContent, httpConfig.Store)

	operations := applicationContent.Operations()
	userOperation := operations.UserOperation()
	eventOperation := operations.EventOperation()
	auditLogOperation := operations.AuditLogOperation()

	userService := impl.NewUserService(logger, httpConfig, validator, userOperation, auditLogOperation)
	eventService := impl.NewEventService(logger, validator, userOperation, eventOperation, auditLogOperation)
	flightService := impl.NewFlightScheduleService(logger, config.Ingestion, validator, operations, storeService, emailService, hub, collector)
	auditLogService := impl.NewAuditService(logger, validator, auditLogOperation)

	userController := controller.NewUserController(logger, userService)
	eventController := controller.NewEventController(logger, eventService)
	flightController := controller.NewFlightScheduleController(logger, flightService)
	auditLogController := controller.NewAuditLogController(logger, auditLogService)

	apiGroup := e.Group("/api")
	apiGroup.POST("/sessions", userController.UserLogin)

	userGroup := apiGroup.Group("/users")
	userGroup.POST("", userController.AddUser, jwtMiddleware)
	userGroup.GET("", userController.GetUsers, jwtMiddleware)

	eventGroup := apiGroup.Group("/events")
	eventGroup.POST("", eventController.AddEvent, jwtMiddleware)
	eventGroup.GET("", eventController.GetEvents, jwtMiddleware)
	eventGroup.POST("/:eid/members", eventController.AddEventMember, jwtMiddleware)
	eventGroup.POST("/:eid/flights/upload", flightController.UploadFlightSchedules, jwtMiddleware)
	eventGroup.GET("/:eid/flights/template", flightController.GetFlightTemplate, jwtMiddleware)
	eventGroup.GET("/:eid/flights", flightController.GetFlightSchedules, jwtMiddleware)

	flightGroup := apiGroup.Group("/flights")
	flightGroup.GET("/:fid", flightController.GetFlightSchedule, jwtMiddleware)
	flightGroup.PUT("/:fid/status", flightController.UpdateFlightStatus, jwtMiddleware)

	auditLogGroup := apiGroup.Group("/audits")
	auditLogGroup.GET("", auditLogController.GetAuditLogs, jwtMiddleware)

	apiGroup.GET("/ws", hub.Handler(eventOperation), wsJwtMiddleware)

	if httpConfig.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return e
}

func StartHttpServer(applicationContent *ApplicationContent) {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()
	httpConfig := config.Server.HttpServer

	hub := realtime.NewHub(logger)
	go hub.Run()
	applicationContent.Cleaner().Add(realtime.NewHubShutdownCallback(hub))

	collector := metrics.NewMetrics(prometheus.DefaultRegisterer)
	e := NewHttpServer(applicationContent, hub, collector, prometheus.DefaultGatherer)

	applicationContent.Cleaner().Add(NewHttpServerShutdownCallback(e))

	protocol := "http"
	if httpConfig.SSL.Enable {
		protocol = "https"
	}
	logger.InfoF("Starting %s server on %s", protocol, httpConfig.Address)
	logger.InfoF("Rate limit: %d requests per %v",
		httpConfig.Limits.RateLimit,
		httpConfig.Limits.RateLimitDuration)

	var err error
	if httpConfig.SSL.Enable {
		err = e.StartTLS(
			httpConfig.Address,
			httpConfig.SSL.CertFile,
			httpConfig.SSL.KeyFile,
		)
	} else {
		err = e.Start(httpConfig.Address)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.FatalF("Http server error: %v", err)
	}
}
