// Package middleware
package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/half-nothing/event-logistics/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

// SlidingWindowLimiter 滑动窗口限流器
type SlidingWindowLimiter struct {
	windowSize     time.Duration
	maxRequests    int
	requestRecords map[string][]time.Time
	mu             sync.Mutex
	stop           chan struct{}
	stopOnce       sync.Once
}

// NewSlidingWindowLimiter 创建滑动窗口限流器
func NewSlidingWindowLimiter(windowSize time.Duration, maxRequests int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windowSize:     windowSize,
		maxRequests:    maxRequests,
		requestRecords: make(map[string][]time.Time),
		stop:           make(chan struct{}),
	}
}

// Allow 检查是否允许请求
func (l *SlidingWindowLimiter) Allow(key string) bool {
	return l.allowAt(key, time.Now())
}

func (l *SlidingWindowLimiter) allowAt(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := now.Add(-l.windowSize)
	records := l.requestRecords[key]
	for len(records) > 0 && !records[0].After(windowStart) {
		records = records[1:]
	}

	if len(records) >= l.maxRequests {
		l.requestRecords[key] = records
		return false
	}

	l.requestRecords[key] = append(records, now)
	return true
}

func (l *SlidingWindowLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.cleanup(time.Now())
			case <-l.stop:
				return
			}
		}
	}()
}

func (l *SlidingWindowLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *SlidingWindowLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := now.Add(-2 * l.windowSize)
	for key, records := range l.requestRecords {
		if len(records) == 0 || records[len(records)-1].Before(threshold) {
			delete(l.requestRecords, key)
		}
	}
}

func (l *SlidingWindowLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requestRecords)
}

type LimiterShutdownCallback struct {
	limiter *SlidingWindowLimiter
}

func NewLimiterShutdownCallback(limiter *SlidingWindowLimiter) *LimiterShutdownCallback {
	return &LimiterShutdownCallback{limiter: limiter}
}

func (lc *LimiterShutdownCallback) Invoke(_ context.Context) error {
	lc.limiter.Stop()
	return nil
}

// RateLimitMiddleware 创建 Echo 限流中间件
func RateLimitMiddleware(limiter *SlidingWindowLimiter, keyFunc func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(keyFunc(c)) {
				return service.NewErrorResponse(c, &service.ErrRateLimited)
			}
			return next(c)
		}
	}
}

// IPKeyFunc 基于客户端IP生成键
func IPKeyFunc(c echo.Context) string {
	return c.RealIP()
}

// EndpointKeyFunc 基于API端点生成键
func EndpointKeyFunc(c echo.Context) string {
	return c.Path()
}

// CombinedKeyFunc 组合IP和端点生成键
func CombinedKeyFunc(c echo.Context) string {
	return c.RealIP() + "|" + c.Path()
}
