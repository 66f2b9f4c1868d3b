package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiterConfig holds the limiter settings.
//
// Rate uses the limiter format, e.g. "100-M", "10-S".
// PerRouteRates overrides the rate for specific routes.
// SkipPaths are prefix-matched, e.g. ["/metrics", "/api/system/health"].
type RateLimiterConfig struct {
	Rate          string            `json:"rate"`
	PerRouteRates map[string]string `json:"per_route_rates"`
	SkipPaths     []string          `json:"skip_paths"`
	AddHeaders    bool              `json:"add_headers"`
	DenyStatus    int               `json:"deny_status"`
	DenyMessage   string            `json:"deny_message"`
}

// MetricsObserver reports limiter decisions, e.g. to Prometheus.
type MetricsObserver interface {
	OnAllow(route string, key string)
	OnDeny(route string, key string)
}

// PrometheusObserver counts allow/deny per route.
type PrometheusObserver struct {
	allow *prometheus.CounterVec
	deny  *prometheus.CounterVec
}

func NewPrometheusObserver() *PrometheusObserver {
	return &PrometheusObserver{
		allow: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_allow_total",
			Help: "Allowed requests by rate limiter",
		}, []string{"route"}),
		deny: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_deny_total",
			Help: "Denied requests by rate limiter",
		}, []string{"route"}),
	}
}

func (p *PrometheusObserver) OnAllow(route, key string) { p.allow.WithLabelValues(route).Inc() }
func (p *PrometheusObserver) OnDeny(route, key string)  { p.deny.WithLabelValues(route).Inc() }

// RateLimiter keys requests by client IP and caches one limiter per rate
// string so per-route overrides do not rebuild state on every request.
type RateLimiter struct {
	cfg            *RateLimiterConfig
	store          limiter.Store
	observer       MetricsObserver
	limitersByRate map[string]*limiter.Limiter
	mu             sync.RWMutex
}

func NewRateLimiter(cfg RateLimiterConfig, store limiter.Store) *RateLimiter {
	if store == nil {
		store = memory.NewStore()
	}
	return &RateLimiter{
		cfg:            &cfg,
		store:          store,
		limitersByRate: make(map[string]*limiter.Limiter),
	}
}

func (l *RateLimiter) WithObserver(observer MetricsObserver) *RateLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = observer
	return l
}

func (l *RateLimiter) UpdateConfig(cfg RateLimiterConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = &cfg
}

func (l *RateLimiter) Config() RateLimiterConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return *l.cfg
}

// Middleware returns the gin middleware.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := l.Config()

		if pathSkipped(cfg, c.FullPath(), c.Request.URL.Path) {
			c.Next()
			return
		}

		key := "ip:" + clientIP(c)
		lim := l.getLimiter(l.pickRate(&cfg, c))

		lctx, err := lim.Get(c, key)
		if err != nil {
			c.Next()
			return
		}
		if cfg.AddHeaders {
			setStandardHeaders(c, lctx)
		}
		if lctx.Reached {
			setRetryAfter(c, time.Until(time.Unix(lctx.Reset, 0)))
			l.report(c, key, false)
			deny(c, cfg)
			return
		}

		l.report(c, key, true)
		c.Next()
	}
}

func (l *RateLimiter) report(c *gin.Context, key string, allowed bool) {
	l.mu.RLock()
	obs := l.observer
	l.mu.RUnlock()
	if obs == nil {
		return
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	if allowed {
		obs.OnAllow(route, key)
	} else {
		obs.OnDeny(route, key)
	}
}

func (l *RateLimiter) getLimiter(rateStr string) *limiter.Limiter {
	l.mu.RLock()
	lim, ok := l.limitersByRate[rateStr]
	l.mu.RUnlock()
	if ok {
		return lim
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok = l.limitersByRate[rateStr]; ok {
		return lim
	}
	r, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		r = limiter.Rate{Period: time.Second, Limit: 10}
	}
	lim = limiter.New(l.store, r)
	l.limitersByRate[rateStr] = lim
	return lim
}

func (l *RateLimiter) pickRate(cfg *RateLimiterConfig, c *gin.Context) string {
	if cfg.PerRouteRates != nil {
		if full := c.FullPath(); full != "" {
			if r, ok := cfg.PerRouteRates[full]; ok && r != "" {
				return r
			}
		}
	}
	if cfg.Rate != "" {
		return cfg.Rate
	}
	return "10-S"
}

func pathSkipped(cfg RateLimiterConfig, fullPath, rawPath string) bool {
	p := fullPath
	if p == "" {
		p = rawPath
	}
	for _, pref := range cfg.SkipPaths {
		if pref != "" && strings.HasPrefix(p, pref) {
			return true
		}
	}
	return false
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	return strings.TrimPrefix(ip, "::ffff:")
}

func setStandardHeaders(c *gin.Context, ctx limiter.Context) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
	resetSec := int(time.Until(time.Unix(ctx.Reset, 0)).Seconds())
	if resetSec < 0 {
		resetSec = 0
	}
	c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
}

func setRetryAfter(c *gin.Context, d time.Duration) {
	sec := int(d.Seconds())
	if sec < 0 {
		sec = 0
	}
	c.Header("Retry-After", strconv.Itoa(sec))
}

func deny(c *gin.Context, cfg RateLimiterConfig) {
	status := cfg.DenyStatus
	if status == 0 {
		status = http.StatusTooManyRequests
	}
	msg := cfg.DenyMessage
	if msg == "" {
		msg = "Too Many Requests"
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
