package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "Total number of HTTP requests processed by the skill-swap service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	swapTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_swap_transitions_total",
			Help: "Total number of swap requests created or moved to a new status.",
		},
		[]string{"status"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillswap_messages_sent_total",
			Help: "Total number of chat messages stored.",
		},
	)
	threadCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_thread_cache_total",
			Help: "Message thread cache lookups by result.",
		},
		[]string{"result"},
	)
	eventPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillswap_event_publish_errors_total",
			Help: "Total number of domain event publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		swapTransitionsTotal,
		messagesSentTotal,
		threadCacheTotal,
		eventPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware 按路由统计请求数与耗时
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 未匹配路由统一归类，避免路径爆炸
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler Prometheus 暴露端点
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// IncSwapTransition 记录交换请求状态变化
func IncSwapTransition(status string) {
	swapTransitionsTotal.WithLabelValues(status).Inc()
}

// IncMessageSent 记录一条新消息
func IncMessageSent() {
	messagesSentTotal.Inc()
}

// IncThreadCache 记录会话缓存命中情况（hit/miss/error）
func IncThreadCache(result string) {
	threadCacheTotal.WithLabelValues(result).Inc()
}

// IncEventPublishError 记录事件发布失败
func IncEventPublishError() {
	eventPublishErrorsTotal.Inc()
}
