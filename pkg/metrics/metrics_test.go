package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware())
	r.GET("/api/skills", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/skills", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/skills", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/skills", "200"))
	assert.Equal(t, before+1, after)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 1.0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skillswap_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(swapTransitionsTotal.WithLabelValues("accepted"))
	IncSwapTransition("accepted")
	assert.Equal(t, before+1, testutil.ToFloat64(swapTransitionsTotal.WithLabelValues("accepted")))

	sent := testutil.ToFloat64(messagesSentTotal)
	IncMessageSent()
	assert.Equal(t, sent+1, testutil.ToFloat64(messagesSentTotal))

	hits := testutil.ToFloat64(threadCacheTotal.WithLabelValues("hit"))
	IncThreadCache("hit")
	assert.Equal(t, hits+1, testutil.ToFloat64(threadCacheTotal.WithLabelValues("hit")))

	errs := testutil.ToFloat64(eventPublishErrorsTotal)
	IncEventPublishError()
	assert.Equal(t, errs+1, testutil.ToFloat64(eventPublishErrorsTotal))
}
