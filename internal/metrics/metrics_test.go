package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CommentCreated("newComment")
	m.CommentCreated("newComment")
	m.CommentCreated("newReply")
	m.EventDelivered("newReply")
	m.EventDropped()
	m.SetSubscribers(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commentsCreated.WithLabelValues("newComment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commentsCreated.WithLabelValues("newReply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.broadcastEvents.WithLabelValues("newReply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.broadcastDropped))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.subscribers))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/comments/:articleId", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comments/post-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/api/comments/:articleId",status_code="200"} 1`), body)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
