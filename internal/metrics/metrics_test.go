package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/drive/path", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/drive/path", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/drive/path?id=x", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/drive/path", "200"))
	assert.Equal(t, before+1, after)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecorders(t *testing.T) {
	RecordMutation("rename", true)
	RecordMutation("rename", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(driveMutationsTotal.WithLabelValues("rename", "error")))

	SetDriveStats(2, 10, 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(driveEntries.WithLabelValues("trashed")))

	AddTrashPurged(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(trashPurgedTotal))
}
