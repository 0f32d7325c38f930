package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/pkg/app"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	"github.com/haierkeys/fast-drive-service/pkg/limiter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func codeOf(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Code
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware(true, ""))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), GetTraceID(c.Request.Context()))
		c.String(http.StatusOK, GetTraceIDFromGin(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(DefaultTraceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultTraceIDHeader, "fixed-id")
	w = serve(r, req)
	assert.Equal(t, "fixed-id", w.Body.String())

	off := gin.New()
	off.Use(TraceMiddleware(false, ""))
	off.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetTraceIDFromGin(c)) })
	w = serve(off, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Body.String())
	assert.Empty(t, GetTraceID(nil))
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k"})
	token, err := tm.Generate(7, "a@example.com", "A", "127.0.0.1")
	require.NoError(t, err)

	r := gin.New()
	r.Use(UserAuthTokenWithConfig("k"))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%d", app.GetUID(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.ErrorNotUserAuthToken.Code(), codeOf(t, w))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = serve(r, req)
	assert.Equal(t, code.ErrorInvalidUserAuthToken.Code(), codeOf(t, w))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/?token="+token, nil))
	assert.Equal(t, "7", w.Body.String())
}

func TestSimpleAuthToken(t *testing.T) {
	open := gin.New()
	open.Use(SimpleAuthTokenWithConfig(""))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, serve(open, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	guarded := gin.New()
	guarded.Use(SimpleAuthTokenWithConfig("secret"))
	guarded.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusUnauthorized, serve(guarded, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusNoContent, serve(guarded, httptest.NewRequest(http.MethodGet, "/?authorization=secret", nil)).Code)
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key:          "/limited",
		FillInterval: time.Hour,
		Capacity:     1,
		Quantum:      1,
	})
	r := gin.New()
	r.Use(RateLimiter(l))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/free", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, code.ErrorTooManyRequests.Code(), codeOf(t, w))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/free", nil)).Code)
	}
}

func TestRecoveryWithLogger(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()))
	r.GET("/err", func(c *gin.Context) { panic(http.ErrAbortHandler) })
	r.GET("/str", func(c *gin.Context) { panic("boom") })
	r.GET("/any", func(c *gin.Context) { panic(42) })

	for _, p := range []string{"/err", "/str", "/any"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, p)
		assert.Equal(t, code.ErrorServerInternal.Code(), codeOf(t, w), p)
	}
}

func TestContextTimeoutAndAppInfo(t *testing.T) {
	r := gin.New()
	r.Use(AppInfo("drive", "1.2.3"), ContextTimeout(time.Minute))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.Equal(t, "drive", c.GetString("app_name"))
		c.Status(http.StatusNoContent)
	})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "1.2.3", w.Header().Get("X-App-Version"))
}

func TestLangWithTranslator(t *testing.T) {
	uni := ut.New(en.New(), en.New(), zh.New())
	r := gin.New()
	r.Use(LangWithTranslator(uni))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(app.ContextKeyLang))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	assert.Equal(t, code.LangZhCN, serve(r, req).Body.String())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	assert.Equal(t, code.NormalizeLang("en"), w.Body.String())
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound())
	w := serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContextTimeout_Expired(t *testing.T) {
	r := gin.New()
	r.Use(ContextTimeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, code.ErrorRequestTimeout.Code(), codeOf(t, w))
}
