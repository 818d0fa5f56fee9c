package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
	"github.com/JavierCodely/sistema-educativo/pkg/logger"
)

type fakeValidator struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (f *fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	f.seen = token
	return f.claims, f.err
}

type fakeObserver struct {
	mu     sync.Mutex
	method string
	path   string
	status int
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.method, f.path, f.status = method, path, status
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{
		Role:             models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id},
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", handlers...)
	return r
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	r := newRouter(JWT(&fakeValidator{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	validator := &fakeValidator{claims: studentClaims("stu-1")}
	r := newRouter(JWT(validator), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, validator.seen)
}

func TestJWTPropagatesValidationError(t *testing.T) {
	validator := &fakeValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "token expired")}
	r := newRouter(JWT(validator), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestJWTAttachesClaimsAndSubject(t *testing.T) {
	validator := &fakeValidator{claims: studentClaims("stu-1")}
	var subject string
	var claims *models.JWTClaims
	r := newRouter(JWT(validator), func(c *gin.Context) {
		subject = c.GetString(logger.SubjectKey)
		value, _ := c.Get(ContextUserKey)
		claims, _ = value.(*models.JWTClaims)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", validator.seen)
	assert.Equal(t, "stu-1", subject)
	require.NotNil(t, claims)
	assert.Equal(t, "stu-1", claims.StudentID())
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	validator := &fakeValidator{err: appErrors.ErrUnauthorized}
	var attached bool
	r := newRouter(OptionalJWT(validator), func(c *gin.Context) {
		_, attached = c.Get(ContextUserKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, attached)
}

func TestRequireRoles(t *testing.T) {
	withClaims := func(claims *models.JWTClaims) gin.HandlerFunc {
		return func(c *gin.Context) {
			if claims != nil {
				c.Set(ContextUserKey, claims)
			}
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	preceptor := studentClaims("p-1")
	preceptor.Role = models.RolePreceptor

	cases := []struct {
		name   string
		claims *models.JWTClaims
		status int
	}{
		{name: "no claims", claims: nil, status: http.StatusUnauthorized},
		{name: "student", claims: studentClaims("stu-1"), status: http.StatusOK},
		{name: "other role", claims: preceptor, status: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(withClaims(tc.claims), RequireRoles(models.RoleStudent), ok)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestMetricsUsesMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/subjects/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects/6", nil))

	assert.Equal(t, http.MethodGet, observer.method)
	assert.Equal(t, "/subjects/:id", observer.path)
	assert.Equal(t, http.StatusTeapot, observer.status)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, "unmatched", observer.path)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/meta", func(c *gin.Context) {
		SetMeta(c, "count", 3)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/meta", nil))

	require.NotNil(t, meta)
	assert.Equal(t, 3, meta["count"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestResponseMetaWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ResponseMeta(c))
	assert.Nil(t, ResponseMeta(nil))
}
