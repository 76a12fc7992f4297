package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"streamblog/internal/core/auth"
	resp "streamblog/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type revokedSet map[string]bool

func (s revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) { return s[jti], nil }

func newJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("k"), Issuer: "streamblog", TTL: time.Hour}
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, resp.Resp) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, resp.OK(gin.H{"uid": c.GetString(KeyUserID), "role": c.GetString(KeyRole)}))
}

func bearer(req *http.Request, tok string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func TestAuthJWT(t *testing.T) {
	j := newJWTer()
	revoked := revokedSet{}
	r := gin.New()
	r.GET("/any", AuthJWT(j, revoked, ""), whoami)
	r.GET("/staff", AuthJWT(j, revoked, "staff"), whoami)

	_, env := serve(r, httptest.NewRequest(http.MethodGet, "/any", nil))
	assert.Equal(t, resp.CodeUnauthorized, env.Code)

	_, env = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/any", nil), "garbage"))
	assert.Equal(t, resp.CodeUnauthorized, env.Code)

	tok, err := j.Issue("u1", "user")
	require.NoError(t, err)
	_, env = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/any", nil), tok))
	assert.Equal(t, resp.CodeOK, env.Code)
	assert.Equal(t, map[string]any{"uid": "u1", "role": "user"}, env.Data)

	_, env = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/staff", nil), tok))
	assert.Equal(t, resp.CodeForbidden, env.Code)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	revoked[claims.ID] = true
	_, env = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/any", nil), tok))
	assert.Equal(t, resp.CodeUnauthorized, env.Code)
	assert.Equal(t, "token revoked", env.Msg)
}

func TestOptionalAuth(t *testing.T) {
	j := newJWTer()
	r := gin.New()
	r.GET("/home", OptionalAuth(j, nil), whoami)

	_, env := serve(r, httptest.NewRequest(http.MethodGet, "/home", nil))
	assert.Equal(t, resp.CodeOK, env.Code)
	assert.Equal(t, map[string]any{"uid": "", "role": ""}, env.Data)

	_, env = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/home", nil), "garbage"))
	assert.Equal(t, resp.CodeUnauthorized, env.Code)

	tok, err := j.Issue("u2", "staff")
	require.NoError(t, err)
	_, env = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/home", nil), tok))
	assert.Equal(t, map[string]any{"uid": "u2", "role": "staff"}, env.Data)
}

func TestRequestIDEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "abc")
	w, _ := serve(r, req)
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	w, _ = serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2))
	r.GET("/x", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	for i := 0; i < 2; i++ {
		_, env := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, resp.CodeOK, env.Code)
	}
	_, env := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, resp.CodeTooManyRequests, env.Code)
}

func TestTimeoutCancelsContext(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	_, env := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, resp.CodeTimeout, env.Code)
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w, env := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.CodeServerError, env.Code)
}

func TestAccessLogMasksSecrets(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	serve(r, httptest.NewRequest(http.MethodGet, "/x?token=abc&page=2", nil))

	entries := logs.FilterMessage("HTTP").All()
	require.Len(t, entries, 1)
	q := entries[0].ContextMap()["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["token"])
	assert.Equal(t, []string{"2"}, q["page"])
}

func TestRequestIDRejectsOversized(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("a", 200))
	w, _ := serve(r, req)
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}
