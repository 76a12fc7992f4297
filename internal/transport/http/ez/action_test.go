package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamblog/internal/domain"
	mdw "streamblog/internal/transport/http/middleware"
	resp "streamblog/internal/transport/http/response"
	"streamblog/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestWriteErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrNotAuthenticated, resp.CodeUnauthorized},
		{fmt.Errorf("post %q: %w", "x", domain.ErrForbidden), resp.CodeForbidden},
		{fmt.Errorf("post %q: %w", "x", domain.ErrNotFound), resp.CodeNotFound},
		{domain.Invalid("title", "is required"), resp.CodeBadRequest},
		{NotFound("nope"), resp.CodeNotFound},
		{errors.New("disk on fire"), resp.CodeServerError},
	}
	for _, tc := range cases {
		r := gin.New()
		err := tc.err
		RegisterAction(New(r.Group("")), Action[struct{}, string]{
			Method:  http.MethodGet,
			Path:    "/x",
			Binder:  BindNone,
			Handler: func(*gin.Context, *struct{}) (string, error) { return "", err },
		})
		env := do(t, r, http.MethodGet, "/x", "")
		assert.Equal(t, tc.code, env.Code, tc.err.Error())
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	r := gin.New()
	RegisterAction(New(r.Group("")), Action[struct{}, string]{
		Method:  http.MethodGet,
		Path:    "/x",
		Handler: func(*gin.Context, *struct{}) (string, error) { return "", errors.New("dsn=postgres://secret") },
	})
	env := do(t, r, http.MethodGet, "/x", "")
	assert.Equal(t, resp.CodeServerError, env.Code)
	assert.NotContains(t, env.Msg, "secret")
}

func TestValidationDetails(t *testing.T) {
	type in struct {
		Title string `json:"title" binding:"required"`
	}
	r := gin.New()
	RegisterAction(New(r.Group("")), Action[in, string]{
		Method:  http.MethodPost,
		Path:    "/x",
		Binder:  BindJSON,
		Handler: func(*gin.Context, *in) (string, error) { return "ok", nil },
	})

	env := do(t, r, http.MethodPost, "/x", `{}`)
	assert.Equal(t, resp.CodeBadRequest, env.Code)
	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Contains(t, details, "title")

	env = do(t, r, http.MethodPost, "/x", `{"title":"hi"}`)
	assert.Equal(t, resp.CodeOK, env.Code)
	assert.JSONEq(t, `"ok"`, string(env.Data))
}

func TestAuthAndRoles(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(mdw.KeyUserID, uid)
			c.Set(mdw.KeyRole, c.GetHeader("X-Test-Role"))
		}
	})
	g := New(r.Group(""))
	RegisterAction(g, Action[struct{}, *domain.Actor]{
		Method:  http.MethodGet,
		Path:    "/me",
		Auth:    true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Actor, error) { return Actor(c), nil },
	})
	RegisterAction(g, Action[struct{}, string]{
		Method:  http.MethodGet,
		Path:    "/staff",
		Roles:   []string{domain.RoleStaff},
		Handler: func(*gin.Context, *struct{}) (string, error) { return "ok", nil },
	})

	assert.Equal(t, resp.CodeUnauthorized, do(t, r, http.MethodGet, "/me", "").Code)

	call := func(path, role string) envelope {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Test-User", "u1")
		req.Header.Set("X-Test-Role", role)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return env
	}
	env := call("/me", domain.RoleUser)
	assert.Equal(t, resp.CodeOK, env.Code)
	assert.JSONEq(t, `{"ID":"u1","Staff":false}`, string(env.Data))

	assert.Equal(t, resp.CodeForbidden, call("/staff", domain.RoleUser).Code)
	assert.Equal(t, resp.CodeOK, call("/staff", domain.RoleStaff).Code)
}
