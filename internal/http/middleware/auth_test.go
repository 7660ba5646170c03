package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightsurety/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relaySet map[domain.Principal]bool

func (r relaySet) IsAuthorizedCaller(p domain.Principal) bool { return r[p] }

func newAuthRouter(secret []byte, relays CallerAuthorizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Auth(secret, relays))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"principal": GetPrincipal(c), "relay": GetRelay(c)})
	})
	return r
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	secret := []byte("test-secret")
	r := newAuthRouter(secret, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := IssueToken([]byte("other-secret"), "0xpax", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := IssueToken(secret, "0xpax", -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSetsPrincipalAndRelay(t *testing.T) {
	secret := []byte("test-secret")
	r := newAuthRouter(secret, relaySet{"0xapp": true})

	tok, err := IssueToken(secret, "0xPAX", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"principal":"0xpax"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// unauthorized relay
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set(OnBehalfOfHeader, "0xother")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	app, err := IssueToken(secret, "0xapp", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+app)
	req.Header.Set(OnBehalfOfHeader, "0xPAX")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"principal":"0xpax"`)
	assert.Contains(t, w.Body.String(), `"relay":"0xapp"`)
}

func TestRequireOwner(t *testing.T) {
	secret := []byte("test-secret")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Auth(secret, relaySet{"0xowner": true}))
	r.PUT("/admin", RequireOwner("0xowner"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(as domain.Principal, relay string) int {
		tok, err := IssueToken(secret, as, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		if relay != "" {
			req.Header.Set(OnBehalfOfHeader, relay)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("0xowner", ""))
	assert.Equal(t, http.StatusForbidden, send("0xpax", ""))
	assert.Equal(t, http.StatusForbidden, send("0xowner", "0xpax"))
}
