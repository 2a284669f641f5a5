package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// runAuthed sends a request through JWTAuth into a handler that echoes
// back what the middleware stored in the context.
func runAuthed(t *testing.T, authHeader string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	seen := make(map[string]interface{})
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		seen["user_id"] = c.Get("user_id")
		seen["role"] = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec, seen
}

func TestJWTAuthStoresHolderIdentity(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-42",
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	rec, seen := runAuthed(t, "Bearer "+tok)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", seen["user_id"])
	assert.Equal(t, "customer", seen["role"])
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runAuthed(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-42"})
	rec, _ := runAuthed(t, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsNonStringSubject(t *testing.T) {
	// A numeric sub would otherwise surface as float64 and never match
	// any hold's token on release.
	tok := signToken(t, testSecret, jwt.MapClaims{"sub": 42})
	rec, _ := runAuthed(t, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	rec, _ := runAuthed(t, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole("admin")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "admin")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "customer")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No role claim at all.
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
