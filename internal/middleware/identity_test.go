package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/activity-booking/internal/config"
)

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestCurrentUserIDFromNumericClaim(t *testing.T) {
	// JSON-decoded JWT claims carry numeric subjects as float64.
	c := testContext()
	c.Set("user_id", float64(42))
	assert.Equal(t, "42", currentUserID(c))
}

func TestCurrentUserIDFromString(t *testing.T) {
	c := testContext()
	c.Set("user_id", "7")
	assert.Equal(t, "7", currentUserID(c))
}

func TestCurrentUserIDAnonymous(t *testing.T) {
	assert.Equal(t, "anon", currentUserID(testContext()))
}

func TestRateKeyUsesAuthenticatedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	c := testContext()
	c.Set("user_id", float64(42))
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))
}
