package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contextPkg "MedlyChatbot/pkg/context"
	jwtPkg "MedlyChatbot/pkg/jwt"
	"MedlyChatbot/pkg/utils"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(config Config) Middleware {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, config, jwtPkg.New([]byte("secret"), time.Hour), utils.New())
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddleware(Config{})
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(contextPkg.LocalRequestID)
	assert.Len(t, generated, 26)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, generated, string(body))

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(contextPkg.LocalRequestID, "client-supplied")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-supplied", resp.Header.Get(contextPkg.LocalRequestID))
}

func TestGetRequestIDUnknown(t *testing.T) {
	m := newTestMiddleware(Config{})
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "unknown", string(body))
}

func TestRateLimiter(t *testing.T) {
	m := newTestMiddleware(Config{RateLimit: 0.001, RateBurst: 2})
	app := fiber.New()
	app.Post("/chat", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/chat", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, codes)
}

func TestRateLimiterBucketsPerIP(t *testing.T) {
	r := newRateLimiter(1, 1)

	a := r.GetLimiterFrom("10.0.0.1")
	assert.Same(t, a, r.GetLimiterFrom("10.0.0.1"))
	assert.NotSame(t, a, r.GetLimiterFrom("10.0.0.2"))
}

type sessionPayload struct {
	Sid   string `json:"sid"`
	Token string `json:"token"`
}

func TestSessionMiddleware(t *testing.T) {
	m := newTestMiddleware(Config{})
	app := fiber.New()
	app.Get("/", m.NewSessionMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sid":   m.GetSessionID(c),
			"token": m.GetIssuedToken(c),
		})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	var first sessionPayload
	require.NoError(t, decode(resp.Body, &first))
	assert.NotEmpty(t, first.Sid)
	assert.NotEmpty(t, first.Token)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+first.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var second sessionPayload
	require.NoError(t, decode(resp.Body, &second))
	assert.Equal(t, first.Sid, second.Sid)
	assert.Empty(t, second.Token)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/?token="+first.Token, nil))
	require.NoError(t, err)
	var third sessionPayload
	require.NoError(t, decode(resp.Body, &third))
	assert.Equal(t, first.Sid, third.Sid)
}

func decode(body io.Reader, v interface{}) error {
	return jsoniter.NewDecoder(body).Decode(v)
}

func TestCORSPreflightIsOK(t *testing.T) {
	m := newTestMiddleware(Config{CORSOrigins: []string{"https://mymedly.in"}})
	app := fiber.New()
	app.Use(m.NewCORSMiddleware())
	app.Post("/chat", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(fiber.MethodOptions, "/chat", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://mymedly.in")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "Content-Type")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://mymedly.in", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), fiber.MethodPost)

	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestCORSUnknownOrigin(t *testing.T) {
	m := newTestMiddleware(Config{CORSOrigins: []string{"https://mymedly.in"}})
	app := fiber.New()
	app.Use(m.NewCORSMiddleware())
	app.Post("/chat", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(fiber.MethodPost, "/chat", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://evil.example")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestSanitizeRequestBody(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := sanitizeRequestBody([]byte(`{"message":"` + long + `","token":"abc"}`))

	assert.Contains(t, got, `"token":"[SECRET]"`)
	assert.NotContains(t, got, long)
	assert.Contains(t, got, "...")

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody([]byte("message=hi")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "₹7...", truncate("₹799", 2))
}

func TestLoggingMiddlewareStatus(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	m := New(logger, Config{}, jwtPkg.New([]byte("secret"), time.Hour), utils.New())

	app := fiber.New()
	app.Use(m.NewLoggingMiddleware())
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/upgrade", func(c *fiber.Ctx) error {
		return fiber.ErrUpgradeRequired
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	app.Get("/unavailable", func(c *fiber.Ctx) error {
		return fiber.ErrServiceUnavailable
	})

	cases := []struct {
		path   string
		status int
		level  logrus.Level
		msg    string
	}{
		{"/ok", fiber.StatusOK, logrus.InfoLevel, "Success"},
		{"/missing", fiber.StatusNotFound, logrus.WarnLevel, "Client error"},
		{"/upgrade", fiber.StatusUpgradeRequired, logrus.WarnLevel, "Client error"},
		{"/boom", fiber.StatusInternalServerError, logrus.ErrorLevel, "Server error"},
		{"/unavailable", fiber.StatusInternalServerError, logrus.ErrorLevel, "Server error"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			hook.Reset()

			_, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			require.NoError(t, err)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tc.status, entry.Data["status"])
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.msg, entry.Message)
		})
	}
}
