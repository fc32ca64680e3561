package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

const testSecret = "test-secret"

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(GetUserID(r.Context())))
}

func TestAuth_ValidToken(t *testing.T) {
	token, exp, err := IssueToken(testSecret, model.TelegramUser{ID: 42, Username: "aziz"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	h := Auth(testSecret, true)(http.HandlerFunc(echoUser))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}

func TestAuth_Optional(t *testing.T) {
	h := Auth(testSecret, false)(http.HandlerFunc(echoUser))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAuth_Rejections(t *testing.T) {
	expired, _, err := IssueToken(testSecret, model.TelegramUser{ID: 1}, -time.Minute)
	require.NoError(t, err)
	otherSecret, _, err := IssueToken("other", model.TelegramUser{ID: 1}, time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "iss": tokenIssuer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		header   string
		required bool
	}{
		"missing when required": {"", true},
		"wrong scheme":          {"Basic abc", false},
		"garbage":               {"Bearer abc.def.ghi", false},
		"expired":               {"Bearer " + expired, false},
		"other secret":          {"Bearer " + otherSecret, false},
		"none algorithm":        {"Bearer " + noneAlg, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := Auth(testSecret, tc.required)(http.HandlerFunc(echoUser))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireSelf(t *testing.T) {
	token, _, err := IssueToken(testSecret, model.TelegramUser{ID: 42}, time.Hour)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(Auth(testSecret, false))
	r.With(RequireSelf("userId")).Get("/cart/{userId}", echoUser)

	do := func(path, bearer string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/cart/42", token))
	assert.Equal(t, http.StatusForbidden, do("/cart/43", token))
	assert.Equal(t, http.StatusOK, do("/cart/43", ""))
}

func TestLogging_CorrelationID(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Use(Logging(logger.Nop()))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/9", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Correlation-ID"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/9", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestValidation(t *testing.T) {
	assert.NoError(t, ValidateUserID("279058397"))
	assert.Error(t, ValidateUserID(" "))
	assert.Error(t, ValidateUserID(string(make([]byte, 65))))

	assert.NoError(t, ValidateSearch("telefon"))
	assert.Error(t, ValidateSearch("\xff"))

	assert.NoError(t, ValidateChatText("Menga telefon kerak"))
	assert.Error(t, ValidateChatText("   "))

	assert.Error(t, ValidateItemID(""))
}
