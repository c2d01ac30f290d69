package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator accepts only the tokens it was given.
type testTokenValidator struct {
	valid map[string]string
}

func (v *testTokenValidator) ValidateToken(token string) (SubjectGetter, error) {
	subject, ok := v.valid[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return testClaims(subject), nil
}

type testClaims string

func (c testClaims) GetSubject() (string, error) { return string(c), nil }

func newValidator() *testTokenValidator {
	return &testTokenValidator{valid: map[string]string{
		"good":  "admin@example.com",
		"blank": "",
	}}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "extra parts", header: "Bearer good extra", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "empty subject", header: "Bearer blank", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string
			handler := AuthMiddleware(newValidator())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject, ok := Subject(r)
				require.True(t, ok)
				gotSubject = subject
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "admin@example.com", gotSubject)
				return
			}
			assert.Empty(t, gotSubject)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := Authenticate(newValidator(), req)
	assert.ErrorIs(t, err, ErrNoToken)

	req.Header.Set("Authorization", "Bearer good")
	subject, err := Authenticate(newValidator(), req)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", subject)
}

func TestSubject_Missing(t *testing.T) {
	_, ok := Subject(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSubject(req.Context(), "x"))
	subject, ok := Subject(req)
	assert.True(t, ok)
	assert.Equal(t, "x", subject)
}
