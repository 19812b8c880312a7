package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/metrics"
)

func newAuthenticator(t *testing.T) (*auth.Authenticator, string) {
	t.Helper()
	v, err := auth.NewJWTValidator("secret", "omnipos-auth")
	require.NoError(t, err)
	token, err := v.IssueToken(auth.UserContext{MerchantID: "m1", UserID: "u1", Role: auth.RoleSeller}, time.Hour)
	require.NoError(t, err)
	return auth.NewAuthenticator(v, false), token
}

func TestAuthenticateHTTP(t *testing.T) {
	a, token := newAuthenticator(t)
	var got auth.UserContext
	h := Authenticate(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"UNAUTHORIZED"`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "m1", got.MerchantID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Merchant-ID", "m2")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoggerRecordsRoutePattern(t *testing.T) {
	m := metrics.NewCollector("test")
	r := chi.NewRouter()
	r.Use(Logger(logger.NewNop(), m))
	r.Get("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/categories/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/categories/{id}", "418")))
}

func TestContextInterceptor(t *testing.T) {
	a, token := newAuthenticator(t)
	interceptor := ContextInterceptor(a)
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}

	var got auth.UserContext
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = auth.FromContext(ctx)
		return "ok", nil
	}

	_, err := interceptor(context.Background(), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	resp, err := interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, auth.RoleSeller, got.Role)
}

func TestLoggingAndRecoveryInterceptors(t *testing.T) {
	m := metrics.NewCollector("test")
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Boom"}
	chain := func(ctx context.Context, req interface{}) (interface{}, error) {
		return RecoveryInterceptor(logger.NewNop())(ctx, req, info, func(context.Context, interface{}) (interface{}, error) {
			panic("boom")
		})
	}

	_, err := LoggingInterceptor(logger.NewNop(), m)(context.Background(), nil, info, chain)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GRPCRequests.WithLabelValues("/svc/Boom", "Internal")))
}
