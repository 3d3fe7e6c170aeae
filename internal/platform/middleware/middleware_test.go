package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/requestcontext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *MiddlewareSuite) serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func (s *MiddlewareSuite) TestRequireAuth() {
	var gotActor, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor = requestcontext.ActorID(r.Context())
		gotRole = requestcontext.Role(r.Context())
	})

	s.Run("missing header", func() {
		h := RequireAuth(stubValidator{}, s.logger)(next)
		rr := s.serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("invalid token", func() {
		h := RequireAuth(stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "invalid token")}, s.logger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rr := s.serve(h, req)
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Contains(rr.Body.String(), "Invalid or expired token")
	})

	s.Run("valid token sets actor", func() {
		h := RequireAuth(stubValidator{claims: &JWTClaims{Subject: "admin@dgi", Role: RoleAdmin}}, s.logger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := s.serve(h, req)
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("admin@dgi", gotActor)
		s.Equal(RoleAdmin, gotRole)
	})
}

func (s *MiddlewareSuite) TestRequireRole() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RequireRole(s.logger, RoleAdmin)(ok)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = req.WithContext(requestcontext.WithActor(req.Context(), "sup@dgi", RoleSupervisor))
	s.Equal(http.StatusForbidden, s.serve(h, req).Code)

	req = req.WithContext(requestcontext.WithActor(req.Context(), "admin@dgi", RoleAdmin))
	s.Equal(http.StatusOK, s.serve(h, req).Code)
}

func (s *MiddlewareSuite) TestRequestID() {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	rr := s.serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	s.NotEmpty(seen)
	s.Equal(seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-1")
	rr = s.serve(h, req)
	s.Equal("upstream-1", seen)
	s.Equal("upstream-1", rr.Header().Get("X-Request-ID"))
}

func (s *MiddlewareSuite) TestRecovery() {
	h := Recovery(s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("nil map"))
	}))
	rr := s.serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Equal(http.StatusInternalServerError, rr.Code)
	s.Contains(rr.Body.String(), "internal_error")
}

func (s *MiddlewareSuite) TestTimeoutSetsDeadline() {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	s.serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	s.True(hasDeadline)
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf safeBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusTeapot, rr.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/health"`)
}

type safeBuffer struct{ b []byte }

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.b = append(s.b, p...)
	return len(p), nil
}

func (s *safeBuffer) String() string { return string(s.b) }
