package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/handlers"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const testUserID = "user-1"

// routerSuite serves the full route table backed by mocked services.
type routerSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
	healthErr error

	accounts  *MockAccountService
	engine    *MockPostingEngine
	documents *MockDocumentService
	journals  *MockJournalReader
	reporting *MockReportingService
}

func (s *routerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.jwtSecret = "test-secret-key-that-is-long-enough"
	s.healthErr = nil

	s.accounts = new(MockAccountService)
	s.engine = new(MockPostingEngine)
	s.documents = new(MockDocumentService)
	s.journals = new(MockJournalReader)
	s.reporting = new(MockReportingService)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: s.jwtSecret, IsProduction: true}, &portssvc.ServiceContainer{
		Account:   s.accounts,
		Posting:   s.engine,
		Documents: s.documents,
		Journal:   s.journals,
		Reporting: s.reporting,
	}, handlers.RouteDeps{
		HealthCheck: func(_ context.Context) error { return s.healthErr },
	})
	s.Require().NoError(err)
}

func (s *routerSuite) TearDownTest() {
	s.accounts.AssertExpectations(s.T())
	s.engine.AssertExpectations(s.T())
	s.documents.AssertExpectations(s.T())
	s.journals.AssertExpectations(s.T())
	s.reporting.AssertExpectations(s.T())
}

func (s *routerSuite) token(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	s.Require().NoError(err)
	return signed
}

// do sends an authenticated request. body may be nil, a string or any JSON-encodable value.
func (s *routerSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+s.token(testUserID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *routerSuite) decodeError(w *httptest.ResponseRecorder) handlers.ErrorResponse {
	var resp handlers.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

var errBoom = errors.New("boom")
