package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientcrud/internal/api/dto"
	"github.com/martijn/clientcrud/internal/api/middleware"
	"github.com/martijn/clientcrud/internal/core/domain"
	"github.com/martijn/clientcrud/internal/core/repository"
	"github.com/martijn/clientcrud/internal/core/service"
	"github.com/martijn/clientcrud/internal/infrastructure/sqldb"
	"github.com/sirupsen/logrus"
)

// testEnv holds all test dependencies
type testEnv struct {
	db            *sqldb.DB
	clientRepo    repository.ClientRepository
	router        *gin.Engine
	clientHandler *ClientHandler
}

// setupTestEnv creates a test environment with in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Use in-memory SQLite database
	db, err := sqldb.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	clientRepo := sqldb.NewClientRepository(db)
	clientService := service.NewClientService(clientRepo, log)
	clientHandler := NewClientHandler(clientService)

	// Setup gin router in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(log))

	router.GET("/clients", clientHandler.ListClients)
	router.POST("/clients", clientHandler.SaveClient)
	router.GET("/clients/:id", clientHandler.GetClient)
	router.PUT("/clients/:id", clientHandler.UpdateClient)
	router.DELETE("/clients/:id", clientHandler.DeleteClient)

	return &testEnv{
		db:            db,
		clientRepo:    clientRepo,
		router:        router,
		clientHandler: clientHandler,
	}
}

// cleanup closes the test database
func (env *testEnv) cleanup() {
	if env.db != nil {
		env.db.Close()
	}
}

// seedClient stores a client directly through the repository
func (env *testEnv) seedClient(t *testing.T, client *domain.Client) *domain.Client {
	t.Helper()

	saved, err := env.clientRepo.Save(context.Background(), client)
	if err != nil {
		t.Fatalf("failed to seed client %s: %v", client.Email, err)
	}
	return saved
}

// makeRequest performs a request with an optional JSON body and returns the response
func (env *testEnv) makeRequest(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

func sofia() *domain.Client {
	return domain.NewClient("Sofia Arroyos", "sofiaarroyos@bit.com", "3215673499", "Calle 123 #12-43", "Buenos Aires")
}
