package acceptance

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/customerrecords/api"
	"github.com/semanticallynull/customerrecords/customer"
	"github.com/semanticallynull/customerrecords/internal/o11y"
)

type TestServer struct {
	DB     *sqlx.DB
	Repo   *customer.Repository
	Router *gin.Engine
}

// NewTestServer runs the API against the Postgres database named by
// DATABASE_URL. The suite is skipped when no database is configured.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	repo := customer.NewRepository(db, 5*time.Second)
	if err := repo.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("failed to create customers collection: %v", err)
	}

	// Clean up test data before each test
	if _, err := db.Exec("DELETE FROM customers"); err != nil {
		t.Fatalf("failed to clean customers: %v", err)
	}

	a := api.New(customer.NewService(repo), o11y.Discard(), api.Config{})

	return &TestServer{
		DB:     db,
		Repo:   repo,
		Router: a.Router(),
	}
}

func (ts *TestServer) Close() {
	ts.DB.Close()
}

func (ts *TestServer) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) GET(path string) *httptest.ResponseRecorder {
	return ts.do(http.MethodGet, path, nil)
}

func (ts *TestServer) DELETE(path string) *httptest.ResponseRecorder {
	return ts.do(http.MethodDelete, path, nil)
}

// POSTCustomer sends c the way the web client does: serialized, then
// wrapped in a JSON string.
func (ts *TestServer) POSTCustomer(t *testing.T, c customer.Customer) string {
	t.Helper()
	inner, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("failed to marshal customer: %v", err)
	}
	body, err := json.Marshal(string(inner))
	if err != nil {
		t.Fatalf("failed to wrap customer: %v", err)
	}
	w := ts.do(http.MethodPost, "/customer", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	return w.Body.String()
}

// FindByName looks the customer up directly in the collection.
func (ts *TestServer) FindByName(t *testing.T, name string) *customer.Customer {
	t.Helper()
	var found *customer.Customer
	err := ts.Repo.Session(context.Background(), func(s customer.Session) error {
		c, err := s.FindByIDOrName(context.Background(), "", name)
		if err != nil {
			return err
		}
		found = &c
		return nil
	})
	if err != nil && !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("failed to query customers: %v", err)
	}
	return found
}
