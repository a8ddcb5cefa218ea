package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/handlers"
)

// MockDBService is a mock implementation of database.Service for testing
type MockDBService struct{}

func (m *MockDBService) Health() map[string]string {
	return map[string]string{"message": "Mock DB is healthy"}
}

func (m *MockDBService) Client() *mongo.Client {
	return nil
}

func (m *MockDBService) Close() error {
	return nil
}

func TestHandler(t *testing.T) {
	s := &Server{}
	s.db = &MockDBService{}
	ch := handlers.NewCommonHandler(s.db)
	server := httptest.NewServer(http.HandlerFunc(ch.HelloWorldHandler))
	defer server.Close()
	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("error making request to server. Err: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}
	expected := "{\"message\":\"University Directory API\"}"
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("error reading response body. Err: %v", err)
	}
	if expected != string(body) {
		t.Errorf("expected response body to be %v; got %v", expected, string(body))
	}
}

// Routes are registered once: the prometheus middleware registers its
// collectors in the default registry and a second RegisterRoutes call
// would panic on duplicates.
func TestRegisterRoutes(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	s := &Server{db: &MockDBService{}}
	server := httptest.NewServer(s.RegisterRoutes())
	defer server.Close()

	t.Run("metrics endpoint", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		if err != nil {
			t.Fatalf("error making request to server. Err: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status OK; got %v", resp.Status)
		}
	})

	t.Run("protected routes reject anonymous requests", func(t *testing.T) {
		paths := []string{
			"/api/admin/stats",
			"/api/admin/users",
			"/api/applications",
			"/api/auth/me",
		}
		for _, path := range paths {
			resp, err := http.Get(server.URL + path)
			if err != nil {
				t.Fatalf("error making request to %s. Err: %v", path, err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401 for %s; got %v", path, resp.Status)
			}
		}
	})
}
