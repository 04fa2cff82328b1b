package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
)

type stubAPI struct {
	gitlab.API
	token string
}

type mockAuthenticator struct {
	calls  []string
	errors map[string]error
}

func (m *mockAuthenticator) Authenticate(_ context.Context, token string) (gitlab.API, *gitlab.User, error) {
	m.calls = append(m.calls, token)
	if err := m.errors[token]; err != nil {
		return nil, nil, err
	}
	return &stubAPI{token: token}, &gitlab.User{ID: 1, Username: "user-" + token}, nil
}

func TestInitialize_RejectsPlaceholderWithoutNetworkCall(t *testing.T) {
	auth := &mockAuthenticator{}
	r := NewRegistry(auth)

	for _, token := range []string{"", config.PlaceholderGitLabToken} {
		if _, err := r.Initialize(context.Background(), 1, token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
	if len(auth.calls) != 0 {
		t.Fatalf("expected no authentication calls, got %d", len(auth.calls))
	}
	if _, ok := r.Lookup(1); ok {
		t.Fatal("expected no session to be stored")
	}
}

func TestInitialize_StoresSessionOnSuccess(t *testing.T) {
	r := NewRegistry(&mockAuthenticator{})

	s, err := r.Initialize(context.Background(), 42, "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ChatID != 42 || s.User.Username != "user-good" {
		t.Fatalf("unexpected session: %+v", s)
	}
	got, ok := r.Lookup(42)
	if !ok || got != s {
		t.Fatal("expected stored session to be returned by lookup")
	}
	if _, ok := r.Lookup(43); ok {
		t.Fatal("sessions must not be shared between chats")
	}
}

func TestInitialize_AuthFailureStoresNothing(t *testing.T) {
	auth := &mockAuthenticator{errors: map[string]error{
		"bad": &gitlab.APIError{StatusCode: http.StatusUnauthorized},
	}}
	r := NewRegistry(auth)

	_, err := r.Initialize(context.Background(), 1, "bad")
	if !errors.Is(err, gitlab.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, ok := r.Lookup(1); ok {
		t.Fatal("expected no session after failed authentication")
	}
}

func TestInitializeAll_CountsAndSkipsPlaceholders(t *testing.T) {
	auth := &mockAuthenticator{errors: map[string]error{
		"broken": errors.New("dial tcp: connection refused"),
	}}
	r := NewRegistry(auth)
	dir := config.NewChatDirectory([]config.ChatConfig{
		{ChatID: 1, GitLabToken: "good", ProjectID: 10},
		{ChatID: 2, GitLabToken: "broken", ProjectID: 20},
		{ChatID: 3, GitLabToken: config.PlaceholderGitLabToken, ProjectID: 30},
		{ChatID: 4, GitLabToken: "", ProjectID: 40},
	})

	initialized, failed := r.InitializeAll(context.Background(), dir)
	if initialized != 1 || failed != 1 {
		t.Fatalf("expected 1 initialized and 1 failed, got %d and %d", initialized, failed)
	}
	if len(auth.calls) != 2 {
		t.Fatalf("expected two authentication calls, got %d", len(auth.calls))
	}
	if _, ok := r.Lookup(1); !ok {
		t.Fatal("expected chat 1 to be initialized")
	}
}

func TestProbe_DoesNotStore(t *testing.T) {
	r := NewRegistry(&mockAuthenticator{})

	user, err := r.Probe(context.Background(), "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "user-good" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if _, ok := r.Lookup(0); ok {
		t.Fatal("probe must not store a session")
	}
	if _, err := r.Probe(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
