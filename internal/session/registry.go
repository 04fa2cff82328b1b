package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
)

var ErrInvalidToken = errors.New("gitlab token is empty or a placeholder")

// Session is an authenticated GitLab client owned by one chat. Sessions live
// for the whole process and are never invalidated.
type Session struct {
	ChatID    int64
	API       gitlab.API
	User      gitlab.User
	CreatedAt time.Time
}

type Registry struct {
	auth gitlab.Authenticator
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewRegistry(auth gitlab.Authenticator) *Registry {
	return &Registry{
		auth:     auth,
		now:      time.Now,
		sessions: make(map[int64]*Session),
	}
}

func (r *Registry) Initialize(ctx context.Context, chatID int64, token string) (*Session, error) {
	if !config.IsUsableGitLabToken(token) {
		slog.Error("invalid gitlab token", "chat_id", chatID)
		return nil, ErrInvalidToken
	}
	api, user, err := r.auth.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, gitlab.ErrUnauthorized) {
			slog.Error("gitlab authentication failed", "chat_id", chatID)
		} else {
			slog.Error("gitlab client initialization failed", "chat_id", chatID, "error", err)
		}
		return nil, err
	}

	s := &Session{ChatID: chatID, API: api, CreatedAt: r.now()}
	if user != nil {
		s.User = *user
	}
	r.mu.Lock()
	r.sessions[chatID] = s
	r.mu.Unlock()
	slog.Info("gitlab client initialized", "chat_id", chatID, "gitlab_user", s.User.Username)
	return s, nil
}

func (r *Registry) Lookup(chatID int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[chatID]
	return s, ok
}

// InitializeAll authenticates every chat that has a usable token. Chats with
// placeholder or empty tokens are skipped and counted in neither result.
func (r *Registry) InitializeAll(ctx context.Context, dir *config.ChatDirectory) (initialized, failed int) {
	for _, chatID := range dir.ChatIDs() {
		c, _ := dir.Lookup(chatID)
		if !c.HasUsableToken() {
			continue
		}
		if _, err := r.Initialize(ctx, chatID, c.GitLabToken); err != nil {
			failed++
			continue
		}
		initialized++
	}
	return initialized, failed
}

// Probe authenticates the token without storing a session.
func (r *Registry) Probe(ctx context.Context, token string) (*gitlab.User, error) {
	if !config.IsUsableGitLabToken(token) {
		return nil, ErrInvalidToken
	}
	_, user, err := r.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return user, nil
}
