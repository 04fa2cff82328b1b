package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/foxseedlab/pipelinebot/internal/config"
	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/foxseedlab/pipelinebot/internal/session"
)

type tokenAuthenticator map[string]error

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (gitlab.API, *gitlab.User, error) {
	if err := a[token]; err != nil {
		return nil, nil, err
	}
	return nil, &gitlab.User{Username: "user-" + token}, nil
}

func TestPrintChatStatuses(t *testing.T) {
	chats := config.NewChatDirectory([]config.ChatConfig{
		{ChatID: 3, GitLabToken: "revoked", ProjectID: 30},
		{ChatID: 1, GitLabToken: "good", ProjectID: 10},
		{ChatID: 2, GitLabToken: config.PlaceholderGitLabToken, ProjectID: 20},
		{ChatID: 4, GitLabToken: "offline", ProjectID: 40},
	})
	registry := session.NewRegistry(tokenAuthenticator{
		"revoked": &gitlab.APIError{StatusCode: http.StatusUnauthorized},
		"offline": errors.New("connection refused"),
	})

	var out bytes.Buffer
	printChatStatuses(context.Background(), &out, chats, registry)

	want := "1\tproject=10\tok: user-good\n" +
		"2\tproject=20\tskipped: token not configured\n" +
		"3\tproject=30\tfailed: invalid token\n" +
		"4\tproject=40\tfailed: connection refused\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
	if _, ok := registry.Lookup(1); ok {
		t.Fatal("probing must not create sessions")
	}
}

func TestPrintChatStatuses_Empty(t *testing.T) {
	var out bytes.Buffer
	printChatStatuses(context.Background(), &out, config.NewChatDirectory(nil), session.NewRegistry(tokenAuthenticator{}))
	if out.String() != "no chats configured\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
