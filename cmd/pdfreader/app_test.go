package main

import (
	"errors"
	"testing"

	"github.com/thywilljoshua/pdf-reader/internal/config"
	"github.com/thywilljoshua/pdf-reader/internal/profile"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

func TestResolveKey(t *testing.T) {
	env := map[string]string{"GROQ_API_KEY": " gsk_env "}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name    string
		p       profile.Profile
		envName string
		want    string
		wantErr bool
	}{
		{"profile first", profile.Profile{APIKey: "gsk_profile"}, "GROQ_API_KEY", "gsk_profile", false},
		{"environment fallback", profile.Profile{}, "GROQ_API_KEY", "gsk_env", false},
		{"nothing set", profile.Profile{}, "GOOGLE_API_KEY", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveKey(tt.p, tt.envName, getenv)
			if tt.wantErr {
				if !errors.Is(err, profile.ErrIncomplete) {
					t.Fatalf("expected ErrIncomplete, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	cfg := config.Default()
	cfg.Profile.Path = t.TempDir() + "/profile.yaml"
	s, err := openStore(cfg.Profile, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*profile.FileStore); !ok {
		t.Errorf("expected a file store, got %T", s)
	}

	cfg.Profile.Store = config.StoreRedis
	s, err = openStore(cfg.Profile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*profile.RedisStore); !ok {
		t.Errorf("expected a redis store, got %T", s)
	}

	cfg.Profile.Store = "etcd"
	if _, err := openStore(cfg.Profile, nil); err == nil {
		t.Error("unknown store should fail")
	}
}

func TestFormatQuestions(t *testing.T) {
	qs := session.QuestionSet{
		{Question: "What is ATP?", Answer: "Energy currency.\nMade in mitochondria."},
		{Question: "Define osmosis.", Answer: "Water movement."},
	}
	if got := formatQuestions(qs, false); got != "Q1: What is ATP?\nQ2: Define osmosis.\n" {
		t.Errorf("unexpected listing %q", got)
	}
	want := "Q1: What is ATP?\n    Energy currency.\n    Made in mitochondria.\n\nQ2: Define osmosis.\n    Water movement.\n\n"
	if got := formatQuestions(qs, true); got != want {
		t.Errorf("unexpected listing with answers %q", got)
	}
}
