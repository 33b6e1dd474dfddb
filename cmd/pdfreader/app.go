package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/config"
	"github.com/thywilljoshua/pdf-reader/internal/extract"
	"github.com/thywilljoshua/pdf-reader/internal/logger"
	"github.com/thywilljoshua/pdf-reader/internal/pdfdoc"
	"github.com/thywilljoshua/pdf-reader/internal/profile"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

// app holds what every subcommand needs.
type app struct {
	cfg   *config.AppConfig
	log   *logger.Logger
	store profile.Store
}

// newApp loads config and opens the profile store. logOutput overrides the
// configured log destination when non-empty.
func newApp(cfgPath, logOutput string) (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logOutput == "" {
		logOutput = cfg.Log.Output
	}
	log, err := logger.New(cfg.Log.Mode, logOutput)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := openStore(cfg.Profile, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, store: store}, nil
}

func openStore(pc config.ProfileConfig, log *logger.Logger) (profile.Store, error) {
	switch pc.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     pc.Redis.Addr,
			Password: pc.Redis.Password,
			DB:       pc.Redis.DB,
		})
		return profile.NewRedisStore(client,
			profile.WithKeyPrefix(pc.Redis.KeyPrefix),
			profile.WithTTL(time.Duration(pc.Redis.TTLSecs)*time.Second),
			profile.WithLogger(logger.OrNop(log).With("component", "profile")),
		), nil
	case config.StoreFile:
		return profile.NewFileStore(pc.Path), nil
	default:
		return nil, fmt.Errorf("unknown profile store %q", pc.Store)
	}
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing profile store", "error", err)
	}
	a.log.Sync()
}

// loadProfile returns the saved profile, or an empty one when none exists.
func (a *app) loadProfile(ctx context.Context) (profile.Profile, error) {
	p, err := a.store.Load(ctx)
	if errors.Is(err, profile.ErrNotFound) {
		return profile.Profile{}, nil
	}
	return p, err
}

// resolveKey picks the profile credential first, then the provider's
// environment variable.
func resolveKey(p profile.Profile, envName string, getenv func(string) string) (string, error) {
	if k := strings.TrimSpace(p.APIKey); k != "" {
		return k, nil
	}
	if envName != "" {
		if k := strings.TrimSpace(getenv(envName)); k != "" {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: run `pdfreader profile set` or export %s", profile.ErrIncomplete, envName)
}

// completer builds the backend selected by the provider setting.
func (a *app) completer(ctx context.Context, apiKey string) (ai.Completer, error) {
	switch a.cfg.Provider {
	case config.ProviderGemini:
		g, err := ai.NewGemini(ctx, apiKey, a.cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		a.log.Info("completion backend", "provider", a.cfg.Provider, "model", g.Model())
		return g, nil
	default:
		c, err := ai.NewOpenAI(ai.OpenAIConfig{
			BaseURL:     a.cfg.Completion.BaseURL,
			APIKey:      apiKey,
			Model:       a.cfg.Completion.Model,
			Temperature: a.cfg.Completion.Temperature,
			Timeout:     time.Duration(a.cfg.Completion.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		a.log.Info("completion backend", "provider", a.cfg.Provider, "model", c.Model())
		return c, nil
	}
}

// reader is a loaded session plus the backend to talk to.
type reader struct {
	sess *session.Session
	llm  ai.Completer
	prof profile.Profile
}

// openReader resolves the profile and credential, then extracts the PDF at
// path into a fresh session.
func (a *app) openReader(ctx context.Context, path string) (*reader, error) {
	prof, err := a.loadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	key, err := resolveKey(prof, a.cfg.APIKeyEnv(), os.Getenv)
	if err != nil {
		return nil, err
	}
	llm, err := a.completer(ctx, key)
	if err != nil {
		return nil, err
	}

	pdf, err := pdfdoc.OpenFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := extract.New(a.log).Extract(ctx, filepath.Base(path), pdf)
	if err != nil {
		return nil, err
	}
	sess := session.New(prof.Name)
	sess.Load(doc)
	a.log.Info("session started", "session_id", sess.ID, "document", doc.Name)
	return &reader{sess: sess, llm: llm, prof: prof}, nil
}
