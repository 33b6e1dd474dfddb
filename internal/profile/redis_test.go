package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/thywilljoshua/pdf-reader/internal/logger"
)

func newRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_NotFound(t *testing.T) {
	s, _ := newRedisStore(t)
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_RejectsIncompleteProfile(t *testing.T) {
	s, mr := newRedisStore(t)
	if err := s.Save(context.Background(), Profile{Name: "Ada"}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if mr.Exists(s.Key()) {
		t.Error("nothing should be written for an incomplete profile")
	}
}

func TestRedisStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, WithKeyPrefix("test:profile:"))

	want := Profile{Name: "Ada", APIKey: "gsk_secret", Avatar: "data:image/png;base64,AAAA"}
	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	if got := mr.HGet("test:profile:default", fieldAPIKey); got != "gsk_secret" {
		t.Errorf("unexpected stored key field %q", got)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if ttl := mr.TTL(s.Key()); ttl != 0 {
		t.Errorf("key should not expire without a TTL, got %v", ttl)
	}
}

func TestRedisStore_SaveRemovesAvatar(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	if err := s.Save(ctx, Profile{Name: "Ada", APIKey: "k", Avatar: "data:image/png;base64,AAAA"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, Profile{Name: "Ada", APIKey: "k"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Avatar != "" {
		t.Errorf("avatar should be gone, got %q", got.Avatar)
	}
	if keys, _ := mr.HKeys(s.Key()); len(keys) != 2 {
		t.Errorf("expected only name and key fields, got %v", keys)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, WithTTL(time.Hour))

	if err := s.Save(ctx, Profile{Name: "Ada", APIKey: "k"}); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(s.Key()); ttl != time.Hour {
		t.Fatalf("save should set the TTL, got %v", ttl)
	}

	mr.FastForward(40 * time.Minute)
	if _, err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(s.Key()); ttl != time.Hour {
		t.Errorf("load should refresh the TTL, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired profile should be gone, got %v", err)
	}
}

// failExpire makes every EXPIRE command fail.
type failExpire struct{}

func (failExpire) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failExpire) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" {
			cmd.SetErr(errors.New("READONLY You can't write against a read only replica."))
			return cmd.Err()
		}
		return next(ctx, cmd)
	}
}

func (failExpire) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

var _ redis.Hook = failExpire{}

func TestRedisStore_LoadLogsFailedTTLRefresh(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, WithTTL(time.Hour), WithLogger(log))
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, Profile{Name: "Ada", APIKey: "k"}); err != nil {
		t.Fatal(err)
	}
	client.AddHook(failExpire{})

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("a failed refresh should not fail the read: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("unexpected profile %+v", got)
	}
	entries := logs.FilterMessage("refreshing profile ttl failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["key"] != s.Key() {
		t.Errorf("warning should name the key, got %v", entries[0].ContextMap())
	}
}
