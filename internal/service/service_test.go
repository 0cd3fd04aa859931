package service

import (
	"testing"
	"time"

	"github.com/tagonlink/tagonlink/internal/auth"
	"github.com/tagonlink/tagonlink/internal/metrics"
	"github.com/tagonlink/tagonlink/internal/testutil/memstore"
)

var fastParams = auth.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type testEnv struct {
	store   *memstore.Store
	codec   *auth.TokenCodec
	metrics *metrics.InMemoryRecorder
	auth    *AuthService
	links   *LinkService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	rec := metrics.NewInMemory()

	return &testEnv{
		store:   store,
		codec:   codec,
		metrics: rec,
		auth:    NewAuthService(store, auth.NewPasswordHasher(fastParams), codec, rec),
		links:   NewLinkService(store, rec),
	}
}
