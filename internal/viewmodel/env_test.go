package viewmodel

import (
	"chatapp-client/internal/database"
	"chatapp-client/internal/email"
	"chatapp-client/internal/hub"
	"chatapp-client/internal/jwt"
	"chatapp-client/internal/keyValue"
	"chatapp-client/internal/models"
	"chatapp-client/internal/repository"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/snowflake"
	"chatapp-client/internal/storage"
	"chatapp-client/internal/usecase"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	ctx     context.Context
	sugar   *zap.SugaredLogger
	backend *repository.Backend
	uc      *usecase.Set
}

func newEnv(t *testing.T) *env {
	t.Helper()

	_ = snowflake.Setup(1)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sugar := zap.NewNop().Sugar()

	db, err := database.Open(database.DialectSqlite, filepath.Join(t.TempDir(), "test.db"), sugar)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	kv := keyValue.New(ctx, sugar, nil)

	b := &repository.Backend{
		Sugar:      sugar,
		DB:         db,
		Hub:        hub.New(sugar, nil),
		KV:         kv,
		Storage:    store,
		Signer:     jwt.NewSigner("test secret", false),
		Email:      email.New(&models.ConfigFile{}, sugar, kv, "http://localhost:3000"),
		BcryptCost: bcrypt.MinCost,
	}

	return &env{
		ctx:     ctx,
		sugar:   sugar,
		backend: b,
		uc: usecase.NewSet(usecase.Repositories{
			Auth:          repository.NewAuthRepository(b),
			User:          repository.NewUserRepository(b),
			Server:        repository.NewServerRepository(b),
			Channel:       repository.NewChannelRepository(b),
			Message:       repository.NewMessageRepository(b),
			DirectMessage: repository.NewDirectMessageRepository(b),
			Settings:      repository.NewSettingsRepository(b),
			Voice:         repository.NewVoiceRepository(b),
		}),
	}
}

func (e *env) register(t *testing.T, userName string) models.User {
	t.Helper()
	user, err := resource.Await(e.ctx, e.uc.Register.Invoke(e.ctx, userName+"@gmail.com", "Password1", "Password1", userName))
	require.NoError(t, err)
	return user
}

// checkProgress fails if a snapshot is loading and failed at once, looking at its JSON form.
func checkProgress(t *testing.T, state any) {
	t.Helper()

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var fields struct {
		IsLoading bool   `json:"isLoading"`
		Error     string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.False(t, fields.IsLoading && fields.Error != "", "snapshot is loading and failed: %s", raw)
}

// waitState observes h until a snapshot satisfies ok, checking every snapshot on the way.
func waitState[S any](t *testing.T, h *Holder[S], ok func(S) bool) S {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for s := range h.Observe(ctx) {
		checkProgress(t, s)
		if ok(s) {
			return s
		}
	}
	t.Fatalf("no matching snapshot, last: %+v", h.State())
	return h.State()
}

func nextDestination(t *testing.T, navigation <-chan Destination) Destination {
	t.Helper()

	select {
	case d := <-navigation:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("no navigation")
		return Destination{}
	}
}

func noDestination(t *testing.T, navigation <-chan Destination) {
	t.Helper()

	select {
	case d := <-navigation:
		t.Fatalf("unexpected navigation to %s", d.Route)
	case <-time.After(50 * time.Millisecond):
	}
}
