package repository

import (
	"bytes"
	"chatapp-client/internal/models"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// 1x1 transparent png
var pixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	users := NewUserRepository(b)
	alice := register(t, b, "alice")

	got := mustSucceed(t, users.GetUser(ctx, alice.ID))
	require.Equal(t, alice.ID, got.ID)
	require.Equal(t, "alice", got.UserName)
	require.Equal(t, models.StatusOnline, got.Status)
	require.Equal(t, alice.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	mustFail(t, users.GetUser(ctx, alice.ID+1), ErrNotFound)
}

func TestUpdateProfileNotifiesObservers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBackend(t)
	users := NewUserRepository(b)
	alice := register(t, b, "alice")

	stream := users.ObserveUser(ctx, alice.ID)
	waitFor(t, stream, func(u models.User) bool { return u.DisplayName == "alice" })

	updated := mustSucceed(t, users.UpdateProfile(ctx, alice.ID, "Alice A.", "hello"))
	require.Equal(t, "Alice A.", updated.DisplayName)
	require.Equal(t, "hello", updated.Bio)

	waitFor(t, stream, func(u models.User) bool { return u.DisplayName == "Alice A." })

	mustSucceed(t, users.UpdateStatus(ctx, alice.ID, models.StatusDnd))
	waitFor(t, stream, func(u models.User) bool { return u.Status == models.StatusDnd })

	mustFail(t, users.UpdateStatus(ctx, alice.ID+1, models.StatusIdle), ErrNotFound)
}

func TestObserveUnknownUser(t *testing.T) {
	b := newBackend(t)

	var statuses []string
	for r := range NewUserRepository(b).ObserveUser(context.Background(), 42) {
		statuses = append(statuses, r.Status.String())
		if r.IsError() {
			require.Equal(t, ErrNotFound.Error(), r.Message)
		}
	}
	require.Equal(t, []string{"loading", "error"}, statuses)
}

func TestUploadPicture(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	users := NewUserRepository(b)
	alice := register(t, b, "alice")

	updated := mustSucceed(t, users.UploadPicture(ctx, alice.ID, bytes.NewReader(pixel)))
	require.True(t, strings.HasPrefix(updated.Picture, "avatars/"))

	_, err := os.Stat(filepath.Join(b.Storage.Root(), updated.Picture))
	require.NoError(t, err)

	r := drain(t, users.UploadPicture(ctx, alice.ID, strings.NewReader("not a picture")))
	require.True(t, r.IsError())
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	users := NewUserRepository(b)
	register(t, b, "alice")
	register(t, b, "alfred")
	register(t, b, "bob")

	found := mustSucceed(t, users.SearchUsers(ctx, "AL"))
	require.Len(t, found, 2)
	require.Equal(t, "alfred", found[0].UserName)
	require.Equal(t, "alice", found[1].UserName)
	require.Empty(t, found[0].Email)

	found = mustSucceed(t, users.SearchUsers(ctx, "zzz"))
	require.Empty(t, found)
}

func TestSearchUsersMatchesWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	users := NewUserRepository(b)
	register(t, b, "a_b")
	register(t, b, "axb")
	register(t, b, "c!d")

	tests := []struct {
		query string
		want  []string
	}{
		{"a_b", []string{"a_b"}},
		{"_", []string{"a_b"}},
		{"%", nil},
		{"!", []string{"c!d"}},
		{"x", []string{"axb"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found := mustSucceed(t, users.SearchUsers(ctx, tt.query))

			var names []string
			for _, user := range found {
				names = append(names, user.UserName)
			}
			require.Equal(t, tt.want, names)
		})
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Alice", "%alice%"},
		{"50%", "%50!%%"},
		{"a_b", "%a!_b%"},
		{"hi!", "%hi!!%"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require.Equal(t, tt.want, containsPattern(tt.query))
		})
	}
}
