package email

import (
	"chatapp-client/internal/keyValue"
	"chatapp-client/internal/models"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalOutbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sugar := zap.NewNop().Sugar()
	sender := New(&models.ConfigFile{}, sugar, keyValue.New(ctx, sugar, nil), "http://localhost:3000")

	require.NoError(t, sender.SendPasswordReset(ctx, "user@gmail.com", "user", "tok en"))

	rr := httptest.NewRecorder()
	sender.Outbox().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.True(t, strings.Contains(body, "user@gmail.com"))
	require.True(t, strings.Contains(body, "http://localhost:3000/reset?token=tok+en"))
}
