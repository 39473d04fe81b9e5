package handlers

import (
	"bytes"
	"chatapp-client/internal/database"
	"chatapp-client/internal/email"
	"chatapp-client/internal/hub"
	"chatapp-client/internal/jwt"
	"chatapp-client/internal/keyValue"
	"chatapp-client/internal/models"
	"chatapp-client/internal/repository"
	"chatapp-client/internal/snowflake"
	"chatapp-client/internal/storage"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	*httptest.Server
	backend *repository.Backend
}

func newTestServer(t *testing.T) *testServer {
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

	srv := httptest.NewServer(NewServer(&models.ConfigFile{}, b).Router())
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, backend: b}
}

// client returns an HTTP client with its own cookie jar.
func (ts *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (ts *testServer) post(t *testing.T, c *http.Client, path string, body any) (*http.Response, string) {
	t.Helper()

	jsonBytes, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := c.Post(ts.URL+path, "application/json", bytes.NewReader(jsonBytes))
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(bytes.TrimSpace(respBody))
}

func (ts *testServer) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()

	resp, err := c.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(bytes.TrimSpace(respBody))
}

// login registers userName and returns a client holding its JWT cookie.
func (ts *testServer) login(t *testing.T, userName string) *http.Client {
	t.Helper()

	c := ts.client(t)
	resp, body := ts.post(t, c, "/api/auth/register", map[string]string{
		"email":           userName + "@gmail.com",
		"userName":        userName,
		"password":        "Password1",
		"confirmPassword": "Password1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = ts.post(t, c, "/api/auth/login", map[string]any{
		"email":    userName + "@gmail.com",
		"password": "Password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	return c
}

func jwtCookie(t *testing.T, c *http.Client, rawURL string) *http.Cookie {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == jwt.CookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsCookie(t *testing.T) {
	ts := newTestServer(t)
	c := ts.login(t, "alice")

	cookie := jwtCookie(t, c, ts.URL)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)

	resp, body := ts.get(t, c, "/api/auth/isLoggedIn")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	require.Equal(t, "alice", user.UserName)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"blank email", map[string]string{"userName": "bob", "password": "Password1", "confirmPassword": "Password1"}, "blank_email"},
		{"mismatch", map[string]string{"email": "bob@gmail.com", "userName": "bob", "password": "Password1", "confirmPassword": "Password2"}, "password_mismatch"},
		{"weak password", map[string]string{"email": "bob@gmail.com", "userName": "bob", "password": "password", "confirmPassword": "password"}, "no_uppercase"},
		{"bad email", map[string]string{"email": "bob", "userName": "bob", "password": "Password1", "confirmPassword": "Password1"}, "bad_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.post(t, ts.client(t), "/api/auth/register", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, tt.message, body)
		})
	}
}

func TestRegisterTwiceConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "carol")

	resp, _ := ts.post(t, ts.client(t), "/api/auth/register", map[string]string{
		"email":           "carol@gmail.com",
		"userName":        "carol",
		"password":        "Password1",
		"confirmPassword": "Password1",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "dave")

	c := ts.client(t)
	resp, _ := ts.post(t, c, "/api/auth/login", map[string]any{
		"email":    "dave@gmail.com",
		"password": "Wrong1234",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Nil(t, jwtCookie(t, c, ts.URL))
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIsLoggedInWithoutCookie(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.get(t, ts.client(t), "/api/auth/isLoggedIn")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	c := ts.login(t, "erin")

	stolen := *jwtCookie(t, c, ts.URL)

	resp, _ := ts.post(t, c, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, jwtCookie(t, c, ts.URL))

	// the old token must not work even if the client kept it
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/isLoggedIn", nil)
	require.NoError(t, err)
	req.AddCookie(&stolen)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPasswordReset(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "frank")
	c := ts.client(t)

	resp, _ := ts.post(t, c, "/api/auth/reset", map[string]string{"email": "frank@gmail.com"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	raw, err := ts.backend.KV.Get(context.Background(), "email_outbox")
	require.NoError(t, err)

	var links []email.ResetLink
	require.NoError(t, json.Unmarshal([]byte(raw), &links))
	require.Len(t, links, 1)

	link, err := url.Parse(links[0].Link)
	require.NoError(t, err)
	token := link.Query().Get("token")

	confirm := map[string]string{"token": token, "password": "NewPassword2", "confirmPassword": "NewPassword2"}
	resp, body := ts.post(t, c, "/api/auth/reset/confirm", confirm)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	// tokens are single use
	resp, _ = ts.post(t, c, "/api/auth/reset/confirm", confirm)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.post(t, c, "/api/auth/login", map[string]any{"email": "frank@gmail.com", "password": "NewPassword2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "ivy")

	tests := []struct {
		name  string
		email string
	}{
		{"known", "ivy@gmail.com"},
		{"unknown", "nobody@gmail.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.post(t, ts.client(t), "/api/auth/reset", map[string]string{"email": tt.email})
			require.Equal(t, http.StatusAccepted, resp.StatusCode)
			require.Empty(t, body)
		})
	}

	raw, err := ts.backend.KV.Get(context.Background(), "email_outbox")
	require.NoError(t, err)

	var links []email.ResetLink
	require.NoError(t, json.Unmarshal([]byte(raw), &links))
	require.Len(t, links, 1)
	require.Equal(t, "ivy@gmail.com", links[0].Email)
}

func pixel(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, ts *testServer, c *http.Client, content []byte) (*http.Response, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("picture", "picture.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := c.Post(ts.URL+"/api/user/picture", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(bytes.TrimSpace(respBody))
}

func TestUploadPicture(t *testing.T) {
	ts := newTestServer(t)
	c := ts.login(t, "grace")

	resp, body := upload(t, ts, c, pixel(t))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	require.NotEmpty(t, user.Picture)

	// the stored picture is served back
	resp, _ = ts.get(t, c, "/cdn/"+user.Picture)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadRejectsNonImage(t *testing.T) {
	ts := newTestServer(t)
	c := ts.login(t, "heidi")

	resp, _ := upload(t, ts, c, []byte("just some text"))
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		message string
		want    int
	}{
		{repository.ErrInvalidCredentials.Error(), http.StatusUnauthorized},
		{repository.ErrSessionExpired.Error(), http.StatusUnauthorized},
		{repository.ErrForbidden.Error(), http.StatusForbidden},
		{repository.ErrNotFound.Error(), http.StatusNotFound},
		{repository.ErrAlreadyExists.Error(), http.StatusConflict},
		{"blank_email", http.StatusBadRequest},
		{"theme_oneof", http.StatusBadRequest},
		{storage.ErrUnsupportedPicture.Error() + ": text/plain", http.StatusUnsupportedMediaType},
		{"database is locked", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			require.Equal(t, tt.want, statusOf(tt.message))
		})
	}
}
