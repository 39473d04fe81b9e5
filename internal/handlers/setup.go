// Package handlers is the bridge between a UI shell and the state holders.
// Authentication runs over plain HTTP; everything else runs over one websocket
// per UI session, which streams screen snapshots and accepts intents.
package handlers

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/repository"
	"chatapp-client/internal/usecase"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
)

type Server struct {
	sugar   *zap.SugaredLogger
	cfg     *models.ConfigFile
	backend *repository.Backend
	uc      *usecase.Set

	frames fastjson.ParserPool
}

// NewUseCases wires every use case to the repositories of b.
func NewUseCases(b *repository.Backend) *usecase.Set {
	return usecase.NewSet(usecase.Repositories{
		Auth:          repository.NewAuthRepository(b),
		User:          repository.NewUserRepository(b),
		Server:        repository.NewServerRepository(b),
		Channel:       repository.NewChannelRepository(b),
		Message:       repository.NewMessageRepository(b),
		DirectMessage: repository.NewDirectMessageRepository(b),
		Settings:      repository.NewSettingsRepository(b),
		Voice:         repository.NewVoiceRepository(b),
	})
}

func NewServer(cfg *models.ConfigFile, b *repository.Backend) *Server {
	return &Server{
		sugar:   b.Sugar,
		cfg:     cfg,
		backend: b,
		uc:      NewUseCases(b),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	if s.cfg.Cors {
		r.Use(AllowCors)
	}
	if s.cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}

	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(60 * time.Second))

		api.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.Login)
			r.Post("/register", s.Register)
			r.Post("/logout", s.Logout)
			r.Post("/reset", s.SendPasswordReset)
			r.Post("/reset/confirm", s.ResetPassword)
			r.With(s.UserVerifier).Get("/isLoggedIn", s.IsLoggedIn)
		})

		api.Route("/user", func(r chi.Router) {
			r.Use(s.UserVerifier)
			r.Post("/picture", s.UploadPicture)
		})
	})

	// the websocket outlives the request timeout
	websocketPath := "/ws"
	if s.cfg.BehindNginx {
		websocketPath = "/ws/"
	} else {
		r.Handle("/cdn/*", http.StripPrefix("/cdn/", http.FileServer(http.Dir(s.backend.Storage.Root()))))
	}

	r.With(s.UserVerifier).Get(websocketPath, s.HandleWebSocket)

	return r
}

// Setup serves the bridge until the listener fails.
func Setup(cfg *models.ConfigFile, b *repository.Backend) error {
	s := NewServer(cfg, b)

	address := fmt.Sprintf("%s:%s", cfg.Address, cfg.Port)
	s.sugar.Infof("Listening on %s", address)

	if cfg.TlsCert != "" && cfg.TlsKey != "" {
		return http.ListenAndServeTLS(address, cfg.TlsCert, cfg.TlsKey, s.Router())
	}
	return http.ListenAndServe(address, s.Router())
}
