package viewmodel

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/usecase"
	"context"

	"go.uber.org/zap"
)

type AuthState struct {
	Progress
	User      models.User    `json:"user"`
	Session   models.Session `json:"session"`
	ResetSent bool           `json:"resetSent"`
}

// Auth drives the login, registration and password reset screens.
type Auth struct {
	*Holder[AuthState]
	uc *usecase.Set
}

func NewAuth(ctx context.Context, sugar *zap.SugaredLogger, uc *usecase.Set) *Auth {
	return &Auth{
		Holder: newHolder(ctx, sugar, AuthState{}),
		uc:     uc,
	}
}

// Register creates the account and sends the UI to the login screen.
func (vm *Auth) Register(email string, password string, confirmation string, userName string) <-chan struct{} {
	stream := vm.uc.Register.Invoke(vm.ctx, email, password, confirmation, userName)
	return follow(vm.Holder, stream, func(s AuthState, r resource.Resource[models.User]) AuthState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.User = r.Data
			vm.navigate(Destination{Route: RouteLogin})
		}
		return s
	})
}

func (vm *Auth) Login(email string, password string, remember bool) <-chan struct{} {
	stream := vm.uc.Login.Invoke(vm.ctx, email, password, remember)
	return follow(vm.Holder, stream, func(s AuthState, r resource.Resource[models.Session]) AuthState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.Session = r.Data
			s.User = r.Data.User
			vm.navigate(Destination{Route: RouteHome})
		}
		return s
	})
}

// Restore resumes a session from a stored token.
func (vm *Auth) Restore(token string) <-chan struct{} {
	stream := vm.uc.GetCurrentUser.Invoke(vm.ctx, token)
	return follow(vm.Holder, stream, func(s AuthState, r resource.Resource[models.User]) AuthState {
		s.Progress = progressOf(r)
		switch {
		case r.IsSuccess():
			s.User = r.Data
			vm.navigate(Destination{Route: RouteHome})
		case r.IsError():
			vm.navigate(Destination{Route: RouteLogin})
		}
		return s
	})
}

func (vm *Auth) Logout(token string) <-chan struct{} {
	stream := vm.uc.Logout.Invoke(vm.ctx, token)
	return follow(vm.Holder, stream, func(s AuthState, r resource.Resource[struct{}]) AuthState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.User = models.User{}
			s.Session = models.Session{}
			vm.navigate(Destination{Route: RouteLogin})
		}
		return s
	})
}

func (vm *Auth) SendPasswordReset(email string) <-chan struct{} {
	stream := vm.uc.SendPasswordReset.Invoke(vm.ctx, email)
	return follow(vm.Holder, stream, func(s AuthState, r resource.Resource[struct{}]) AuthState {
		s.Progress = progressOf(r)
		s.ResetSent = r.IsSuccess()
		return s
	})
}

func (vm *Auth) ResetPassword(token string, password string, confirmation string) <-chan struct{} {
	stream := vm.uc.ResetPassword.Invoke(vm.ctx, token, password, confirmation)
	return follow(vm.Holder, stream, func(s AuthState, r resource.Resource[struct{}]) AuthState {
		s.Progress = progressOf(r)
		if r.IsSuccess() {
			s.ResetSent = false
			vm.navigate(Destination{Route: RouteLogin})
		}
		return s
	})
}
