package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"chatapp-client/internal/validator"
	"context"
	"strings"
)

type AuthRepository interface {
	Register(ctx context.Context, email string, password string, userName string) resource.Stream[models.User]
	Login(ctx context.Context, email string, password string, remember bool) resource.Stream[models.Session]
	CurrentUser(ctx context.Context, token string) resource.Stream[models.User]
	Logout(ctx context.Context, token string) resource.Stream[struct{}]
	SendPasswordReset(ctx context.Context, email string) resource.Stream[struct{}]
	ResetPassword(ctx context.Context, token string, password string) resource.Stream[struct{}]
}

type Register struct {
	repo AuthRepository
}

// Invoke checks the email format, password strength and user name rules before registering.
func (u *Register) Invoke(ctx context.Context, email string, password string, confirmation string, userName string) resource.Stream[models.User] {
	email = strings.TrimSpace(email)
	userName = strings.TrimSpace(userName)

	switch {
	case email == "":
		return resource.Fail[models.User](MsgBlankEmail)
	case password == "":
		return resource.Fail[models.User](MsgBlankPassword)
	case userName == "":
		return resource.Fail[models.User](MsgBlankUserName)
	case password != confirmation:
		return resource.Fail[models.User](MsgPasswordMismatch)
	}

	if err := validator.Email(email); err != nil {
		return resource.Fail[models.User](err.Error())
	}
	if err := validator.Password(password); err != nil {
		return resource.Fail[models.User](err.Error())
	}
	if err := validator.UserName(userName); err != nil {
		return resource.Fail[models.User](err.Error())
	}

	return u.repo.Register(ctx, email, password, userName)
}

type Login struct {
	repo AuthRepository
}

func (u *Login) Invoke(ctx context.Context, email string, password string, remember bool) resource.Stream[models.Session] {
	if blank(email) {
		return resource.Fail[models.Session](MsgBlankEmail)
	}
	if password == "" {
		return resource.Fail[models.Session](MsgBlankPassword)
	}
	return u.repo.Login(ctx, strings.TrimSpace(email), password, remember)
}

type Logout struct {
	repo AuthRepository
}

func (u *Logout) Invoke(ctx context.Context, token string) resource.Stream[struct{}] {
	if token == "" {
		return resource.Fail[struct{}](MsgBlankToken)
	}
	return u.repo.Logout(ctx, token)
}

type GetCurrentUser struct {
	repo AuthRepository
}

func (u *GetCurrentUser) Invoke(ctx context.Context, token string) resource.Stream[models.User] {
	if token == "" {
		return resource.Fail[models.User](MsgBlankToken)
	}
	return u.repo.CurrentUser(ctx, token)
}

type SendPasswordReset struct {
	repo AuthRepository
}

func (u *SendPasswordReset) Invoke(ctx context.Context, email string) resource.Stream[struct{}] {
	email = strings.TrimSpace(email)
	if email == "" {
		return resource.Fail[struct{}](MsgBlankEmail)
	}
	if err := validator.Email(email); err != nil {
		return resource.Fail[struct{}](err.Error())
	}
	return u.repo.SendPasswordReset(ctx, email)
}

type ResetPassword struct {
	repo AuthRepository
}

func (u *ResetPassword) Invoke(ctx context.Context, token string, password string, confirmation string) resource.Stream[struct{}] {
	switch {
	case token == "":
		return resource.Fail[struct{}](MsgBlankToken)
	case password == "":
		return resource.Fail[struct{}](MsgBlankPassword)
	case password != confirmation:
		return resource.Fail[struct{}](MsgPasswordMismatch)
	}

	if err := validator.Password(password); err != nil {
		return resource.Fail[struct{}](err.Error())
	}

	return u.repo.ResetPassword(ctx, token, password)
}
