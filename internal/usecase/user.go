package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"io"
	"strings"
	"unicode/utf8"
)

type UserRepository interface {
	GetUser(ctx context.Context, userID int64) resource.Stream[models.User]
	ObserveUser(ctx context.Context, userID int64) resource.Stream[models.User]
	UpdateProfile(ctx context.Context, userID int64, displayName string, bio string) resource.Stream[models.User]
	UpdateStatus(ctx context.Context, userID int64, status string) resource.Stream[models.User]
	UploadPicture(ctx context.Context, userID int64, picture io.Reader) resource.Stream[models.User]
	SearchUsers(ctx context.Context, query string) resource.Stream[[]models.User]
}

type GetUser struct {
	repo UserRepository
}

func (u *GetUser) Invoke(ctx context.Context, userID int64) resource.Stream[models.User] {
	if userID == 0 {
		return resource.Fail[models.User](MsgBlankUserID)
	}
	return u.repo.GetUser(ctx, userID)
}

type ObserveUser struct {
	repo UserRepository
}

func (u *ObserveUser) Invoke(ctx context.Context, userID int64) resource.Stream[models.User] {
	if userID == 0 {
		return resource.Fail[models.User](MsgBlankUserID)
	}
	return u.repo.ObserveUser(ctx, userID)
}

type UpdateProfile struct {
	repo UserRepository
}

func (u *UpdateProfile) Invoke(ctx context.Context, userID int64, displayName string, bio string) resource.Stream[models.User] {
	if userID == 0 {
		return resource.Fail[models.User](MsgBlankUserID)
	}

	displayName, msg := name(displayName, maxDisplayNameLength)
	if msg != "" {
		return resource.Fail[models.User](msg)
	}

	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > maxBioLength {
		return resource.Fail[models.User](MsgLongBio)
	}

	return u.repo.UpdateProfile(ctx, userID, displayName, bio)
}

type UpdateStatus struct {
	repo UserRepository
}

func (u *UpdateStatus) Invoke(ctx context.Context, userID int64, status string) resource.Stream[models.User] {
	if userID == 0 {
		return resource.Fail[models.User](MsgBlankUserID)
	}
	if !validStatus(status) {
		return resource.Fail[models.User](MsgBadStatus)
	}
	return u.repo.UpdateStatus(ctx, userID, status)
}

type UploadProfilePicture struct {
	repo UserRepository
}

func (u *UploadProfilePicture) Invoke(ctx context.Context, userID int64, picture io.Reader) resource.Stream[models.User] {
	if userID == 0 {
		return resource.Fail[models.User](MsgBlankUserID)
	}
	if picture == nil {
		return resource.Fail[models.User](MsgNoPicture)
	}
	return u.repo.UploadPicture(ctx, userID, picture)
}

type SearchUsers struct {
	repo UserRepository
}

func (u *SearchUsers) Invoke(ctx context.Context, query string) resource.Stream[[]models.User] {
	query = strings.TrimSpace(query)
	if query == "" {
		return resource.Fail[[]models.User](MsgBlankQuery)
	}
	return u.repo.SearchUsers(ctx, query)
}
