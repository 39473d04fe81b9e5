package usecase

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"context"
	"io"
	"sync"
)

// fakeRepo implements every repository interface and records which methods ran.
type fakeRepo struct {
	mutex sync.Mutex
	calls []string
	args  [][]any
}

func newSet() (*Set, *fakeRepo) {
	f := &fakeRepo{}
	return NewSet(Repositories{
		Auth:          f,
		User:          f,
		Server:        f,
		Channel:       f,
		Message:       f,
		DirectMessage: f,
		Settings:      f,
		Voice:         f,
	}), f
}

func (f *fakeRepo) Calls() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRepo) lastArgs() []any {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if len(f.args) == 0 {
		return nil
	}
	return f.args[len(f.args)-1]
}

func called[T any](f *fakeRepo, method string, args ...any) resource.Stream[T] {
	f.mutex.Lock()
	f.calls = append(f.calls, method)
	f.args = append(f.args, args)
	f.mutex.Unlock()

	var zero T
	return resource.Just(zero)
}

func (f *fakeRepo) Register(ctx context.Context, email string, password string, userName string) resource.Stream[models.User] {
	return called[models.User](f, "Register", email, password, userName)
}

func (f *fakeRepo) Login(ctx context.Context, email string, password string, remember bool) resource.Stream[models.Session] {
	return called[models.Session](f, "Login", email, password, remember)
}

func (f *fakeRepo) CurrentUser(ctx context.Context, token string) resource.Stream[models.User] {
	return called[models.User](f, "CurrentUser", token)
}

func (f *fakeRepo) Logout(ctx context.Context, token string) resource.Stream[struct{}] {
	return called[struct{}](f, "Logout", token)
}

func (f *fakeRepo) SendPasswordReset(ctx context.Context, email string) resource.Stream[struct{}] {
	return called[struct{}](f, "SendPasswordReset", email)
}

func (f *fakeRepo) ResetPassword(ctx context.Context, token string, password string) resource.Stream[struct{}] {
	return called[struct{}](f, "ResetPassword", token, password)
}

func (f *fakeRepo) GetUser(ctx context.Context, userID int64) resource.Stream[models.User] {
	return called[models.User](f, "GetUser", userID)
}

func (f *fakeRepo) ObserveUser(ctx context.Context, userID int64) resource.Stream[models.User] {
	return called[models.User](f, "ObserveUser", userID)
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, userID int64, displayName string, bio string) resource.Stream[models.User] {
	return called[models.User](f, "UpdateProfile", userID, displayName, bio)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, userID int64, status string) resource.Stream[models.User] {
	return called[models.User](f, "UpdateStatus", userID, status)
}

func (f *fakeRepo) UploadPicture(ctx context.Context, userID int64, picture io.Reader) resource.Stream[models.User] {
	return called[models.User](f, "UploadPicture", userID)
}

func (f *fakeRepo) SearchUsers(ctx context.Context, query string) resource.Stream[[]models.User] {
	return called[[]models.User](f, "SearchUsers", query)
}

func (f *fakeRepo) CreateServer(ctx context.Context, ownerID int64, name string, picture io.Reader) resource.Stream[models.Server] {
	return called[models.Server](f, "CreateServer", ownerID, name)
}

func (f *fakeRepo) ObserveUserServers(ctx context.Context, userID int64) resource.Stream[[]models.Server] {
	return called[[]models.Server](f, "ObserveUserServers", userID)
}

func (f *fakeRepo) GetServer(ctx context.Context, serverID int64) resource.Stream[models.Server] {
	return called[models.Server](f, "GetServer", serverID)
}

func (f *fakeRepo) JoinServer(ctx context.Context, serverID int64, userID int64) resource.Stream[models.Server] {
	return called[models.Server](f, "JoinServer", serverID, userID)
}

func (f *fakeRepo) LeaveServer(ctx context.Context, serverID int64, userID int64) resource.Stream[struct{}] {
	return called[struct{}](f, "LeaveServer", serverID, userID)
}

func (f *fakeRepo) RenameServer(ctx context.Context, ownerID int64, serverID int64, name string) resource.Stream[models.Server] {
	return called[models.Server](f, "RenameServer", ownerID, serverID, name)
}

func (f *fakeRepo) DeleteServer(ctx context.Context, ownerID int64, serverID int64) resource.Stream[struct{}] {
	return called[struct{}](f, "DeleteServer", ownerID, serverID)
}

func (f *fakeRepo) GetMembers(ctx context.Context, serverID int64) resource.Stream[[]models.User] {
	return called[[]models.User](f, "GetMembers", serverID)
}

func (f *fakeRepo) ObserveMembers(ctx context.Context, serverID int64) resource.Stream[[]models.User] {
	return called[[]models.User](f, "ObserveMembers", serverID)
}

func (f *fakeRepo) CreateChannel(ctx context.Context, ownerID int64, serverID int64, name string, channelType string) resource.Stream[models.Channel] {
	return called[models.Channel](f, "CreateChannel", ownerID, serverID, name, channelType)
}

func (f *fakeRepo) ObserveChannels(ctx context.Context, serverID int64) resource.Stream[[]models.Channel] {
	return called[[]models.Channel](f, "ObserveChannels", serverID)
}

func (f *fakeRepo) DeleteChannel(ctx context.Context, ownerID int64, channelID int64) resource.Stream[struct{}] {
	return called[struct{}](f, "DeleteChannel", ownerID, channelID)
}

func (f *fakeRepo) SendMessage(ctx context.Context, target models.MessageTarget, userID int64, text string) resource.Stream[models.Message] {
	return called[models.Message](f, "SendMessage", target, userID, text)
}

func (f *fakeRepo) ObserveMessages(ctx context.Context, target models.MessageTarget, userID int64, limit int) resource.Stream[[]models.Message] {
	return called[[]models.Message](f, "ObserveMessages", target, userID, limit)
}

func (f *fakeRepo) EditMessage(ctx context.Context, userID int64, messageID int64, text string) resource.Stream[models.Message] {
	return called[models.Message](f, "EditMessage", userID, messageID, text)
}

func (f *fakeRepo) DeleteMessage(ctx context.Context, userID int64, messageID int64) resource.Stream[struct{}] {
	return called[struct{}](f, "DeleteMessage", userID, messageID)
}

func (f *fakeRepo) ToggleReaction(ctx context.Context, userID int64, messageID int64, index int) resource.Stream[bool] {
	return called[bool](f, "ToggleReaction", userID, messageID, index)
}

func (f *fakeRepo) GetOrCreateConversation(ctx context.Context, userID int64, otherID int64) resource.Stream[models.DirectMessageConversation] {
	return called[models.DirectMessageConversation](f, "GetOrCreateConversation", userID, otherID)
}

func (f *fakeRepo) ObserveConversations(ctx context.Context, userID int64) resource.Stream[[]models.DirectMessageConversation] {
	return called[[]models.DirectMessageConversation](f, "ObserveConversations", userID)
}

func (f *fakeRepo) GetSettings(ctx context.Context, userID int64) resource.Stream[models.UserSettings] {
	return called[models.UserSettings](f, "GetSettings", userID)
}

func (f *fakeRepo) UpdateSettings(ctx context.Context, settings models.UserSettings) resource.Stream[models.UserSettings] {
	return called[models.UserSettings](f, "UpdateSettings", settings)
}

func (f *fakeRepo) Join(ctx context.Context, channelID int64, user models.User) resource.Stream[models.ParticipantInfo] {
	return called[models.ParticipantInfo](f, "Join", channelID, user.ID)
}

func (f *fakeRepo) Leave(ctx context.Context, channelID int64, userID int64) resource.Stream[struct{}] {
	return called[struct{}](f, "Leave", channelID, userID)
}

func (f *fakeRepo) SetMuted(ctx context.Context, channelID int64, userID int64, muted bool, deafened bool) resource.Stream[models.ParticipantInfo] {
	return called[models.ParticipantInfo](f, "SetMuted", channelID, userID, muted, deafened)
}

func (f *fakeRepo) ObserveParticipants(ctx context.Context, channelID int64) resource.Stream[[]models.ParticipantInfo] {
	return called[[]models.ParticipantInfo](f, "ObserveParticipants", channelID)
}
