// Package usecase holds one type per user operation. Each Invoke validates its
// arguments and forwards to exactly one repository method. Invalid input ends
// in a single resource.Error carrying one of the codes below, and the
// repository is never called.
package usecase

import (
	"chatapp-client/internal/models"
	"strings"
	"unicode/utf8"
)

// Validation codes. The UI maps them to localized text.
const (
	MsgBlankEmail        = "blank_email"
	MsgBlankPassword     = "blank_password"
	MsgBlankUserName     = "blank_username"
	MsgPasswordMismatch  = "password_mismatch"
	MsgBlankToken        = "blank_token"
	MsgBlankUserID       = "blank_user_id"
	MsgBlankServerID     = "blank_server_id"
	MsgBlankChannelID    = "blank_channel_id"
	MsgBlankMessageID    = "blank_message_id"
	MsgBlankName         = "blank_name"
	MsgLongName          = "long_name"
	MsgLongBio           = "long_bio"
	MsgBlankMessage      = "blank_message"
	MsgLongMessage       = "long_message"
	MsgBlankQuery        = "blank_query"
	MsgBadReaction       = "bad_reaction"
	MsgBadTarget         = "bad_target"
	MsgSelfConversation  = "self_conversation"
	MsgBadChannelType    = "bad_channel_type"
	MsgBadStatus         = "bad_status"
	MsgNoPicture         = "no_picture"
	MsgBadMessageLimit   = "bad_limit"
)

const (
	maxDisplayNameLength = 64
	maxServerNameLength  = 64
	maxChannelNameLength = 32
	maxBioLength         = 190
	maxMessageLength     = 4000
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// name trims s and returns the code for a blank or too long name, if any.
func name(s string, max int) (string, string) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return s, MsgBlankName
	case utf8.RuneCountInString(s) > max:
		return s, MsgLongName
	default:
		return s, ""
	}
}

// validTarget accepts a server channel or a conversation, never both and never a half of a channel.
func validTarget(t models.MessageTarget) bool {
	if t.IsConversation() {
		return t.ServerID == 0 && t.ChannelID == 0
	}
	return t.ServerID != 0 && t.ChannelID != 0
}

func validStatus(status string) bool {
	switch status {
	case models.StatusOnline, models.StatusIdle, models.StatusDnd, models.StatusInvisible, models.StatusOffline:
		return true
	}
	return false
}

// Repositories is everything the use cases forward to.
type Repositories struct {
	Auth          AuthRepository
	User          UserRepository
	Server        ServerRepository
	Channel       ChannelRepository
	Message       MessageRepository
	DirectMessage DirectMessageRepository
	Settings      SettingsRepository
	Voice         VoiceRepository
}

// Set bundles every use case, built over the same repositories.
type Set struct {
	Register          *Register
	Login             *Login
	Logout            *Logout
	GetCurrentUser    *GetCurrentUser
	SendPasswordReset *SendPasswordReset
	ResetPassword     *ResetPassword

	GetUser              *GetUser
	ObserveUser          *ObserveUser
	UpdateProfile        *UpdateProfile
	UpdateStatus         *UpdateStatus
	UploadProfilePicture *UploadProfilePicture
	SearchUsers          *SearchUsers

	CreateServer         *CreateServer
	ObserveServers       *ObserveServers
	JoinServer           *JoinServer
	LeaveServer          *LeaveServer
	RenameServer         *RenameServer
	DeleteServer         *DeleteServer
	GetServerMembers     *GetServerMembers
	ObserveServerMembers *ObserveServerMembers

	CreateChannel   *CreateChannel
	ObserveChannels *ObserveChannels
	DeleteChannel   *DeleteChannel

	SendMessage     *SendMessage
	ObserveMessages *ObserveMessages
	EditMessage     *EditMessage
	DeleteMessage   *DeleteMessage
	AddReaction     *AddReaction

	GetOrCreateConversation *GetOrCreateConversation
	ObserveConversations    *ObserveConversations

	GetSettings    *GetSettings
	UpdateSettings *UpdateSettings

	JoinVoiceChannel         *JoinVoiceChannel
	LeaveVoiceChannel        *LeaveVoiceChannel
	SetVoiceMuted            *SetVoiceMuted
	ObserveVoiceParticipants *ObserveVoiceParticipants
}

func NewSet(r Repositories) *Set {
	return &Set{
		Register:          &Register{r.Auth},
		Login:             &Login{r.Auth},
		Logout:            &Logout{r.Auth},
		GetCurrentUser:    &GetCurrentUser{r.Auth},
		SendPasswordReset: &SendPasswordReset{r.Auth},
		ResetPassword:     &ResetPassword{r.Auth},

		GetUser:              &GetUser{r.User},
		ObserveUser:          &ObserveUser{r.User},
		UpdateProfile:        &UpdateProfile{r.User},
		UpdateStatus:         &UpdateStatus{r.User},
		UploadProfilePicture: &UploadProfilePicture{r.User},
		SearchUsers:          &SearchUsers{r.User},

		CreateServer:         &CreateServer{r.Server},
		ObserveServers:       &ObserveServers{r.Server},
		JoinServer:           &JoinServer{r.Server},
		LeaveServer:          &LeaveServer{r.Server},
		RenameServer:         &RenameServer{r.Server},
		DeleteServer:         &DeleteServer{r.Server},
		GetServerMembers:     &GetServerMembers{r.Server},
		ObserveServerMembers: &ObserveServerMembers{r.Server},

		CreateChannel:   &CreateChannel{r.Channel},
		ObserveChannels: &ObserveChannels{r.Channel},
		DeleteChannel:   &DeleteChannel{r.Channel},

		SendMessage:     &SendMessage{r.Message},
		ObserveMessages: &ObserveMessages{r.Message},
		EditMessage:     &EditMessage{r.Message},
		DeleteMessage:   &DeleteMessage{r.Message},
		AddReaction:     &AddReaction{r.Message},

		GetOrCreateConversation: &GetOrCreateConversation{r.DirectMessage},
		ObserveConversations:    &ObserveConversations{r.DirectMessage},

		GetSettings:    &GetSettings{r.Settings},
		UpdateSettings: &UpdateSettings{r.Settings},

		JoinVoiceChannel:         &JoinVoiceChannel{r.Voice},
		LeaveVoiceChannel:        &LeaveVoiceChannel{r.Voice},
		SetVoiceMuted:            &SetVoiceMuted{r.Voice},
		ObserveVoiceParticipants: &ObserveVoiceParticipants{r.Voice},
	}
}
