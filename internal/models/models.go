package models

import (
	"fmt"
	"time"
)

const (
	StatusOnline    = "online"
	StatusIdle      = "idle"
	StatusDnd       = "dnd"
	StatusInvisible = "invisible"
	StatusOffline   = "offline"
)

type User struct {
	ID          int64     `json:"id,string,omitempty"`
	Email       string    `json:"email,omitempty"`
	UserName    string    `json:"userName,omitempty"`
	DisplayName string    `json:"displayName"`
	Picture     string    `json:"picture"`
	Status      string    `json:"status"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
	Password    []byte    `json:"-"`
}

type Server struct {
	ID        int64     `json:"id,string"`
	OwnerID   int64     `json:"ownerID,string"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Banner    string    `json:"banner"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	ChannelTypeText  = "text"
	ChannelTypeVoice = "voice"
)

type Channel struct {
	ID        int64     `json:"id,string"`
	ServerID  int64     `json:"serverID,string"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxMessageWindow is the most messages a single message listener returns.
const MaxMessageWindow = 500

// ReactionCount is the number of fixed reactions a message can carry.
const ReactionCount = 6

type Message struct {
	ID             int64               `json:"id,string"`
	ChannelID      int64               `json:"channelID,string"`
	ServerID       int64               `json:"serverID,string"`
	ConversationID int64               `json:"conversationID,string"`
	UserID         int64               `json:"userID,string"`
	Message        string              `json:"message"`
	Attachments    string              `json:"attachments"`
	Edited         bool                `json:"edited"`
	Reactions      [ReactionCount]int  `json:"reactions"`
	Reacted        [ReactionCount]bool `json:"reacted"`
	CreatedAt      time.Time           `json:"createdAt"`
	User           User                `json:"user"`
}

type DirectMessageConversation struct {
	ID            int64     `json:"id,string"`
	Participants  [2]int64  `json:"participants"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Other         User      `json:"other"`
}

// OtherParticipant returns the participant that isn't userID.
func (c DirectMessageConversation) OtherParticipant(userID int64) int64 {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

type UserSettings struct {
	UserID               int64  `json:"userID,string"`
	Theme                string `json:"theme" validate:"omitempty,oneof=system light dark"`
	Language             string `json:"language" validate:"omitempty,bcp47_language_tag"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	CompactMode          bool   `json:"compactMode"`
}

// DefaultSettings are returned for users that never saved any settings.
func DefaultSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:               userID,
		Theme:                "system",
		Language:             "en",
		NotificationsEnabled: true,
	}
}

type ParticipantInfo struct {
	UserID      int64     `json:"userID,string"`
	ChannelID   int64     `json:"channelID,string"`
	SessionID   string    `json:"sessionID"`
	DisplayName string    `json:"displayName"`
	Picture     string    `json:"picture"`
	Muted       bool      `json:"muted"`
	Deafened    bool      `json:"deafened"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Session is what a successful login hands back.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"-"`
	Remember  bool      `json:"remember"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MessageTarget addresses either a server channel or a direct message conversation.
type MessageTarget struct {
	ServerID       int64 `json:"serverID,string"`
	ChannelID      int64 `json:"channelID,string"`
	ConversationID int64 `json:"conversationID,string"`
}

func (t MessageTarget) IsConversation() bool {
	return t.ConversationID != 0
}

// Topic is the listener key messages of this target are announced on.
func (t MessageTarget) Topic() string {
	if t.IsConversation() {
		return fmt.Sprintf("conversation:%d", t.ConversationID)
	}
	return fmt.Sprintf("channel:%d", t.ChannelID)
}

type ConfigFile struct {
	Address           string `env:"CHAT_ADDRESS"`
	Port              string `env:"CHAT_PORT"`
	BehindNginx       bool   `env:"CHAT_BEHIND_NGINX"`
	TlsCert           string `env:"CHAT_TLS_CERT"`
	TlsKey            string `env:"CHAT_TLS_KEY"`
	Cors              bool   `env:"CHAT_CORS"`
	PrintHttpRequests bool   `env:"CHAT_PRINT_HTTP_REQUESTS"`
	LogToFile         bool   `env:"CHAT_LOG_TO_FILE"`
	LogLevel          string `env:"CHAT_LOG_LEVEL"`
	JwtSecret         string `env:"CHAT_JWT_SECRET"`
	SnowflakeWorkerID int64  `env:"CHAT_SNOWFLAKE_WORKER_ID"`
	Database          string `env:"CHAT_DATABASE"`
	SqlitePath        string `env:"CHAT_SQLITE_PATH"`
	DbUser            string `env:"CHAT_DB_USER"`
	DbPassword        string `env:"CHAT_DB_PASSWORD"`
	DbAddress         string `env:"CHAT_DB_ADDRESS"`
	DbPort            string `env:"CHAT_DB_PORT"`
	DbDatabase        string `env:"CHAT_DB_DATABASE"`
	RedisAddress      string `env:"CHAT_REDIS_ADDRESS"`
	RedisPassword     string `env:"CHAT_REDIS_PASSWORD"`
	StoragePath       string `env:"CHAT_STORAGE_PATH"`
	SmtpUsername      string `env:"CHAT_SMTP_USERNAME"`
	SmtpPassword      string `env:"CHAT_SMTP_PASSWORD"`
	SmtpServer        string `env:"CHAT_SMTP_SERVER"`
	SmtpPort          int    `env:"CHAT_SMTP_PORT"`
}

// SelfContained reports whether the app runs without external services.
func (cfg *ConfigFile) SelfContained() bool {
	return (cfg.Database == "" || cfg.Database == "sqlite") && cfg.RedisAddress == ""
}
