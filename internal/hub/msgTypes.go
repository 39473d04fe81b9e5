package hub

const (
	ServerCreated  = "ServerCreated"
	ServerDeleted  = "ServerDeleted"
	ServerModified = "ServerModified"

	MemberJoined = "MemberJoined"
	MemberLeft   = "MemberLeft"

	ChannelCreated  = "ChannelCreated"
	ChannelDeleted  = "ChannelDeleted"
	ChannelModified = "ChannelModified"

	MessageCreated  = "MessageCreated"
	MessageDeleted  = "MessageDeleted"
	MessageModified = "MessageModified"

	ConversationModified = "ConversationModified"

	UserModified = "UserModified"

	ParticipantJoined   = "ParticipantJoined"
	ParticipantLeft     = "ParticipantLeft"
	ParticipantModified = "ParticipantModified"
)
