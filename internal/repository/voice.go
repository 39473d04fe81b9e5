package repository

import (
	"chatapp-client/internal/hub"
	"chatapp-client/internal/models"
	"chatapp-client/internal/resource"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// voiceUsersKey maps a user ID to the voice channel the user is connected to.
const voiceUsersKey = "voice_user"

type VoiceRepository struct {
	*Backend
}

func NewVoiceRepository(b *Backend) *VoiceRepository {
	return &VoiceRepository{b}
}

// voiceKey is both the key-value hash of the participants and their topic.
func voiceKey(channelID int64) string {
	return fmt.Sprintf("voice:%d", channelID)
}

func (r *VoiceRepository) participant(ctx context.Context, channelID int64, userID int64) (models.ParticipantInfo, error) {
	raw, err := r.KV.HGet(ctx, voiceKey(channelID), strconv.FormatInt(userID, 10))
	if err != nil {
		return models.ParticipantInfo{}, err
	}
	if raw == "" {
		return models.ParticipantInfo{}, ErrNotInVoice
	}

	var participant models.ParticipantInfo
	err = json.Unmarshal([]byte(raw), &participant)
	return participant, err
}

func (r *VoiceRepository) store(ctx context.Context, participant models.ParticipantInfo) error {
	raw, err := json.Marshal(participant)
	if err != nil {
		return err
	}
	return r.KV.HSet(ctx, voiceKey(participant.ChannelID), strconv.FormatInt(participant.UserID, 10), string(raw))
}

// remove disconnects userID from channelID and reports whether it was connected.
func (r *VoiceRepository) remove(ctx context.Context, channelID int64, userID int64) (bool, error) {
	field := strconv.FormatInt(userID, 10)

	existed, err := r.KV.HDel(ctx, voiceKey(channelID), field)
	if err != nil || !existed {
		return false, err
	}

	current, err := r.KV.HGet(ctx, voiceUsersKey, field)
	if err != nil {
		return true, err
	}
	if current == strconv.FormatInt(channelID, 10) {
		if _, err := r.KV.HDel(ctx, voiceUsersKey, field); err != nil {
			return true, err
		}
	}

	r.emit(ctx, hub.ParticipantLeft, map[string]string{"userID": field}, voiceKey(channelID))
	return true, nil
}

// Join connects user to channelID, leaving any other voice channel first.
func (r *VoiceRepository) Join(ctx context.Context, channelID int64, user models.User) resource.Stream[models.ParticipantInfo] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.ParticipantInfo, error) {
		channel, err := getChannel(ctx, r.Backend, channelID)
		if err != nil {
			return models.ParticipantInfo{}, err
		}
		if channel.Type != models.ChannelTypeVoice {
			return models.ParticipantInfo{}, ErrNotVoiceChannel
		}

		member, err := isMember(ctx, r.DB, r.Backend, channel.ServerID, user.ID)
		if err != nil {
			return models.ParticipantInfo{}, err
		}
		if !member {
			return models.ParticipantInfo{}, ErrForbidden
		}

		field := strconv.FormatInt(user.ID, 10)
		previous, err := r.KV.HGet(ctx, voiceUsersKey, field)
		if err != nil {
			return models.ParticipantInfo{}, err
		}
		if previous != "" && previous != strconv.FormatInt(channelID, 10) {
			previousID, err := strconv.ParseInt(previous, 10, 64)
			if err != nil {
				return models.ParticipantInfo{}, err
			}
			if _, err := r.remove(ctx, previousID, user.ID); err != nil {
				return models.ParticipantInfo{}, err
			}
		}

		participant := models.ParticipantInfo{
			UserID:      user.ID,
			ChannelID:   channelID,
			SessionID:   uuid.NewString(),
			DisplayName: user.DisplayName,
			Picture:     user.Picture,
			JoinedAt:    time.Now(),
		}

		err = r.store(ctx, participant)
		if err != nil {
			return models.ParticipantInfo{}, err
		}
		err = r.KV.HSet(ctx, voiceUsersKey, field, strconv.FormatInt(channelID, 10))
		if err != nil {
			return models.ParticipantInfo{}, err
		}

		r.Sugar.Debugf("User ID [%d] joined voice channel ID [%d]", user.ID, channelID)
		r.emit(ctx, hub.ParticipantJoined, participant, voiceKey(channelID))

		return participant, nil
	})
}

func (r *VoiceRepository) Leave(ctx context.Context, channelID int64, userID int64) resource.Stream[struct{}] {
	return once(ctx, r.Sugar, func(ctx context.Context) (struct{}, error) {
		existed, err := r.remove(ctx, channelID, userID)
		if err != nil {
			return struct{}{}, err
		}
		if !existed {
			return struct{}{}, ErrNotInVoice
		}
		return struct{}{}, nil
	})
}

// SetMuted updates the audio state of userID. Deafening always mutes.
func (r *VoiceRepository) SetMuted(ctx context.Context, channelID int64, userID int64, muted bool, deafened bool) resource.Stream[models.ParticipantInfo] {
	return once(ctx, r.Sugar, func(ctx context.Context) (models.ParticipantInfo, error) {
		participant, err := r.participant(ctx, channelID, userID)
		if err != nil {
			return models.ParticipantInfo{}, err
		}

		participant.Muted = muted || deafened
		participant.Deafened = deafened

		err = r.store(ctx, participant)
		if err != nil {
			return models.ParticipantInfo{}, err
		}

		r.emit(ctx, hub.ParticipantModified, participant, voiceKey(channelID))

		return participant, nil
	})
}

func (r *VoiceRepository) participants(ctx context.Context, channelID int64) ([]models.ParticipantInfo, error) {
	all, err := r.KV.HGetAll(ctx, voiceKey(channelID))
	if err != nil {
		return nil, err
	}

	participants := make([]models.ParticipantInfo, 0, len(all))
	for _, raw := range all {
		var participant models.ParticipantInfo
		if err := json.Unmarshal([]byte(raw), &participant); err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}

	slices.SortFunc(participants, func(a, b models.ParticipantInfo) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	return participants, nil
}

// ObserveParticipants lists who is connected to channelID, in the order they joined.
func (r *VoiceRepository) ObserveParticipants(ctx context.Context, channelID int64) resource.Stream[[]models.ParticipantInfo] {
	return watch(ctx, r.Backend, []string{voiceKey(channelID)}, func(ctx context.Context) ([]models.ParticipantInfo, error) {
		if _, err := getChannel(ctx, r.Backend, channelID); err != nil {
			return nil, err
		}
		return r.participants(ctx, channelID)
	})
}
