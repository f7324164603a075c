// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package event

import "time"

// defaultHeartbeatInterval is assumed when a hello frame omits the
// heartbeat_interval key.
const defaultHeartbeatInterval = 45 * time.Second

// Control frames drive the connection lifecycle. Hello and
// HeartbeatAck are consumed by the protocol engine and never reach
// handlers; Ready and Resumed are dispatched like any other event
// after the engine records their session state.

// Hello is the first frame the gateway sends on every connection. It
// carries the heartbeat cadence the client must honor for the life of
// the connection.
type Hello struct {
	Meta

	// HeartbeatInterval is the heartbeat cadence in milliseconds.
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

// Interval returns the heartbeat cadence as a duration, falling back
// to the protocol default of 45 seconds when the payload omitted or
// zeroed it.
func (e *Hello) Interval() time.Duration {
	if e.HeartbeatInterval <= 0 {
		return defaultHeartbeatInterval
	}
	return time.Duration(e.HeartbeatInterval) * time.Millisecond
}

// Ready acknowledges a successful identify. It names the session the
// server established, which the client presents on later resume
// attempts.
type Ready struct {
	Meta

	SessionID       string   `json:"session_id"`
	UserID          int64    `json:"user_id"`
	DisplayName     string   `json:"display_name"`
	ServerName      string   `json:"server_name"`
	ServerIcon      string   `json:"server_icon"`
	ServerTime      int64    `json:"server_time"`
	ProtocolVersion int      `json:"protocol_version"`
	Capabilities    []string `json:"capabilities"`
}

// Resumed acknowledges a successful resume. Events missed while
// disconnected are replayed after it with their original sequence
// numbers.
type Resumed struct {
	Meta
}

// HeartbeatAck answers a client heartbeat. The protocol engine uses
// it to track liveness and never dispatches it.
type HeartbeatAck struct {
	Meta
}

// Messages.

type MessageCreate struct {
	Meta

	MessageID int64 `json:"msg_id"`
	// Exactly one of FeedID and DMID is set, depending on where the
	// message was posted.
	FeedID      int64            `json:"feed_id"`
	DMID        int64            `json:"dm_id"`
	AuthorID    int64            `json:"author_id"`
	Body        string           `json:"body"`
	Timestamp   int64            `json:"timestamp"`
	ReplyTo     int64            `json:"reply_to"`
	Mentions    []int64          `json:"mentions"`
	WebhookID   int64            `json:"webhook_id"`
	Embed       map[string]any   `json:"embed"`
	Attachments []map[string]any `json:"attachments"`
	// OpaqueBlob carries the ciphertext of end-to-end encrypted
	// messages; Body is empty for those.
	OpaqueBlob string `json:"opaque_blob"`
}

type MessageUpdate struct {
	Meta

	MessageID     int64  `json:"msg_id"`
	FeedID        int64  `json:"feed_id"`
	DMID          int64  `json:"dm_id"`
	Body          string `json:"body"`
	EditTimestamp int64  `json:"edit_timestamp"`
}

type MessageDelete struct {
	Meta

	MessageID int64 `json:"msg_id"`
	FeedID    int64 `json:"feed_id"`
	DMID      int64 `json:"dm_id"`
}

type MessageBulkDelete struct {
	Meta

	FeedID     int64   `json:"feed_id"`
	MessageIDs []int64 `json:"msg_ids"`
}

type MessageReactionAdd struct {
	Meta

	MessageID int64  `json:"msg_id"`
	UserID    int64  `json:"user_id"`
	Emoji     string `json:"emoji"`
}

type MessageReactionRemove struct {
	Meta

	MessageID int64  `json:"msg_id"`
	UserID    int64  `json:"user_id"`
	Emoji     string `json:"emoji"`
}

type MessagePinUpdate struct {
	Meta

	MessageID int64 `json:"msg_id"`
	FeedID    int64 `json:"feed_id"`
	Pinned    bool  `json:"pinned"`
}

// Members.

type MemberJoin struct {
	Meta

	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type MemberLeave struct {
	Meta

	UserID int64 `json:"user_id"`
}

type MemberUpdate struct {
	Meta

	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
}

// UserUpdate reports a change to a user's account-level profile. The
// gateway sends only the changed keys, so everything beyond the user
// id arrives in Extra.
type UserUpdate struct {
	Meta

	UserID int64          `json:"user_id"`
	Extra  map[string]any `json:"-"`
}

func (e *UserUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type MemberBan struct {
	Meta

	UserID int64 `json:"user_id"`
}

type MemberUnban struct {
	Meta

	UserID int64 `json:"user_id"`
}

// Channels. Feeds are text channels, rooms are voice channels; both
// sit inside categories and can host threads.

type FeedCreate struct {
	Meta

	FeedID int64  `json:"feed_id"`
	Name   string `json:"name"`
	// ChannelType is the feed kind. The wire carries it under the
	// payload's own "type" key; see payloadTypeRemaps.
	ChannelType string `json:"channel_type"`
	Topic       string `json:"topic"`
	CategoryID  int64  `json:"category_id"`
}

type FeedUpdate struct {
	Meta

	FeedID int64          `json:"feed_id"`
	Extra  map[string]any `json:"-"`
}

func (e *FeedUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type FeedDelete struct {
	Meta

	FeedID int64 `json:"feed_id"`
}

type RoomCreate struct {
	Meta

	RoomID int64  `json:"room_id"`
	Name   string `json:"name"`
	// ChannelType is the room kind, remapped from the payload's own
	// "type" key like FeedCreate.ChannelType.
	ChannelType string `json:"channel_type"`
	CategoryID  int64  `json:"category_id"`
}

type RoomUpdate struct {
	Meta

	RoomID int64          `json:"room_id"`
	Extra  map[string]any `json:"-"`
}

func (e *RoomUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type RoomDelete struct {
	Meta

	RoomID int64 `json:"room_id"`
}

type CategoryCreate struct {
	Meta

	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Position   int64  `json:"position"`
}

type CategoryUpdate struct {
	Meta

	CategoryID int64          `json:"category_id"`
	Extra      map[string]any `json:"-"`
}

func (e *CategoryUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type CategoryDelete struct {
	Meta

	CategoryID int64 `json:"category_id"`
}

type ThreadCreate struct {
	Meta

	ThreadID     int64  `json:"thread_id"`
	ParentFeedID int64  `json:"parent_feed_id"`
	Name         string `json:"name"`
	// ParentMessageID is the message the thread branched from, zero
	// for free-standing threads.
	ParentMessageID int64 `json:"parent_msg_id"`
}

type ThreadUpdate struct {
	Meta

	ThreadID int64          `json:"thread_id"`
	Extra    map[string]any `json:"-"`
}

func (e *ThreadUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type ThreadDelete struct {
	Meta

	ThreadID int64 `json:"thread_id"`
}

type ThreadSubscribe struct {
	Meta

	ThreadID int64 `json:"thread_id"`
	UserID   int64 `json:"user_id"`
}

type ThreadUnsubscribe struct {
	Meta

	ThreadID int64 `json:"thread_id"`
	UserID   int64 `json:"user_id"`
}

// Roles and permissions.

type RoleCreate struct {
	Meta

	RoleID      int64  `json:"role_id"`
	Name        string `json:"name"`
	Color       int64  `json:"color"`
	Permissions int64  `json:"permissions"`
	Position    int64  `json:"position"`
}

type RoleUpdate struct {
	Meta

	RoleID int64          `json:"role_id"`
	Extra  map[string]any `json:"-"`
}

func (e *RoleUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type RoleDelete struct {
	Meta

	RoleID int64 `json:"role_id"`
}

type PermissionOverrideUpdate struct {
	Meta

	// SpaceType and SpaceID locate the feed, room, or category the
	// override applies to; TargetType and TargetID name the role or
	// user it binds.
	SpaceType  string `json:"space_type"`
	SpaceID    int64  `json:"space_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Allow      int64  `json:"allow"`
	Deny       int64  `json:"deny"`
}

type PermissionOverrideDelete struct {
	Meta

	SpaceType  string `json:"space_type"`
	SpaceID    int64  `json:"space_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
}

type RoleAssign struct {
	Meta

	RoleID int64 `json:"role_id"`
	UserID int64 `json:"user_id"`
}

type RoleRevoke struct {
	Meta

	RoleID int64 `json:"role_id"`
	UserID int64 `json:"user_id"`
}

// Emoji and stickers.

type EmojiCreate struct {
	Meta

	EmojiID   int64  `json:"emoji_id"`
	Name      string `json:"name"`
	CreatorID int64  `json:"creator_id"`
}

type EmojiUpdate struct {
	Meta

	EmojiID int64          `json:"emoji_id"`
	Extra   map[string]any `json:"-"`
}

func (e *EmojiUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type EmojiDelete struct {
	Meta

	EmojiID int64 `json:"emoji_id"`
}

type StickerCreate struct {
	Meta

	StickerID int64  `json:"sticker_id"`
	Name      string `json:"name"`
	CreatorID int64  `json:"creator_id"`
}

type StickerUpdate struct {
	Meta

	StickerID int64          `json:"sticker_id"`
	Extra     map[string]any `json:"-"`
}

func (e *StickerUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type StickerDelete struct {
	Meta

	StickerID int64 `json:"sticker_id"`
}

// Server.

// ServerUpdate reports a change to server-wide settings. All changed
// keys arrive in Extra.
type ServerUpdate struct {
	Meta

	Extra map[string]any `json:"-"`
}

func (e *ServerUpdate) setExtra(extra map[string]any) { e.Extra = extra }

// Invites.

type InviteCreate struct {
	Meta

	Code      string `json:"code"`
	CreatorID int64  `json:"creator_id"`
	FeedID    int64  `json:"feed_id"`
}

type InviteDelete struct {
	Meta

	Code string `json:"code"`
}

// Direct messages.

type DMCreate struct {
	Meta

	DMID           int64   `json:"dm_id"`
	ParticipantIDs []int64 `json:"participant_ids"`
	IsGroup        bool    `json:"is_group"`
	Name           string  `json:"name"`
}

type DMUpdate struct {
	Meta

	DMID  int64          `json:"dm_id"`
	Extra map[string]any `json:"-"`
}

func (e *DMUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type DMRecipientAdd struct {
	Meta

	DMID   int64 `json:"dm_id"`
	UserID int64 `json:"user_id"`
}

type DMRecipientRemove struct {
	Meta

	DMID   int64 `json:"dm_id"`
	UserID int64 `json:"user_id"`
}

type DMReadNotify struct {
	Meta

	DMID          int64 `json:"dm_id"`
	UserID        int64 `json:"user_id"`
	UpToMessageID int64 `json:"up_to_msg_id"`
}

// Presence.

type TypingStart struct {
	Meta

	UserID int64 `json:"user_id"`
	FeedID int64 `json:"feed_id"`
	DMID   int64 `json:"dm_id"`
}

type PresenceUpdate struct {
	Meta

	UserID       int64          `json:"user_id"`
	Status       string         `json:"status"`
	CustomStatus string         `json:"custom_status"`
	Activity     map[string]any `json:"activity"`
}

// Friends and blocks.

type FriendRequest struct {
	Meta

	UserID   int64 `json:"user_id"`
	TargetID int64 `json:"target_id"`
}

type FriendAdd struct {
	Meta

	UserID   int64 `json:"user_id"`
	TargetID int64 `json:"target_id"`
}

type FriendReject struct {
	Meta

	UserID   int64 `json:"user_id"`
	TargetID int64 `json:"target_id"`
}

type FriendRemove struct {
	Meta

	UserID   int64 `json:"user_id"`
	TargetID int64 `json:"target_id"`
}

type BlockAdd struct {
	Meta

	UserID   int64 `json:"user_id"`
	TargetID int64 `json:"target_id"`
}

type BlockRemove struct {
	Meta

	UserID   int64 `json:"user_id"`
	TargetID int64 `json:"target_id"`
}

// Voice and stage.

type VoiceStateUpdate struct {
	Meta

	RoomID  int64            `json:"room_id"`
	Members []map[string]any `json:"members"`
}

// VoiceCodecNegotiation carries the codec the media server selected
// for a voice session. Negotiation parameters beyond the codec name
// arrive in Extra.
type VoiceCodecNegotiation struct {
	Meta

	MediaType string         `json:"media_type"`
	Codec     string         `json:"codec"`
	Extra     map[string]any `json:"-"`
}

func (e *VoiceCodecNegotiation) setExtra(extra map[string]any) { e.Extra = extra }

type StageRequest struct {
	Meta

	RoomID int64 `json:"room_id"`
	UserID int64 `json:"user_id"`
}

type StageInvite struct {
	Meta

	RoomID int64 `json:"room_id"`
	UserID int64 `json:"user_id"`
}

type StageInviteDecline struct {
	Meta

	RoomID int64 `json:"room_id"`
	UserID int64 `json:"user_id"`
}

type StageRevoke struct {
	Meta

	RoomID int64 `json:"room_id"`
	UserID int64 `json:"user_id"`
}

type StageTopicUpdate struct {
	Meta

	RoomID int64  `json:"room_id"`
	Topic  string `json:"topic"`
}

type StageResponse struct {
	Meta

	UserID int64          `json:"user_id"`
	Extra  map[string]any `json:"-"`
}

func (e *StageResponse) setExtra(extra map[string]any) { e.Extra = extra }

type MediaTokenRefresh struct {
	Meta

	RoomID     int64  `json:"room_id"`
	MediaToken string `json:"media_token"`
}

// End-to-end encryption. The MLS payloads and CPace pairing material
// are opaque to the client at this layer; Data fields carry base64.

type MLSWelcome struct {
	Meta

	Data string `json:"data"`
}

type MLSCommit struct {
	Meta

	Data    string `json:"data"`
	GroupID string `json:"group_id"`
}

type MLSProposal struct {
	Meta

	Data    string `json:"data"`
	GroupID string `json:"group_id"`
}

type DeviceListUpdate struct {
	Meta

	Devices []map[string]any `json:"devices"`
}

type DevicePairPrompt struct {
	Meta

	DeviceName string `json:"device_name"`
	IP         string `json:"ip"`
	Location   string `json:"location"`
	PairID     string `json:"pair_id"`
}

type CPaceISI struct {
	Meta

	PairID string `json:"pair_id"`
	Data   string `json:"data"`
}

type CPaceRSI struct {
	Meta

	PairID string `json:"pair_id"`
	Data   string `json:"data"`
}

type CPaceConfirm struct {
	Meta

	PairID string `json:"pair_id"`
	Data   string `json:"data"`
}

type CPaceNewDeviceKey struct {
	Meta

	PairID string `json:"pair_id"`
	Data   string `json:"data"`
	Nonce  string `json:"nonce"`
}

type KeyResetNotify struct {
	Meta

	UserID int64 `json:"user_id"`
}

// Webhooks.

type WebhookCreate struct {
	Meta

	WebhookID int64  `json:"webhook_id"`
	FeedID    int64  `json:"feed_id"`
	Name      string `json:"name"`
}

type WebhookUpdate struct {
	Meta

	WebhookID int64          `json:"webhook_id"`
	Extra     map[string]any `json:"-"`
}

func (e *WebhookUpdate) setExtra(extra map[string]any) { e.Extra = extra }

type WebhookDelete struct {
	Meta

	WebhookID int64 `json:"webhook_id"`
}

// Bots.

type BotCommandsUpdate struct {
	Meta

	BotID    int64            `json:"bot_id"`
	Commands []map[string]any `json:"commands"`
}

type BotCommandsDelete struct {
	Meta

	BotID        int64    `json:"bot_id"`
	CommandNames []string `json:"command_names"`
}

type InteractionCreate struct {
	Meta

	Interaction map[string]any `json:"interaction"`
}

// Feed subscription.

type FeedSubscribe struct {
	Meta

	FeedID int64 `json:"feed_id"`
	UserID int64 `json:"user_id"`
}

type FeedUnsubscribe struct {
	Meta

	FeedID int64 `json:"feed_id"`
	UserID int64 `json:"user_id"`
}

// Notifications.

type NotificationCreate struct {
	Meta

	UserID int64 `json:"user_id"`
	// NotificationType is the notification kind. The wire carries it
	// under the payload's own "type" key; see payloadTypeRemaps.
	NotificationType string `json:"notification_type"`
	FeedID           int64  `json:"feed_id"`
	ThreadID         int64  `json:"thread_id"`
	MessageID        int64  `json:"msg_id"`
	ActorID          int64  `json:"actor_id"`
	BodyPreview      string `json:"body_preview"`
}

// payloadTypeRemaps routes the payload's own "type" key into a typed
// field for frames where it denotes a sub-resource kind rather than
// the envelope discriminator. Deliberately table-driven: the collision
// is a protocol quirk to be spelled out, not a naming convention to
// infer.
var payloadTypeRemaps = map[string]func(Event, string){
	"notification_create": func(evt Event, kind string) { evt.(*NotificationCreate).NotificationType = kind },
	"feed_create":         func(evt Event, kind string) { evt.(*FeedCreate).ChannelType = kind },
	"room_create":         func(evt Event, kind string) { evt.(*RoomCreate).ChannelType = kind },
}

func init() {
	register("hello", func() Event { return &Hello{} })
	register("ready", func() Event { return &Ready{} })
	register("resumed", func() Event { return &Resumed{} })
	register("heartbeat_ack", func() Event { return &HeartbeatAck{} })
	register("message_create", func() Event { return &MessageCreate{} })
	register("message_update", func() Event { return &MessageUpdate{} })
	register("message_delete", func() Event { return &MessageDelete{} })
	register("message_bulk_delete", func() Event { return &MessageBulkDelete{} })
	register("message_reaction_add", func() Event { return &MessageReactionAdd{} })
	register("message_reaction_remove", func() Event { return &MessageReactionRemove{} })
	register("message_pin_update", func() Event { return &MessagePinUpdate{} })
	register("member_join", func() Event { return &MemberJoin{} })
	register("member_leave", func() Event { return &MemberLeave{} })
	register("member_update", func() Event { return &MemberUpdate{} })
	register("user_update", func() Event { return &UserUpdate{} })
	register("member_ban", func() Event { return &MemberBan{} })
	register("member_unban", func() Event { return &MemberUnban{} })
	register("feed_create", func() Event { return &FeedCreate{} })
	register("feed_update", func() Event { return &FeedUpdate{} })
	register("feed_delete", func() Event { return &FeedDelete{} })
	register("room_create", func() Event { return &RoomCreate{} })
	register("room_update", func() Event { return &RoomUpdate{} })
	register("room_delete", func() Event { return &RoomDelete{} })
	register("category_create", func() Event { return &CategoryCreate{} })
	register("category_update", func() Event { return &CategoryUpdate{} })
	register("category_delete", func() Event { return &CategoryDelete{} })
	register("thread_create", func() Event { return &ThreadCreate{} })
	register("thread_update", func() Event { return &ThreadUpdate{} })
	register("thread_delete", func() Event { return &ThreadDelete{} })
	register("thread_subscribe", func() Event { return &ThreadSubscribe{} })
	register("thread_unsubscribe", func() Event { return &ThreadUnsubscribe{} })
	register("role_create", func() Event { return &RoleCreate{} })
	register("role_update", func() Event { return &RoleUpdate{} })
	register("role_delete", func() Event { return &RoleDelete{} })
	register("permission_override_update", func() Event { return &PermissionOverrideUpdate{} })
	register("permission_override_delete", func() Event { return &PermissionOverrideDelete{} })
	register("role_assign", func() Event { return &RoleAssign{} })
	register("role_revoke", func() Event { return &RoleRevoke{} })
	register("emoji_create", func() Event { return &EmojiCreate{} })
	register("emoji_update", func() Event { return &EmojiUpdate{} })
	register("emoji_delete", func() Event { return &EmojiDelete{} })
	register("sticker_create", func() Event { return &StickerCreate{} })
	register("sticker_update", func() Event { return &StickerUpdate{} })
	register("sticker_delete", func() Event { return &StickerDelete{} })
	register("server_update", func() Event { return &ServerUpdate{} })
	register("invite_create", func() Event { return &InviteCreate{} })
	register("invite_delete", func() Event { return &InviteDelete{} })
	register("dm_create", func() Event { return &DMCreate{} })
	register("dm_update", func() Event { return &DMUpdate{} })
	register("dm_recipient_add", func() Event { return &DMRecipientAdd{} })
	register("dm_recipient_remove", func() Event { return &DMRecipientRemove{} })
	register("dm_read_notify", func() Event { return &DMReadNotify{} })
	register("typing_start", func() Event { return &TypingStart{} })
	register("presence_update", func() Event { return &PresenceUpdate{} })
	register("friend_request", func() Event { return &FriendRequest{} })
	register("friend_add", func() Event { return &FriendAdd{} })
	register("friend_reject", func() Event { return &FriendReject{} })
	register("friend_remove", func() Event { return &FriendRemove{} })
	register("block_add", func() Event { return &BlockAdd{} })
	register("block_remove", func() Event { return &BlockRemove{} })
	register("voice_state_update", func() Event { return &VoiceStateUpdate{} })
	register("voice_codec_neg", func() Event { return &VoiceCodecNegotiation{} })
	register("stage_request", func() Event { return &StageRequest{} })
	register("stage_invite", func() Event { return &StageInvite{} })
	register("stage_invite_decline", func() Event { return &StageInviteDecline{} })
	register("stage_revoke", func() Event { return &StageRevoke{} })
	register("stage_topic_update", func() Event { return &StageTopicUpdate{} })
	register("stage_response", func() Event { return &StageResponse{} })
	register("media_token_refresh", func() Event { return &MediaTokenRefresh{} })
	register("mls_welcome", func() Event { return &MLSWelcome{} })
	register("mls_commit", func() Event { return &MLSCommit{} })
	register("mls_proposal", func() Event { return &MLSProposal{} })
	register("device_list_update", func() Event { return &DeviceListUpdate{} })
	register("device_pair_prompt", func() Event { return &DevicePairPrompt{} })
	register("cpace_isi", func() Event { return &CPaceISI{} })
	register("cpace_rsi", func() Event { return &CPaceRSI{} })
	register("cpace_confirm", func() Event { return &CPaceConfirm{} })
	register("cpace_new_device_key", func() Event { return &CPaceNewDeviceKey{} })
	register("key_reset_notify", func() Event { return &KeyResetNotify{} })
	register("webhook_create", func() Event { return &WebhookCreate{} })
	register("webhook_update", func() Event { return &WebhookUpdate{} })
	register("webhook_delete", func() Event { return &WebhookDelete{} })
	register("bot_commands_update", func() Event { return &BotCommandsUpdate{} })
	register("bot_commands_delete", func() Event { return &BotCommandsDelete{} })
	register("interaction_create", func() Event { return &InteractionCreate{} })
	register("feed_subscribe", func() Event { return &FeedSubscribe{} })
	register("feed_unsubscribe", func() Event { return &FeedUnsubscribe{} })
	register("notification_create", func() Event { return &NotificationCreate{} })
}
