// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"errors"
	"testing"
	"time"
)

// mustDecode decodes a frame that the test expects to be well-formed.
func mustDecode(t *testing.T, frame string) Event {
	t.Helper()
	evt, err := Decode([]byte(frame))
	if err != nil {
		t.Fatalf("Decode(%s): %v", frame, err)
	}
	return evt
}

func TestDecodeKnownType(t *testing.T) {
	evt := mustDecode(t, `{"type":"message_create","seq":7,"d":{
		"msg_id":101,"feed_id":5,"author_id":9,"body":"hi there",
		"timestamp":1700000000000,"mentions":[9,12],"reply_to":88}}`)

	message, ok := evt.(*MessageCreate)
	if !ok {
		t.Fatalf("Decode returned %T, want *MessageCreate", evt)
	}
	if message.EventType() != "message_create" {
		t.Errorf("EventType() = %q, want %q", message.EventType(), "message_create")
	}
	seq, ok := message.Sequence()
	if !ok || seq != 7 {
		t.Errorf("Sequence() = (%d, %t), want (7, true)", seq, ok)
	}
	if message.MessageID != 101 || message.FeedID != 5 || message.AuthorID != 9 {
		t.Errorf("ids = (%d, %d, %d), want (101, 5, 9)", message.MessageID, message.FeedID, message.AuthorID)
	}
	if message.Body != "hi there" {
		t.Errorf("Body = %q, want %q", message.Body, "hi there")
	}
	if message.ReplyTo != 88 {
		t.Errorf("ReplyTo = %d, want 88", message.ReplyTo)
	}
	if len(message.Mentions) != 2 || message.Mentions[0] != 9 || message.Mentions[1] != 12 {
		t.Errorf("Mentions = %v, want [9 12]", message.Mentions)
	}
	if len(message.Raw) == 0 {
		t.Error("Raw not populated")
	}
}

func TestDecodeSequenceAbsent(t *testing.T) {
	evt := mustDecode(t, `{"type":"typing_start","d":{"user_id":4,"feed_id":2}}`)
	if seq, ok := evt.(*TypingStart).Sequence(); ok {
		t.Errorf("Sequence() = (%d, true), want ok=false for a frame without seq", seq)
	}
}

func TestDecodeSequenceZero(t *testing.T) {
	// seq 0 is present, just zero: it must be distinguishable from
	// an absent seq.
	evt := mustDecode(t, `{"type":"resumed","seq":0}`)
	seq, ok := evt.Sequence()
	if !ok || seq != 0 {
		t.Errorf("Sequence() = (%d, %t), want (0, true)", seq, ok)
	}
}

func TestDecodeUnknownTypeFallsBack(t *testing.T) {
	evt := mustDecode(t, `{"type":"future_event","seq":3,"d":{"foo":"bar"}}`)

	unknown, ok := evt.(*Unknown)
	if !ok {
		t.Fatalf("Decode returned %T, want *Unknown", evt)
	}
	if unknown.EventType() != "future_event" {
		t.Errorf("EventType() = %q, want %q", unknown.EventType(), "future_event")
	}
	if seq, ok := unknown.Sequence(); !ok || seq != 3 {
		t.Errorf("Sequence() = (%d, %t), want (3, true)", seq, ok)
	}
	if got := unknown.Payload["foo"]; got != "bar" {
		t.Errorf("Payload[%q] = %v, want %q", "foo", got, "bar")
	}
}

func TestDecodeUnknownTypeNonObjectPayload(t *testing.T) {
	evt := mustDecode(t, `{"type":"future_event","d":[1,2,3]}`)
	if payload := evt.(*Unknown).Payload; payload != nil {
		t.Errorf("Payload = %v, want nil for a non-object d", payload)
	}
}

func TestDecodeMissingTypeFallsBack(t *testing.T) {
	evt := mustDecode(t, `{"seq":1,"d":{}}`)
	unknown, ok := evt.(*Unknown)
	if !ok {
		t.Fatalf("Decode returned %T, want *Unknown", evt)
	}
	if unknown.EventType() != "" {
		t.Errorf("EventType() = %q, want empty", unknown.EventType())
	}
}

func TestDecodeExtraBucket(t *testing.T) {
	evt := mustDecode(t, `{"type":"user_update","seq":9,"d":{
		"user_id":42,"avatar":"img.png","banner_color":"#102030","extra":"literal"}}`)

	update := evt.(*UserUpdate)
	if update.UserID != 42 {
		t.Errorf("UserID = %d, want 42", update.UserID)
	}
	if got := update.Extra["avatar"]; got != "img.png" {
		t.Errorf("Extra[%q] = %v, want %q", "avatar", got, "img.png")
	}
	if got := update.Extra["banner_color"]; got != "#102030" {
		t.Errorf("Extra[%q] = %v, want %q", "banner_color", got, "#102030")
	}
	// Bound keys never shadow into the bucket, and a literal "extra"
	// key is dropped rather than nested.
	if _, present := update.Extra["user_id"]; present {
		t.Error("bound key user_id leaked into Extra")
	}
	if _, present := update.Extra["extra"]; present {
		t.Error("literal extra key leaked into Extra")
	}
}

func TestDecodeExtraBucketCollectsPayloadType(t *testing.T) {
	// Types without a remap entry keep a payload-level "type" key in
	// their Extra bucket.
	evt := mustDecode(t, `{"type":"voice_codec_neg","d":{
		"media_type":"audio","codec":"opus","type":"renegotiate"}}`)

	negotiation := evt.(*VoiceCodecNegotiation)
	if negotiation.Codec != "opus" || negotiation.MediaType != "audio" {
		t.Errorf("(MediaType, Codec) = (%q, %q), want (audio, opus)",
			negotiation.MediaType, negotiation.Codec)
	}
	if got := negotiation.Extra["type"]; got != "renegotiate" {
		t.Errorf("Extra[%q] = %v, want %q", "type", got, "renegotiate")
	}
}

func TestDecodePayloadTypeRemap(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		check func(t *testing.T, evt Event)
	}{
		{
			name:  "notification_create",
			frame: `{"type":"notification_create","d":{"user_id":1,"type":"mention","msg_id":55}}`,
			check: func(t *testing.T, evt Event) {
				notification := evt.(*NotificationCreate)
				if notification.NotificationType != "mention" {
					t.Errorf("NotificationType = %q, want %q", notification.NotificationType, "mention")
				}
				if notification.EventType() != "notification_create" {
					t.Errorf("EventType() = %q, want envelope discriminator", notification.EventType())
				}
				if notification.MessageID != 55 {
					t.Errorf("MessageID = %d, want 55", notification.MessageID)
				}
			},
		},
		{
			name:  "feed_create",
			frame: `{"type":"feed_create","d":{"feed_id":8,"name":"general","type":"text"}}`,
			check: func(t *testing.T, evt Event) {
				feed := evt.(*FeedCreate)
				if feed.ChannelType != "text" {
					t.Errorf("ChannelType = %q, want %q", feed.ChannelType, "text")
				}
				if feed.EventType() != "feed_create" {
					t.Errorf("EventType() = %q, want envelope discriminator", feed.EventType())
				}
			},
		},
		{
			name:  "room_create",
			frame: `{"type":"room_create","d":{"room_id":3,"name":"lounge","type":"voice"}}`,
			check: func(t *testing.T, evt Event) {
				room := evt.(*RoomCreate)
				if room.ChannelType != "voice" {
					t.Errorf("ChannelType = %q, want %q", room.ChannelType, "voice")
				}
			},
		},
		{
			name:  "remap wins over direct key",
			frame: `{"type":"feed_create","d":{"feed_id":8,"channel_type":"stale","type":"text"}}`,
			check: func(t *testing.T, evt Event) {
				if got := evt.(*FeedCreate).ChannelType; got != "text" {
					t.Errorf("ChannelType = %q, want remapped %q", got, "text")
				}
			},
		},
		{
			name:  "direct key without payload type",
			frame: `{"type":"feed_create","d":{"feed_id":8,"channel_type":"text"}}`,
			check: func(t *testing.T, evt Event) {
				if got := evt.(*FeedCreate).ChannelType; got != "text" {
					t.Errorf("ChannelType = %q, want %q", got, "text")
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(t, mustDecode(t, test.frame))
		})
	}
}

func TestDecodeMalformedFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"invalid json", `{"type":"ready"`},
		{"empty input", ``},
		{"null envelope", `null`},
		{"number envelope", `42`},
		{"array envelope", `[1,2]`},
		{"string envelope", `"hello"`},
		{"non-numeric seq", `{"type":"ready","seq":"x"}`},
		{"payload contradicts schema", `{"type":"message_create","d":5}`},
		{"payload field type mismatch", `{"type":"message_create","d":{"msg_id":"not a number"}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode([]byte(test.frame))
			if err == nil {
				t.Fatalf("Decode(%s) succeeded, want DecodeError", test.frame)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode(%s) error = %T, want *DecodeError", test.frame, err)
			}
		})
	}
}

func TestDecodePayloadAbsent(t *testing.T) {
	for _, frame := range []string{
		`{"type":"member_leave"}`,
		`{"type":"member_leave","d":null}`,
	} {
		evt := mustDecode(t, frame)
		leave, ok := evt.(*MemberLeave)
		if !ok {
			t.Fatalf("Decode(%s) returned %T, want *MemberLeave", frame, evt)
		}
		if leave.UserID != 0 {
			t.Errorf("Decode(%s).UserID = %d, want zero value", frame, leave.UserID)
		}
	}
}

func TestDecodeControlFrames(t *testing.T) {
	hello := mustDecode(t, `{"type":"hello","d":{"heartbeat_interval":30000}}`)
	if got := hello.(*Hello).Interval(); got != 30*time.Second {
		t.Errorf("Interval() = %v, want 30s", got)
	}

	bare := mustDecode(t, `{"type":"hello","d":{}}`)
	if got := bare.(*Hello).Interval(); got != 45*time.Second {
		t.Errorf("Interval() with omitted cadence = %v, want default 45s", got)
	}

	ack := mustDecode(t, `{"type":"heartbeat_ack"}`)
	if _, ok := ack.(*HeartbeatAck); !ok {
		t.Errorf("Decode returned %T, want *HeartbeatAck", ack)
	}

	ready := mustDecode(t, `{"type":"ready","seq":1,"d":{
		"session_id":"S1","user_id":10,"protocol_version":1,"capabilities":["mls"]}}`)
	readyEvent := ready.(*Ready)
	if readyEvent.SessionID != "S1" || readyEvent.UserID != 10 {
		t.Errorf("(SessionID, UserID) = (%q, %d), want (S1, 10)", readyEvent.SessionID, readyEvent.UserID)
	}
	if len(readyEvent.Capabilities) != 1 || readyEvent.Capabilities[0] != "mls" {
		t.Errorf("Capabilities = %v, want [mls]", readyEvent.Capabilities)
	}
}

func TestDecodeNullPayloadValues(t *testing.T) {
	// Nullable wire fields decode to zero values, not errors.
	evt := mustDecode(t, `{"type":"ready","d":{"session_id":"S2","server_icon":null,"server_time":null}}`)
	ready := evt.(*Ready)
	if ready.ServerIcon != "" || ready.ServerTime != 0 {
		t.Errorf("(ServerIcon, ServerTime) = (%q, %d), want zero values", ready.ServerIcon, ready.ServerTime)
	}
}

func TestDecodeEnvelopeKeysDoNotLeakIntoPayloadFields(t *testing.T) {
	// A payload carrying "seq" must not disturb the envelope sequence,
	// and the envelope discriminator must survive payload binding.
	evt := mustDecode(t, `{"type":"member_leave","seq":5,"d":{"user_id":1,"seq":999,"type":"spoof"}}`)
	if seq, ok := evt.Sequence(); !ok || seq != 5 {
		t.Errorf("Sequence() = (%d, %t), want envelope value (5, true)", seq, ok)
	}
	if evt.EventType() != "member_leave" {
		t.Errorf("EventType() = %q, want %q", evt.EventType(), "member_leave")
	}
}
