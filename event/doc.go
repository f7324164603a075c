// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package event defines the typed model for gateway frames and the
// decoder that maps raw envelopes onto it.
//
// Every frame shares the envelope shape {"type", "seq", "d"}: a type
// discriminator, an optional sequence number, and an optional payload
// object. [Decode] looks the discriminator up in a static registry
// built at init time. Known types bind their payload keys to named
// struct fields; unknown types fall back to [Unknown] rather than
// erroring, so new server-side event types never break older clients.
//
// Types that declare an Extra field ([UserUpdate], [ServerUpdate],
// and the other update notifications) collect unbound payload keys
// there instead of dropping them. A small remap table routes the
// payload's own "type" key into [NotificationCreate.NotificationType]
// and the ChannelType fields of [FeedCreate] and [RoomCreate], where
// it denotes a sub-resource kind rather than the envelope
// discriminator.
//
// Decoding failures surface as [DecodeError]. Callers are expected to
// log and skip the offending frame, never to tear down the connection
// over it.
package event
