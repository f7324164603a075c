// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// clientFrame is the envelope for every client→gateway message.
type clientFrame struct {
	Type string `json:"type"`
	D    any    `json:"d,omitempty"`
}

func encodeClientFrame(frameType string, data any) ([]byte, error) {
	encoded, err := json.Marshal(clientFrame{Type: frameType, D: data})
	if err != nil {
		return nil, fmt.Errorf("gateway: encode %s frame: %w", frameType, err)
	}
	return encoded, nil
}

// identifyPayload opens a fresh session.
type identifyPayload struct {
	Token           string `json:"token"`
	ProtocolVersion int    `json:"protocol_version"`
}

// resumePayload reattaches to an existing session so the gateway can
// replay events after LastSeq.
type resumePayload struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	LastSeq   int64  `json:"last_seq"`
}

// typingPayload announces typing activity in a feed.
type typingPayload struct {
	FeedID int64 `json:"feed_id"`
}

// presencePayload publishes the client's presence status.
type presencePayload struct {
	Status       string `json:"status"`
	CustomStatus string `json:"custom_status,omitempty"`
}

// normalizeEndpoint turns a configured gateway URL into the websocket
// URL to dial: http(s) schemes map to ws(s), a trailing slash is
// trimmed, and the negotiated compression codec is appended as a
// compress query parameter.
func normalizeEndpoint(endpoint, compression string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("gateway: endpoint %q: %w", endpoint, err)
	}

	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("gateway: endpoint %q: unsupported scheme %q", endpoint, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("gateway: endpoint %q: missing host", endpoint)
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/")

	if compression != "" {
		query := parsed.Query()
		query.Set("compress", compression)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}
