// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

// CloseHeartbeatTimeout is the synthetic close code the client assigns
// when the gateway stops acknowledging heartbeats and the connection
// is force-closed for liveness. It never appears on the wire.
const CloseHeartbeatTimeout = 4900

// CloseClass is the reconnection behavior a close code allows.
type CloseClass int

const (
	// ClassFatal terminates the client. Run propagates the error and
	// never retries.
	ClassFatal CloseClass = iota

	// ClassResumable allows reconnecting with a resume frame: the
	// session id and last sequence number are kept so the gateway can
	// replay missed events.
	ClassResumable

	// ClassReconnectable allows reconnecting with a fresh identify
	// only: the session is discarded before the next attempt.
	ClassReconnectable
)

func (c CloseClass) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	case ClassResumable:
		return "resumable"
	case ClassReconnectable:
		return "reconnectable"
	default:
		return "unknown"
	}
}

// ClosePolicy maps close codes to reconnection behavior. Codes in
// neither list are fatal. The gateway's close-code table is not
// formally documented beyond "resumable implies reconnectable", so the
// policy is an explicit, overridable value rather than a hard-coded
// lookup.
type ClosePolicy struct {
	// Resumable codes permit a resume of the existing session. Every
	// resumable code is implicitly reconnectable as well.
	Resumable []int

	// Reconnectable codes permit a fresh identify but invalidate the
	// session.
	Reconnectable []int
}

// DefaultClosePolicy returns the close-code table observed from the
// production gateway, plus the locally synthesized
// [CloseHeartbeatTimeout], which is classified resumable.
func DefaultClosePolicy() *ClosePolicy {
	return &ClosePolicy{
		Resumable: []int{4007, 4008, CloseHeartbeatTimeout},
		Reconnectable: []int{
			4000, 4001, 4002, 4006, 4007, 4008, 4009, 4010, 4011,
			CloseHeartbeatTimeout,
		},
	}
}

// Classify returns the reconnection behavior for a close code.
// Resumable wins over reconnectable when a code appears in both lists.
func (p *ClosePolicy) Classify(code int) CloseClass {
	for _, resumable := range p.Resumable {
		if code == resumable {
			return ClassResumable
		}
	}
	for _, reconnectable := range p.Reconnectable {
		if code == reconnectable {
			return ClassReconnectable
		}
	}
	return ClassFatal
}
