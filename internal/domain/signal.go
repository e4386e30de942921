package domain

import "github.com/pion/webrtc/v3"

// SignalEnvelope is the point-to-point signaling payload relayed between
// peers for screen sharing and file transfer. The server routes by To and
// stamps From; sdp, candidate and payload pass through untouched.
type SignalEnvelope struct {
	To        string                     `json:"to,omitempty"`
	From      string                     `json:"from,omitempty"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
	Payload   map[string]any             `json:"payload,omitempty"`
}
