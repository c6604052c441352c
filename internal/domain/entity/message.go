package entity

import "github.com/google/uuid"

// DigestDateLayout is the wire format of digest job dates.
const DigestDateLayout = "2006-01-02"

// VideoJobMessage is the descriptor popped from the video queue. The
// optional trace context carries W3C traceparent headers from the enqueuing
// request.
type VideoJobMessage struct {
	VideoID      uuid.UUID         `json:"video_id"`
	TraceContext map[string]string `json:"trace_context,omitempty"`
}

// DigestJobMessage is the (pet, date) key popped from the digest queue. It
// is a pure queue message, never persisted.
type DigestJobMessage struct {
	PetID int    `json:"pet_id"`
	Date  string `json:"date"`
}
