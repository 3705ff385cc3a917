package httpapi

import (
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/leandrodaf/fifths/sdk/theory"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"detail"`
}

// KeyResponse is the selected key with its circle highlights and progression.
type KeyResponse struct {
	theory.KeyState
	ActiveIndices []int      `json:"active_indices"`
	ScaleIndices  []int      `json:"scale_indices"`
	Progression   [][]string `json:"progression"`
}

// NoteRequestBody plays one note. Zero velocity or duration keeps the default.
type NoteRequestBody struct {
	Note       string `json:"note"`
	Velocity   uint8  `json:"velocity"`
	DurationMs int    `json:"duration_ms"`
}

// ChordRequestBody plays notes together. Zero velocity or duration keeps the default.
type ChordRequestBody struct {
	Notes      []string `json:"notes"`
	Velocity   uint8    `json:"velocity"`
	DurationMs int      `json:"duration_ms"`
}

// ProgressionRequestBody plays Chords, or the diatonic progression of the
// selected key when Chords is empty.
type ProgressionRequestBody struct {
	Chords   [][]string `json:"chords"`
	Velocity uint8      `json:"velocity"`
	StepMs   int        `json:"step_ms"`
}

// PlayResponse lists the note-on and note-off batches that were scheduled.
type PlayResponse struct {
	Events []contracts.ScheduledEvent `json:"events"`
}

// ProgressionResponse identifies a started progression and its planned batches.
type ProgressionResponse struct {
	ID     string                     `json:"id"`
	Events []contracts.ScheduledEvent `json:"events"`
}
