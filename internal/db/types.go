package db

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps ListRenders when no limit is given.
const DefaultListLimit = 50

// Render represents one produced document
type Render struct {
	ID         uuid.UUID `json:"id"`
	Profile    string    `json:"profile"`
	OutputPath string    `json:"output_path"`
	Layout     string    `json:"layout"`
	Sections   []string  `json:"sections"`
	Omitted    []string  `json:"omitted,omitempty"`
	Keywords   []string  `json:"keywords,omitempty"`
	Details    *Details  `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Details holds the degraded-path reports of a render, stored as JSONB
type Details struct {
	Title          string   `json:"title,omitempty"`
	Author         string   `json:"author,omitempty"`
	Category       string   `json:"category,omitempty"`
	StyleSkips     []string `json:"style_skips,omitempty"`
	OverlaySkips   []string `json:"overlay_skips,omitempty"`
	StructureFrom  string   `json:"structure_from,omitempty"`
	CandidateSkips []string `json:"candidate_skips,omitempty"`
	DroppedRoles   []string `json:"dropped_roles,omitempty"`
}

// RenderFilters holds optional filters for listing renders
type RenderFilters struct {
	Profile string
	Layout  string
	Since   time.Time
	Limit   int
}
