package validator

import (
	"fmt"
	"strings"

	"github.com/gramseva/api/internal/model"
)

const (
	MinTitleLength       = 10
	MinDescriptionLength = 50
)

// GrievanceInput is the client-supplied portion of a grievance. Contact
// fields travel alongside it in the request body and are split out by the
// handler before validation.
type GrievanceInput struct {
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Description        string   `json:"description"`
	VillageName        string   `json:"villageName"`
	Priority           string   `json:"priority"`
	EvidenceFiles      []string `json:"evidenceFiles"`
	VoiceRecordingURL  string   `json:"voiceRecordingUrl"`
	VoiceTranscription string   `json:"voiceTranscription"`
}

var validCategories = func() map[string]bool {
	m := make(map[string]bool, len(model.Categories))
	for _, c := range model.Categories {
		m[c] = true
	}
	return m
}()

var validPriorities = map[string]bool{
	model.PriorityLow:    true,
	model.PriorityMedium: true,
	model.PriorityHigh:   true,
	model.PriorityUrgent: true,
}

func (in *GrievanceInput) Validate() error {
	var verr ValidationError

	if len(strings.TrimSpace(in.Title)) < MinTitleLength {
		verr.add("title", fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	}
	if len(strings.TrimSpace(in.Description)) < MinDescriptionLength {
		verr.add("description", fmt.Sprintf("description must be at least %d characters", MinDescriptionLength))
	}
	if !validCategories[in.Category] {
		verr.add("category", "category must be one of: "+strings.Join(model.Categories, ", "))
	}
	if in.VillageName == "" {
		verr.add("villageName", "villageName is required")
	}
	if in.Priority != "" && !validPriorities[in.Priority] {
		verr.add("priority", "priority must be one of: low, medium, high, urgent")
	}

	return verr.orNil()
}
