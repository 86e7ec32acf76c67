package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.ComplaintPriority
	}{
		{"high signal keyword", "urgent pothole", domain.ComplaintPriorityHigh},
		{"high beats medium", "urgent repair needed", domain.ComplaintPriorityHigh},
		{"medium outnumbers low", "needs repair soon", domain.ComplaintPriorityMedium},
		{"multi word medium keyword", "this needs attention", domain.ComplaintPriorityMedium},
		{"low keywords win tie", "minor request for paint", domain.ComplaintPriorityLow},
		{"medium and low tie goes low", "please fix this small thing", domain.ComplaintPriorityLow},
		{"no keywords", "the street is nice", domain.ComplaintPriorityLow},
		{"empty string", "", domain.ComplaintPriorityLow},
		{"case insensitive", "URGENT! Streetlight BROKEN", domain.ComplaintPriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPriority(tt.text))
		})
	}
}
