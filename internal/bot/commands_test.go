package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want command
	}{
		{"hello", commandGreeting},
		{"Hi", commandGreeting},
		{"HEY", commandGreeting},
		{"start", commandGreeting},
		{"  hello  ", commandGreeting},
		{"complaint", commandComplaint},
		{"status", commandStatus},
		{"help", commandHelp},
		{"CMP202510041234", commandLookup},
		{"cmp202510041234", commandLookup},
		{"the streetlight is broken", commandFreeText},
		{"", commandFreeText},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCommand(tt.text))
		})
	}
}

func TestLookupReply_IncludesComplaintFields(t *testing.T) {
	complaint := &domain.Complaint{
		ID:          "CMP202510041234",
		Category:    "Pothole",
		Status:      domain.ComplaintStatusInProgress,
		SubmittedAt: time.Date(2025, 10, 4, 12, 0, 0, 0, time.UTC),
	}

	reply := lookupReply(complaint)
	assert.Contains(t, reply, "CMP202510041234")
	assert.Contains(t, reply, "In Progress")
	assert.Contains(t, reply, "Pothole")
	assert.Contains(t, reply, "2025-10-04")
}

func TestImageReply_FallsBackWhenNoCaption(t *testing.T) {
	reply := imageReply(&imageContent{ID: "media-1"})
	assert.Contains(t, reply, "media-1")
	assert.Contains(t, reply, "No caption")
}

func TestUnsupportedReply(t *testing.T) {
	assert.Equal(t, "Sorry, sticker messages are not supported.", unsupportedReply("sticker"))
}
