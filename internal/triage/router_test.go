package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteDepartment(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Pothole", "Roads and Infrastructure"},
		{"Road Damage", "Roads and Infrastructure"},
		{"Garbage", "Sanitation and Waste Management"},
		{"Waste", "Sanitation and Waste Management"},
		{"Streetlight", "Street Lighting"},
		{"Lighting", "Street Lighting"},
		{"Water", "Water Supply"},
		{"Drainage", "Drainage and Sewerage"},
		{"Health", "Public Health"},
		// unmapped categories fall back to the first department
		{"Uncategorized", "Roads and Infrastructure"},
		{"Other", "Roads and Infrastructure"},
		{"Unknown", "Roads and Infrastructure"},
		{"", "Roads and Infrastructure"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteDepartment(tt.category))
		})
	}
}
