package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPublishable(t *testing.T) {
	tests := []struct {
		name        string
		media       int64
		description string
		offers      int64
		wantUnmet   []string
	}{
		{
			name:        "complete project",
			media:       1,
			description: "A description",
			offers:      3,
		},
		{
			name:        "five images is fine",
			media:       5,
			description: "x",
			offers:      3,
		},
		{
			name:   "empty project fails everything in order",
			media:  0,
			offers: 0,
			wantUnmet: []string{
				"project needs at least one image to be published",
				"project description is required",
				"project needs exactly 3 offers (Basic, Standard, Premium), has 0",
			},
		},
		{
			name:        "two offers",
			media:       2,
			description: "x",
			offers:      2,
			wantUnmet:   []string{"project needs exactly 3 offers (Basic, Standard, Premium), has 2"},
		},
		{
			name:        "whitespace description counts as present",
			media:       1,
			description: " ",
			offers:      3,
		},
		{
			name:      "missing description only",
			media:     1,
			offers:    3,
			wantUnmet: []string{"project description is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantUnmet, CheckPublishable(tt.media, tt.description, tt.offers))
		})
	}
}

func TestPublishGateError(t *testing.T) {
	err := &PublishGateError{Unmet: []string{"a", "b"}}
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "cannot publish: a; b", err.Error())
}
