package service

import (
	"fmt"
	"strings"
)

// RequiredOffers is one offer per tier.
const RequiredOffers = 3

// CheckPublishable lists the unmet publish conditions in a fixed order:
// image, description, offers. An empty result means the project may go live.
func CheckPublishable(mediaCount int64, description string, offerCount int64) []string {
	var unmet []string
	if mediaCount < 1 {
		unmet = append(unmet, "project needs at least one image to be published")
	}
	if description == "" {
		unmet = append(unmet, "project description is required")
	}
	if offerCount != RequiredOffers {
		unmet = append(unmet, fmt.Sprintf("project needs exactly %d offers (Basic, Standard, Premium), has %d", RequiredOffers, offerCount))
	}
	return unmet
}

type PublishGateError struct {
	Unmet []string
}

func (e *PublishGateError) Error() string {
	return "cannot publish: " + strings.Join(e.Unmet, "; ")
}

func (e *PublishGateError) Unwrap() error { return ErrValidation }
