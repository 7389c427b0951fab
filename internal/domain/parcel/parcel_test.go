package parcel

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTrackingID_Format(t *testing.T) {
	now := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	re := regexp.MustCompile(`^PCL-20260828-[0-9A-F]{5}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewTrackingID(now)
		assert.Regexp(t, re, id)
		assert.False(t, seen[id], "tracking IDs must not repeat: %s", id)
		seen[id] = true
	}
}

func TestParcel_SameDistrict(t *testing.T) {
	assert.True(t, Parcel{SenderCenter: "Dhaka", ReceiverCenter: "Dhaka"}.SameDistrict())
	assert.False(t, Parcel{SenderCenter: "Dhaka", ReceiverCenter: "Khulna"}.SameDistrict())
	assert.False(t, Parcel{}.SameDistrict())
}
