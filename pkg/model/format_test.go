package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "under a minute", seconds: 59, want: "0:59"},
		{name: "full minute", seconds: 60, want: "1:00"},
		{name: "typical level", seconds: 245, want: "4:05"},
		{name: "sprint window", seconds: 600, want: "10:00"},
		{name: "negative clamps to zero", seconds: -5, want: "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.seconds))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00"},
		{name: "minutes", seconds: 754, want: "12:34"},
		{name: "just below an hour", seconds: 3599, want: "59:59"},
		{name: "hour rollover", seconds: 3600, want: "1:00:00"},
		{name: "long race", seconds: 7322, want: "2:02:02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsed(tt.seconds))
		})
	}
}
