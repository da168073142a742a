// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package graph

import (
	"testing"
	"time"
)

func TestAsString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "books", "books"},
		{"nil", nil, ""},
		{"wrong type", int64(7), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asString(tt.in); got != tt.want {
				t.Errorf("asString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int64", int64(42), 42},
		{"int", 7, 7},
		{"float64", 3.9, 3},
		{"nil", nil, 0},
		{"string", "5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asInt(tt.in); got != tt.want {
				t.Errorf("asInt(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float64", 19.99, 19.99},
		{"int64", int64(5), 5.0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asFloat(tt.in); got != tt.want {
				t.Errorf("asFloat(%v) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsTime(t *testing.T) {
	t.Run("rfc3339 with nanos", func(t *testing.T) {
		got := asTime("2026-08-01T12:30:45.123456789Z")
		want := time.Date(2026, 8, 1, 12, 30, 45, 123456789, time.UTC)
		if !got.Equal(want) {
			t.Errorf("asTime() = %v, want %v", got, want)
		}
	})

	t.Run("rfc3339 with offset", func(t *testing.T) {
		got := asTime("2026-08-01T12:30:45+02:00")
		if got.UTC().Hour() != 10 {
			t.Errorf("asTime() hour = %d UTC, want 10", got.UTC().Hour())
		}
	})

	t.Run("unparseable falls back to now", func(t *testing.T) {
		before := time.Now().UTC().Add(-time.Second)
		got := asTime("not a date")
		if got.Before(before) {
			t.Errorf("asTime() = %v, want a current timestamp", got)
		}
	})

	t.Run("nil falls back to now", func(t *testing.T) {
		before := time.Now().UTC().Add(-time.Second)
		got := asTime(nil)
		if got.Before(before) {
			t.Errorf("asTime() = %v, want a current timestamp", got)
		}
	})
}
