package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNewSessionWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("dev-1", now, time.Hour)
	if s.DeviceID != "dev-1" {
		t.Fatalf("device id = %q", s.DeviceID)
	}
	if !s.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %v", s.ExpiresAt)
	}

	s = NewSession("dev-1", now, 0)
	if !s.ExpiresAt.Equal(now.Add(DefaultSessionTTL)) {
		t.Fatalf("zero ttl should fall back to default, got %v", s.ExpiresAt)
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := NewSession("dev-1", now, time.Hour)
	if s.Expired(now) {
		t.Fatal("fresh session should not be expired")
	}
	if !s.Expired(now.Add(time.Hour)) {
		t.Fatal("session should expire exactly at the window edge")
	}
	var nilSess *Session
	if !nilSess.Expired(now) {
		t.Fatal("nil session should read as expired")
	}
}

func TestToggleStarInvolution(t *testing.T) {
	s := NewSession("dev-1", time.Now(), time.Hour)
	s.StarredCodes = []string{"AAAAA", "BBBBB", "CCCCC"}
	before := append([]string(nil), s.StarredCodes...)

	s.ToggleStar("BBBBB")
	if s.Starred("BBBBB") {
		t.Fatal("toggle should remove a starred code")
	}
	if !reflect.DeepEqual(s.StarredCodes, []string{"AAAAA", "CCCCC"}) {
		t.Fatalf("remaining order not preserved: %v", s.StarredCodes)
	}

	s.ToggleStar("BBBBB")
	if !s.Starred("BBBBB") {
		t.Fatal("second toggle should restore the code")
	}
	for _, c := range before {
		if !s.Starred(c) {
			t.Fatalf("double toggle lost %s", c)
		}
	}
}

func TestStarredNilSession(t *testing.T) {
	var s *Session
	if s.Starred("AAAAA") {
		t.Fatal("nil session stars nothing")
	}
}
