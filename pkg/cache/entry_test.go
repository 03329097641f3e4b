package cache

import (
	"errors"
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"expired entry", time.Now().Add(-1 * time.Hour), true},
		{"valid entry", time.Now().Add(1 * time.Hour), false},
		{"just expired", time.Now().Add(-1 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	entry := &Entry{Expires: time.Now().Add(10 * time.Minute)}
	if ttl := entry.TTL(); ttl <= 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL() = %v, want ~10m", ttl)
	}

	expired := &Entry{Expires: time.Now().Add(-1 * time.Minute)}
	if ttl := expired.TTL(); ttl != 0 {
		t.Errorf("TTL() of expired entry = %v, want 0", ttl)
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"ok page", Entry{StatusCode: 200, Data: []byte("{}")}, false},
		{"error status", Entry{StatusCode: 503, Data: []byte("{}")}, true},
		{"empty body", Entry{StatusCode: 200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Validate() error = %v, want ErrInvalidEntry", err)
			}
		})
	}
}

func TestEntry_AgeAndRevalidatable(t *testing.T) {
	entry := &Entry{CachedAt: time.Now().Add(-time.Minute)}
	if age := entry.Age(); age < time.Minute {
		t.Errorf("Age() = %v, want >= 1m", age)
	}
	if (&Entry{}).Age() != 0 {
		t.Error("Age() of entry without CachedAt should be 0")
	}

	if entry.Revalidatable() {
		t.Error("entry without validators should not be revalidatable")
	}
	entry.ETag = `"v1"`
	if !entry.Revalidatable() {
		t.Error("entry with ETag should be revalidatable")
	}
}
