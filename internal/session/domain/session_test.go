package domain

import (
	"testing"
	"time"
)

func TestDeviceSession_State(t *testing.T) {
	now := time.Now().UTC()
	deletedAt := now.Add(-time.Hour)

	testCases := []struct {
		name string
		s    DeviceSession
		want State
	}{
		{"live", DeviceSession{ExpirationDate: now.Add(time.Hour)}, StateActive},
		{"past expiration", DeviceSession{ExpirationDate: now.Add(-time.Second)}, StateExpired},
		{"soft deleted", DeviceSession{ExpirationDate: now.Add(time.Hour), DeletedAt: &deletedAt}, StateDeleted},
		{"deleted and expired", DeviceSession{ExpirationDate: now.Add(-time.Hour), DeletedAt: &deletedAt}, StateDeleted},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.State(now); got != tc.want {
				t.Errorf("State = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if StateActive.String() != "active" || StateExpired.String() != "expired" || StateDeleted.String() != "deleted" {
		t.Error("unexpected state names")
	}
	if State(42).String() != "unknown" {
		t.Error("out-of-range state should be unknown")
	}
}
