package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid email with subdomain", "user@mail.example.com", false},
		{"empty email", "", true},
		{"invalid format", "invalid-email", true},
		{"missing @", "userexample.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
		{"valid with plus", "user+tag@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{"valid id", "64fa3c9b2d1e", false},
		{"valid with underscore", "user_01", false},
		{"valid with dash", "user-01", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"invalid chars", "user 01", true},
		{"invalid chars 2", "user@01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.userID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name      string
		channelID string
		wantErr   bool
	}{
		{"user channel", "64fa3c9b2d1e", false},
		{"group channel", "group-7781", false},
		{"empty", "", true},
		{"too long", strings.Repeat("x", 101), true},
		{"invalid chars", "chan nel", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChannelID(tt.channelID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChannelID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoomID(t *testing.T) {
	tests := []struct {
		name    string
		roomID  string
		wantErr bool
	}{
		{"direct call room", "call_aaa_bbb", false},
		{"group call room", "group_call_g1", false},
		{"empty", "", true},
		{"invalid chars", "room id", true},
		{"too long", strings.Repeat("r", 221), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomID(tt.roomID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCallType(t *testing.T) {
	if err := ValidateCallType("voice"); err != nil {
		t.Errorf("ValidateCallType(voice) = %v, want nil", err)
	}
	if err := ValidateCallType("video"); err != nil {
		t.Errorf("ValidateCallType(video) = %v, want nil", err)
	}
	if err := ValidateCallType("hologram"); err == nil {
		t.Error("ValidateCallType(hologram) = nil, want error")
	}
}
