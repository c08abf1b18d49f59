package utils

import "testing"

func TestSurveyURL(t *testing.T) {
	tests := []struct {
		base string
		slug string
		want string
	}{
		{"https://survey.example.com", "atl-select", "https://survey.example.com/survey/atl-select"},
		{"https://survey.example.com/", "atl-select", "https://survey.example.com/survey/atl-select"},
		{"http://localhost:3000", "bos-central", "http://localhost:3000/survey/bos-central"},
	}
	for _, tt := range tests {
		if got := SurveyURL(tt.base, tt.slug); got != tt.want {
			t.Errorf("SurveyURL(%q, %q) = %q, want %q", tt.base, tt.slug, got, tt.want)
		}
	}
}

func TestQRImageURL(t *testing.T) {
	got := QRImageURL("", "https://survey.example.com/survey/atl-select", 0)
	want := "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=https%3A%2F%2Fsurvey.example.com%2Fsurvey%2Fatl-select"
	if got != want {
		t.Errorf("QRImageURL default = %q, want %q", got, want)
	}

	got = QRImageURL("https://qr.internal/render", "x", 512)
	want = "https://qr.internal/render?size=512x512&data=x"
	if got != want {
		t.Errorf("QRImageURL custom = %q, want %q", got, want)
	}
}

func TestIsNonPublicBaseURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://localhost:3000", true},
		{"http://127.0.0.1", true},
		{"http://10.0.0.5.local", true},
		{"https://survey.example.com", false},
		{"https://parking.example.org:8443", false},
		{"", true},
	}
	for _, tt := range tests {
		if got := IsNonPublicBaseURL(tt.url); got != tt.want {
			t.Errorf("IsNonPublicBaseURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
