package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/api/survey/submit", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestSubmitterIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"no headers", nil, "unknown"},
		{"forwarded-for single", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"forwarded-for chain keeps first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real-ip fallback", map[string]string{"X-Real-Ip": "198.51.100.4"}, "198.51.100.4"},
		{"forwarded-for wins over real-ip", map[string]string{
			"X-Forwarded-For": "203.0.113.7",
			"X-Real-Ip":       "198.51.100.4",
		}, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := submitterIP(testContext(tt.headers)); got != tt.want {
				t.Errorf("submitterIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("") != nil {
		t.Error("empty string must map to nil")
	}
	if p := optionalString("x"); p == nil || *p != "x" {
		t.Errorf("non-empty string must round-trip, got %v", p)
	}
}
