package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	sl := NewSecurityLogger(Nop())

	tests := map[string]string{
		"":                   "",
		"abc":                "***",
		"AIzaSyD-secret1234": "***1234",
	}
	for in, want := range tests {
		if got := sl.MaskAPIKey(in); got != want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskURL_DropsQuery(t *testing.T) {
	sl := NewSecurityLogger(Nop())

	got := sl.MaskURL("https://trends.googleapis.com/trends/v1beta/timelinesForHealth?key=secret&terms=flu")
	if strings.Contains(got, "secret") || strings.Contains(got, "terms=") {
		t.Errorf("MaskURL leaked the query string: %s", got)
	}
	if !strings.HasPrefix(got, "trends.googleapis.com/trends/v1beta/timelinesForHealth#") {
		t.Errorf("Unexpected masked URL: %s", got)
	}
}

func TestMaskLogMessage(t *testing.T) {
	sl := NewSecurityLogger(Nop())

	msg := sl.MaskLogMessage("GET /timelinesForHealth?terms=flu&key=AIzaSecret failed, api_key: other-secret")
	if strings.Contains(msg, "AIzaSecret") || strings.Contains(msg, "other-secret") {
		t.Errorf("Key leaked into message: %s", msg)
	}
	if !strings.Contains(msg, "terms=flu") {
		t.Errorf("Non-sensitive parameters should survive: %s", msg)
	}
}

func TestMaskSensitiveData(t *testing.T) {
	sl := NewSecurityLogger(Nop())

	masked := sl.MaskSensitiveData(map[string]interface{}{
		"api_key":  "AIzaSyD-secret1234",
		"endpoint": "https://example.com/api?key=secret",
		"terms":    []string{"a", "b", "c", "d"},
		"records":  3,
	})

	if masked["api_key"] != "***1234" {
		t.Errorf("api_key not masked: %v", masked["api_key"])
	}
	if s, _ := masked["endpoint"].(string); strings.Contains(s, "secret") {
		t.Errorf("endpoint not masked: %v", s)
	}
	if masked["terms"] != "terms_count=4,sample=[a,b,...]" {
		t.Errorf("terms not summarised: %v", masked["terms"])
	}
	if masked["records"] != 3 {
		t.Errorf("Unrelated field changed: %v", masked["records"])
	}
}

func TestSafeError_MasksErrorText(t *testing.T) {
	var buf bytes.Buffer
	sl := NewSecurityLogger(NewWithWriter(&buf, Config{Level: "debug"}))

	sl.SafeError("Trends query failed", errors.New("dial https://host/x?key=topsecret"), map[string]interface{}{"terms": []string{"flu"}})

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Errorf("Error text leaked the key: %s", out)
	}
	if !strings.Contains(out, "terms_count=1") {
		t.Errorf("Expected masked terms in output: %s", out)
	}
}
