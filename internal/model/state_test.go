package model

import "testing"

func TestFlowStatePredicates(t *testing.T) {
	active := []FlowState{FlowAwaitingContentType, FlowAwaitingQuality, FlowDownloading}
	for _, fs := range active {
		if !fs.IsActive() {
			t.Errorf("Expected %s to be active", fs)
		}
		if fs.IsTerminal() {
			t.Errorf("Expected %s to not be terminal", fs)
		}
	}

	terminal := []FlowState{FlowCompleted, FlowCancelled, FlowExpired, FlowFailed}
	for _, fs := range terminal {
		if !fs.IsTerminal() {
			t.Errorf("Expected %s to be terminal", fs)
		}
		if fs.IsActive() {
			t.Errorf("Expected %s to not be active", fs)
		}
	}

	if FlowIdle.IsActive() || FlowIdle.IsTerminal() {
		t.Error("Expected Idle to be neither active nor terminal")
	}
}

func TestParseContentType(t *testing.T) {
	if ct, ok := ParseContentType("video"); !ok || ct != ContentVideo {
		t.Errorf("Expected video to parse, got %s ok=%v", ct, ok)
	}
	if ct, ok := ParseContentType("audio"); !ok || ct != ContentAudio {
		t.Errorf("Expected audio to parse, got %s ok=%v", ct, ok)
	}
	if _, ok := ParseContentType("subtitles"); ok {
		t.Error("Expected unknown content type to be rejected")
	}
}
