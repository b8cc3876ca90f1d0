package notification

import (
	"context"
	"testing"
)

// Test 1: SMSService IsConfigured returns false without credentials
func TestSMSService_IsConfigured_WithoutCredentials(t *testing.T) {
	svc := NewSMSService(nil)
	if svc.IsConfigured() {
		t.Error("Expected IsConfigured() to return false with nil config")
	}

	svc = NewSMSService(&SMSConfig{})
	if svc.IsConfigured() {
		t.Error("Expected IsConfigured() to return false with empty config")
	}

	svc = NewSMSService(&SMSConfig{
		AccountSID: "test",
	})
	if svc.IsConfigured() {
		t.Error("Expected IsConfigured() to return false with partial config")
	}
}

// Test 2: SMSService IsConfigured returns true with valid credentials
func TestSMSService_IsConfigured_WithCredentials(t *testing.T) {
	svc := NewSMSService(&SMSConfig{
		AccountSID:      "ACtest123",
		AuthToken:       "token123",
		FromPhoneNumber: "+15551234567",
	})
	if !svc.IsConfigured() {
		t.Error("Expected IsConfigured() to return true with complete config")
	}
}

// Test 3: BuildAssignmentMessage stays within the single-segment SMS limit
func TestBuildAssignmentMessage_WithinLimit(t *testing.T) {
	notice := AssignmentNotice{
		WorkerName:  "Roberto Velasco",
		WorkerPhone: "+34600111222",
		SectionName: "Urg-lab",
		Date:        "2026-03-09",
		ScenarioTag: "2026-Q1-b",
	}

	msg := BuildAssignmentMessage(notice)
	if len(msg) > 160 {
		t.Errorf("expected message length <= 160, got %d", len(msg))
	}
	if !containsAll(msg, []string{"Roberto Velasco", "Urg-lab", "2026-03-09"}) {
		t.Error("message missing required parts")
	}
}

// Test 4: BuildAssignmentMessage truncates overly long names instead of panicking
func TestBuildAssignmentMessage_TruncatesLongNames(t *testing.T) {
	notice := AssignmentNotice{
		WorkerName:  "A Worker With An Extraordinarily Long Full Legal Name For Testing Purposes Only",
		WorkerPhone: "+34600111222",
		SectionName: "Coordinacion de guardias pediatricas de referencia nacional",
		Date:        "2026-03-09",
		ScenarioTag: "2026-Q1-b",
	}

	msg := BuildAssignmentMessage(notice)
	if len(msg) > 160 {
		t.Errorf("expected message length <= 160 after truncation, got %d", len(msg))
	}
}

// Test 5: NotifyPublished is a no-op when Twilio isn't configured
func TestAssignmentNotifier_NotifyPublished_Unconfigured(t *testing.T) {
	notifier := NewAssignmentNotifier(NewSMSService(nil))

	err := notifier.NotifyPublished(context.Background(), []AssignmentNotice{
		{WorkerName: "Edu Marin", WorkerPhone: "+34600111222", SectionName: "Urg-lab", Date: "2026-03-09", ScenarioTag: "2026-Q1-b"},
	})
	if err != nil {
		t.Errorf("expected nil error for unconfigured notifier, got %v", err)
	}
}

// Test 6: NotifyPublished skips workers with no phone number on file
func TestAssignmentNotifier_NotifyPublished_SkipsMissingPhone(t *testing.T) {
	notifier := NewAssignmentNotifier(NewSMSService(&SMSConfig{
		AccountSID:      "AC-unused",
		AuthToken:       "unused",
		FromPhoneNumber: "+34600000000",
	}))

	err := notifier.NotifyPublished(context.Background(), []AssignmentNotice{
		{WorkerName: "Maria Coma", WorkerPhone: "", SectionName: "Urg-lab", Date: "2026-03-09", ScenarioTag: "2026-Q1-b"},
	})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func containsAll(s string, substrs []string) bool {
	for _, sub := range substrs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
