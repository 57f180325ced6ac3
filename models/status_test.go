package models

import "testing"

func TestVisitTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		action  string
		next    string
		ok      bool
	}{
		{"start planned visit", VisitPlanned, VisitActionStart, VisitInProgress, true},
		{"miss planned visit", VisitPlanned, VisitActionMiss, VisitMissed, true},
		{"complete in-progress visit", VisitInProgress, VisitActionComplete, VisitCompleted, true},
		{"miss in-progress visit", VisitInProgress, VisitActionMiss, VisitMissed, true},
		{"complete planned visit rejected", VisitPlanned, VisitActionComplete, "", false},
		{"start in-progress visit rejected", VisitInProgress, VisitActionStart, "", false},
		{"completed is terminal", VisitCompleted, VisitActionMiss, "", false},
		{"missed is terminal", VisitMissed, VisitActionStart, "", false},
		{"unknown status rejected", "bogus", VisitActionStart, "", false},
		{"unknown action rejected", VisitPlanned, "bogus", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := VisitTransition(tt.current, tt.action)
			if next != tt.next || ok != tt.ok {
				t.Errorf("VisitTransition(%q, %q) = (%q, %v), expected (%q, %v)",
					tt.current, tt.action, next, ok, tt.next, tt.ok)
			}
		})
	}
}

func TestReportTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		action  string
		next    string
		ok      bool
	}{
		{"draft to ready", ReportDraft, ReportActionMarkReady, ReportReady, true},
		{"ready to sent", ReportReady, ReportActionSend, ReportSent, true},
		{"draft cannot send", ReportDraft, ReportActionSend, "", false},
		{"ready cannot mark ready again", ReportReady, ReportActionMarkReady, "", false},
		{"sent is terminal", ReportSent, ReportActionMarkReady, "", false},
		{"sent cannot resend", ReportSent, ReportActionSend, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := ReportTransition(tt.current, tt.action)
			if next != tt.next || ok != tt.ok {
				t.Errorf("ReportTransition(%q, %q) = (%q, %v), expected (%q, %v)",
					tt.current, tt.action, next, ok, tt.next, tt.ok)
			}
		})
	}
}
