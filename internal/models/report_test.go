package models

import "testing"

func TestTypeForSpecificType(t *testing.T) {
	tests := []struct {
		specific SpecificType
		want     ReportType
	}{
		{SpecificTheft, ReportTypeEmergency},
		{SpecificFireOutbreak, ReportTypeEmergency},
		{SpecificMedicalEmergency, ReportTypeEmergency},
		{SpecificNaturalDisaster, ReportTypeEmergency},
		{SpecificViolence, ReportTypeEmergency},
		{SpecificTrafficAccident, ReportTypeEmergency},
		{SpecificVandalism, ReportTypeNonEmergency},
		{SpecificSuspiciousActivity, ReportTypeNonEmergency},
		{SpecificPublicDisturbance, ReportTypeNonEmergency},
		{SpecificOther, ReportTypeNonEmergency},
	}

	for _, tt := range tests {
		t.Run(string(tt.specific), func(t *testing.T) {
			got, ok := TypeForSpecificType(tt.specific)
			if !ok || got != tt.want {
				t.Errorf("TypeForSpecificType(%s) = %s, %v; want %s", tt.specific, got, ok, tt.want)
			}
		})
	}

	if _, ok := TypeForSpecificType("BURGLARY"); ok {
		t.Error("unknown specific type should not map")
	}
	if len(SpecificTypes()) != len(tests) {
		t.Errorf("SpecificTypes() has %d entries, want %d", len(SpecificTypes()), len(tests))
	}
}

func TestSpecificTypesFor(t *testing.T) {
	if got := len(SpecificTypesFor(ReportTypeEmergency)); got != 6 {
		t.Errorf("emergency specific types = %d, want 6", got)
	}
	if got := len(SpecificTypesFor(ReportTypeNonEmergency)); got != 4 {
		t.Errorf("non-emergency specific types = %d, want 4", got)
	}
}

func TestFormatReportID(t *testing.T) {
	tests := map[int64]string{
		1:    "REP001",
		42:   "REP042",
		999:  "REP999",
		1000: "REP1000",
	}
	for n, want := range tests {
		if got := FormatReportID(n); got != want {
			t.Errorf("FormatReportID(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	for _, s := range ReportStatuses() {
		if !s.IsValid() {
			t.Errorf("status %s should be valid", s)
		}
	}
	if ReportStatus("CLOSED").IsValid() {
		t.Error("CLOSED should not be a valid status")
	}
	if ReportType("emergency").IsValid() {
		t.Error("status matching is case-sensitive")
	}
	if !RoleModerator.IsValid() || UserRole("ROOT").IsValid() {
		t.Error("role validity mismatch")
	}
	if !NotificationUpdate.IsValid() || NotificationType("ALERT").IsValid() {
		t.Error("notification type validity mismatch")
	}
}
