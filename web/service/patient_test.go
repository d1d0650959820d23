package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/medident/linea/database"
	"github.com/medident/linea/database/model"
	"github.com/medident/linea/treatment"
)

func initTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "linea-test.db")
	if err := database.InitDB(dbPath); err != nil {
		t.Fatalf("InitDB(%q) failed: %v", dbPath, err)
	}
	t.Cleanup(func() {
		if err := database.CloseDB(); err != nil {
			t.Logf("CloseDB: %v", err)
		}
	})
}

func msgKeyOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.MsgKey
}

func TestSignUpValidationOrder(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	tests := []struct {
		name            string
		id              string
		fullName        string
		email           string
		password        string
		confirmPassword string
		wantKey         string
	}{
		{
			name:    "missing id reported first",
			wantKey: "pages.portal.toasts.idRequired",
		},
		{
			name:    "whitespace id still missing",
			id:      "   ",
			wantKey: "pages.portal.toasts.idRequired",
		},
		{
			name:    "missing name before missing email",
			id:      "geno21",
			wantKey: "pages.portal.toasts.nameRequired",
		},
		{
			name:     "missing email before password checks",
			id:       "geno21",
			fullName: "Genc Morina",
			wantKey:  "pages.portal.toasts.emailRequired",
		},
		{
			name:            "short password before mismatch",
			id:              "geno21",
			fullName:        "Genc Morina",
			email:           "genc@example.com",
			password:        "abc",
			confirmPassword: "xyz",
			wantKey:         "pages.portal.toasts.passwordLength",
		},
		{
			name:            "password mismatch",
			id:              "geno21",
			fullName:        "Genc Morina",
			email:           "genc@example.com",
			password:        "aligner1",
			confirmPassword: "aligner2",
			wantKey:         "pages.portal.toasts.passwordMismatch",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.SignUp(tc.id, tc.fullName, tc.email, tc.password, tc.confirmPassword)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if got := msgKeyOf(t, err); got != tc.wantKey {
				t.Errorf("got message key %q, want %q", got, tc.wantKey)
			}
		})
	}
}

func TestSignUpConflictIsCaseInsensitive(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	if _, err := s.SignUp("geno21", "Genc Morina", "genc@example.com", "aligner1", "aligner1"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	tests := []struct {
		name  string
		id    string
		email string
	}{
		{"same id different case", "Geno21", "other@example.com"},
		{"same email different case", "other99", "GENC@Example.Com"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.SignUp(tc.id, "Another Person", tc.email, "aligner1", "aligner1")
			if err == nil {
				t.Fatal("expected conflict, got nil")
			}
			if got := msgKeyOf(t, err); got != "pages.portal.toasts.userExists" {
				t.Errorf("got message key %q, want userExists", got)
			}
		})
	}
}

func TestCheckPatientDoesNotDisclose(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	if _, err := s.SignUp("geno21", "Genc Morina", "genc@example.com", "aligner1", "aligner1"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// unknown identifier and wrong password produce the same nil result
	if got := s.CheckPatient("nobody", "aligner1"); got != nil {
		t.Errorf("unknown identifier: got %+v, want nil", got)
	}
	if got := s.CheckPatient("geno21", "wrongpass"); got != nil {
		t.Errorf("wrong password: got %+v, want nil", got)
	}

	patient := s.CheckPatient("geno21", "aligner1")
	if patient == nil {
		t.Fatal("valid credentials rejected")
	}
	if patient.PatientID != "geno21" {
		t.Errorf("got patient %q, want geno21", patient.PatientID)
	}

	// identifier matching is case-insensitive, for both id and email
	if s.CheckPatient("GENO21", "aligner1") == nil {
		t.Error("uppercase id rejected")
	}
	if s.CheckPatient("Genc@Example.com", "aligner1") == nil {
		t.Error("email identifier rejected")
	}
}

func TestSaveIsIdempotentUpsert(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	patient, err := s.SignUp("geno21", "Genc Morina", "genc@example.com", "aligner1", "aligner1")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	before, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	patient.FullName = "Genc R. Morina"
	if err := s.Save(patient); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if err := s.Save(patient); err != nil {
		t.Fatalf("third Save failed: %v", err)
	}

	after, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("upsert changed record count: before %d, after %d", len(before), len(after))
	}

	stored, err := s.GetByIdentifier("geno21")
	if err != nil {
		t.Fatalf("GetByIdentifier failed: %v", err)
	}
	if stored.FullName != "Genc R. Morina" {
		t.Errorf("got full name %q, want updated value", stored.FullName)
	}
}

func TestVerifyThenLogin(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	patient, err := s.SignUp("geno21", "Genc Morina", "genc@example.com", "aligner1", "aligner1")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if patient.IsVerified {
		t.Error("fresh signup should start unverified")
	}
	if patient.CurrentWeek != 1 {
		t.Errorf("fresh signup starts at week %d, want 1", patient.CurrentWeek)
	}

	verified, err := s.Verify("geno21")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !verified.IsVerified {
		t.Error("Verify did not set the flag")
	}

	if _, err := s.Verify("nobody"); err == nil {
		t.Error("Verify of unknown identifier should fail")
	}
}

func TestSetCurrentWeek(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	if _, err := s.SignUp("geno21", "Genc Morina", "genc@example.com", "aligner1", "aligner1"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	for _, week := range []int{0, -1, treatment.TotalWeeks + 1} {
		if _, err := s.SetCurrentWeek("geno21", week); err == nil {
			t.Errorf("week %d accepted, want rejection", week)
		}
	}

	updated, err := s.SetCurrentWeek("geno21", 10)
	if err != nil {
		t.Fatalf("SetCurrentWeek failed: %v", err)
	}
	if updated.CurrentWeek != 10 {
		t.Fatalf("got week %d, want 10", updated.CurrentWeek)
	}

	// week 10 lands in the second phase at 10/24 of the timeline
	phase := treatment.PhaseFor(updated.CurrentWeek)
	if phase.ID != 2 {
		t.Errorf("week 10 resolved to phase %d, want 2", phase.ID)
	}
	percent := treatment.ProgressPercent(updated.CurrentWeek)
	if percent < 41.6 || percent > 41.7 {
		t.Errorf("week 10 progress = %v, want ~41.67", percent)
	}

	if _, err := s.SetCurrentWeek("nobody", 10); err == nil {
		t.Error("SetCurrentWeek for unknown patient should fail")
	}
}

func TestAdvanceWeeks(t *testing.T) {
	initTestDB(t)
	s := PatientService{}

	start := time.Now().Add(-3 * 7 * 24 * time.Hour) // three full weeks ago
	verified := &model.Patient{
		PatientID:      "adv1",
		FullName:       "Advancing Patient",
		Email:          "adv1@example.com",
		PasswordHash:   "x",
		CurrentWeek:    1,
		IsVerified:     true,
		TreatmentStart: start,
	}
	unverified := &model.Patient{
		PatientID:      "adv2",
		FullName:       "Pending Patient",
		Email:          "adv2@example.com",
		PasswordHash:   "x",
		CurrentWeek:    1,
		IsVerified:     false,
		TreatmentStart: start,
	}
	for _, p := range []*model.Patient{verified, unverified} {
		if err := s.Save(p); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if _, err := s.AdvanceWeeks(time.Now()); err != nil {
		t.Fatalf("AdvanceWeeks failed: %v", err)
	}

	got, err := s.GetByIdentifier("adv1")
	if err != nil {
		t.Fatalf("GetByIdentifier failed: %v", err)
	}
	if got.CurrentWeek != 4 {
		t.Errorf("verified patient at week %d, want 4", got.CurrentWeek)
	}

	got, err = s.GetByIdentifier("adv2")
	if err != nil {
		t.Fatalf("GetByIdentifier failed: %v", err)
	}
	if got.CurrentWeek != 1 {
		t.Errorf("unverified patient moved to week %d, want 1", got.CurrentWeek)
	}

	// far in the future the derived week caps at the end of the timeline
	if _, err := s.AdvanceWeeks(time.Now().Add(100 * 7 * 24 * time.Hour)); err != nil {
		t.Fatalf("AdvanceWeeks failed: %v", err)
	}
	got, err = s.GetByIdentifier("adv1")
	if err != nil {
		t.Fatalf("GetByIdentifier failed: %v", err)
	}
	if got.CurrentWeek != treatment.TotalWeeks {
		t.Errorf("capped week = %d, want %d", got.CurrentWeek, treatment.TotalWeeks)
	}
}
