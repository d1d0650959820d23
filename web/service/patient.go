package service

import (
	"strings"
	"time"

	"github.com/medident/linea/database"
	"github.com/medident/linea/database/model"
	"github.com/medident/linea/logger"
	"github.com/medident/linea/treatment"
	"github.com/medident/linea/util/crypto"
)

// ValidationError carries the i18n message id of a user-facing failure.
// The controller localizes it; anything else is an internal error.
type ValidationError struct {
	MsgKey string
}

func (e *ValidationError) Error() string {
	return e.MsgKey
}

const minPasswordLength = 6

// PatientService manages portal accounts. Identifier and email comparisons
// are case-insensitive; the save primitive is an upsert keyed on id-or-email,
// uniqueness is enforced in the signup validation path.
type PatientService struct{}

func (s *PatientService) List() ([]*model.Patient, error) {
	db := database.GetDB()
	patients := make([]*model.Patient, 0)
	err := db.Model(model.Patient{}).Order("patient_id").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// findByIDOrEmail looks up a patient whose id or email matches either value,
// case-insensitively. Returns gorm's not-found error when no record matches.
func (s *PatientService) findByIDOrEmail(id string, email string) (*model.Patient, error) {
	db := database.GetDB()
	patient := &model.Patient{}
	err := db.Model(model.Patient{}).
		Where("LOWER(patient_id) = ? OR LOWER(email) = ?",
			strings.ToLower(id), strings.ToLower(email)).
		First(patient).
		Error
	if err != nil {
		return nil, err
	}
	return patient, nil
}

// GetByIdentifier resolves a single identifier against both id and email.
func (s *PatientService) GetByIdentifier(identifier string) (*model.Patient, error) {
	return s.findByIDOrEmail(identifier, identifier)
}

// Save upserts the record: a stored patient matching the same id or email is
// replaced in place, otherwise the record is appended.
func (s *PatientService) Save(patient *model.Patient) error {
	db := database.GetDB()
	existing, err := s.findByIDOrEmail(patient.PatientID, patient.Email)
	if database.IsNotFound(err) {
		return db.Create(patient).Error
	} else if err != nil {
		return err
	}
	patient.Id = existing.Id
	return db.Save(patient).Error
}

// SignUp validates the registration form field by field, each check
// short-circuiting with a user-facing message, then persists an unverified
// account at week 1 of the treatment timeline.
func (s *PatientService) SignUp(id, fullName, email, password, confirmPassword string) (*model.Patient, error) {
	id = strings.TrimSpace(id)
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	if id == "" {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.idRequired"}
	}
	if fullName == "" {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.nameRequired"}
	}
	if email == "" {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.emailRequired"}
	}
	if len(password) < minPasswordLength {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.passwordLength"}
	}
	if password != confirmPassword {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.passwordMismatch"}
	}

	_, err := s.findByIDOrEmail(id, email)
	if err == nil {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.userExists"}
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		PatientID:      id,
		FullName:       fullName,
		Email:          email,
		PasswordHash:   hash,
		CurrentWeek:    1,
		IsVerified:     false,
		TreatmentStart: time.Now(),
	}
	if err := s.Save(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// CheckPatient returns the patient matching the identifier/password pair, or
// nil on any failure. Callers must not reveal which part failed.
func (s *PatientService) CheckPatient(identifier string, password string) *model.Patient {
	patient, err := s.GetByIdentifier(identifier)
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check patient err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(patient.PasswordHash, password) {
		return nil
	}

	return patient
}

// Verify flips the mock email-confirmation flag for the identifier.
func (s *PatientService) Verify(identifier string) (*model.Patient, error) {
	patient, err := s.GetByIdentifier(identifier)
	if database.IsNotFound(err) {
		return nil, &ValidationError{MsgKey: "pages.portal.toasts.invalidCredentials"}
	} else if err != nil {
		return nil, err
	}
	patient.IsVerified = true
	if err := s.Save(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// SetCurrentWeek is the staff write path for advancing a patient through the
// timeline. Weeks are validated at this boundary; the derivation layer stays
// total over whatever is stored.
func (s *PatientService) SetCurrentWeek(patientID string, week int) (*model.Patient, error) {
	if week < 1 || week > treatment.TotalWeeks {
		return nil, &ValidationError{MsgKey: "pages.staff.toasts.invalidWeek"}
	}
	patient, err := s.GetByIdentifier(patientID)
	if database.IsNotFound(err) {
		return nil, &ValidationError{MsgKey: "pages.staff.toasts.patientNotFound"}
	} else if err != nil {
		return nil, err
	}
	patient.CurrentWeek = week
	if err := s.Save(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// AdvanceWeeks re-derives every verified patient's current week from the
// treatment start date, capped at the end of the timeline. Weeks set further
// ahead by staff are left alone. Returns how many records changed.
func (s *PatientService) AdvanceWeeks(now time.Time) (int, error) {
	patients, err := s.List()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, patient := range patients {
		if !patient.IsVerified {
			continue
		}
		week := int(now.Sub(patient.TreatmentStart)/(7*24*time.Hour)) + 1
		if week > treatment.TotalWeeks {
			week = treatment.TotalWeeks
		}
		if week <= patient.CurrentWeek {
			continue
		}
		patient.CurrentWeek = week
		if err := s.Save(patient); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// MarkVerified is the staff override for the confirmation step.
func (s *PatientService) MarkVerified(patientID string) (*model.Patient, error) {
	patient, err := s.GetByIdentifier(patientID)
	if database.IsNotFound(err) {
		return nil, &ValidationError{MsgKey: "pages.staff.toasts.patientNotFound"}
	} else if err != nil {
		return nil, err
	}
	patient.IsVerified = true
	if err := s.Save(patient); err != nil {
		return nil, err
	}
	return patient, nil
}
