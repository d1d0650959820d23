// Package model defines the persistent records of the Linea patient portal.
package model

import "time"

// Patient is a registered portal account. PatientID and Email are unique
// across the store under case-insensitive comparison; the uniqueness check
// lives in the signup validation layer, the save primitive is an upsert.
type Patient struct {
	Id             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	PatientID      string    `json:"patientId" gorm:"column:patient_id;uniqueIndex"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash   string    `json:"-" gorm:"column:password_hash"`
	CurrentWeek    int       `json:"currentWeek" gorm:"default:1"`
	IsVerified     bool      `json:"isVerified"`
	TreatmentStart time.Time `json:"treatmentStart"`
}

// Staff is a clinic staff account for the admin area. The optional TOTP
// second factor lives in the settings table.
type Staff struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"uniqueIndex"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
}

// Setting is one key/value pair of the runtime settings table.
type Setting struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"uniqueIndex"`
	Value string `json:"value"`
}
