// Package session wraps cookie-backed session state for the portal. The
// cookie is the durable session entry: a page reload rehydrates the logged-in
// patient without re-running credential checks, and an unreadable cookie
// simply falls back to anonymous.
package session

import (
	"encoding/gob"

	"github.com/medident/linea/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginPatient = "LOGIN_PATIENT"
	loginStaff   = "LOGIN_STAFF"

	// CookieName is the session cookie registered in the web server.
	CookieName = "linea"
)

func init() {
	gob.Register(model.Patient{})
	gob.Register(model.Staff{})
}

func SetLoginPatient(c *gin.Context, patient *model.Patient) error {
	s := sessions.Default(c)
	s.Set(loginPatient, *patient)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: maxAge,
	})
	return s.Save()
}

func GetLoginPatient(c *gin.Context) *model.Patient {
	s := sessions.Default(c)
	if obj := s.Get(loginPatient); obj != nil {
		if patient, ok := obj.(model.Patient); ok {
			return &patient
		}
	}
	return nil
}

func IsPatientLogin(c *gin.Context) bool {
	return GetLoginPatient(c) != nil
}

func SetLoginStaff(c *gin.Context, staff *model.Staff) error {
	s := sessions.Default(c)
	s.Set(loginStaff, *staff)
	return s.Save()
}

func GetLoginStaff(c *gin.Context) *model.Staff {
	s := sessions.Default(c)
	if obj := s.Get(loginStaff); obj != nil {
		if staff, ok := obj.(model.Staff); ok {
			return &staff
		}
	}
	return nil
}

func IsStaffLogin(c *gin.Context) bool {
	return GetLoginStaff(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	return nil
}
