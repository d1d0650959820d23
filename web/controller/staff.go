package controller

import (
	"net/http"
	"strconv"
	"text/template"

	"github.com/medident/linea/logger"
	"github.com/medident/linea/web/service"
	"github.com/medident/linea/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// StaffLoginForm represents the staff login request structure.
type StaffLoginForm struct {
	Username      string `json:"username" form:"username"`
	Password      string `json:"password" form:"password"`
	TwoFactorCode string `json:"twoFactorCode" form:"twoFactorCode"`
}

// SetWeekForm is the staff request for moving a patient along the timeline.
type SetWeekForm struct {
	PatientID string `json:"patientId" form:"patientId"`
	Week      int    `json:"week" form:"week"`
}

// PatientIDForm carries a single patient identifier.
type PatientIDForm struct {
	PatientID string `json:"patientId" form:"patientId"`
}

// StaffController is the clinic-facing area: patient management, host
// status and logs.
type StaffController struct {
	BaseController

	settingService service.SettingService
	staffService   service.StaffService
	patientService service.PatientService
	serverService  service.ServerService
}

func NewStaffController(g *gin.RouterGroup) *StaffController {
	a := &StaffController{}
	a.initRouter(g)
	return a
}

func (a *StaffController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/staff")

	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
	g.POST("/getTwoFactorEnable", a.getTwoFactorEnable)

	g.GET("/patients", a.checkStaffLogin, a.patients)
	g.POST("/patients/week", a.checkStaffLogin, a.setWeek)
	g.POST("/patients/verify", a.checkStaffLogin, a.verifyPatient)
	g.GET("/settings", a.checkStaffLogin, a.allSetting)
	g.GET("/status", a.checkStaffLogin, a.status)
	g.GET("/logs/:count", a.checkStaffLogin, a.logs)
}

func (a *StaffController) login(c *gin.Context) {
	var form StaffLoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.staff.toasts.emptyUsername"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.staff.toasts.emptyPassword"))
		return
	}

	staff := a.staffService.CheckStaff(form.Username, form.Password, form.TwoFactorCode)
	safeUser := template.HTMLEscapeString(form.Username)

	if staff == nil {
		logger.Warningf("wrong staff credentials for \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.staff.toasts.wrongCredentials"))
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB")
	}

	session.SetMaxAge(c, sessionMaxAge*60)
	session.SetLoginStaff(c, staff)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session: ", err)
		return
	}

	logger.Infof("staff %s logged in, IP: %s", safeUser, getRemoteIp(c))
	jsonMsg(c, I18nWeb(c, "pages.staff.toasts.loginSuccess"), nil)
}

func (a *StaffController) logout(c *gin.Context) {
	staff := session.GetLoginStaff(c)
	if staff != nil {
		logger.Infof("staff %s logged out", staff.Username)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}

func (a *StaffController) getTwoFactorEnable(c *gin.Context) {
	status, err := a.settingService.GetTwoFactorEnable()
	if err == nil {
		jsonObj(c, status, nil)
	}
}

func (a *StaffController) patients(c *gin.Context) {
	patients, err := a.patientService.List()
	jsonObj(c, patients, err)
}

func (a *StaffController) setWeek(c *gin.Context) {
	var form SetWeekForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	patient, err := a.patientService.SetCurrentWeek(form.PatientID, form.Week)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "pages.staff.toasts.weekUpdated"), patient, nil)
}

func (a *StaffController) verifyPatient(c *gin.Context) {
	var form PatientIDForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	patient, err := a.patientService.MarkVerified(form.PatientID)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "pages.staff.toasts.verifiedByStaff"), patient, nil)
}

func (a *StaffController) allSetting(c *gin.Context) {
	allSetting, err := a.settingService.GetAllSetting()
	jsonObj(c, allSetting, err)
}

func (a *StaffController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}

func (a *StaffController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 {
		count = 50
	}
	level := c.DefaultQuery("level", "info")
	jsonObj(c, logger.GetLogs(count, level), nil)
}
