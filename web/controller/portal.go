package controller

import (
	"net/http"
	"text/template"
	"time"

	"github.com/medident/linea/logger"
	"github.com/medident/linea/treatment"
	"github.com/medident/linea/web/service"
	"github.com/medident/linea/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginForm represents the portal login request structure.
type LoginForm struct {
	Identifier string `json:"identifier" form:"identifier"`
	Password   string `json:"password" form:"password"`
}

// SignupForm represents the portal registration request structure.
type SignupForm struct {
	Id              string `json:"id" form:"id"`
	FullName        string `json:"fullName" form:"fullName"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// IdentifierForm carries a single id-or-email field.
type IdentifierForm struct {
	Identifier string `json:"identifier" form:"identifier"`
}

// PortalController handles patient accounts and the treatment dashboard.
type PortalController struct {
	BaseController

	settingService service.SettingService
	patientService service.PatientService
	tgbot          service.Tgbot
}

func NewPortalController(g *gin.RouterGroup) *PortalController {
	a := &PortalController{}
	a.initRouter(g)
	return a
}

func (a *PortalController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/portal")

	g.POST("/login", a.login)
	g.POST("/signup", a.signup)
	g.POST("/verify", a.verify)
	g.POST("/forgot", a.forgot)
	g.GET("/logout", a.logout)

	g.GET("/dashboard", a.checkLogin, a.dashboard)
}

// login authenticates a patient by id or email. Failure responses never say
// which part of the credentials was wrong.
func (a *PortalController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}
	if form.Identifier == "" || form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidCredentials"))
		return
	}

	patient := a.patientService.CheckPatient(form.Identifier, form.Password)
	safeId := template.HTMLEscapeString(form.Identifier)

	if patient == nil {
		logger.Warningf("wrong portal credentials for \"%s\", IP: \"%s\"", safeId, getRemoteIp(c))
		a.tgbot.NotifyLogin(safeId, getRemoteIp(c), false)
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidCredentials"))
		return
	}

	if !patient.IsVerified {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.verifyPending", "Email=="+patient.Email))
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("Unable to get session's max age from DB")
	}

	session.SetMaxAge(c, sessionMaxAge*60)
	session.SetLoginPatient(c, patient)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session: ", err)
		return
	}

	logger.Infof("patient %s logged in, IP: %s", patient.PatientID, getRemoteIp(c))
	a.tgbot.NotifyLogin(patient.PatientID, getRemoteIp(c), true)
	jsonMsg(c, I18nWeb(c, "pages.portal.toasts.loginSuccess"), nil)
}

func (a *PortalController) signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	patient, err := a.patientService.SignUp(form.Id, form.FullName, form.Email, form.Password, form.ConfirmPassword)
	if err != nil {
		if msg, ok := localizedError(c, err); ok {
			pureJsonMsg(c, http.StatusOK, false, msg)
		} else {
			jsonMsg(c, I18nWeb(c, "fail"), err)
		}
		return
	}

	logger.Infof("patient %s registered, IP: %s", patient.PatientID, getRemoteIp(c))
	a.tgbot.NotifySignup(patient.PatientID, patient.FullName)
	jsonMsg(c, I18nWeb(c, "pages.portal.toasts.signupSuccess"), nil)
}

// verify simulates the email confirmation step.
func (a *PortalController) verify(c *gin.Context) {
	var form IdentifierForm
	if err := c.ShouldBind(&form); err != nil || form.Identifier == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	if _, err := a.patientService.Verify(form.Identifier); err != nil {
		if msg, ok := localizedError(c, err); ok {
			pureJsonMsg(c, http.StatusOK, false, msg)
		} else {
			jsonMsg(c, I18nWeb(c, "fail"), err)
		}
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.portal.toasts.verified"), nil)
}

// forgot acknowledges the reset request without disclosing whether the
// account exists.
func (a *PortalController) forgot(c *gin.Context) {
	var form IdentifierForm
	if err := c.ShouldBind(&form); err != nil || form.Identifier == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}
	jsonMsg(c, I18nWeb(c, "pages.portal.toasts.resetSent"), nil)
}

func (a *PortalController) logout(c *gin.Context) {
	patient := session.GetLoginPatient(c)
	if patient != nil {
		logger.Infof("patient %s logged out", patient.PatientID)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}

type milestoneView struct {
	Label  string           `json:"label"`
	Week   int              `json:"week"`
	Status treatment.Status `json:"status"`
}

type phaseView struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Desc       string           `json:"desc"`
	Icon       string           `json:"icon"`
	StartWeek  int              `json:"startWeek"`
	EndWeek    int              `json:"endWeek"`
	Status     treatment.Status `json:"status"`
	Milestones []milestoneView  `json:"milestones"`
}

type dashboardView struct {
	PatientID       string               `json:"patientId"`
	FullName        string               `json:"fullName"`
	CurrentWeek     int                  `json:"currentWeek"`
	TotalWeeks      int                  `json:"totalWeeks"`
	ProgressPercent float64              `json:"progressPercent"`
	CurrentPhase    phaseView            `json:"currentPhase"`
	Phases          []phaseView          `json:"phases"`
	Roadmap         []treatment.WeekCell `json:"roadmap"`
	PlanViewerURL   string               `json:"planViewerUrl"`
	TreatmentStart  time.Time            `json:"treatmentStart"`
}

func (a *PortalController) phaseView(c *gin.Context, p treatment.Phase, currentWeek int) phaseView {
	view := phaseView{
		ID:        p.ID,
		Name:      I18nWeb(c, p.NameKey),
		Desc:      I18nWeb(c, p.DescriptionKey),
		Icon:      p.Icon,
		StartWeek: p.StartWeek,
		EndWeek:   p.EndWeek,
		Status:    treatment.PhaseStatus(p, currentWeek),
	}
	for _, m := range p.Milestones {
		view.Milestones = append(view.Milestones, milestoneView{
			Label:  I18nWeb(c, m.LabelKey),
			Week:   m.Week,
			Status: treatment.MilestoneStatus(m.Week, currentWeek),
		})
	}
	return view
}

// dashboard returns the logged-in patient's treatment progress.
func (a *PortalController) dashboard(c *gin.Context) {
	patient := session.GetLoginPatient(c)
	if patient == nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.portal.toasts.loginAgain"))
		return
	}

	week := patient.CurrentWeek
	view := dashboardView{
		PatientID:       patient.PatientID,
		FullName:        patient.FullName,
		CurrentWeek:     week,
		TotalWeeks:      treatment.TotalWeeks,
		ProgressPercent: treatment.ProgressPercent(week),
		CurrentPhase:    a.phaseView(c, treatment.PhaseFor(week), week),
		Roadmap:         treatment.Roadmap(week),
		TreatmentStart:  patient.TreatmentStart,
	}
	for _, p := range treatment.Phases() {
		view.Phases = append(view.Phases, a.phaseView(c, p, week))
	}

	planViewerURL, err := a.settingService.GetPlanViewerURL()
	if err != nil {
		logger.Warning("get plan viewer url failed:", err)
	}
	view.PlanViewerURL = planViewerURL

	jsonObj(c, view, nil)
}
