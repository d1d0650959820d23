package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medident/linea/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions(CookieName, cookie.NewStore([]byte("test-secret"))))

	engine.GET("/login", func(c *gin.Context) {
		SetLoginPatient(c, &model.Patient{
			Id:          1,
			PatientID:   "geno21",
			FullName:    "Genc Morina",
			CurrentWeek: 10,
		})
		if err := sessions.Default(c).Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	engine.GET("/whoami", func(c *gin.Context) {
		patient := GetLoginPatient(c)
		if patient == nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, patient.PatientID)
	})

	engine.GET("/logout", func(c *gin.Context) {
		ClearSession(c)
		if err := sessions.Default(c).Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	return engine
}

// A login session persists across requests carrying the cookie, the way a
// page reload does.
func TestSessionSurvivesReload(t *testing.T) {
	engine := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no cookie")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("whoami with cookie returned %d", w.Code)
	}
	if got := w.Body.String(); got != "geno21" {
		t.Errorf("whoami = %q, want geno21", got)
	}
}

func TestRequestWithoutCookieIsAnonymous(t *testing.T) {
	engine := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("whoami without cookie returned %d, want 401", w.Code)
	}
}

func TestClearSessionLogsOut(t *testing.T) {
	engine := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	engine.ServeHTTP(w, req)
	loginCookies := w.Result().Cookies()

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range loginCookies {
		req.AddCookie(c)
	}
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logout returned %d", w.Code)
	}
	clearedCookies := w.Result().Cookies()

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range clearedCookies {
		req.AddCookie(c)
	}
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("whoami after logout returned %d, want 401", w.Code)
	}
}
