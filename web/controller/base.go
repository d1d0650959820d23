// Package controller provides the HTTP handlers for the Linea Aligners site:
// the public marketing endpoints, the patient portal and the staff area.
package controller

import (
	"errors"
	"net/http"

	"github.com/medident/linea/logger"
	"github.com/medident/linea/web/locale"
	"github.com/medident/linea/web/service"
	"github.com/medident/linea/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin is a middleware that verifies patient authentication and handles unauthorized access.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsPatientLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.portal.toasts.loginAgain"))
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// checkStaffLogin guards the staff area.
func (a *BaseController) checkStaffLogin(c *gin.Context) {
	if !session.IsStaffLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.portal.toasts.loginAgain"))
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// I18nWeb retrieves an internationalized message for the web interface based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return ""
	}
	i18nFunc, _ := anyfunc.(func(i18nType locale.I18nType, key string, keyParams ...string) string)
	msg := i18nFunc(locale.Web, name, params...)
	return msg
}

// localizedError turns a service validation failure into its localized text.
// Internal errors fall through unchanged.
func localizedError(c *gin.Context, err error) (string, bool) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return I18nWeb(c, vErr.MsgKey), true
	}
	return "", false
}
