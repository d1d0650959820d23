package controller

import (
	"net/http"

	"github.com/medident/linea/web/service"

	"github.com/gin-gonic/gin"
)

// SmileForm carries an uploaded selfie for the preview generator.
type SmileForm struct {
	MimeType string `json:"mimeType" form:"mimeType"`
	Data     string `json:"data" form:"data"` // base64
}

// SmileController exposes the AI smile preview.
type SmileController struct {
	BaseController

	smileService service.SmileService
}

func NewSmileController(g *gin.RouterGroup) *SmileController {
	a := &SmileController{}
	a.initRouter(g)
	return a
}

func (a *SmileController) initRouter(g *gin.RouterGroup) {
	g.POST("/smile/preview", a.preview)
}

func (a *SmileController) preview(c *gin.Context) {
	var form SmileForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Data == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	preview, err := a.smileService.GeneratePreview(c.Request.Context(), form.MimeType, form.Data)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonObj(c, preview, nil)
}
