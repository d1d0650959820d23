package controller

import (
	"net/http"

	"github.com/medident/linea/web/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const visitorCookie = "linea_visitor"

// ChatForm is the assistant conversation payload.
type ChatForm struct {
	Language string                `json:"language" form:"language"`
	Messages []service.ChatMessage `json:"messages"`
}

// ReviewForm carries an uploaded clinical photo for the planner.
type ReviewForm struct {
	MimeType string `json:"mimeType" form:"mimeType"`
	Data     string `json:"data" form:"data"` // base64
}

// AssistantController exposes the AI consultant and the clinical planner.
type AssistantController struct {
	BaseController

	assistantService *service.AssistantService
}

func NewAssistantController(g *gin.RouterGroup, assistantService *service.AssistantService) *AssistantController {
	a := &AssistantController{assistantService: assistantService}
	a.initRouter(g)
	return a
}

func (a *AssistantController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/assistant")

	g.GET("/welcome", a.welcome)
	g.POST("/chat", a.chat)
	g.POST("/review", a.review)
}

// visitorKey identifies the browser for rate limiting. A missing cookie gets
// a fresh uuid that sticks for the session.
func visitorKey(c *gin.Context) string {
	if key, err := c.Cookie(visitorCookie); err == nil && key != "" {
		return key
	}
	key := uuid.NewString()
	c.SetCookie(visitorCookie, key, 0, "/", "", false, true)
	return key
}

// languageName maps the site language code onto the prompt language.
func languageName(code string) string {
	if code == "sq" {
		return "Albanian"
	}
	return "English"
}

func (a *AssistantController) welcome(c *gin.Context) {
	jsonObj(c, service.ChatReply{Text: I18nWeb(c, "assistant.welcome")}, nil)
}

func (a *AssistantController) chat(c *gin.Context) {
	var form ChatForm
	if err := c.ShouldBindJSON(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	reply, err := a.assistantService.Chat(c.Request.Context(), visitorKey(c), languageName(form.Language), form.Messages)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	if reply.Booking && reply.PatientName != "" {
		reply.Text = I18nWeb(c, "assistant.bookingConfirmed", "Name=="+reply.PatientName)
	}
	jsonObj(c, reply, nil)
}

func (a *AssistantController) review(c *gin.Context) {
	var form ReviewForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Data == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.portal.toasts.invalidFormData"))
		return
	}

	analysis, err := a.assistantService.ClinicalReview(c.Request.Context(), form.MimeType, form.Data)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonObj(c, gin.H{"analysis": analysis}, nil)
}
