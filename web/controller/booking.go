package controller

import (
	"net/http"

	"github.com/medident/linea/web/service"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// BookingController hands out the clinic's booking channels: the calendar
// link, the WhatsApp link and a scannable QR code for the latter.
type BookingController struct {
	BaseController

	settingService service.SettingService
}

func NewBookingController(g *gin.RouterGroup) *BookingController {
	a := &BookingController{}
	a.initRouter(g)
	return a
}

func (a *BookingController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/booking")

	g.GET("/links", a.links)
	g.GET("/qr", a.qr)
}

func (a *BookingController) links(c *gin.Context) {
	calendarURL, err := a.settingService.GetBookingCalendarURL()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	whatsAppLink, err := a.settingService.GetWhatsAppLink()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonObj(c, gin.H{
		"calendarUrl": calendarURL,
		"whatsappUrl": whatsAppLink,
	}, nil)
}

// qr renders the WhatsApp booking link as a PNG for print material and the
// in-clinic screen.
func (a *BookingController) qr(c *gin.Context) {
	whatsAppLink, err := a.settingService.GetWhatsAppLink()
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	png, err := qrcode.Encode(whatsAppLink, qrcode.Medium, 256)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
