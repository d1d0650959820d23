package controller

import (
	"github.com/medident/linea/web/service"

	"github.com/gin-gonic/gin"
)

// ContentController serves the localized marketing content of the public site.
type ContentController struct {
	BaseController

	contentService service.ContentService
}

func NewContentController(g *gin.RouterGroup) *ContentController {
	a := &ContentController{}
	a.initRouter(g)
	return a
}

func (a *ContentController) initRouter(g *gin.RouterGroup) {
	g.GET("/content", a.content)
}

func (a *ContentController) content(c *gin.Context) {
	nav := a.contentService.NavItems()
	for i := range nav {
		nav[i].Label = I18nWeb(c, nav[i].LabelKey)
	}

	features := a.contentService.Features()
	for i := range features {
		features[i].Title = I18nWeb(c, features[i].TitleKey)
		features[i].Desc = I18nWeb(c, features[i].DescKey)
	}

	steps := a.contentService.Steps()
	for i := range steps {
		steps[i].Title = I18nWeb(c, steps[i].TitleKey)
		steps[i].Desc = I18nWeb(c, steps[i].DescKey)
	}

	faqs := a.contentService.FAQs()
	for i := range faqs {
		faqs[i].Question = I18nWeb(c, faqs[i].QuestionKey)
		faqs[i].Answer = I18nWeb(c, faqs[i].AnswerKey)
	}

	jsonObj(c, gin.H{
		"nav":          nav,
		"features":     features,
		"steps":        steps,
		"faqs":         faqs,
		"testimonials": a.contentService.Testimonials(),
	}, nil)
}
