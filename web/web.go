// Package web provides the HTTP server for the Linea Aligners site: the
// public marketing API, the patient portal, the staff area and the
// background job scheduling.
package web

import (
	"context"
	"embed"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/medident/linea/config"
	"github.com/medident/linea/logger"
	"github.com/medident/linea/util/common"
	"github.com/medident/linea/web/controller"
	"github.com/medident/linea/web/job"
	"github.com/medident/linea/web/locale"
	"github.com/medident/linea/web/middleware"
	"github.com/medident/linea/web/service"
	"github.com/medident/linea/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

// Server is the web server with its controllers, services and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	portal    *controller.PortalController
	staff     *controller.StaffController
	assistant *controller.AssistantController
	smile     *controller.SmileController
	content   *controller.ContentController
	booking   *controller.BookingController

	settingService   service.SettingService
	assistantService *service.AssistantService
	tgbotService     service.Tgbot

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		assistantService: service.NewAssistantService(),
		ctx:              ctx,
		cancel:           cancel,
	}
}

// initRouter initializes Gin, registers middleware, sessions, controllers
// and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	webDomain, err := s.settingService.GetWebDomain()
	if err != nil {
		return nil, err
	}
	if webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	secret, err := s.settingService.GetSecret()
	if err != nil {
		return nil, err
	}

	basePath, err := s.settingService.GetBasePath()
	if err != nil {
		return nil, err
	}

	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{basePath + "booking/qr"})))

	store := cookie.NewStore(secret)
	engine.Use(sessions.Sessions(session.CookieName, store))

	if err := locale.InitLocalizer(i18nFS, &s.settingService); err != nil {
		return nil, err
	}
	engine.Use(locale.LocalizerMiddleware())

	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
		c.Next()
	})

	engine.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()))

	g := engine.Group(basePath)
	s.portal = controller.NewPortalController(g)
	s.staff = controller.NewStaffController(g)
	s.assistant = controller.NewAssistantController(g, s.assistantService)
	s.smile = controller.NewSmileController(g)
	s.content = controller.NewContentController(g)
	s.booking = controller.NewBookingController(g)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	// Move verified patients along the treatment timeline once a day.
	if _, err := s.cron.AddJob("@daily", job.NewAdvanceWeekJob()); err != nil {
		logger.Warning("Add AdvanceWeekJob error:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	loc, err := s.settingService.GetTimeLocation()
	if err != nil {
		return err
	}
	s.cron = cron.New(cron.WithLocation(loc), cron.WithSeconds())
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	if tgbotEnabled, err := s.settingService.GetTgbotEnabled(); err == nil && tgbotEnabled {
		if err := s.tgbotService.Start(); err != nil {
			logger.Warning("Start telegram bot failed:", err)
		}
	}

	return nil
}

// Stop gracefully shuts down the web server, cron jobs and Telegram bot.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.tgbotService.IsRunning() {
		s.tgbotService.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
