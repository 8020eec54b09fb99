package server

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"nomina/internal/api"
	"nomina/internal/config"
	"nomina/internal/layout"
	"nomina/internal/render"
	"nomina/internal/session"
	"nomina/internal/store"
	"nomina/internal/week"
)

//go:embed web/index.html
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   *store.Store
	session *session.Session
	api     *api.Handler
}

// NewServer 根据配置组装会话、排版器与（可选的）历史库
func NewServer(cfg *config.AppConfig, dataDir string) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	l, err := layout.Load(config.ResolvePath(cfg.Layout.Path))
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	s := &Server{}
	opts := session.Options{
		Locale: week.ParseLocale(cfg.Locale.Language),
		Format: format,
	}
	var history api.HistoryStore
	if cfg.History.Enabled {
		db, err := store.New(config.HistoryDBPath(dataDir))
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		s.store = db
		opts.Recorder = db
		history = db
		log.Printf("generation history enabled: %s", config.HistoryDBPath(dataDir))
	}

	renderer := render.NewRenderer(l, config.ResolvePath(cfg.Assets.LogoPath))
	s.session = session.New(renderer, opts)
	if cfg.Output.Dir != "" {
		s.session.SelectOutputDir(cfg.Output.Dir)
	}
	s.api = api.NewHandler(s.session, history, filepath.Join(dataDir, "uploads"))

	if cfg.Server.DevMode {
		s.router = gin.Default()
	} else {
		s.router = gin.New()
		s.router.Use(gin.Recovery())
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	s.router.GET("/", func(c *gin.Context) {
		data, err := staticFiles.ReadFile("web/index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

// Handler 底层 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放历史库
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
