package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nomina/internal/config"
	"nomina/internal/layout"
	"nomina/internal/model"
	"nomina/internal/render"
	"nomina/internal/server"
	"nomina/internal/session"
	"nomina/internal/store"
	"nomina/internal/util"
	"nomina/internal/week"
)

// App 命令行共享的配置
type App struct {
	configPath string
	cfg        *config.AppConfig
	info       config.LoadConfigInfo
}

// loadConfig 读取配置，失败时退回默认配置（与服务端行为一致）
func (a *App) loadConfig() {
	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, info, err := config.LoadFromFile(path)
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{Path: path}
	}
	a.cfg = cfg
	a.info = info
}

// writeDefaultConfig 首次运行时在配置路径写出默认 config.toml，方便用户修改
func (a *App) writeDefaultConfig() {
	if a.info.Found || a.info.Path == "" {
		return
	}
	if err := config.SaveConfig(config.DefaultConfig(), a.info.Path); err != nil {
		log.Printf("写入默认配置失败: %v", err)
		return
	}
	a.info.Found = true
	fmt.Printf("已生成默认配置: %s\n", a.info.Path)
}

func banner() {
	fmt.Println("==========================================")
	fmt.Println("  Nomina Semanal - hojas de control semanal")
	fmt.Println("==========================================")
}

// ServeOptions serve 子命令参数
type ServeOptions struct {
	Port      int
	DevMode   bool
	NoBrowser bool
}

// Serve 启动本地网页界面并等待退出信号
func (a *App) Serve(opts ServeOptions) error {
	banner()
	cfg := a.cfg

	if opts.Port > 0 && !a.info.PortSpecified {
		cfg.Server.Port = opts.Port
	}
	if opts.DevMode {
		cfg.Server.DevMode = true
	}
	if opts.NoBrowser {
		cfg.Server.OpenBrowser = false
	}

	a.writeDefaultConfig()

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	fmt.Printf("数据目录: %s\n", dataDir)

	srv, err := server.NewServer(cfg, dataDir)
	if err != nil {
		return err
	}
	defer srv.Close()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowser(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	return nil
}

// GenerateOptions generate 子命令参数
type GenerateOptions struct {
	Roster string
	Start  string
	End    string
	Out    string
	Week   string
	Format string
	Layout string
	Logo   string
}

// Generate 不经过网页直接生成文档，走与网页相同的会话流程
func (a *App) Generate(opts GenerateOptions) error {
	cfg := a.cfg

	layoutPath := cfg.Layout.Path
	if opts.Layout != "" {
		layoutPath = opts.Layout
	}
	l, err := layout.Load(config.ResolvePath(layoutPath))
	if err != nil {
		return err
	}
	logo := cfg.Assets.LogoPath
	if opts.Logo != "" {
		logo = opts.Logo
	}
	formatName := cfg.Output.Format
	if opts.Format != "" {
		formatName = opts.Format
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}
	out := cfg.Output.Dir
	if opts.Out != "" {
		out = opts.Out
	}

	sessOpts := session.Options{Locale: week.ParseLocale(cfg.Locale.Language), Format: format}
	if cfg.History.Enabled {
		db, err := a.openHistory()
		if err != nil {
			return err
		}
		defer db.Close()
		sessOpts.Recorder = db
	}
	s := session.New(render.NewRenderer(l, config.ResolvePath(logo)), sessOpts)

	status, err := s.SelectRoster(opts.Roster)
	if err != nil {
		return errors.New(status)
	}
	fmt.Println(status)

	if opts.Start != "" {
		d, err := week.ParseDate(opts.Start)
		if err != nil {
			return err
		}
		fmt.Println(s.SetStart(d))
	}
	if opts.End != "" {
		d, err := week.ParseDate(opts.End)
		if err != nil {
			return err
		}
		fmt.Println(s.SetEnd(d))
	}
	if opts.Week != "" {
		fmt.Println(s.OverrideLabel(opts.Week))
	}
	fmt.Println(s.SelectOutputDir(out))

	res, err := s.Generate(nil)
	if err != nil {
		return errors.New(s.Status(err))
	}
	fmt.Println(res.Status)
	fmt.Printf("%s (%d)\n", res.Path, res.Pages)
	return nil
}

// Week 打印日期范围对应的周信息
func (a *App) Week(start, end string) error {
	s, err := week.ParseDate(start)
	if err != nil {
		return err
	}
	e, err := week.ParseDate(end)
	if err != nil {
		return err
	}
	w := week.Compute(s, e, week.ParseLocale(a.cfg.Locale.Language))
	PrintTable(
		[]string{"SEMANA", "DEL", "DE", "AL", "DE", "DEL"},
		[][]string{{w.Label, fmt.Sprint(w.StartDay), w.StartMonth, fmt.Sprint(w.EndDay), w.EndMonth, fmt.Sprint(w.EndYear)}},
	)
	return nil
}

// History 打印最近的生成记录
func (a *App) History(limit int) error {
	if !a.cfg.History.Enabled {
		fmt.Println("history is disabled (set [history] enabled = true in config.toml)")
		return nil
	}
	db, err := a.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.ListGenerations(limit)
	if err != nil {
		return err
	}
	PrintTable([]string{"FECHA", "SEMANA", "EMPLEADOS", "FORMATO", "ARCHIVO"}, historyRows(items))
	return nil
}

func historyRows(items []model.GenerationRecord) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.CreatedAt.Local().Format(time.DateTime),
			it.WeekLabel,
			fmt.Sprint(it.Employees),
			it.Format,
			it.OutputPath,
		})
	}
	return rows
}

func (a *App) openHistory() (*store.Store, error) {
	dataDir, err := config.EnsureDataDir(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return store.New(config.HistoryDBPath(dataDir))
}
