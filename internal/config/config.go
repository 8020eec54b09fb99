package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Output  OutputConfig  `toml:"output"`
	Assets  AssetsConfig  `toml:"assets"`
	Layout  LayoutConfig  `toml:"layout"`
	Locale  LocaleConfig  `toml:"locale"`
	History HistoryConfig `toml:"history"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据目录（上传文件、历史库）
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// OutputConfig 默认输出
type OutputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// AssetsConfig 静态资源
type AssetsConfig struct {
	LogoPath string `toml:"logo_path"` // 为空时使用内置 logo
}

// LayoutConfig 版式文件（YAML），为空时使用内置版式
type LayoutConfig struct {
	Path string `toml:"path"`
}

// LocaleConfig 界面与月份名称语言
type LocaleConfig struct {
	Language string `toml:"language"`
}

// HistoryConfig 生成历史（SQLite）
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Output: OutputConfig{
			Dir:    "",
			Format: "pdf",
		},
		Assets: AssetsConfig{
			LogoPath: "",
		},
		Locale: LocaleConfig{
			Language: "en",
		},
		History: HistoryConfig{
			Enabled: false,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadFromFile 默认值 <- 配置文件 <- 环境变量；文件不存在时只用默认值和环境变量
func LoadFromFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于 E2E / 本地运行）
func applyEnv(config *AppConfig) {
	if v := os.Getenv("NOMINA_LOGO_PATH"); v != "" {
		config.Assets.LogoPath = v
	}
	if v := os.Getenv("NOMINA_LAYOUT_PATH"); v != "" {
		config.Layout.Path = v
	}
	if v := os.Getenv("NOMINA_OUTPUT_DIR"); v != "" {
		config.Output.Dir = v
	}
	if v := os.Getenv("NOMINA_LANG"); v != "" {
		config.Locale.Language = v
	}
	if v := os.Getenv("NOMINA_HISTORY"); v != "" {
		if enabled, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			config.History.Enabled = enabled
		}
	}
}

// SaveConfig 保存配置到 path
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePath 相对路径按可执行文件目录解析
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	exeDir, err := GetExeDir()
	if err != nil {
		return p
	}
	return filepath.Join(exeDir, p)
}

// EnsureDataDir 确保数据目录及 uploads 子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "uploads"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// HistoryDBPath 生成历史数据库路径
func HistoryDBPath(dataDir string) string {
	return filepath.Join(dataDir, "nomina.db")
}
