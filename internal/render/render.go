// Package render 把花名册排成每人一页的周工资跟踪单（PDF 或 XLSX）。
package render

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nomina/internal/layout"
	"nomina/internal/model"
)

// Format 输出格式
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat 解析输出格式，空值视为 pdf
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want pdf or xlsx)", s)
	}
}

// Job 一次生成任务
type Job struct {
	Roster    []model.RosterEntry
	Week      model.WeekInfo // Label 可能已被用户手动修改
	OutputDir string
	Format    Format
	Progress  func(ProgressEvent)
}

// Result 生成结果
type Result struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Pages  int    `json:"pages"`  // PDF 页数 / XLSX 工作表数
	Sheets int    `json:"sheets"` // 含跟踪表的员工页数
}

// Renderer 工资单排版器
type Renderer struct {
	layout   *layout.Layout
	logoPath string
	compress bool
}

// NewRenderer 创建排版器，l 为 nil 时使用默认版式
func NewRenderer(l *layout.Layout, logoPath string) *Renderer {
	if l == nil {
		l = layout.Default()
	}
	return &Renderer{
		layout:   l,
		logoPath: logoPath,
		compress: true,
	}
}

// FileName 输出文件名（固定名 + 扩展名）
func (r *Renderer) FileName(f Format) string {
	if f == "" {
		f = FormatPDF
	}
	return r.layout.Document.FileName + "." + string(f)
}

// OutputPath 输出文件完整路径
func (r *Renderer) OutputPath(dir string, f Format) string {
	return filepath.Join(dir, r.FileName(f))
}

// Render 生成文档并原子地写到 OutputDir，已存在的同名文件会被直接覆盖
func (r *Renderer) Render(job Job) (Result, error) {
	format, err := ParseFormat(string(job.Format))
	if err != nil {
		return Result{}, err
	}
	if err := r.layout.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid layout: %w", err)
	}

	reportProgress(job.Progress, 0, "loading assets")
	logo, err := loadLogo(r.logoPath)
	if err != nil {
		return Result{}, err
	}

	result := Result{Format: format, Sheets: len(job.Roster)}
	path, err := writeFileAtomic(job.OutputDir, r.FileName(format), func(w io.Writer) error {
		var pages int
		var err error
		switch format {
		case FormatXLSX:
			pages, err = r.writeXLSX(w, job, logo)
		default:
			pages, err = r.writePDF(w, job, logo)
		}
		result.Pages = pages
		return err
	})
	if err != nil {
		return Result{}, err
	}
	result.Path = path

	reportProgress(job.Progress, 100, "done")
	return result, nil
}

// defaultLogo 未配置 logo 时使用的内置图片
//
//go:embed assets/logotipo.png
var defaultLogo []byte

// logoAsset 已读入内存的 logo
type logoAsset struct {
	path string
	kind string // PNG / JPG / GIF
	ext  string
	data []byte
}

// loadLogo path 为空时使用内置 logo；配置了但读不到的路径返回 AssetMissingError
func loadLogo(path string) (logoAsset, error) {
	if strings.TrimSpace(path) == "" {
		return logoAsset{path: "logotipo.png (built-in)", kind: "PNG", ext: ".png", data: defaultLogo}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return logoAsset{}, &model.AssetMissingError{Path: path, Err: err}
	}
	ext := strings.ToLower(filepath.Ext(path))
	var kind string
	switch ext {
	case ".png":
		kind = "PNG"
	case ".jpg", ".jpeg":
		kind = "JPG"
	case ".gif":
		kind = "GIF"
	default:
		return logoAsset{}, fmt.Errorf("unsupported logo format %q (want png, jpg or gif)", filepath.Ext(path))
	}
	return logoAsset{path: path, kind: kind, ext: ext, data: data}, nil
}

// BannerCells 周号/日期栏的 12 个单元格文字
func BannerCells(b layout.Banner, w model.WeekInfo) []string {
	return []string{
		b.WeekLabel, w.Label,
		b.FromLabel, strconv.Itoa(w.StartDay),
		b.OfLabel, w.StartMonth,
		b.ToLabel, strconv.Itoa(w.EndDay),
		b.OfLabel, w.EndMonth,
		b.YearLabel, strconv.Itoa(w.EndYear),
	}
}

// IdentityCells 员工栏的 4 个单元格文字
func IdentityCells(id layout.Identity, e model.RosterEntry) []string {
	return []string{id.NumberLabel, e.Number, id.NameLabel, e.Name}
}
