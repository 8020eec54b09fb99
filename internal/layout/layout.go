// Package layout 汇总工资单版式的全部常量（页面、字号、列宽、行数、横线位置），
// 默认值复刻纸质模板，也可以通过 YAML 文件覆盖，换模板不需要改代码。
package layout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Inch 1 英寸对应的点数（PDF 用户空间单位）
const Inch = 72.0

// Color RGB 颜色
type Color struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	Beige     = Color{245, 245, 220}
	LightGrey = Color{211, 211, 211}
)

// Hex 形如 "F5F5DC"（excelize 填充色格式）
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Layout 整张工资单的版式
type Layout struct {
	Document     Document     `yaml:"document"`
	Page         Page         `yaml:"page"`
	Header       Header       `yaml:"header"`
	Banner       Banner       `yaml:"banner"`
	Identity     Identity     `yaml:"identity"`
	Grid         Grid         `yaml:"grid"`
	Observations Observations `yaml:"observations"`
	Rules        Rules        `yaml:"rules"`
}

// Document 输出文件
type Document struct {
	FileName string `yaml:"file_name"` // 不含扩展名
	Title    string `yaml:"title"`
	Font     string `yaml:"font"` // PDF 核心字体族
}

// Page 页面尺寸与边距（点）
type Page struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
}

// ContentWidth 去掉左右边距后的可用宽度
func (p Page) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// Header 抬头：logo + 标题，下方副标题
type Header struct {
	LogoWidth      float64 `yaml:"logo_width"`
	LogoHeight     float64 `yaml:"logo_height"`
	LogoColumn     float64 `yaml:"logo_column"`
	TitleColumn    float64 `yaml:"title_column"`
	Title          string  `yaml:"title"`
	TitleFontSize  float64 `yaml:"title_font_size"`
	BottomPadding  float64 `yaml:"bottom_padding"`
	SpaceAfter     float64 `yaml:"space_after"`
	Subtitle       string  `yaml:"subtitle"`
	SubtitleWidth  float64 `yaml:"subtitle_width"`
	SubtitleHeight float64 `yaml:"subtitle_height"`
	SubtitleAfter  float64 `yaml:"subtitle_after"`
}

// Banner 周号/日期栏：12 个等宽单元格
type Banner struct {
	CellWidth      float64 `yaml:"cell_width"`
	Height         float64 `yaml:"height"`
	FontSize       float64 `yaml:"font_size"`
	WeekLabel      string  `yaml:"week_label"` // SEMANA
	FromLabel      string  `yaml:"from_label"` // DEL
	OfLabel        string  `yaml:"of_label"`   // DE
	ToLabel        string  `yaml:"to_label"`   // AL
	YearLabel      string  `yaml:"year_label"` // DEL
	HighlightCells int     `yaml:"highlight_cells"`
	Highlight      Color   `yaml:"highlight"`
	LineWidth      float64 `yaml:"line_width"`
	SpaceAfter     float64 `yaml:"space_after"`
}

// Identity 员工编号/姓名栏
type Identity struct {
	NumberLabel string     `yaml:"number_label"`
	NameLabel   string     `yaml:"name_label"`
	Widths      [4]float64 `yaml:"widths"`
	Height      float64    `yaml:"height"`
	FontSize    float64    `yaml:"font_size"`
	LineWidth   float64    `yaml:"line_width"`
	SpaceAfter  float64    `yaml:"space_after"`
}

// Column 跟踪表的一列
type Column struct {
	Label string  `yaml:"label"`
	Width float64 `yaml:"width"`
}

// Grid 跟踪表：表头 + 固定数量的空白行
type Grid struct {
	Columns        []Column `yaml:"columns"`
	Rows           int      `yaml:"rows"`
	HeaderHeight   float64  `yaml:"header_height"`
	RowHeight      float64  `yaml:"row_height"`
	HeaderFontSize float64  `yaml:"header_font_size"`
	HeaderFill     Color    `yaml:"header_fill"`
	LineWidth      float64  `yaml:"line_width"`
	SpaceAfter     float64  `yaml:"space_after"`
}

// Width 表格总宽
func (g Grid) Width() float64 {
	total := 0.0
	for _, c := range g.Columns {
		total += c.Width
	}
	return total
}

// Labels 表头文字
func (g Grid) Labels() []string {
	out := make([]string, 0, len(g.Columns))
	for _, c := range g.Columns {
		out = append(out, c.Label)
	}
	return out
}

// Observations 备注标题与其后的留白
type Observations struct {
	Label    string  `yaml:"label"`
	FontSize float64 `yaml:"font_size"`
	Height   float64 `yaml:"height"`
	Gap      float64 `yaml:"gap"`
}

// ContentBottom 单页内容流（抬头到备注留白）结束处的 y 坐标
func (l *Layout) ContentBottom() float64 {
	h := l.Header
	y := l.Page.MarginTop
	y += h.LogoHeight + h.BottomPadding + h.SpaceAfter
	y += h.SubtitleHeight + h.SubtitleAfter
	y += l.Banner.Height + l.Banner.SpaceAfter
	y += l.Identity.Height + l.Identity.SpaceAfter
	y += l.Grid.HeaderHeight + float64(l.Grid.Rows)*l.Grid.RowHeight + l.Grid.SpaceAfter
	return y + l.Observations.Height + l.Observations.Gap
}

// ContentLimit 内容流不能越过的位置：第一条备注横线，没有横线时为下边距
func (l *Layout) ContentLimit() float64 {
	if l.Rules.Count > 0 {
		return l.Page.Height - l.Rules.Bottom
	}
	return l.Page.Height - l.Page.MarginBottom
}

// Rules 每页底部固定位置的备注横线（与内容流无关，在内容之后绘制）
type Rules struct {
	Count   int     `yaml:"count"`
	Spacing float64 `yaml:"spacing"`
	StartX  float64 `yaml:"start_x"`
	EndX    float64 `yaml:"end_x"`
	Bottom  float64 `yaml:"bottom"` // 第一条线距页面底边的距离，其余依次向下
	Width   float64 `yaml:"width"`
}

// Default 内置的默认版式（US Letter）
func Default() *Layout {
	return &Layout{
		Document: Document{
			FileName: "Nomina_Semanal",
			Title:    "Nomina Semanal",
			Font:     "Helvetica",
		},
		Page: Page{
			Width:        8.5 * Inch,
			Height:       11 * Inch,
			MarginLeft:   0.5 * Inch,
			MarginRight:  0.5 * Inch,
			MarginTop:    0.1 * Inch,
			MarginBottom: 0.1 * Inch,
		},
		Header: Header{
			LogoWidth:      1.0 * Inch,
			LogoHeight:     0.5 * Inch,
			LogoColumn:     1.0 * Inch,
			TitleColumn:    6.0 * Inch,
			Title:          "Transporte, CBL",
			TitleFontSize:  15,
			BottomPadding:  10,
			SpaceAfter:     3,
			Subtitle:       "NOMINA SEMANAL",
			SubtitleWidth:  7 * Inch,
			SubtitleHeight: 21,
			SubtitleAfter:  3,
		},
		Banner: Banner{
			CellWidth:      0.65 * Inch,
			Height:         16,
			FontSize:       10,
			WeekLabel:      "SEMANA",
			FromLabel:      "DEL",
			OfLabel:        "DE",
			ToLabel:        "AL",
			YearLabel:      "DEL",
			HighlightCells: 2,
			Highlight:      LightGrey,
			LineWidth:      1,
			SpaceAfter:     5,
		},
		Identity: Identity{
			NumberLabel: "No EMPLEADO",
			NameLabel:   "NOMBRE DE CHOFER",
			Widths:      [4]float64{1 * Inch, 1 * Inch, 1.5 * Inch, 3.5 * Inch},
			Height:      12.4,
			FontSize:    7,
			LineWidth:   1,
			SpaceAfter:  5,
		},
		Grid: Grid{
			Columns: []Column{
				{Label: "FECHA", Width: 0.8 * Inch},
				{Label: "No. ORDEN", Width: 1.2 * Inch},
				{Label: "CLIENTE", Width: 2 * Inch},
				{Label: "TON / M3", Width: 0.8 * Inch},
				{Label: "TRACTOR", Width: 0.8 * Inch},
				{Label: "REMOLQUE", Width: 0.8 * Inch},
				{Label: "TIPO DE VIAJE", Width: 1.4 * Inch},
			},
			Rows:           35,
			HeaderHeight:   16,
			RowHeight:      14,
			HeaderFontSize: 8,
			HeaderFill:     Beige,
			LineWidth:      1,
			SpaceAfter:     8,
		},
		Observations: Observations{
			Label:    "OBSERVACIONES:",
			FontSize: 7,
			Height:   8.4,
			Gap:      15,
		},
		Rules: Rules{
			Count:   5,
			Spacing: 12,
			StartX:  0.5 * Inch,
			EndX:    8.0 * Inch,
			Bottom:  1.25 * Inch,
			Width:   1,
		},
	}
}

// Load 读取 YAML 版式文件并覆盖到默认值上；path 为空时直接返回默认版式
func Load(path string) (*Layout, error) {
	l := Default()
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return l, nil
}

// Validate 校验版式是否可用于排版
func (l *Layout) Validate() error {
	var errs []error
	if l.Document.FileName == "" {
		errs = append(errs, errors.New("document.file_name is required"))
	}
	if l.Page.Width <= 0 || l.Page.Height <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if l.Page.ContentWidth() <= 0 {
		errs = append(errs, errors.New("page margins leave no room for content"))
	}
	if len(l.Grid.Columns) == 0 {
		errs = append(errs, errors.New("grid.columns must not be empty"))
	}
	for i, c := range l.Grid.Columns {
		if c.Width <= 0 {
			errs = append(errs, fmt.Errorf("grid.columns[%d] (%s) width must be positive", i, c.Label))
		}
	}
	if l.Grid.Rows <= 0 {
		errs = append(errs, errors.New("grid.rows must be positive"))
	}
	if l.Grid.RowHeight <= 0 || l.Grid.HeaderHeight <= 0 {
		errs = append(errs, errors.New("grid row heights must be positive"))
	}
	if l.Rules.Count < 0 {
		errs = append(errs, errors.New("rules.count must not be negative"))
	}
	if l.Banner.CellWidth <= 0 {
		errs = append(errs, errors.New("banner.cell_width must be positive"))
	}
	if bottom, limit := l.ContentBottom(), l.ContentLimit(); bottom > limit {
		errs = append(errs, fmt.Errorf("content ends at %.1fpt, below the page limit %.1fpt (reduce grid.rows or row heights)", bottom, limit))
	}
	return errors.Join(errs...)
}
