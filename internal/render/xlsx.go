package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"nomina/internal/layout"
	"nomina/internal/model"
)

const (
	xlsxEmptySheet  = "NOMINA"
	xlsxPointsPerCh = 5.25 // 默认字体下 1 个字符宽约 7px
	xlsxPxPerPoint  = 96.0 / 72.0
	xlsxMaxSheetLen = 31
)

// xlsxStyles 工作簿内复用的样式 ID
type xlsxStyles struct {
	title, banner, bannerHighlight, identity, gridHeader, gridCell, observations, rule int
}

// xlsxBook 每名员工一个工作表，版式与 PDF 一致
type xlsxBook struct {
	f      *excelize.File
	l      *layout.Layout
	logo   logoAsset
	styles xlsxStyles
	cols   int // 占用的列数（取日期栏与跟踪表的较大者）
}

func (r *Renderer) writeXLSX(w io.Writer, job Job, logo logoAsset) (int, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	book := &xlsxBook{f: f, l: r.layout, logo: logo}
	book.cols = len(r.layout.Grid.Columns)
	if n := len(BannerCells(r.layout.Banner, job.Week)); n > book.cols {
		book.cols = n
	}
	if err := book.initStyles(); err != nil {
		return 0, err
	}

	names := sheetNames(job.Roster)
	if len(names) == 0 {
		names = []string{xlsxEmptySheet}
	}

	total := len(job.Roster)
	reportProgress(job.Progress, 5, "layout")
	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return 0, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return 0, fmt.Errorf("create sheet %s: %w", name, err)
		}

		var entry *model.RosterEntry
		if i < total {
			entry = &job.Roster[i]
		}
		if err := book.fillSheet(name, entry, job.Week); err != nil {
			return 0, fmt.Errorf("fill sheet %s: %w", name, err)
		}
		if entry != nil {
			reportProgress(job.Progress, sheetPercent(i+1, total), fmt.Sprintf("employee %d/%d", i+1, total))
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return 0, &model.IOError{Op: "write", Path: r.FileName(FormatXLSX), Err: err}
	}
	return len(names), nil
}

func (b *xlsxBook) initStyles() error {
	l := b.l
	black := "000000"
	bottom := []excelize.Border{{Type: "bottom", Color: black, Style: 1}}
	all := []excelize.Border{
		{Type: "left", Color: black, Style: 1},
		{Type: "top", Color: black, Style: 1},
		{Type: "right", Color: black, Style: 1},
		{Type: "bottom", Color: black, Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center"}

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&b.styles.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: l.Header.TitleFontSize},
			Alignment: center,
		}},
		{&b.styles.banner, &excelize.Style{
			Font:      &excelize.Font{Size: l.Banner.FontSize},
			Alignment: left,
			Border:    bottom,
		}},
		{&b.styles.bannerHighlight, &excelize.Style{
			Font:      &excelize.Font{Size: l.Banner.FontSize},
			Alignment: left,
			Border:    bottom,
			Fill:      excelize.Fill{Type: "pattern", Color: []string{l.Banner.Highlight.Hex()}, Pattern: 1},
		}},
		{&b.styles.identity, &excelize.Style{
			Font:      &excelize.Font{Size: l.Identity.FontSize},
			Alignment: left,
			Border:    bottom,
		}},
		{&b.styles.gridHeader, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: l.Grid.HeaderFontSize},
			Alignment: center,
			Border:    all,
			Fill:      excelize.Fill{Type: "pattern", Color: []string{l.Grid.HeaderFill.Hex()}, Pattern: 1},
		}},
		{&b.styles.gridCell, &excelize.Style{
			Alignment: center,
			Border:    all,
		}},
		{&b.styles.observations, &excelize.Style{
			Font:      &excelize.Font{Size: l.Observations.FontSize},
			Alignment: left,
		}},
		{&b.styles.rule, &excelize.Style{
			Border: bottom,
		}},
	}
	for _, d := range defs {
		id, err := b.f.NewStyle(d.style)
		if err != nil {
			return fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// fillSheet entry 为 nil 时只输出抬头与备注横线（空花名册）
func (b *xlsxBook) fillSheet(sheet string, entry *model.RosterEntry, week model.WeekInfo) error {
	l := b.l
	f := b.f
	last := b.cols

	if err := b.setupPage(sheet); err != nil {
		return err
	}

	// 1: logo + 标题
	row := 1
	if err := f.SetRowHeight(sheet, row, l.Header.LogoHeight+l.Header.BottomPadding); err != nil {
		return err
	}
	if err := b.addLogo(sheet, cellName(1, row)); err != nil {
		return err
	}
	if err := b.mergedText(sheet, row, 2, last, l.Header.Title, b.styles.title); err != nil {
		return err
	}

	// 2: 副标题
	row++
	if err := f.SetRowHeight(sheet, row, l.Header.SubtitleHeight); err != nil {
		return err
	}
	if err := b.mergedText(sheet, row, 1, last, l.Header.Subtitle, b.styles.title); err != nil {
		return err
	}

	// 3: 周号/日期栏
	row++
	if err := f.SetRowHeight(sheet, row, l.Banner.Height); err != nil {
		return err
	}
	for i, txt := range BannerCells(l.Banner, week) {
		style := b.styles.banner
		if i < l.Banner.HighlightCells {
			style = b.styles.bannerHighlight
		}
		if err := b.text(sheet, i+1, row, txt, style); err != nil {
			return err
		}
	}

	row += 2
	if entry != nil {
		// 员工栏：编号标签、编号、姓名标签、姓名（姓名合并到最后一列）
		if err := f.SetRowHeight(sheet, row, l.Identity.Height); err != nil {
			return err
		}
		cells := IdentityCells(l.Identity, *entry)
		for i := 0; i < 3; i++ {
			if err := b.text(sheet, i+1, row, cells[i], b.styles.identity); err != nil {
				return err
			}
		}
		if err := b.mergedText(sheet, row, 4, last, cells[3], b.styles.identity); err != nil {
			return err
		}

		// 跟踪表
		row += 2
		if err := f.SetRowHeight(sheet, row, l.Grid.HeaderHeight); err != nil {
			return err
		}
		for i, label := range l.Grid.Labels() {
			if err := b.text(sheet, i+1, row, label, b.styles.gridHeader); err != nil {
				return err
			}
		}
		cols := len(l.Grid.Columns)
		for i := 0; i < l.Grid.Rows; i++ {
			row++
			if err := f.SetRowHeight(sheet, row, l.Grid.RowHeight); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cellName(1, row), cellName(cols, row), b.styles.gridCell); err != nil {
				return err
			}
		}

		row += 2
		if err := b.text(sheet, 1, row, l.Observations.Label, b.styles.observations); err != nil {
			return err
		}
		if l.Observations.Gap > 0 {
			row++
			if err := f.SetRowHeight(sheet, row, l.Observations.Gap); err != nil {
				return err
			}
		}
	}

	// 备注横线
	for i := 0; i < l.Rules.Count; i++ {
		row++
		if err := f.SetRowHeight(sheet, row, l.Rules.Spacing); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(1, row), cellName(last, row), b.styles.rule); err != nil {
			return err
		}
	}
	return nil
}

func (b *xlsxBook) setupPage(sheet string) error {
	l := b.l
	f := b.f

	// 列宽：前几列跟随跟踪表，其余列使用日期栏单元格宽度
	for i := 1; i <= b.cols; i++ {
		width := l.Banner.CellWidth
		if i <= len(l.Grid.Columns) {
			width = l.Grid.Columns[i-1].Width
		}
		col, err := excelize.ColumnNumberToName(i)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width/xlsxPointsPerCh); err != nil {
			return err
		}
	}

	fitToPage := true
	if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		return err
	}
	size := 1 // Letter
	orientation := "portrait"
	one := 1
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &one,
		FitToHeight: &one,
	}); err != nil {
		return err
	}
	left := l.Page.MarginLeft / layout.Inch
	right := l.Page.MarginRight / layout.Inch
	top := l.Page.MarginTop / layout.Inch
	bottom := l.Page.MarginBottom / layout.Inch
	return f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left:   &left,
		Right:  &right,
		Top:    &top,
		Bottom: &bottom,
	})
}

func (b *xlsxBook) addLogo(sheet, cell string) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b.logo.data))
	if err != nil {
		return fmt.Errorf("decode logo %s: %w", b.logo.path, err)
	}
	opts := &excelize.GraphicOptions{}
	if cfg.Width > 0 && cfg.Height > 0 {
		opts.ScaleX = b.l.Header.LogoWidth * xlsxPxPerPoint / float64(cfg.Width)
		opts.ScaleY = b.l.Header.LogoHeight * xlsxPxPerPoint / float64(cfg.Height)
	}
	return b.f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: b.logo.ext,
		File:      b.logo.data,
		Format:    opts,
	})
}

func (b *xlsxBook) text(sheet string, col, row int, value string, style int) error {
	cell := cellName(col, row)
	if err := b.f.SetCellStr(sheet, cell, value); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cell, cell, style)
}

func (b *xlsxBook) mergedText(sheet string, row, fromCol, toCol int, value string, style int) error {
	if toCol > fromCol {
		if err := b.f.MergeCell(sheet, cellName(fromCol, row), cellName(toCol, row)); err != nil {
			return err
		}
	}
	if err := b.f.SetCellStr(sheet, cellName(fromCol, row), value); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cellName(fromCol, row), cellName(toCol, row), style)
}

// sheetNames 工作表名：序号 + 编号 + 姓名，去掉 Excel 不允许的字符并截断到 31 字符
func sheetNames(roster []model.RosterEntry) []string {
	names := make([]string, 0, len(roster))
	for i, e := range roster {
		raw := strings.TrimSpace(fmt.Sprintf("%03d %s %s", i+1, e.Number, e.Name))
		names = append(names, truncateRunes(sanitizeSheetName(raw), xlsxMaxSheetLen))
	}
	return names
}

func sanitizeSheetName(s string) string {
	replacer := strings.NewReplacer(
		"[", "(", "]", ")", ":", "-", "*", "-", "?", "", "/", "-", "\\", "-", "'", "",
	)
	return replacer.Replace(s)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
