package render

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"nomina/internal/layout"
	"nomina/internal/model"
)

const pdfLogoName = "logo"

// 固定文档日期，保证相同输入生成逐字节相同的文件
var pdfDocumentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// pdfSheet 单页排版上下文
type pdfSheet struct {
	pdf  *fpdf.Fpdf
	l    *layout.Layout
	tr   func(string) string
	logo logoAsset
}

func (r *Renderer) writePDF(w io.Writer, job Job, logo logoAsset) (int, error) {
	l := r.layout

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.Page.Width, Ht: l.Page.Height},
	})
	pdf.SetMargins(l.Page.MarginLeft, l.Page.MarginTop, l.Page.MarginRight)
	pdf.SetAutoPageBreak(false, l.Page.MarginBottom)
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(pdfDocumentDate)
	pdf.SetModificationDate(pdfDocumentDate)
	pdf.SetTitle(l.Document.Title, true)
	pdf.SetCreator("nomina", true)

	pdf.RegisterImageOptionsReader(pdfLogoName, fpdf.ImageOptions{ImageType: logo.kind}, bytes.NewReader(logo.data))
	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("load logo %s: %w", logo.path, err)
	}

	// 备注横线属于页面装饰，每页收尾时在内容之后绘制
	pdf.SetFooterFunc(func() {
		drawRules(pdf, l.Rules, l.Page)
	})

	sheet := &pdfSheet{
		pdf:  pdf,
		l:    l,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		logo: logo,
	}

	total := len(job.Roster)
	reportProgress(job.Progress, 5, "layout")
	for i, entry := range job.Roster {
		if !encodableCP1252(entry.Name) {
			log.Printf("employee %s: name %q has characters outside cp1252, the PDF will show them as '.'", entry.Number, entry.Name)
		}
		pdf.AddPage()
		sheet.draw(entry, job.Week)
		if err := pdf.Error(); err != nil {
			return 0, fmt.Errorf("render sheet for employee %s: %w", entry.Number, err)
		}
		reportProgress(job.Progress, sheetPercent(i+1, total), fmt.Sprintf("employee %d/%d", i+1, total))
	}

	// 空花名册时 Output 会自动补一张只有装饰横线的空白页
	if err := pdf.Output(w); err != nil {
		return 0, &model.IOError{Op: "write", Path: r.FileName(FormatPDF), Err: err}
	}
	return pdf.PageCount(), nil
}

// encodableCP1252 PDF 核心字体只能显示 cp1252 字符
func encodableCP1252(s string) bool {
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}

// rowX 宽度为 width 的表格在版心内居中时的左边界
func (s *pdfSheet) rowX(width float64) float64 {
	return s.l.Page.MarginLeft + (s.l.Page.ContentWidth()-width)/2
}

func (s *pdfSheet) cell(x, y, w, h float64, txt, border, align string, fill bool) {
	s.pdf.SetXY(x, y)
	s.pdf.CellFormat(w, h, s.tr(txt), border, 0, align, fill, 0, "")
}

func (s *pdfSheet) setFill(c layout.Color) {
	s.pdf.SetFillColor(c.R, c.G, c.B)
}

func (s *pdfSheet) draw(entry model.RosterEntry, week model.WeekInfo) {
	y := s.l.Page.MarginTop
	y = s.drawHeader(y)
	y = s.drawBanner(y, week)
	y = s.drawIdentity(y, entry)
	y = s.drawGrid(y)
	s.drawObservations(y)
}

func (s *pdfSheet) drawHeader(y float64) float64 {
	h := s.l.Header
	font := s.l.Document.Font
	x := s.rowX(h.LogoColumn + h.TitleColumn)

	s.pdf.ImageOptions(pdfLogoName, x+(h.LogoColumn-h.LogoWidth)/2, y, h.LogoWidth, h.LogoHeight,
		false, fpdf.ImageOptions{ImageType: s.logo.kind}, 0, "")

	s.pdf.SetTextColor(0, 0, 0)
	s.pdf.SetFont(font, "B", h.TitleFontSize)
	s.cell(x+h.LogoColumn, y, h.TitleColumn, h.LogoHeight, h.Title, "", "CM", false)
	y += h.LogoHeight + h.BottomPadding + h.SpaceAfter

	s.cell(s.rowX(h.SubtitleWidth), y, h.SubtitleWidth, h.SubtitleHeight, h.Subtitle, "", "CM", false)
	return y + h.SubtitleHeight + h.SubtitleAfter
}

func (s *pdfSheet) drawBanner(y float64, week model.WeekInfo) float64 {
	b := s.l.Banner
	cells := BannerCells(b, week)
	width := b.CellWidth * float64(len(cells))
	x := s.rowX(width)

	s.pdf.SetFont(s.l.Document.Font, "", b.FontSize)
	s.setFill(b.Highlight)
	for i, txt := range cells {
		s.cell(x+float64(i)*b.CellWidth, y, b.CellWidth, b.Height, txt, "", "LM", i < b.HighlightCells)
	}
	s.pdf.SetDrawColor(0, 0, 0)
	s.pdf.SetLineWidth(b.LineWidth)
	s.pdf.Line(x, y+b.Height, x+width, y+b.Height)
	return y + b.Height + b.SpaceAfter
}

func (s *pdfSheet) drawIdentity(y float64, entry model.RosterEntry) float64 {
	id := s.l.Identity
	cells := IdentityCells(id, entry)
	width := 0.0
	for _, w := range id.Widths {
		width += w
	}
	x := s.rowX(width)

	s.pdf.SetFont(s.l.Document.Font, "", id.FontSize)
	cx := x
	for i, txt := range cells {
		s.cell(cx, y, id.Widths[i], id.Height, txt, "", "LM", false)
		cx += id.Widths[i]
	}
	s.pdf.SetLineWidth(id.LineWidth)
	s.pdf.Line(x, y+id.Height, x+width, y+id.Height)
	return y + id.Height + id.SpaceAfter
}

func (s *pdfSheet) drawGrid(y float64) float64 {
	g := s.l.Grid
	x := s.rowX(g.Width())

	s.pdf.SetLineWidth(g.LineWidth)
	s.pdf.SetFont(s.l.Document.Font, "B", g.HeaderFontSize)
	s.setFill(g.HeaderFill)
	cx := x
	for _, col := range g.Columns {
		s.cell(cx, y, col.Width, g.HeaderHeight, col.Label, "1", "CM", true)
		cx += col.Width
	}
	y += g.HeaderHeight

	for row := 0; row < g.Rows; row++ {
		cx = x
		for _, col := range g.Columns {
			s.cell(cx, y, col.Width, g.RowHeight, "", "1", "CM", false)
			cx += col.Width
		}
		y += g.RowHeight
	}
	return y + g.SpaceAfter
}

func (s *pdfSheet) drawObservations(y float64) {
	o := s.l.Observations
	s.pdf.SetFont(s.l.Document.Font, "", o.FontSize)
	s.cell(s.l.Page.MarginLeft, y, s.l.Page.ContentWidth(), o.Height, o.Label, "", "LM", false)
}

// drawRules 距页面底边 Bottom 处开始，向下等距绘制 Count 条横线
func drawRules(pdf *fpdf.Fpdf, r layout.Rules, p layout.Page) {
	if r.Count <= 0 {
		return
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(r.Width)
	top := p.Height - r.Bottom
	for i := 0; i < r.Count; i++ {
		y := top + float64(i)*r.Spacing
		pdf.Line(r.StartX, y, r.EndX, y)
	}
}
