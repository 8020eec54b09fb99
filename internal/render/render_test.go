package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"nomina/internal/layout"
	"nomina/internal/model"
)

func writeLogo(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.SetGray(x, 10, color.Gray{Y: 200})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "logotipo.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func roster(n int) []model.RosterEntry {
	out := make([]model.RosterEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.RosterEntry{Number: fmt.Sprintf("%d", 1000+i), Name: fmt.Sprintf("Chofer %d", i)})
	}
	return out
}

var testWeek = model.WeekInfo{
	Label:      "11",
	StartDay:   11,
	StartMonth: "March",
	EndDay:     17,
	EndMonth:   "March",
	EndYear:    2024,
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer(layout.Default(), writeLogo(t))
	r.compress = false
	return r
}

func TestRenderPDFOnePagePerEmployee(t *testing.T) {
	r := newTestRenderer(t)
	for _, n := range []int{1, 3, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			dir := t.TempDir()
			res, err := r.Render(Job{Roster: roster(n), Week: testWeek, OutputDir: dir})
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if res.Path != filepath.Join(dir, "Nomina_Semanal.pdf") {
				t.Fatalf("Path=%s", res.Path)
			}
			if res.Pages != n || res.Sheets != n {
				t.Fatalf("Pages=%d Sheets=%d, want %d", res.Pages, res.Sheets, n)
			}

			data, err := os.ReadFile(res.Path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatalf("output is not a PDF")
			}
			// 每页一个表头，7 列 x 35 行空白单元格
			if got := bytes.Count(data, []byte("(FECHA)Tj")); got != n {
				t.Fatalf("grid headers=%d, want %d", got, n)
			}
			if got := bytes.Count(data, []byte("(TIPO DE VIAJE)Tj")); got != n {
				t.Fatalf("TIPO DE VIAJE headers=%d, want %d", got, n)
			}
			if got := bytes.Count(data, []byte(" re S")); got != n*35*7 {
				t.Fatalf("blank grid cells=%d, want %d", got, n*35*7)
			}
			// 每页：日期栏下划线 + 员工栏下划线 + 5 条备注横线
			if got := bytes.Count(data, []byte(" l S")); got != n*7 {
				t.Fatalf("lines=%d, want %d", got, n*7)
			}
		})
	}
}

func TestRenderPDFContainsEmployeeAndWeek(t *testing.T) {
	r := newTestRenderer(t)
	dir := t.TempDir()
	entries := []model.RosterEntry{{Number: "1001", Name: "Juan Perez"}, {Number: "1002", Name: "Ana Lopez"}}
	week := testWeek.WithLabel("11-12")
	res, err := r.Render(Job{Roster: entries, Week: week, OutputDir: dir})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"(Transporte, CBL)Tj", "(NOMINA SEMANAL)Tj", "(SEMANA)Tj", "(11-12)Tj", "(March)Tj", "(2024)Tj",
		"(No EMPLEADO)Tj", "(NOMBRE DE CHOFER)Tj", "(Juan Perez)Tj", "(Ana Lopez)Tj", "(OBSERVACIONES:)Tj",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Fatalf("PDF missing %q", want)
		}
	}
	if got := bytes.Count(data, []byte("(1001)Tj")); got != 1 {
		t.Fatalf("employee number occurrences=%d, want 1", got)
	}
}

func TestRenderPDFEmptyRoster(t *testing.T) {
	r := newTestRenderer(t)
	dir := t.TempDir()
	res, err := r.Render(Job{Roster: nil, Week: testWeek, OutputDir: dir})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Sheets != 0 {
		t.Fatalf("Sheets=%d, want 0", res.Sheets)
	}
	if res.Pages != 1 {
		t.Fatalf("Pages=%d, want 1 decorated blank page", res.Pages)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("(FECHA)Tj")) {
		t.Fatalf("empty roster must not render a tracking grid")
	}
	if got := bytes.Count(data, []byte(" l S")); got != 5 {
		t.Fatalf("rules=%d, want 5", got)
	}
}

func TestRenderPDFIsDeterministic(t *testing.T) {
	r := NewRenderer(layout.Default(), writeLogo(t))
	dir := t.TempDir()
	job := Job{Roster: roster(4), Week: testWeek, OutputDir: dir}

	first, err := r.Render(job)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	a, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(job)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	b, err := os.ReadFile(second.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("re-rendering the same input produced different bytes (%d vs %d)", len(a), len(b))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the output file in %s, got %d entries", dir, len(entries))
	}
}

func TestRenderMissingLogo(t *testing.T) {
	r := NewRenderer(layout.Default(), filepath.Join(t.TempDir(), "assets", "logotipo.png"))
	dir := t.TempDir()
	_, err := r.Render(Job{Roster: roster(1), Week: testWeek, OutputDir: dir})
	var assetErr *model.AssetMissingError
	if !errors.As(err, &assetErr) {
		t.Fatalf("expected AssetMissingError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "Nomina_Semanal.pdf")); !os.IsNotExist(statErr) {
		t.Fatalf("no output file should be created when the logo is missing")
	}
}

func TestRenderBuiltInLogo(t *testing.T) {
	r := NewRenderer(layout.Default(), "")
	dir := t.TempDir()
	for _, format := range []Format{FormatPDF, FormatXLSX} {
		res, err := r.Render(Job{Roster: roster(1), Week: testWeek, OutputDir: dir, Format: format})
		if err != nil {
			t.Fatalf("Render %s with built-in logo: %v", format, err)
		}
		if res.Pages != 1 {
			t.Fatalf("%s pages=%d", format, res.Pages)
		}
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "Nomina_Semanal.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = f.Close() })
	pics, err := f.GetPictures(f.GetSheetName(0), "A1")
	if err != nil || len(pics) != 1 {
		t.Fatalf("pictures=%d,%v", len(pics), err)
	}
	if !bytes.Equal(pics[0].File, defaultLogo) {
		t.Fatalf("xlsx logo is not the built-in image")
	}
}

func TestRenderUnwritableOutputDir(t *testing.T) {
	r := newTestRenderer(t)
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	_, err := r.Render(Job{Roster: roster(1), Week: testWeek, OutputDir: missing})
	var ioErr *model.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = r.Render(Job{Roster: roster(1), Week: testWeek, OutputDir: file})
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError for a file path, got %v", err)
	}
}

func TestRenderOverwritesExistingFile(t *testing.T) {
	r := newTestRenderer(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "Nomina_Semanal.pdf")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(Job{Roster: roster(1), Week: testWeek, OutputDir: dir}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "old" {
		t.Fatalf("existing file was not overwritten")
	}
}

func TestRenderReportsProgress(t *testing.T) {
	r := newTestRenderer(t)
	var events []ProgressEvent
	_, err := r.Render(Job{
		Roster:    roster(2),
		Week:      testWeek,
		OutputDir: t.TempDir(),
		Progress:  func(e ProgressEvent) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(events) == 0 || events[len(events)-1].Percent != 100 {
		t.Fatalf("events=%v, want last event at 100%%", events)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("progress went backwards: %v", events)
		}
	}
}

func TestRenderCustomLayoutRows(t *testing.T) {
	l := layout.Default()
	l.Grid.Rows = 10
	l.Rules.Count = 2
	r := NewRenderer(l, writeLogo(t))
	r.compress = false
	res, err := r.Render(Job{Roster: roster(2), Week: testWeek, OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if got := bytes.Count(data, []byte(" re S")); got != 2*10*7 {
		t.Fatalf("blank grid cells=%d, want %d", got, 2*10*7)
	}
	if got := bytes.Count(data, []byte(" l S")); got != 2*(2+2) {
		t.Fatalf("lines=%d, want %d", got, 2*(2+2))
	}
}

func TestRenderRejectsOverflowingLayout(t *testing.T) {
	l := layout.Default()
	l.Grid.Rows = 60
	r := NewRenderer(l, writeLogo(t))
	dir := t.TempDir()
	if _, err := r.Render(Job{Roster: roster(1), Week: testWeek, OutputDir: dir}); err == nil {
		t.Fatalf("expected layout overflow error")
	}
	if _, err := os.Stat(filepath.Join(dir, "Nomina_Semanal.pdf")); !os.IsNotExist(err) {
		t.Fatalf("no file should be written, stat err=%v", err)
	}
}

func TestEncodableCP1252(t *testing.T) {
	cases := map[string]bool{
		"Juan Pérez": true,
		"Ana Muñoz":  true,
		"Łukasz Wąs": false,
		"李娜":         false,
		"":           true,
	}
	for name, want := range cases {
		if got := encodableCP1252(name); got != want {
			t.Fatalf("encodableCP1252(%q)=%v, want %v", name, got, want)
		}
	}
}

func TestRenderXLSX(t *testing.T) {
	r := newTestRenderer(t)
	dir := t.TempDir()
	entries := []model.RosterEntry{{Number: "1001", Name: "Juan Pérez"}, {Number: "1002", Name: "Ana/López"}}
	res, err := r.Render(Job{Roster: entries, Week: testWeek, OutputDir: dir, Format: FormatXLSX})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if filepath.Base(res.Path) != "Nomina_Semanal.xlsx" {
		t.Fatalf("Path=%s", res.Path)
	}
	if res.Pages != 2 {
		t.Fatalf("Pages=%d, want 2", res.Pages)
	}

	f, err := excelize.OpenFile(res.Path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheets=%v", sheets)
	}
	if sheets[1] != "002 1002 Ana-López" {
		t.Fatalf("sheet name=%q", sheets[1])
	}

	mustCell := func(sheet, cell, want string) {
		t.Helper()
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue %s!%s: %v", sheet, cell, err)
		}
		if got != want {
			t.Fatalf("%s!%s=%q, want %q", sheet, cell, got, want)
		}
	}
	s := sheets[0]
	mustCell(s, "B1", "Transporte, CBL")
	mustCell(s, "A2", "NOMINA SEMANAL")
	mustCell(s, "A3", "SEMANA")
	mustCell(s, "B3", "11")
	mustCell(s, "L3", "2024")
	mustCell(s, "B5", "1001")
	mustCell(s, "D5", "Juan Pérez")
	mustCell(s, "A7", "FECHA")
	mustCell(s, "G7", "TIPO DE VIAJE")
	mustCell(s, "A44", "OBSERVACIONES:")
	if h, err := f.GetRowHeight(s, 45); err != nil || h != 15 {
		t.Fatalf("gap row height=%v,%v want 15", h, err)
	}
	if h, err := f.GetRowHeight(s, 46); err != nil || h != 12 {
		t.Fatalf("first rule row height=%v,%v want 12", h, err)
	}

	pics, err := f.GetPictures(s, "A1")
	if err != nil {
		t.Fatalf("GetPictures: %v", err)
	}
	if len(pics) != 1 {
		t.Fatalf("logo pictures=%d, want 1", len(pics))
	}
}

func TestRenderXLSXEmptyRoster(t *testing.T) {
	r := newTestRenderer(t)
	res, err := r.Render(Job{Week: testWeek, OutputDir: t.TempDir(), Format: FormatXLSX})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	f, err := excelize.OpenFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = f.Close() })
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "NOMINA" {
		t.Fatalf("sheets=%v", sheets)
	}
	v, err := f.GetCellValue("NOMINA", "A7")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Fatalf("empty roster must not render a grid header, got %q", v)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPDF, "PDF": FormatPDF, " xlsx ": FormatXLSX} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("docx"); err == nil || !strings.Contains(err.Error(), "docx") {
		t.Fatalf("expected error for docx, got %v", err)
	}
}

func TestBannerCells(t *testing.T) {
	cells := BannerCells(layout.Default().Banner, testWeek)
	want := []string{"SEMANA", "11", "DEL", "11", "DE", "March", "AL", "17", "DE", "March", "DEL", "2024"}
	if strings.Join(cells, "|") != strings.Join(want, "|") {
		t.Fatalf("BannerCells=%v, want %v", cells, want)
	}
}
