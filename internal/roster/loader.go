// Package roster 从员工表格（xlsx/xls/csv）中读取 "No. Empleado" 与 "Nombre" 两列。
package roster

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"nomina/internal/model"
)

// 必需列名（区分大小写，按字面匹配）
const (
	ColumnNumber = "No. Empleado"
	ColumnName   = "Nombre"
)

// Load 读取花名册文件
//
// path 为空时返回空列表而不是错误，由调用方拒绝生成。
func Load(path string) ([]model.RosterEntry, error) {
	if strings.TrimSpace(path) == "" {
		return []model.RosterEntry{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return LoadReader(f, path)
}

// LoadReader 按文件名扩展名选择解析方式（网页上传时使用）
func LoadReader(r io.Reader, filename string) ([]model.RosterEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXlsxRows(bytes.NewReader(data))
	case ".xls":
		rows, err = readXlsRows(bytes.NewReader(data))
	case ".csv":
		return readCSV(data, filepath.Base(filename))
	default:
		return nil, fmt.Errorf("unsupported roster format %q (want .xlsx, .xls or .csv)", ext)
	}
	if err != nil {
		return nil, err
	}
	return fromRows(rows, filepath.Base(filename))
}

// fromRows 第一行为表头，其余为数据行
func fromRows(rows [][]string, file string) ([]model.RosterEntry, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	numIdx, nameIdx, err := locateColumns(header, file)
	if err != nil {
		return nil, err
	}

	entries := make([]model.RosterEntry, 0, len(rows))
	for _, row := range rows[1:] {
		number := normalizeNumber(cell(row, numIdx))
		name := strings.TrimSpace(cell(row, nameIdx))
		if number == "" && name == "" {
			continue
		}
		entries = append(entries, model.RosterEntry{Number: number, Name: name})
	}
	return entries, nil
}

func locateColumns(header []string, file string) (numIdx, nameIdx int, err error) {
	numIdx, nameIdx = -1, -1
	for i, h := range header {
		switch h {
		case ColumnNumber:
			if numIdx < 0 {
				numIdx = i
			}
		case ColumnName:
			if nameIdx < 0 {
				nameIdx = i
			}
		}
	}

	var missing []string
	if numIdx < 0 {
		missing = append(missing, ColumnNumber)
	}
	if nameIdx < 0 {
		missing = append(missing, ColumnName)
	}
	if len(missing) > 0 {
		return -1, -1, &model.SchemaError{File: file, Missing: missing}
	}
	return numIdx, nameIdx, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

var integralFloat = regexp.MustCompile(`^(-?\d+)\.0+$`)

// normalizeNumber 把旧格式读出的 "1001.0" 还原成 "1001"
func normalizeNumber(v string) string {
	v = strings.TrimSpace(v)
	if m := integralFloat.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}
