package roster

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
)

// BIFF8 工作表最多 256 列（A..IV）
const xlsMaxColumns = 256

// readXlsRows 读取旧版 .xls（BIFF8）第一个工作表
//
// 没有 ROW 记录的行其 LastCol 为 0，因此按 BIFF8 的列上限逐列读取。
func readXlsRows(r io.ReadSeeker) ([][]string, error) {
	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if workbook == nil || workbook.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("no worksheet found")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, 8)
		for c := 0; c < xlsMaxColumns; c++ {
			cells = append(cells, strings.TrimSpace(row.Col(c)))
		}
		rows = append(rows, trimTrailingEmpty(cells))
	}
	return rows, nil
}

// sheetRow 返回第 i 行；空行在 xls 库中会 panic，这里视为 nil
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func trimTrailingEmpty(cells []string) []string {
	end := len(cells)
	for end > 0 && cells[end-1] == "" {
		end--
	}
	return cells[:end]
}
