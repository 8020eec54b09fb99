package main

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// PrintTable 按列宽对齐输出
func PrintTable(headers []string, rows [][]string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(colWidths) && n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}

	printRow := func(cells []string) {
		for i, cell := range cells {
			if i >= len(colWidths) {
				break
			}
			fmt.Fprintf(os.Stdout, "%-*s\t", colWidths[i], cell)
		}
		fmt.Fprintln(os.Stdout)
	}

	printRow(headers)
	for _, row := range rows {
		printRow(row)
	}
}
