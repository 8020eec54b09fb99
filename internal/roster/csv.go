package roster

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"nomina/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV Excel "另存为 CSV" 常见 BOM 或 Windows-1252 编码，统一转成 UTF-8 后解析
func readCSV(data []byte, file string) ([]model.RosterEntry, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		data = decoded
	}

	header, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		header = nil
	}
	if _, _, err := locateColumns(header, file); err != nil {
		return nil, err
	}

	var records []*model.RosterEntry
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	entries := make([]model.RosterEntry, 0, len(records))
	for _, r := range records {
		number := normalizeNumber(r.Number)
		name := strings.TrimSpace(r.Name)
		if number == "" && name == "" {
			continue
		}
		entries = append(entries, model.RosterEntry{Number: number, Name: name})
	}
	return entries, nil
}
