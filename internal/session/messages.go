package session

import (
	"errors"
	"fmt"
	"strings"

	"nomina/internal/model"
	"nomina/internal/week"
)

// messages 状态栏文案（西班牙语 / 英语）
type messages struct {
	rosterSelected string
	rosterNone     string
	folderSelected string // %s = 目录
	folderNone     string
	startSelected  string // %s = 日期
	endSelected    string // %s = 日期
	labelChanged   string // %s = 周标签
	inputMissing   string
	generated      string // %s = PDF / XLSX
	schemaError    string // %s = 缺失列
	assetMissing   string // %s = 路径
	ioError        string // %s = 路径, %v = 原因
	busy           string
	unexpected     string // %v = 错误
}

var spanishMessages = messages{
	rosterSelected: "Archivo de empleados seleccionado.",
	rosterNone:     "No se seleccionó ningún archivo.",
	folderSelected: "Carpeta de destino seleccionada: %s",
	folderNone:     "No se seleccionó ninguna carpeta.",
	startSelected:  "Fecha inicial seleccionada: %s",
	endSelected:    "Fecha final seleccionada: %s",
	labelChanged:   "Número de semana: %s",
	inputMissing:   "Faltan datos para generar el PDF: asegúrate de haber seleccionado un archivo, fechas válidas y una carpeta de destino.",
	generated:      "Archivo %s generado correctamente.",
	schemaError:    "El archivo de empleados no tiene las columnas requeridas: %s",
	assetMissing:   "No se encontró el logotipo: %s",
	ioError:        "No se pudo escribir en %s: %v",
	busy:           "Ya se está generando un archivo, espera a que termine.",
	unexpected:     "Error: %v",
}

var englishMessages = messages{
	rosterSelected: "Employee file selected.",
	rosterNone:     "No file selected.",
	folderSelected: "Output folder selected: %s",
	folderNone:     "No folder selected.",
	startSelected:  "Start date selected: %s",
	endSelected:    "End date selected: %s",
	labelChanged:   "Week number: %s",
	inputMissing:   "Missing data to generate the PDF: make sure you selected a file, valid dates and an output folder.",
	generated:      "%s file generated successfully.",
	schemaError:    "The employee file is missing required columns: %s",
	assetMissing:   "Logo not found: %s",
	ioError:        "Could not write to %s: %v",
	busy:           "A file is already being generated, wait for it to finish.",
	unexpected:     "Error: %v",
}

func messagesFor(loc week.Locale) messages {
	if loc.IsSpanish() {
		return spanishMessages
	}
	return englishMessages
}

// statusFor 把任意错误转换成一条面向用户的状态文字
func (m messages) statusFor(err error) string {
	var missing *model.InputMissingError
	var schema *model.SchemaError
	var asset *model.AssetMissingError
	var ioErr *model.IOError
	switch {
	case errors.As(err, &missing):
		return m.inputMissing
	case errors.As(err, &schema):
		return fmt.Sprintf(m.schemaError, strings.Join(schema.Missing, ", "))
	case errors.As(err, &asset):
		return fmt.Sprintf(m.assetMissing, asset.Path)
	case errors.As(err, &ioErr):
		return fmt.Sprintf(m.ioError, ioErr.Path, ioErr.Err)
	case errors.Is(err, ErrBusy):
		return m.busy
	default:
		return fmt.Sprintf(m.unexpected, err)
	}
}
