package model

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	missing := &InputMissingError{Missing: []string{"roster", "output_dir"}}
	if missing.Error() != "missing data: roster, output_dir" {
		t.Fatalf("InputMissingError=%q", missing.Error())
	}

	schema := &SchemaError{File: "empleados.xlsx", Missing: []string{"Nombre"}}
	if !strings.Contains(schema.Error(), `"Nombre"`) || !strings.Contains(schema.Error(), "empleados.xlsx") {
		t.Fatalf("SchemaError=%q", schema.Error())
	}
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &AssetMissingError{Path: "assets/logotipo.png", Err: os.ErrNotExist}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("AssetMissingError should unwrap to os.ErrNotExist")
	}

	err = &IOError{Op: "create", Path: "/out", Err: os.ErrPermission}
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("IOError should unwrap to os.ErrPermission")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "create" {
		t.Fatalf("errors.As failed: %v", err)
	}
}

func TestWeekInfoWithLabel(t *testing.T) {
	w := WeekInfo{Label: "11", StartDay: 11, EndYear: 2024}
	got := w.WithLabel("11-B")
	if got.Label != "11-B" || w.Label != "11" || got.EndYear != 2024 {
		t.Fatalf("WithLabel changed the original or lost fields: %+v %+v", w, got)
	}
}
