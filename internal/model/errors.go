package model

import (
	"fmt"
	"strings"
)

// InputMissingError 生成时缺少输入（文件/日期/目标目录），对用户只报告一条消息
type InputMissingError struct {
	Missing []string // 缺失项：roster / start_date / end_date / output_dir
}

func (e *InputMissingError) Error() string {
	return "missing data: " + strings.Join(e.Missing, ", ")
}

// SchemaError 花名册缺少必需列
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster %s is missing required columns: %s", e.File, strings.Join(quoteAll(e.Missing), ", "))
}

// AssetMissingError 静态资源（logo）不存在
type AssetMissingError struct {
	Path string
	Err  error
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("asset %s not found: %v", e.Path, e.Err)
}

func (e *AssetMissingError) Unwrap() error { return e.Err }

// IOError 输出目录不可写或磁盘写入失败
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func quoteAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprintf("%q", v))
	}
	return out
}
