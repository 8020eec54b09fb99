package model

import "time"

// RosterEntry 花名册中的一名员工（顺序即源表行序，编号不要求唯一）
type RosterEntry struct {
	Number string `json:"number" csv:"No. Empleado"` // 员工编号，按表格显示文本保存
	Name   string `json:"name" csv:"Nombre"`         // 员工姓名
}

// DateRange 用户选择的起止日期（纯日历日期，不做时区处理；不校验 Start <= End）
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekInfo 由日期范围推导出的周信息
type WeekInfo struct {
	Label      string `json:"label"`      // 单个 ISO 周号，或跨周时的 "A-B"
	StartDay   int    `json:"startDay"`   // 起始日（月内第几天）
	StartMonth string `json:"startMonth"` // 起始月份全称（本地化）
	EndDay     int    `json:"endDay"`     // 结束日
	EndMonth   string `json:"endMonth"`   // 结束月份全称（本地化）
	EndYear    int    `json:"endYear"`    // 仅结束日期的年份
}

// WithLabel 返回替换周标签后的副本（界面允许用户在生成前手动修改周号）
func (w WeekInfo) WithLabel(label string) WeekInfo {
	w.Label = label
	return w
}

// GenerationRecord 一次成功生成的历史记录
type GenerationRecord struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	OutputPath string    `json:"outputPath"`
	Format     string    `json:"format"`
	WeekLabel  string    `json:"weekLabel"`
	Employees  int       `json:"employees"`
	SourceFile string    `json:"sourceFile"`
}
