// Package week 把起止日期换算成工资单上的周号与日期文字。
package week

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nomina/internal/model"
)

// Compute 计算日期范围对应的周信息
//
// 起止日期各自取 ISO-8601 周号：相同则为单个周号，不同则拼成 "起-止"。
// 跨年时不做归一化（2023-12-31 ~ 2024-01-01 得到 "52-1"），年份只取结束日期。
func Compute(start, end time.Time, loc Locale) model.WeekInfo {
	_, startWeek := start.ISOWeek()
	_, endWeek := end.ISOWeek()

	label := strconv.Itoa(startWeek)
	if startWeek != endWeek {
		label = fmt.Sprintf("%d-%d", startWeek, endWeek)
	}

	return model.WeekInfo{
		Label:      label,
		StartDay:   start.Day(),
		StartMonth: loc.MonthName(int(start.Month())),
		EndDay:     end.Day(),
		EndMonth:   loc.MonthName(int(end.Month())),
		EndYear:    end.Year(),
	}
}

// ComputeRange Compute 的 DateRange 版本
func ComputeRange(r model.DateRange, loc Locale) model.WeekInfo {
	return Compute(r.Start, r.End, loc)
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate 解析界面/命令行传入的日期，只保留日历日期部分
func ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or DD/MM/YYYY)", trimmed)
}
