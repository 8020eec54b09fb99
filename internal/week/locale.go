package week

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale 月份名称与界面文案所用的语言
type Locale struct {
	Tag    language.Tag
	months [12]string
}

var (
	english = Locale{
		Tag: language.English,
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	}
	spanish = Locale{
		Tag: language.Spanish,
		months: [12]string{
			"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
		},
	}

	supported = []Locale{english, spanish}
	matcher   = language.NewMatcher([]language.Tag{english.Tag, spanish.Tag})
)

// English 默认语言，月份名与 C locale 下的 %B 相同
func English() Locale { return english }

// Spanish 西班牙语
func Spanish() Locale { return spanish }

// ParseLocale 按 BCP-47 标签匹配支持的语言，无法识别时回退英语
func ParseLocale(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return english
	}
	tag, err := language.Parse(s)
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(supported) {
		return english
	}
	return supported[idx]
}

// MonthName 月份全称
func (l Locale) MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	if l.months[0] == "" {
		return english.months[m-1]
	}
	return l.months[m-1]
}

// IsSpanish 是否为西班牙语
func (l Locale) IsSpanish() bool {
	base, _ := l.Tag.Base()
	sb, _ := language.Spanish.Base()
	return base == sb
}
