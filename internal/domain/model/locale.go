package model

// 表示言語
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleAR Locale = "ar"
)
