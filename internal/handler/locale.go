package handler

import (
	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

// 並び順は supportedLocales と合わせる
var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Arabic,
})

var supportedLocales = []model.Locale{model.LocaleEN, model.LocaleAR}

// ?lang= が最優先、次に Accept-Language。どちらも合わなければ英語
func requestLocale(c echo.Context) model.Locale {
	var tags []language.Tag
	if v := c.QueryParam("lang"); v != "" {
		if t, err := language.Parse(v); err == nil {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags, _, _ = language.ParseAcceptLanguage(c.Request().Header.Get("Accept-Language"))
	}
	if len(tags) == 0 {
		return model.LocaleEN
	}

	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return model.LocaleEN
	}
	return supportedLocales[idx]
}
