package web

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/storage"
)

const dateLayout = "Jan. 2, 2006, 15:04"

// FuncMap holds the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"i18n":      locale.T,
		"avatarURL": storage.URL,
		"date":      formatDate,
		"pageURL":   pageURL,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayout)
}

// pageURL links to another page of a list while keeping its search.
func pageURL(page int, field, query string) string {
	v := url.Values{}
	if query != "" {
		v.Set(field, query)
	}
	v.Set("page", strconv.Itoa(page))
	return "?" + v.Encode()
}
