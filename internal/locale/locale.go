// Package locale holds the message catalogue used by forms, flashes and
// error pages.
package locale

import (
	"embed"
	"io/fs"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/yukikurage/task-manager/internal/logger"
	"golang.org/x/text/language"
)

//go:embed translation/*.toml
var translationFS embed.FS

const contextKeyLocalizer = "localizer"

var (
	bundle     *i18n.Bundle
	defaultLoc *i18n.Localizer
	initOnce   sync.Once
	initErr    error
)

// InitLocalizer parses the embedded translation files.
// It is safe to call more than once.
func InitLocalizer() error {
	initOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		if err := parseTranslationFiles(translationFS, b); err != nil {
			initErr = err
			return
		}

		bundle = b
		defaultLoc = i18n.NewLocalizer(b, language.English.String())
	})
	return initErr
}

func parseTranslationFiles(fsys embed.FS, b *i18n.Bundle) error {
	return fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fsys.ReadFile(path)
		if err != nil {
			return err
		}

		_, err = b.ParseMessageFileBytes(data, path)
		return err
	})
}

// T localizes key in the default language. Params are "name==value" pairs.
func T(key string, params ...string) string {
	if err := InitLocalizer(); err != nil {
		logger.Errorf("locale: init failed: %v", err)
		return key
	}
	return localize(defaultLoc, key, params)
}

// Localize localizes key for the language negotiated by LocalizerMiddleware.
func Localize(c *gin.Context, key string, params ...string) string {
	if v, ok := c.Get(contextKeyLocalizer); ok {
		if loc, ok := v.(*i18n.Localizer); ok {
			return localize(loc, key, params)
		}
	}
	return T(key, params...)
}

// LocalizerMiddleware picks the localizer from the lang cookie or the
// Accept-Language header.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := InitLocalizer(); err != nil {
			c.Next()
			return
		}

		lang := c.GetHeader("Accept-Language")
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		}

		c.Set(contextKeyLocalizer, i18n.NewLocalizer(bundle, lang, language.English.String()))
		c.Next()
	}
}

func localize(loc *i18n.Localizer, key string, params []string) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData(params),
	})
	if err != nil {
		logger.Warningf("locale: %s: %v", key, err)
		return key
	}
	return msg
}

func templateData(params []string) map[string]any {
	data := make(map[string]any, len(params))
	for _, param := range params {
		name, value, ok := strings.Cut(param, "==")
		if !ok {
			continue
		}
		data[name] = value
	}
	return data
}
