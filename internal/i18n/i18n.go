// Package i18n resolves user-facing text. Catalogs are embedded YAML keyed by
// locale; each user's locale preference lives in redis and defaults to
// Ukrainian. Unknown keys fall back to the default locale's text, then to the
// key itself, so a missing translation never breaks a reply.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when a user has no saved preference.
const DefaultLocale = "uk"

// Translator resolves one text key for a fixed locale.
type Translator func(key string) string

// LocaleStore holds per-user locale preferences.
type LocaleStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

type Localizer struct {
	catalogs map[string]map[string]string
	locales  LocaleStore
	logger   *zap.Logger
}

func New(locales LocaleStore, logger *zap.Logger) (*Localizer, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	catalogs := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		catalog := make(map[string]string)
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		locale := strings.TrimSuffix(entry.Name(), ".yaml")
		catalogs[locale] = catalog
	}

	if _, ok := catalogs[DefaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q missing", DefaultLocale)
	}

	return &Localizer{
		catalogs: catalogs,
		locales:  locales,
		logger:   logger,
	}, nil
}

// UserLocale looks up the saved locale for a Telegram account. Errors and
// unknown locales resolve to the default.
func (l *Localizer) UserLocale(ctx context.Context, telegramID int64) string {
	data, err := l.locales.Get(ctx, strconv.FormatInt(telegramID, 10))
	if err != nil {
		return DefaultLocale
	}

	locale := string(data)
	if _, ok := l.catalogs[locale]; !ok {
		l.logger.Warn("Unknown saved locale",
			zap.Int64("telegram_id", telegramID),
			zap.String("locale", locale))
		return DefaultLocale
	}
	return locale
}

// Translate returns the translator for a locale.
func (l *Localizer) Translate(locale string) Translator {
	return func(key string) string {
		if text, ok := l.catalogs[locale][key]; ok {
			return text
		}
		if text, ok := l.catalogs[DefaultLocale][key]; ok {
			return text
		}
		return key
	}
}
