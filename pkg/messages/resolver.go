package messages

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"github.com/ferrost/appkit/pkg/contracts"
)

// Source supplies translation bundles: locale -> message code -> template.
type Source interface {
	Load() (map[string]map[string]string, error)
}

type resolver struct {
	mu            sync.RWMutex
	bundles       map[string]map[string]string
	defaultLocale string
	parent        contracts.MessageResolver
}

var _ contracts.MessageResolver = (*resolver)(nil)

type Option func(*resolver)

func WithDefaultLocale(locale string) Option {
	return func(r *resolver) {
		r.defaultLocale = locale
	}
}

// WithParent chains a fallback resolver consulted when no local bundle has
// the code, typically the parent context's resolver.
func WithParent(parent contracts.MessageResolver) Option {
	return func(r *resolver) {
		r.parent = parent
	}
}

func WithBundle(locale string, messages map[string]string) Option {
	return func(r *resolver) {
		r.addBundle(locale, messages)
	}
}

func New(opts ...Option) contracts.MessageResolver {
	r := &resolver{
		bundles:       make(map[string]map[string]string),
		defaultLocale: "en",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromSources builds a resolver by loading every source in order; later
// sources override earlier ones code by code.
func NewFromSources(sources []Source, opts ...Option) (contracts.MessageResolver, error) {
	r := &resolver{
		bundles:       make(map[string]map[string]string),
		defaultLocale: "en",
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, source := range sources {
		loaded, err := source.Load()
		if err != nil {
			return nil, err
		}
		for locale, msgs := range loaded {
			r.addBundle(locale, msgs)
		}
	}
	return r, nil
}

func (r *resolver) addBundle(locale string, messages map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bundle, ok := r.bundles[locale]
	if !ok {
		bundle = make(map[string]string, len(messages))
		r.bundles[locale] = bundle
	}
	for code, msg := range messages {
		bundle[code] = msg
	}
}

func (r *resolver) Resolve(code string, args map[string]any, locale string) (string, error) {
	if msg, ok := r.lookup(code, locale); ok {
		return interpolate(code, msg, args)
	}
	if r.parent != nil {
		return r.parent.Resolve(code, args, locale)
	}
	return "", ErrNoTranslation.
		WithDetail("code", code).
		WithDetail("locale", locale)
}

func (r *resolver) ResolveDefault(code string, args map[string]any, locale string, fallback string) string {
	msg, err := r.Resolve(code, args, locale)
	if err != nil {
		return fallback
	}
	return msg
}

// lookup walks the fallback chain: exact locale, base language, default
// locale.
func (r *resolver) lookup(code, locale string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, candidate := range localeChain(locale, r.defaultLocale) {
		if bundle, ok := r.bundles[candidate]; ok {
			if msg, ok := bundle[code]; ok {
				return msg, true
			}
		}
	}
	return "", false
}

func localeChain(locale, defaultLocale string) []string {
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if base := baseLanguage(locale); base != locale {
			chain = append(chain, base)
		}
	}
	if defaultLocale != "" && defaultLocale != locale {
		chain = append(chain, defaultLocale)
	}
	return chain
}

func baseLanguage(locale string) string {
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		return locale[:idx]
	}
	return locale
}

func interpolate(code, msg string, args map[string]any) (string, error) {
	if !strings.Contains(msg, "{{") {
		return msg, nil
	}
	tmpl, err := template.New(code).Option("missingkey=zero").Parse(msg)
	if err != nil {
		return "", ErrBadTemplate.
			WithDetail("code", code).
			WithCause(err)
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, args); err != nil {
		return "", ErrBadTemplate.
			WithDetail("code", code).
			WithCause(err)
	}
	return buf.String(), nil
}
