package contracts

// MessageResolver resolves a message code plus named arguments and a locale
// to a localized string. Resolution falls back from the exact locale to the
// base language, the default locale, then the parent resolver.
type MessageResolver interface {
	// Resolve returns an error when the code has no translation anywhere in
	// the fallback chain.
	Resolve(code string, args map[string]any, locale string) (string, error)

	// ResolveDefault is the total variant: when no translation is found it
	// returns the given fallback text verbatim.
	ResolveDefault(code string, args map[string]any, locale string, fallback string) string
}
