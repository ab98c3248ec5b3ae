package messages

import "github.com/ferrost/appkit/pkg/errors"

var newMessagesCode = errors.WithPrefix("MESSAGES")

var (
	ErrNoTranslation = newMessagesCode().New("no translation for code {{.code}} in locale {{.locale}}")
	ErrBadTemplate   = newMessagesCode().New("malformed message template for code {{.code}}")
	ErrLoadBundle    = newMessagesCode().New("failed to load message bundle {{.location}}")
	ErrQueryStore    = newMessagesCode().New("failed to query message store table {{.table}}")
)
