package env

import "github.com/ferrost/appkit/pkg/errors"

var newEnvCode = errors.WithPrefix("ENV")

var (
	ErrNoSource   = newEnvCode().New("no valid configuration source found. Loader: {{.loader}}")
	ErrParseYAML  = newEnvCode().New("failed to parse YAML file {{.path}}: {{.reason}}")
	ErrParseJSON  = newEnvCode().New("failed to parse JSON file {{.path}}: {{.reason}}")
	ErrRedisFetch = newEnvCode().New("failed to fetch redis hash {{.key}}")
)
