// internal/config/errors.go
package config

import "errors"

// ErrUnknownField is returned by EnvVar for names outside the fixed
// enumeration of credential fields.
var ErrUnknownField = errors.New("unknown credential field")

// LoginError reports that no credential tier produced a usable
// (username, secret, url) triple.
type LoginError struct{}

func (e *LoginError) Error() string {
	return "no credentials found: set username, an API key or password, and the server URL " +
		"via arguments, " + EnvUsername + "/" + EnvAPIKey + "/" + EnvPassword + "/" + EnvURL +
		", or ~/.testrail-go/config.yaml"
}
