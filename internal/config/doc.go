// Package config manages user-level settings stored at ~/.presalesly/config.yaml.
// Values can be overridden with PRESALESLY_* environment variables. The
// settings select the API server, the development-mode origin rewrite, the
// default language code and the request timeout.
package config
