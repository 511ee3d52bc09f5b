// Package constants provides shared constants for the strac application.
package constants

// Precision constants
const (
	// DisplayPrecision is the rounding factor for STRAC values (one decimal place)
	DisplayPrecision = 10

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ComparisonTolerance is the tolerance used when comparing rounded values
	ComparisonTolerance = 0.05
)

// Strategy sweep constants
const (
	// MaxSweepRows bounds the number of rows a strategy sweep may emit
	MaxSweepRows = 100
)

// UndefinedLabel is how a ratio with a zero denominator is displayed.
const UndefinedLabel = "undefined"

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default analysis file name
	DefaultConfigFile = "analysis.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for imports (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024

	// DefaultRateLimit is the default number of API requests per second per client
	DefaultRateLimit = 10.0

	// DefaultRateBurst is the default burst size for the API rate limiter
	DefaultRateBurst = 20

	// DefaultSessionTTL is how long an idle session keeps its baseline
	DefaultSessionTTL = "12h"

	// SessionCookieName is the cookie carrying the signed session token
	SessionCookieName = "strac_session"

	// SessionKeyEnv names the environment variable holding the session signing key
	SessionKeyEnv = "STRAC_SESSION_KEY"
)
