// Package constants provides shared constants for the repair-reserve application.
package constants

// Period constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DefaultDurationMonths is the accumulation period a new session starts with
	DefaultDurationMonths = 60

	// DefaultRangeYears is the inclusive year span matching DefaultDurationMonths
	DefaultRangeYears = 5
)

// Financial constants
const (
	// DecimalPrecision is the precision for rounding to two decimal places
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// FloatTolerance is the tolerance used when comparing derived values in tests and checks
	FloatTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultXLSXFile is the default spreadsheet path used by the CLI
	DefaultXLSXFile = "repair-reserve.xlsx"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitCapacity is the number of requests a client may make per refill window
	DefaultRateLimitCapacity = 60

	// DefaultRateLimitRefill is the refill window for the rate limiter, in Go duration syntax
	DefaultRateLimitRefill = "1m"
)

// Collaborator defaults
const (
	// DefaultChatEndpoint is the OpenAI-compatible chat completions endpoint
	DefaultChatEndpoint = "https://api.openai.com/v1/chat/completions"

	// DefaultChatModel is the model requested from the chat endpoint
	DefaultChatModel = "gpt-4o-mini"

	// DefaultAPIKeyEnv is the environment variable holding the chat API key
	DefaultAPIKeyEnv = "OPENAI_API_KEY"

	// DefaultChatTimeout bounds a single collaborator request
	DefaultChatTimeout = "30s"

	// DefaultAdviceMaxTokens limits the length of generated advice
	DefaultAdviceMaxTokens = 600

	// DefaultLookupMaxTokens limits the length of a lookup answer
	DefaultLookupMaxTokens = 400

	// DefaultLookupCacheTTL is how long a lookup answer stays cached
	DefaultLookupCacheTTL = "24h"

	// CacheBackendMemory keeps lookup answers in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps lookup answers in Redis
	CacheBackendRedis = "redis"

	// LookupCacheKeyPrefix namespaces lookup entries in the cache
	LookupCacheKeyPrefix = "repair-reserve:lookup:"
)
