package config

// Configuration keys
const (
	KeySpotifyBaseURL      = "spotify.base_url"
	KeySpotifyTokenURL     = "spotify.token_url"
	KeySpotifyClientID     = "spotify.client_id"
	KeySpotifyClientSecret = "spotify.client_secret"
	KeySpotifyMarket       = "spotify.market"
	KeySpotifyTimeout      = "spotify.timeout"
	KeySpotifyRateLimit    = "spotify.rate_limit"
	KeySpotifyUserAgent    = "spotify.user_agent"

	KeyFetchPageSize = "fetch.page_size"

	KeyLoggingLevel = "logging.level"
	KeyLoggingJSON  = "logging.json"

	KeyCLIColored = "cli.colored"
)
