package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HLocation     = "Location"

	CTypeCSS   = "text/css"
	CTypeHTML  = "text/html; charset=utf-8"
	CTypePlain = "text/plain; charset=utf-8"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme   = "theme"
	CookieDraftID = "draft-id"
)

const (
	EnvConfigPath  = "SC_CONFIG"
	EnvLogLevel    = "SC_LOG_LEVEL"
	EnvAdminSecret = "SC_ADMIN_SECRET"
	EnvPort        = "SC_PORT"
)

const (
	CatalogSourceMemory = "memory"
	CatalogSourceSQLite = "sqlite"
)
