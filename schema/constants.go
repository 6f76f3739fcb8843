package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Granularity represents whether points are single days or aggregated weeks.
	Granularity string

	// ThemeName represents the color palette used by renderers.
	ThemeName string

	// LineStyle represents how a series is drawn.
	LineStyle string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All granularities supported.
const (
	DayGranularity  Granularity = "day" // default
	WeekGranularity Granularity = "week"
)

// All themes supported.
const (
	LightTheme ThemeName = "light" // default
	DarkTheme  ThemeName = "dark"
)

// All line styles supported.
const (
	LineStyleLine   LineStyle = "line" // default
	LineStyleSmooth LineStyle = "smooth"
	LineStyleArea   LineStyle = "area"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Zoom and calendar constants.
const (
	OneDayMillis       int64   = 24 * 60 * 60 * 1000
	DefaultZoomFactor  float64 = 0.25
	DefaultMinZoomDays float64 = 3
)

// Fixed variant identifiers used when a dataset does not name its variations.
const (
	OriginalID         = "0"
	FallbackVariantAID = "10001"
	FallbackVariantBID = "10002"
	FallbackVariantCID = "10003"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidGranularities lists all valid granularities.
var ValidGranularities = map[Granularity]struct{}{
	DayGranularity:  {},
	WeekGranularity: {},
}

// ValidThemes lists all valid themes.
var ValidThemes = map[ThemeName]struct{}{
	LightTheme: {},
	DarkTheme:  {},
}

// ValidLineStyles lists all valid line styles.
var ValidLineStyles = map[LineStyle]struct{}{
	LineStyleLine:   {},
	LineStyleSmooth: {},
	LineStyleArea:   {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
