package types

// Common system-wide constants
const (
	// NotSpecified is returned for a descriptor tag that is absent or unusable
	NotSpecified = "Not specified"

	// Search limits
	DefaultContextLines = 2  // lines of context on each side of a hit
	DefaultMaxHits      = 20 // hits returned per report; the total is still counted

	// Descriptor and source globs
	SolutionGlob = "*.sln"
	ProjectGlob  = "*.csproj"
	SourceGlob   = "*.cs"
)

// FileRef is a file found under a scan root.
// AbsPath is the identity; RelativePath is derived from the root at scan time.
type FileRef struct {
	Name              string `json:"Name"`
	RelativePath      string `json:"Path"`
	ParentRelativeDir string `json:"Directory,omitempty"`
	AbsPath           string `json:"-"`
}

// ScanResult is the output of a descriptor listing
type ScanResult struct {
	RootPath  string    `json:"Directory"`
	Solutions []FileRef `json:"Solutions"`
	Projects  []FileRef `json:"Projects"`
}

// ProjectMetadata is the build metadata extracted from a single project file
type ProjectMetadata struct {
	Name            string   `json:"ProjectName"`
	Path            string   `json:"ProjectPath"`
	TargetFramework string   `json:"TargetFramework"`
	OutputType      string   `json:"OutputType"`
	Dependencies    []string `json:"PackageReferences"`
	SizeBytes       int64    `json:"ProjectSize"`
}

// SearchHit is one matching line with its surrounding context.
// Line is trimmed; Context holds the raw lines of the clipped window.
type SearchHit struct {
	File       string   `json:"File"`
	LineNumber int      `json:"LineNumber"` // 1-based
	Line       string   `json:"Line"`
	Context    []string `json:"Context"`
}

// SearchReport holds the hits of a search.
// TotalMatchCount is counted before Hits is truncated.
type SearchReport struct {
	Term            string      `json:"SearchTerm"`
	TotalMatchCount int         `json:"ResultCount"`
	Hits            []SearchHit `json:"Results"`
}
