package domain

// WarningKind classifies a non-fatal extraction problem
type WarningKind string

const (
	// WarningSkipped indicates a plugin listed in the skip list
	WarningSkipped WarningKind = "skipped"
	// WarningLoadFailed indicates the plugin module could not be loaded
	WarningLoadFailed WarningKind = "load_failed"
	// WarningNoRules indicates the plugin exports no rules mapping
	WarningNoRules WarningKind = "no_rules"
	// WarningDuplicateID indicates a rule id already emitted by an earlier package
	WarningDuplicateID WarningKind = "duplicate_id"
)

// LoadWarning records a plugin-level problem that did not abort extraction
type LoadWarning struct {
	Kind    WarningKind `json:"kind"`
	Package string      `json:"package"`
	Message string      `json:"message"`
}

// LoadError represents an error decoding a catalog file
type LoadError struct {
	FilePath string `json:"file_path"`      // Path to the file that failed to load
	Error    string `json:"error"`          // Error message describing the failure
	Line     int    `json:"line,omitempty"` // Line number where the error occurred (if applicable)
}

// ConflictInfo describes a rule id emitted by more than one package
type ConflictInfo struct {
	RuleID        string   `json:"rule_id"`        // The conflicting rule ID
	Packages      []string `json:"packages"`       // Every package that emitted the ID, in emission order
	ActivePackage string   `json:"active_package"` // The package whose record was kept
}

// PackageSummary describes one package's contribution to the catalog
type PackageSummary struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	RuleCount int    `json:"rule_count"`
	Core      bool   `json:"core"`
}
