// Package conflict detects and resolves rule ids emitted by more than one package.
package conflict

import (
	"github.com/lintindex/rules-index/internal/domain"
)

// Detector identifies rule id conflicts across packages
type Detector struct{}

// NewDetector creates a new conflict detector
func NewDetector() *Detector {
	return &Detector{}
}

// DetectConflicts returns one ConflictInfo per id that occurs more than once,
// ordered by the first occurrence of the id. The first occurrence is active.
func (d *Detector) DetectConflicts(records []domain.RuleRecord) []domain.ConflictInfo {
	order := make([]string, 0)
	packagesByID := make(map[string][]string, len(records))
	for i := range records {
		id := records[i].ID
		if _, seen := packagesByID[id]; !seen {
			order = append(order, id)
		}
		packagesByID[id] = append(packagesByID[id], records[i].Package)
	}

	var conflicts []domain.ConflictInfo
	for _, id := range order {
		packages := packagesByID[id]
		if len(packages) < 2 {
			continue
		}
		conflicts = append(conflicts, domain.ConflictInfo{
			RuleID:        id,
			Packages:      packages,
			ActivePackage: packages[0],
		})
	}
	return conflicts
}

