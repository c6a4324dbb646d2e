package conflict

import (
	"github.com/lintindex/rules-index/internal/domain"
)

// Resolver deduplicates records by id. The first record emitted for an id wins;
// later records with the same id are dropped.
type Resolver struct {
	detector *Detector
}

// NewResolver creates a new conflict resolver
func NewResolver() *Resolver {
	return &Resolver{
		detector: NewDetector(),
	}
}

// ResolveConflictsWithInfo deduplicates records and reports every id that had
// more than one record
func (r *Resolver) ResolveConflictsWithInfo(records []domain.RuleRecord) ([]domain.RuleRecord, []domain.ConflictInfo) {
	if len(records) == 0 {
		return records, nil
	}

	seen := make(map[string]struct{}, len(records))
	resolved := make([]domain.RuleRecord, 0, len(records))
	for i := range records {
		if _, ok := seen[records[i].ID]; ok {
			continue
		}
		seen[records[i].ID] = struct{}{}
		resolved = append(resolved, records[i])
	}

	if len(resolved) == len(records) {
		return resolved, nil
	}
	return resolved, r.detector.DetectConflicts(records)
}

// Merge concatenates record sets in order and resolves conflicts, so records in
// earlier sets take precedence over later ones
func (r *Resolver) Merge(sets ...[]domain.RuleRecord) ([]domain.RuleRecord, []domain.ConflictInfo) {
	var all []domain.RuleRecord
	for _, set := range sets {
		all = append(all, set...)
	}
	return r.ResolveConflictsWithInfo(all)
}
