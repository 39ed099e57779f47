package model

// LookupKind is the closed set of reference-data collections the platform
// serves. Adding a kind means adding a constant here and a typed fetch in the
// lookup service; there is no dynamic dispatch by name.
type LookupKind string

const (
	LookupSubjects    LookupKind = "subjects"
	LookupGradeLevels LookupKind = "grade_levels"
	LookupCities      LookupKind = "cities"
)

// LookupItem is a single bilingual reference-data entry.
type LookupItem struct {
	ID       int64         `json:"id"`
	Name     LocalizedText `json:"name"`
	IsActive bool          `json:"is_active"`
}
