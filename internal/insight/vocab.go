package insight

import "fmt"

// Perspective identifies the originating model variant that produced an
// insight. The set is closed: ingestion parses labels through
// ParsePerspective and rejects anything outside it, so downstream code never
// has to defend against typo'd source tags silently producing empty pattern
// sets.
type Perspective string

const (
	PerspectiveO3     Perspective = "o3"
	PerspectiveSonnet Perspective = "claude-4-sonnet"
	PerspectiveOpus   Perspective = "claude-4-opus"
	PerspectiveCursor Perspective = "cursor-agent"
)

// Perspectives lists every known perspective in declaration order.
func Perspectives() []Perspective {
	return []Perspective{PerspectiveO3, PerspectiveSonnet, PerspectiveOpus, PerspectiveCursor}
}

// ParsePerspective maps a source label onto the closed perspective set.
func ParsePerspective(label string) (Perspective, error) {
	switch Perspective(label) {
	case PerspectiveO3, PerspectiveSonnet, PerspectiveOpus, PerspectiveCursor:
		return Perspective(label), nil
	}
	return "", fmt.Errorf("insight: unknown perspective %q", label)
}

// String returns the wire label for the perspective.
func (p Perspective) String() string {
	return string(p)
}

// Category is the topic classification attached to an insight.
type Category string

const (
	CategoryArchitecture Category = "architecture"
	CategorySafety       Category = "safety"
	CategoryPerformance  Category = "performance"
	CategoryScalability  Category = "scalability"
	CategoryPrompting    Category = "prompt_engineering"
	CategoryTesting      Category = "testing"
	CategoryDeployment   Category = "deployment"
)

// Categories lists every known category in declaration order. Pattern
// detection iterates this slice so emitted results stay reproducible.
func Categories() []Category {
	return []Category{
		CategoryArchitecture,
		CategorySafety,
		CategoryPerformance,
		CategoryScalability,
		CategoryPrompting,
		CategoryTesting,
		CategoryDeployment,
	}
}

// ParseCategory maps a topic label onto the closed category set.
func ParseCategory(label string) (Category, error) {
	switch Category(label) {
	case CategoryArchitecture, CategorySafety, CategoryPerformance,
		CategoryScalability, CategoryPrompting, CategoryTesting, CategoryDeployment:
		return Category(label), nil
	}
	return "", fmt.Errorf("insight: unknown category %q", label)
}

// String returns the wire label for the category.
func (c Category) String() string {
	return string(c)
}
