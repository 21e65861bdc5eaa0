package model

// EntityType categorizes what kind of entity a query denotes
type EntityType string

const (
	EntityPerson     EntityType = "person"     // People: athletes, creators, professionals
	EntityCompany    EntityType = "company"    // Companies, startups, organizations
	EntityTechnology EntityType = "technology" // Frameworks, tools, platforms
	EntityConcept    EntityType = "concept"    // General topics and ideas
	EntityAmbiguous  EntityType = "ambiguous"  // Could denote more than one of the above
)

// EntityClassification is the resolver's verdict for a normalized query.
// Sources is never empty: at minimum it contains the original query as a
// fallback search term.
type EntityClassification struct {
	Type       EntityType `json:"type"`
	Confidence float64    `json:"confidence"` // 0.0 - 1.0
	Context    string     `json:"context"`    // Prose hint handed to the synthesizer
	Sources    []string   `json:"sources"`    // Recommended search queries
	Keywords   []string   `json:"keywords"`   // SEO/structural hints
}

// DefaultClassification is the degraded-mode fallback used when entity
// resolution fails or times out. The pipeline proceeds with it rather than
// aborting the request.
func DefaultClassification(query string) EntityClassification {
	return EntityClassification{
		Type:       EntityConcept,
		Confidence: 0,
		Context:    "General topic: " + query,
		Sources:    []string{query},
		Keywords:   []string{},
	}
}
