package entity

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/episteme-app/episteme/internal/model"
)

// personRoles is the profession/role vocabulary that marks a query as a
// person with high confidence.
var personRoles = map[string]bool{
	"streamer": true, "athlete": true, "singer": true, "actor": true,
	"actress": true, "rapper": true, "musician": true, "footballer": true,
	"player": true, "coach": true, "author": true, "writer": true,
	"director": true, "youtuber": true, "influencer": true, "comedian": true,
	"gamer": true, "boxer": true, "wrestler": true, "chef": true,
}

// techTokens marks framework/tooling vocabulary for the technology rule
var techTokens = map[string]bool{
	"framework": true, "library": true, "protocol": true, "database": true,
	"language": true, "compiler": true, "runtime": true, "sdk": true,
	"api": true, "cli": true, "js": true, "css": true, "sql": true,
}

var legalSuffixes = regexp.MustCompile(`\b(inc|corp|ltd|llc|technologies|systems|solutions)\b`)

var acronym = regexp.MustCompile(`^[A-Z]{2,6}$`)

// domainCandidates are the TLD shapes tried by the company probe, in order
var domainCandidates = []string{"%s.com", "%s.ai", "%s.io", "%s.co", "get%s.com"}

// rule is one step of the classification cascade. Rules are evaluated in
// fixed priority order and the first match wins.
type rule struct {
	name     string
	classify func(ctx context.Context, raw, lower string) (model.EntityClassification, bool)
}

// Resolver classifies a normalized query into an entity type
type Resolver struct {
	prober DomainProber
	rules  []rule
}

// NewResolver creates a Resolver using the given domain prober. prober may
// be nil, which disables the company domain probe.
func NewResolver(prober DomainProber) *Resolver {
	r := &Resolver{prober: prober}
	r.rules = []rule{
		{name: "person-role", classify: r.classifyPersonRole},
		{name: "handle", classify: r.classifyHandle},
		{name: "domain-probe", classify: r.classifyDomainProbe},
		{name: "legal-suffix", classify: r.classifyLegalSuffix},
		{name: "technology", classify: r.classifyTechnology},
	}
	return r
}

// Resolve classifies a query. It never fails: every probe error is treated
// as a non-match and the cascade bottoms out at the concept fallback.
func (r *Resolver) Resolve(ctx context.Context, query string) model.EntityClassification {
	raw := strings.TrimSpace(query)
	lower := strings.ToLower(raw)

	for _, rule := range r.rules {
		if c, ok := rule.classify(ctx, raw, lower); ok {
			return c
		}
	}
	return conceptContext(raw)
}

// Rule 1: profession/role vocabulary anywhere in the query
func (r *Resolver) classifyPersonRole(_ context.Context, raw, lower string) (model.EntityClassification, bool) {
	for _, word := range strings.Fields(lower) {
		if personRoles[word] {
			return personContext(raw, 0.9), true
		}
	}
	return model.EntityClassification{}, false
}

// Rule 2: handle-shaped single token (gamer tag / online alias). Irregular
// internal casing like "xQc", or an alphanumeric token with embedded digits
// longer than 7 characters, reads as a content-creator handle.
func (r *Resolver) classifyHandle(_ context.Context, raw, _ string) (model.EntityClassification, bool) {
	if strings.ContainsAny(raw, " \t") || raw == "" {
		return model.EntityClassification{}, false
	}
	if !isAlphanumeric(raw) {
		return model.EntityClassification{}, false
	}
	if handleCased(raw) || (hasDigit(raw) && len(raw) > 7) {
		return personContext(raw, 0.85), true
	}
	return model.EntityClassification{}, false
}

// Rule 3: domain existence probe. Candidates are tried sequentially and the
// first resolvable one short-circuits, bounding latency at a handful of
// short probes.
func (r *Resolver) classifyDomainProbe(ctx context.Context, raw, lower string) (model.EntityClassification, bool) {
	if r.prober == nil || strings.Contains(lower, " ") || lower == "" {
		return model.EntityClassification{}, false
	}
	for _, shape := range domainCandidates {
		domain := fmt.Sprintf(shape, lower)
		if r.prober.Exists(ctx, domain) {
			return companyContext(raw, domain), true
		}
	}
	return model.EntityClassification{}, false
}

// Rule 4: legal-entity suffix vocabulary
func (r *Resolver) classifyLegalSuffix(_ context.Context, raw, lower string) (model.EntityClassification, bool) {
	if legalSuffixes.MatchString(lower) {
		c := companyContext(raw, "")
		c.Confidence = 0.85
		return c, true
	}
	return model.EntityClassification{}, false
}

// Rule 5: all-caps acronym or framework/tooling vocabulary
func (r *Resolver) classifyTechnology(_ context.Context, raw, lower string) (model.EntityClassification, bool) {
	if acronym.MatchString(raw) {
		return technologyContext(raw), true
	}
	for _, word := range strings.Fields(lower) {
		if techTokens[word] {
			return technologyContext(raw), true
		}
	}
	return model.EntityClassification{}, false
}

func personContext(query string, confidence float64) model.EntityClassification {
	return model.EntityClassification{
		Type:       model.EntityPerson,
		Confidence: confidence,
		Context: fmt.Sprintf("%s appears to be a person (athlete, creator, or public figure). "+
			"Focus on their biography, career milestones, and verified recent activity.", query),
		Sources: []string{
			fmt.Sprintf("%q", query),
			query + " biography",
			query + " career achievements",
			query,
		},
		Keywords: []string{"biography", "career", "achievements", "profile"},
	}
}

func companyContext(query, domain string) model.EntityClassification {
	c := model.EntityClassification{
		Type:       model.EntityCompany,
		Confidence: 0.95,
		Context: fmt.Sprintf("%s is a technology company or startup. "+
			"Focus on products, services, team, funding, and market position.", query),
		Sources: []string{
			"site:crunchbase.com " + query,
			"site:linkedin.com/company " + query,
			fmt.Sprintf("%q startup", query),
			fmt.Sprintf("%q company funding", query),
			query,
		},
		Keywords: []string{"startup", "company", "technology", "funding", "products"},
	}
	if domain != "" {
		c.Context = fmt.Sprintf("%s is a technology company or startup. Official website: https://%s. "+
			"Focus on products, services, team, funding, and market position.", query, domain)
		c.Sources = append([]string{"https://" + domain}, c.Sources...)
	}
	return c
}

func technologyContext(query string) model.EntityClassification {
	return model.EntityClassification{
		Type:       model.EntityTechnology,
		Confidence: 0.8,
		Context: fmt.Sprintf("%s is a technology, tool, or platform. "+
			"Focus on what it is, how it works, features, and adoption.", query),
		Sources: []string{
			fmt.Sprintf("%q documentation", query),
			query + " tutorial",
			query + " use cases",
			query,
		},
		Keywords: []string{"technology", "software", "tool", "platform", "documentation"},
	}
}

func conceptContext(query string) model.EntityClassification {
	return model.EntityClassification{
		Type:       model.EntityConcept,
		Confidence: 0.6,
		Context:    "General topic: " + query,
		Sources: []string{
			fmt.Sprintf("%q", query),
			query + " overview",
			query + " explained",
			query,
		},
		Keywords: []string{"overview", "definition", "background"},
	}
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// handleCased reports gamer-tag casing: a lowercase-leading token with
// internal capitals, e.g. "xQc" or "iShowSpeed". Titlecase names and
// brand-cased words like "OpenAI" do not qualify; those fall through to the
// company and concept rules.
func handleCased(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 || !unicode.IsLower(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
