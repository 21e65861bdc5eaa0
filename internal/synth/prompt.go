package synth

import (
	"fmt"
	"strings"
	"time"
)

// systemPrompt instructs the model to ground every claim in the supplied
// evidence and to structure the article by entity type.
const systemPrompt = `You are an encyclopedia article generator.

You will be provided with real-time web search results and an entity type classification. Synthesize the verified sources into a coherent, factual, unbiased encyclopedia-style article that matches the entity type.

Data usage rules:
1. USE ONLY INFORMATION FROM THE PROVIDED SEARCH RESULTS.
2. DO NOT invent dates, names, founding years, or any details not in the sources.
3. If information is missing, write: "As of [current date], no public information is available about X".
4. Prioritize recent sources for current information and cross-reference multiple sources when available.
5. If entity type is "concept", analyze the search results to determine the true entity type; do not force an entity into the wrong category.

Article structure by entity type:

For a PERSON: introduction, early life and background, career, notable work and achievements, public image, recent activities. Do not include funding rounds or market-position language.

For a COMPANY: introduction, history and founding, products and services, leadership, funding and growth (only if sourced), recent developments.

For a TECHNOLOGY: introduction with a clear definition, history and development, how it works, features, use cases, adoption, recent updates. Do not treat it as a company unless it specifically is one.

For a CONCEPT: introduction with a clear definition, background and context, key components, significance and impact, current applications, related topics.

Writing style:
- Clear, concise, scannable (800-1,200 words).
- Use **bold** for section headers and key terms on first mention.
- Bullet points for lists.
- Neutral, encyclopedic tone with no speculation.

A person is not a company. A content creator is not a startup. Every major claim must trace to a provided source.`

const (
	webEvidenceHeader = "REAL-TIME WEB SEARCH RESULTS:"
	fallbackHeader    = "FALLBACK MODE - USING MODEL KNOWLEDGE:"
)

// promptDateLayout renders dates as "Monday, January 2, 2006"
const promptDateLayout = "Monday, January 2, 2006"

// BuildPrompt assembles the user prompt from the request and the current
// date. The evidence bundle is embedded verbatim.
func BuildPrompt(req SynthesizeRequest, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Today's date: %s\n", now.Format(promptDateLayout))
	fmt.Fprintf(&b, "Topic: %s\n\n", req.Query)

	b.WriteString("ENTITY CLASSIFICATION:\n")
	fmt.Fprintf(&b, "- Type: %s\n", req.Entity.Type)
	fmt.Fprintf(&b, "- Confidence: %.2f\n", req.Entity.Confidence)
	fmt.Fprintf(&b, "- Specific Context: %s\n", req.Entity.Context)
	if len(req.Entity.Keywords) > 0 {
		fmt.Fprintf(&b, "- SEO Keywords to include: %s\n", strings.Join(req.Entity.Keywords, ", "))
	}
	b.WriteString("\n")

	if req.Evidence.Degraded {
		b.WriteString(fallbackHeader)
	} else {
		b.WriteString(webEvidenceHeader)
	}
	b.WriteString("\n")
	b.WriteString(req.Evidence.Rendered)
	b.WriteString("\n\n")

	if req.Evidence.Degraded {
		b.WriteString("Generate a comprehensive, factually accurate encyclopedia-style article based on the entity type and your knowledge. Mark recent information as current.")
	} else {
		b.WriteString("Generate a comprehensive, factually accurate encyclopedia-style article based on the entity type and verified sources above.")
	}

	return b.String()
}
