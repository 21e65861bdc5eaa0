package synth

import (
	"strings"
	"testing"
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

func testEntity() model.EntityClassification {
	return model.EntityClassification{
		Type:       model.EntityCompany,
		Confidence: 0.95,
		Context:    "Verified company with domain openai.com",
		Sources:    []string{"https://openai.com"},
		Keywords:   []string{"company", "products", "funding"},
	}
}

func TestBuildPrompt_WebEvidence(t *testing.T) {
	req := SynthesizeRequest{
		Query:  "openai",
		Entity: testEntity(),
		Evidence: model.EvidenceBundle{
			Rendered:     "SOURCE 1: OpenAI\nURL: https://openai.com\nCONTENT: AI research company.\nRELEVANCE SCORE: 0.90\n---\n",
			SourcesCount: 1,
		},
	}

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	prompt := BuildPrompt(req, now)

	if !strings.Contains(prompt, "Today's date: Sunday, August 30, 2026") {
		t.Errorf("expected formatted date, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Topic: openai") {
		t.Error("expected topic line")
	}
	if !strings.Contains(prompt, "- Type: company") {
		t.Error("expected entity type line")
	}
	if !strings.Contains(prompt, "- Confidence: 0.95") {
		t.Error("expected confidence line")
	}
	if !strings.Contains(prompt, "- SEO Keywords to include: company, products, funding") {
		t.Error("expected keywords line")
	}
	if !strings.Contains(prompt, webEvidenceHeader) {
		t.Error("expected web evidence header")
	}
	if strings.Contains(prompt, fallbackHeader) {
		t.Error("did not expect fallback header")
	}
	if !strings.Contains(prompt, req.Evidence.Rendered) {
		t.Error("expected evidence bundle embedded verbatim")
	}
	if !strings.Contains(prompt, "verified sources above") {
		t.Error("expected verified-sources instruction")
	}
}

func TestBuildPrompt_Fallback(t *testing.T) {
	req := SynthesizeRequest{
		Query:  "openai",
		Entity: testEntity(),
		Evidence: model.EvidenceBundle{
			Rendered: "[Web search unavailable - using model knowledge only]\nQuery: openai",
			Degraded: true,
		},
	}

	prompt := BuildPrompt(req, time.Now())

	if !strings.Contains(prompt, fallbackHeader) {
		t.Error("expected fallback header for degraded bundle")
	}
	if strings.Contains(prompt, webEvidenceHeader) {
		t.Error("did not expect web evidence header")
	}
	if !strings.Contains(prompt, "your knowledge") {
		t.Error("expected model-knowledge instruction")
	}
}

func TestBuildPrompt_NoKeywords(t *testing.T) {
	entity := testEntity()
	entity.Keywords = nil

	prompt := BuildPrompt(SynthesizeRequest{Query: "x", Entity: entity}, time.Now())

	if strings.Contains(prompt, "SEO Keywords") {
		t.Error("expected keywords line omitted when empty")
	}
}
