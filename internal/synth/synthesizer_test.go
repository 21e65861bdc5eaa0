package synth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

type fakeProvider struct {
	response *SynthesizeResponse
	err      error
	block    bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.response, f.err
}

func TestSynthesizer_Success(t *testing.T) {
	provider := &fakeProvider{
		response: &SynthesizeResponse{Content: "An article.", Model: "fake-1"},
	}
	s := NewSynthesizer(provider, 5)

	resp, err := s.Synthesize(context.Background(), SynthesizeRequest{Query: "x"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Content != "An article." {
		t.Errorf("unexpected content: %s", resp.Content)
	}
}

func TestSynthesizer_Timeout(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{block: true}, 0)
	s.timeout = 10 * time.Millisecond

	_, err := s.Synthesize(context.Background(), SynthesizeRequest{Query: "x"})
	if !errors.Is(err, model.ErrSynthesisTimeout) {
		t.Errorf("expected ErrSynthesisTimeout, got %v", err)
	}
}

func TestSynthesizer_NoProvider(t *testing.T) {
	s := NewSynthesizer(nil, 5)

	if s.Available() {
		t.Error("expected unavailable without provider")
	}
	if _, err := s.Synthesize(context.Background(), SynthesizeRequest{Query: "x"}); err == nil {
		t.Error("expected error without provider")
	}
}

func TestSynthesizer_ProviderError(t *testing.T) {
	providerErr := errors.New("upstream unavailable")
	s := NewSynthesizer(&fakeProvider{err: providerErr}, 5)

	_, err := s.Synthesize(context.Background(), SynthesizeRequest{Query: "x"})
	if !errors.Is(err, providerErr) {
		t.Errorf("expected provider error passed through, got %v", err)
	}
	if errors.Is(err, model.ErrSynthesisTimeout) {
		t.Error("did not expect timeout classification")
	}
}
