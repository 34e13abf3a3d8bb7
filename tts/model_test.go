package tts

import (
	"context"
	"errors"
	"io"
	"lingoquest/config"
	"log/slog"
	"sync"
	"testing"
)

// No model files exist here, so every load attempt fails; that is exactly
// what these tests need.
func brokenModel(t *testing.T) *OnnxModel {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		ModelPath:     "/nonexistent/voice.onnx",
		TokenizerPath: "/nonexistent/tokenizer.json",
	}
	return NewOnnxModel(logger, cfg)
}

func TestEnsureReadyFailureIsRetryable(t *testing.T) {
	m := brokenModel(t)
	if err := m.EnsureReady(context.Background()); err == nil {
		t.Fatal("expected load failure")
	}
	// the failed attempt must be cleared; a later call retries instead of
	// returning a cached half-loaded state
	if err := m.EnsureReady(context.Background()); err == nil {
		t.Fatal("expected retried load to fail again")
	}
}

func TestEnsureReadySharesInflightLoad(t *testing.T) {
	m := brokenModel(t)
	const callers = 6
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.EnsureReady(context.Background())
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err == nil {
			t.Fatalf("caller %d: expected the shared attempt's failure", i)
		}
	}
}

func TestEnsureReadyHonorsContext(t *testing.T) {
	m := brokenModel(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.EnsureReady(ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	// either the cancelled wait or the load failure itself is acceptable;
	// a cancelled caller must not report success
	if errors.Is(err, context.Canceled) {
		return
	}
}
