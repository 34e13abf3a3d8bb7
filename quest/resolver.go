package quest

import (
	"context"
	"errors"
	"fmt"
	"lingoquest/models"
	"lingoquest/storage"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Synthesizer is the queue-facing contract; lingoquest/tts.Queue satisfies it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (models.SynthResult, error)
}

// Resolver maps word/sentence text onto persisted rows, synthesizing audio
// only for text it has never seen.
type Resolver struct {
	logger   *slog.Logger
	store    storage.FullRepo
	synth    Synthesizer
	mediaDir string
}

func NewResolver(logger *slog.Logger, store storage.FullRepo, synth Synthesizer, mediaDir string) *Resolver {
	return &Resolver{logger: logger, store: store, synth: synth, mediaDir: mediaDir}
}

// ResolveWords resolves every text to a Word row, preserving input order.
// All pending synthesis requests are submitted concurrently; the queue
// serializes the model work, so fan-out only overlaps the waiting.
func (r *Resolver) ResolveWords(ctx context.Context, texts []string) ([]models.Word, error) {
	words := make([]models.Word, len(texts))
	errs := make([]error, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			w, err := r.resolveWord(ctx, text)
			if err != nil {
				errs[i] = err
				return
			}
			words[i] = *w
		}(i, text)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return words, nil
}

// resolveWord looks the word up by value and on a miss synthesizes audio,
// persists the asset, then the word. Losing the create race to a concurrent
// resolver is expected: the freshly made asset is discarded and the winning
// row re-read.
func (r *Resolver) resolveWord(ctx context.Context, text string) (*models.Word, error) {
	w, err := r.store.WordByValue(text)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	asset, err := r.synthesizeAsset(ctx, text)
	if err != nil {
		return nil, err
	}
	w, err = r.store.CreateWord(&models.Word{Value: text, AudioID: &asset.ID})
	if err == nil {
		return w, nil
	}
	if errors.Is(err, models.ErrDuplicateContent) {
		r.logger.Debug("lost word create race, re-reading", "value", text)
		r.discardAsset(asset)
		return r.store.WordByValue(text)
	}
	return nil, err
}

// CreateSentence synthesizes the sentence text as a whole (not a concat of
// word audio), persists the sentence and one position link per word. A
// failed link insert unwinds the links, the sentence row and its audio, so
// the caller never sees a half-written sentence graph.
func (r *Resolver) CreateSentence(ctx context.Context, text string, orderedWords []models.Word) (*models.Sentence, error) {
	asset, err := r.synthesizeAsset(ctx, text)
	if err != nil {
		return nil, err
	}
	sentence, err := r.store.CreateSentence(&models.Sentence{Value: text, AudioID: &asset.ID})
	if err != nil {
		r.discardAsset(asset)
		return nil, err
	}
	for i, w := range orderedWords {
		link := &models.SentenceWord{SentenceID: sentence.ID, WordID: w.ID, Pos: i}
		if err := r.store.CreateSentenceWord(link); err != nil {
			if delErr := r.store.DeleteSentenceWords(sentence.ID); delErr != nil {
				r.logger.Warn("failed to unwind sentence links", "sentence", sentence.ID, "error", delErr)
			}
			if delErr := r.store.DeleteSentence(sentence.ID); delErr != nil {
				r.logger.Warn("failed to unwind sentence row", "sentence", sentence.ID, "error", delErr)
			}
			r.discardAsset(asset)
			return nil, fmt.Errorf("failed to link word %d into sentence %d: %w", w.ID, sentence.ID, err)
		}
	}
	return sentence, nil
}

// CreateDistractorSet resolves the texts and persists one membership row per
// distinct resolved word. No audio beyond what ResolveWords produces. A
// failed membership insert unwinds the set and the memberships written so
// far.
func (r *Resolver) CreateDistractorSet(ctx context.Context, texts []string) (*models.DistractorSet, []models.Word, error) {
	words, err := r.ResolveWords(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	set, err := r.store.CreateDistractorSet()
	if err != nil {
		return nil, nil, err
	}
	for _, w := range words {
		err := r.store.CreateDistractorWord(set.ID, w.ID)
		if errors.Is(err, models.ErrDuplicateContent) {
			continue // same word authored twice; one membership is enough
		}
		if err != nil {
			if delErr := r.store.DeleteDistractorSet(set.ID); delErr != nil {
				r.logger.Warn("failed to unwind distractor set", "set", set.ID, "error", delErr)
			}
			return nil, nil, fmt.Errorf("failed to add word %d to set %d: %w", w.ID, set.ID, err)
		}
	}
	return set, words, nil
}

func (r *Resolver) synthesizeAsset(ctx context.Context, text string) (*models.AudioAsset, error) {
	res, err := r.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	duration := res.Duration()
	asset, err := r.store.CreateAudioAsset(&models.AudioAsset{
		Filename: filepath.Base(res.Path),
		MimeType: models.MimeWAV,
		Duration: &duration,
		ByteSize: &res.ByteSize,
	})
	if err != nil {
		if rmErr := os.Remove(res.Path); rmErr != nil {
			r.logger.Warn("failed to remove orphaned wav", "path", res.Path, "error", rmErr)
		}
		return nil, err
	}
	return asset, nil
}

// discardAsset tears down an asset row and its file after a lost race or a
// failed dependent write.
func (r *Resolver) discardAsset(asset *models.AudioAsset) {
	if err := r.store.DeleteAudioAsset(asset.ID); err != nil {
		r.logger.Warn("failed to delete asset row", "id", asset.ID, "error", err)
	}
	path := filepath.Join(r.mediaDir, asset.Filename)
	if err := os.Remove(path); err != nil {
		r.logger.Warn("failed to remove wav", "path", path, "error", err)
	}
}
