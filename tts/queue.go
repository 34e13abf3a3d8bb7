package tts

import (
	"context"
	"fmt"
	"lingoquest/config"
	"lingoquest/models"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

type synthResult struct {
	res models.SynthResult
	err error
}

type synthJob struct {
	ctx  context.Context
	text string
	resp chan synthResult // buffered; worker never blocks on an abandoned caller
}

// Queue serializes all access to the shared speech model. Jobs are drained
// by a single worker in strict submission order; a failing job is reported
// only to its caller and the worker moves on.
type Queue struct {
	logger    *slog.Logger
	engine    Engine
	outDir    string
	timeout   time.Duration
	jobs      chan *synthJob
	done      chan struct{}
	closeOnce sync.Once
	segmenter *sentences.DefaultSentenceTokenizer
}

func NewQueue(logger *slog.Logger, engine Engine, cfg *config.Config) *Queue {
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		logger.Warn("sentence tokenizer unavailable, synthesizing unsplit", "error", err)
	}
	q := &Queue{
		logger:    logger,
		engine:    engine,
		outDir:    cfg.MediaDir,
		timeout:   time.Duration(cfg.SynthTimeoutSec) * time.Second,
		jobs:      make(chan *synthJob, cfg.QueueSize),
		done:      make(chan struct{}),
		segmenter: segmenter,
	}
	go q.worker()
	return q
}

// Synthesize enqueues text and suspends the caller until its turn is
// serviced. Cancelling ctx while still queued abandons the job without
// disturbing the order of the remainder.
func (q *Queue) Synthesize(ctx context.Context, text string) (models.SynthResult, error) {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	job := &synthJob{ctx: ctx, text: text, resp: make(chan synthResult, 1)}
	select {
	case q.jobs <- job:
	case <-ctx.Done():
		return models.SynthResult{}, ctx.Err()
	case <-q.done:
		return models.SynthResult{}, models.ErrQueueClosed
	}
	select {
	case r := <-job.resp:
		return r.res, r.err
	case <-ctx.Done():
		return models.SynthResult{}, ctx.Err()
	case <-q.done:
		return models.SynthResult{}, models.ErrQueueClosed
	}
}

// Pending reports how many jobs wait behind the one in flight.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

func (q *Queue) worker() {
	for {
		select {
		case <-q.done:
			return
		case job := <-q.jobs:
			if err := job.ctx.Err(); err != nil {
				// cancelled while queued; skip without touching the model
				job.resp <- synthResult{err: err}
				continue
			}
			res, err := q.process(job.ctx, job.text)
			if err != nil {
				q.logger.Error("synthesis failed", "text-len", len(job.text), "error", err)
			}
			if err == nil && job.ctx.Err() != nil {
				// caller gave up mid-flight; no asset row will ever
				// reference this file
				if rmErr := os.Remove(res.Path); rmErr != nil {
					q.logger.Warn("failed to remove abandoned wav", "path", res.Path, "error", rmErr)
				}
				job.resp <- synthResult{err: job.ctx.Err()}
				continue
			}
			job.resp <- synthResult{res: res, err: err}
		}
	}
}

// process runs inference (piecewise for multi-sentence text) and encodes
// the gathered samples into one wav file.
func (q *Queue) process(ctx context.Context, text string) (models.SynthResult, error) {
	var samples []float32
	rate := 0
	for _, chunk := range q.splitSentences(text) {
		chunkSamples, chunkRate, err := q.engine.Synthesize(ctx, chunk)
		if err != nil {
			return models.SynthResult{}, err
		}
		if rate == 0 {
			rate = chunkRate
		}
		samples = append(samples, chunkSamples...)
	}
	if rate == 0 {
		rate = DefaultSampleRate
	}
	path := filepath.Join(q.outDir, genFilename())
	size, err := EncodeWAVFile(path, samples, rate)
	if err != nil {
		return models.SynthResult{}, err
	}
	res := models.SynthResult{
		Path:       path,
		SampleRate: rate,
		NumSamples: len(samples),
		ByteSize:   size,
	}
	q.logger.Debug("synthesized", "path", path, "samples", res.NumSamples, "rate", rate)
	return res, nil
}

func (q *Queue) splitSentences(text string) []string {
	if q.segmenter == nil {
		return []string{text}
	}
	raw := q.segmenter.Tokenize(text)
	chunks := make([]string, 0, len(raw))
	for _, s := range raw {
		t := strings.TrimSpace(s.Text)
		if t != "" {
			chunks = append(chunks, t)
		}
	}
	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// genFilename builds a collision-resistant name so concurrent writers never
// contend on the same file.
func genFilename() string {
	token := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("tts_%d_%s.wav", time.Now().UnixMilli(), token)
}
