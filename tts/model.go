package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"lingoquest/config"
	"lingoquest/models"
	"log/slog"
	"os"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Engine turns text into mono float32 samples plus a sample rate.
// A rate of 0 means the engine does not know it.
type Engine interface {
	Synthesize(ctx context.Context, text string) ([]float32, int, error)
}

// inference scale knobs of the vits-style graph: noise, length, noise_w
var defaultScales = []float32{0.667, 1.0, 0.8}

// OnnxModel runs a piper/vits-style onnx speech graph. It is a single,
// stateful, non-reentrant resource; only the queue worker may call
// Synthesize, so no run-time locking happens on the inference path.
type OnnxModel struct {
	logger *slog.Logger
	cfg    *config.Config

	mu      sync.Mutex
	loaded  bool
	attempt *loadAttempt

	tok        *tokenizer.Tokenizer
	session    *ort.DynamicAdvancedSession
	sampleRate int
}

type loadAttempt struct {
	done chan struct{}
	err  error
}

func NewOnnxModel(logger *slog.Logger, cfg *config.Config) *OnnxModel {
	return &OnnxModel{logger: logger, cfg: cfg}
}

// EnsureReady loads the model at most once. Concurrent callers share one
// in-flight load; a failed attempt is cleared so a later call can retry.
func (m *OnnxModel) EnsureReady(ctx context.Context) error {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return nil
	}
	att := m.attempt
	if att == nil {
		att = &loadAttempt{done: make(chan struct{})}
		m.attempt = att
		go func() {
			err := m.load()
			m.mu.Lock()
			if err == nil {
				m.loaded = true
			}
			att.err = err
			m.attempt = nil
			m.mu.Unlock()
			close(att.done)
		}()
	}
	m.mu.Unlock()
	select {
	case <-att.done:
		return att.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *OnnxModel) load() error {
	if m.cfg.OnnxLibPath != "" {
		ort.SetSharedLibraryPath(m.cfg.OnnxLibPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("%w: onnx env init: %s", models.ErrSynthesis, err)
		}
	}
	tok, err := pretrained.FromFile(m.cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("%w: tokenizer load: %s", models.ErrSynthesis, err)
	}
	session, err := ort.NewDynamicAdvancedSession(m.cfg.ModelPath,
		[]string{"input", "input_lengths", "scales"}, []string{"output"}, nil)
	if err != nil {
		return fmt.Errorf("%w: model load: %s", models.ErrSynthesis, err)
	}
	m.tok = tok
	m.session = session
	m.sampleRate = m.readSampleRate()
	m.logger.Info("speech model loaded", "model", m.cfg.ModelPath, "sample-rate", m.sampleRate)
	return nil
}

// readSampleRate takes the rate from config, then from the piper-style
// sidecar json next to the model; 0 means unknown (encoder default applies).
func (m *OnnxModel) readSampleRate() int {
	if m.cfg.SampleRate > 0 {
		return m.cfg.SampleRate
	}
	sidecar := m.cfg.ModelConfigPath
	if sidecar == "" {
		sidecar = m.cfg.ModelPath + ".json"
	}
	raw, err := os.ReadFile(sidecar)
	if err != nil {
		m.logger.Warn("no model config, sample rate unknown", "path", sidecar, "error", err)
		return 0
	}
	var mc struct {
		Audio struct {
			SampleRate int `json:"sample_rate"`
		} `json:"audio"`
	}
	if err := json.Unmarshal(raw, &mc); err != nil {
		m.logger.Warn("bad model config", "path", sidecar, "error", err)
		return 0
	}
	return mc.Audio.SampleRate
}

func (m *OnnxModel) Synthesize(ctx context.Context, text string) ([]float32, int, error) {
	if err := m.EnsureReady(ctx); err != nil {
		return nil, 0, err
	}
	en, err := m.tok.EncodeSingle(text)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: encode %q: %s", models.ErrSynthesis, text, err)
	}
	if len(en.Ids) == 0 {
		return nil, 0, fmt.Errorf("%w: no tokens for %q", models.ErrSynthesis, text)
	}
	ids := make([]int64, len(en.Ids))
	for i, id := range en.Ids {
		ids[i] = int64(id)
	}
	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(ids))), ids)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: input tensor: %s", models.ErrSynthesis, err)
	}
	defer inputTensor.Destroy()
	lengthTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(len(ids))})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: length tensor: %s", models.ErrSynthesis, err)
	}
	defer lengthTensor.Destroy()
	scaleTensor, err := ort.NewTensor(ort.NewShape(int64(len(defaultScales))), defaultScales)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: scale tensor: %s", models.ErrSynthesis, err)
	}
	defer scaleTensor.Destroy()
	outputs := []ort.Value{nil}
	if err := m.session.Run(
		[]ort.Value{inputTensor, lengthTensor, scaleTensor}, outputs); err != nil {
		return nil, 0, fmt.Errorf("%w: inference: %s", models.ErrSynthesis, err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, 0, fmt.Errorf("%w: unexpected output type %T", models.ErrSynthesis, outputs[0])
	}
	defer out.Destroy()
	data := out.GetData()
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty waveform for %q", models.ErrSynthesis, text)
	}
	samples := make([]float32, len(data))
	copy(samples, data)
	return samples, m.sampleRate, nil
}

// Close releases the onnx session; the model cannot be reloaded after.
func (m *OnnxModel) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
		m.loaded = false
	}
}
