package hyper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// ONNXModel runs a trained projection model through a hugot feature
// extraction pipeline. The model is loaded lazily from a local ONNX model
// directory on the first Project call; while loading keeps failing, every
// Project returns the load error and the Embedder stays on the fallback
// path.
type ONNXModel struct {
	modelPath string

	mu       sync.RWMutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewONNXModel creates an ONNXModel for the model directory at modelPath.
// No loading happens until the first projection (or an explicit Load).
func NewONNXModel(modelPath string) *ONNXModel {
	return &ONNXModel{modelPath: modelPath}
}

// Load initializes the runtime session and pipeline. It is idempotent;
// Project calls it on first use, so callers only need it to surface load
// errors eagerly.
func (m *ONNXModel) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pipeline != nil {
		return nil
	}

	session, err := hugot.NewORTSession(options.WithIntraOpNumThreads(1))
	if err != nil {
		return fmt.Errorf("creating ONNX session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: m.modelPath,
		Name:      "projection",
	})
	if err != nil {
		session.Destroy()
		return fmt.Errorf("creating projection pipeline: %w", err)
	}

	m.session = session
	m.pipeline = pipeline
	return nil
}

// Project implements Model. The feature vector is serialized to the token
// form the projection model was trained on; the output carries no norm
// guarantee and the caller clamps it.
func (m *ONNXModel) Project(_ context.Context, features []float64) ([]float64, error) {
	pipeline, err := m.pipelineForUse()
	if err != nil {
		return nil, err
	}

	output, err := pipeline.RunPipeline([]string{serializeFeatures(features)})
	if err != nil {
		return nil, fmt.Errorf("running projection model: %w", err)
	}
	if len(output.Embeddings) == 0 {
		return nil, fmt.Errorf("projection model returned no output")
	}

	raw := output.Embeddings[0]
	out := make([]float64, len(raw))
	for i, f := range raw {
		out[i] = float64(f)
	}
	return out, nil
}

// pipelineForUse returns the loaded pipeline, initializing the runtime
// session on first use.
func (m *ONNXModel) pipelineForUse() (*pipelines.FeatureExtractionPipeline, error) {
	m.mu.RLock()
	p := m.pipeline
	m.mu.RUnlock()
	if p != nil {
		return p, nil
	}
	if err := m.Load(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pipeline == nil {
		// Closed between the load and the re-acquire.
		return nil, fmt.Errorf("projection model closed")
	}
	return m.pipeline, nil
}

// Close releases the runtime session.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		err := m.session.Destroy()
		m.session = nil
		m.pipeline = nil
		return err
	}
	return nil
}

// serializeFeatures renders the non-zero prefix of the feature vector as
// space-separated tokens.
func serializeFeatures(features []float64) string {
	end := len(features)
	for end > 0 && features[end-1] == 0 {
		end--
	}
	parts := make([]string, end)
	for i := 0; i < end; i++ {
		parts[i] = strconv.FormatFloat(features[i], 'g', 6, 64)
	}
	return strings.Join(parts, " ")
}
