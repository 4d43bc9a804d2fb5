// Package hyper projects feature vectors into the open unit ball (the
// Poincare ball model of hyperbolic space), where distances express
// hierarchical relationships better than flat Euclidean space.
//
// Two projection strategies implement the same contract: an optional
// trained model and a deterministic geometric fallback. The ball-clamping
// step is re-applied to every result regardless of which strategy ran, so
// the norm invariant cannot be violated by a misbehaving model.
package hyper

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Dimension is the embedding dimension.
const Dimension = 64

// clampMargin rescales out-of-ball vectors to this norm, keeping a margin
// inside the boundary.
const clampMargin = 0.95

// Model is an optional trained projection: feature vector in, vector out.
// Its output carries no norm guarantee; the Embedder clamps it regardless.
type Model interface {
	Project(ctx context.Context, features []float64) ([]float64, error)
}

// Embedder produces embeddings that always satisfy norm < 1.
type Embedder struct {
	model Model
	log   *zap.Logger
}

// New creates an Embedder. The model may be nil, selecting the fallback
// path unconditionally. A nil logger is replaced with a no-op logger.
func New(model Model, log *zap.Logger) *Embedder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Embedder{model: model, log: log}
}

// Embed projects a feature vector into the open unit ball. It never fails:
// model errors and panics fall back to the deterministic projection, and
// every result is clamped before being returned.
func (e *Embedder) Embed(ctx context.Context, features []float64) []float64 {
	if e.model != nil {
		if out, err := e.project(ctx, features); err == nil {
			return ClampToBall(resize(out, Dimension), seedOf(features))
		} else {
			e.log.Warn("embedding model failed, using fallback", zap.Error(err))
		}
	}
	return Fallback(features)
}

// project wraps the model call, converting a panic into an error so a
// misbehaving model degrades to the fallback instead of crashing the run.
func (e *Embedder) project(ctx context.Context, features []float64) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &modelPanicError{value: r}
		}
	}()
	return e.model.Project(ctx, features)
}

type modelPanicError struct{ value any }

func (e *modelPanicError) Error() string { return "embedding model panicked" }

// Fallback is the mandatory, always-correct projection: the first Dimension
// features, uniformly rescaled into the ball when the norm reaches 1. A
// degenerate input (non-finite norm) is replaced by a small pseudo-random
// vector seeded from the input, so the substitute is bit-reproducible.
func Fallback(features []float64) []float64 {
	return ClampToBall(resize(features, Dimension), seedOf(features))
}

// ClampToBall enforces the open-ball invariant on v in place and returns
// it. seed controls the deterministic substitute used for degenerate input.
func ClampToBall(v []float64, seed int64) []float64 {
	norm := floats.Norm(v, 2)
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return substitute(seed)
	}
	if norm >= 1 {
		floats.Scale(clampMargin/norm, v)
	}
	return v
}

// Distance returns the hyperbolic distance between two points of the open
// unit ball:
//
//	d(a, b) = arcosh(1 + 2*|a-b|^2 / ((1-|a|^2) * (1-|b|^2)))
func Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var diff2 float64
	for i := range a {
		d := a[i] - b[i]
		diff2 += d * d
	}
	na := floats.Dot(a, a)
	nb := floats.Dot(b, b)
	denom := (1 - na) * (1 - nb)
	if denom <= 0 {
		return math.Inf(1)
	}
	return math.Acosh(1 + 2*diff2/denom)
}

func resize(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}

// substitute generates a deterministic small vector, every component in
// [-0.01, 0.01), norm well under 1.
func substitute(seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, Dimension)
	for i := range out {
		out[i] = (rng.Float64() - 0.5) / 50
	}
	return out
}

// seedOf hashes the raw feature bits, so NaN-producing inputs still seed
// reproducibly.
func seedOf(features []float64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, f := range features {
		bits := math.Float64bits(f)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}
