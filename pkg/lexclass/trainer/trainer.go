package trainer

import (
	"context"

	"go.uber.org/zap"

	"github.com/cognicore/lexclass/pkg/lexclass/exchange"
)

// Trainer runs the exchange algorithm: repeated sweeps over every
// non-reserved word, moving each to the class where it improves the
// corpus log likelihood the most. The model's evaluator and mover stay
// permissive about reserved words and classes; keeping <s>, </s> and
// <UNK> pinned is this driver's policy.
type Trainer struct {
	model    *exchange.Model
	log      *zap.Logger
	minDelta float64
	maxIter  int
}

// IterationStats describes one full sweep.
type IterationStats struct {
	Iteration     int
	Moves         int
	Delta         float64
	LogLikelihood float64
}

// Options configures a Trainer.
type Options struct {
	// MinDelta is the smallest improvement worth applying. Zero means
	// any positive delta moves the word.
	MinDelta float64
	// MaxIterations bounds the number of sweeps. Zero means 20.
	MaxIterations int
	// Logger receives per-iteration progress. Nil disables logging.
	Logger *zap.Logger
}

// New creates a trainer over a freshly built model.
func New(model *exchange.Model, opts Options) *Trainer {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Trainer{
		model:    model,
		log:      opts.Logger,
		minDelta: opts.MinDelta,
		maxIter:  opts.MaxIterations,
	}
}

// Run sweeps until a full pass makes no move or the iteration limit is
// reached, and returns the per-iteration stats. The context is checked
// between words, so cancellation leaves the model consistent after the
// last applied move.
func (t *Trainer) Run(ctx context.Context) ([]IterationStats, error) {
	var stats []IterationStats
	for iter := 1; iter <= t.maxIter; iter++ {
		moves, delta, err := t.sweep(ctx)
		if err != nil {
			return stats, err
		}
		st := IterationStats{
			Iteration:     iter,
			Moves:         moves,
			Delta:         delta,
			LogLikelihood: t.model.LogLikelihood(),
		}
		stats = append(stats, st)
		t.log.Info("exchange iteration",
			zap.Int("iteration", st.Iteration),
			zap.Int("moves", st.Moves),
			zap.Float64("delta", st.Delta),
			zap.Float64("log_likelihood", st.LogLikelihood),
		)
		if moves == 0 {
			break
		}
	}
	return stats, nil
}

// sweep visits every non-reserved word once and applies the best
// strictly-improving move, if any.
func (t *Trainer) sweep(ctx context.Context) (int, float64, error) {
	moves := 0
	total := 0.0
	for word := exchange.NumReservedClasses; word < t.model.VocabSize(); word++ {
		if err := ctx.Err(); err != nil {
			return moves, total, err
		}
		current, err := t.model.ClassOf(word)
		if err != nil {
			return moves, total, err
		}

		bestClass := current
		bestDelta := t.minDelta
		for class := exchange.NumReservedClasses; class < t.model.NumClasses(); class++ {
			if class == current {
				continue
			}
			delta, err := t.model.EvaluateMove(word, class)
			if err != nil {
				return moves, total, err
			}
			if delta > bestDelta {
				bestClass = class
				bestDelta = delta
			}
		}

		if bestClass != current {
			if err := t.model.Move(word, bestClass); err != nil {
				return moves, total, err
			}
			moves++
			total += bestDelta
		}
	}
	return moves, total, nil
}
