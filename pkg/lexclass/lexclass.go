package lexclass

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/lexclass/pkg/lexclass/corpus"
	"github.com/cognicore/lexclass/pkg/lexclass/exchange"
	"github.com/cognicore/lexclass/pkg/lexclass/store"
	"github.com/cognicore/lexclass/pkg/lexclass/trainer"
)

// Clusterer is the main word-clustering facade: it scans a corpus,
// builds the exchange model, runs the trainer and persists the result.
type Clusterer struct {
	store   store.Store
	log     *zap.Logger
	opts    Options
	entropy *ulid.MonotonicEntropy
}

// Options configures a Clusterer.
type Options struct {
	// Store receives runs and assignments. Nil disables persistence.
	Store store.Store
	// Logger receives progress. Nil disables logging.
	Logger *zap.Logger
	// Classes is the number of free classes to learn.
	Classes int
	// MaxIterations bounds the exchange sweeps.
	MaxIterations int
	// MinDelta is the smallest improvement worth a move.
	MinDelta float64
	// Normalizer preprocesses corpus tokens. Nil is identity.
	Normalizer *corpus.Normalizer
	// CorpusLabel names the corpus in stored runs.
	CorpusLabel string
}

// New creates a Clusterer with the given dependencies.
func New(opts Options) *Clusterer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Clusterer{
		store:   opts.Store,
		log:     log,
		opts:    opts,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the Clusterer.
func (c *Clusterer) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// TrainResult is the outcome of one clustering run.
type TrainResult struct {
	RunID         string
	Iterations    []trainer.IterationStats
	LogLikelihood float64
	// Classes maps each class id to its member words, reserved
	// classes included.
	Classes map[int][]string
}

// Train clusters the corpus lines into classes. The optional restrict
// set limits the vocabulary; out-of-vocabulary tokens count as <UNK>.
func (c *Clusterer) Train(ctx context.Context, lines []string, restrict map[string]struct{}) (TrainResult, error) {
	stats := corpus.Scan(lines, corpus.ScanOptions{
		Restrict:   restrict,
		Normalizer: c.opts.Normalizer,
	})
	model, err := exchange.New(stats, c.opts.Classes)
	if err != nil {
		return TrainResult{}, err
	}

	runID := ulid.MustNew(ulid.Now(), c.entropy).String()
	started := time.Now()
	c.log.Info("training started",
		zap.String("run_id", runID),
		zap.Int("vocab_size", model.VocabSize()),
		zap.Int("classes", model.NumClasses()),
		zap.Int64("tokens", model.Tokens()),
	)

	if c.store != nil {
		err := c.store.CreateRun(ctx, store.Run{
			ID:        runID,
			Corpus:    c.opts.CorpusLabel,
			Classes:   model.NumClasses(),
			VocabSize: model.VocabSize(),
			Tokens:    model.Tokens(),
			StartedAt: started,
		})
		if err != nil {
			return TrainResult{}, err
		}
	}

	tr := trainer.New(model, trainer.Options{
		MinDelta:      c.opts.MinDelta,
		MaxIterations: c.opts.MaxIterations,
		Logger:        c.log,
	})
	iterations, err := tr.Run(ctx)
	if err != nil {
		return TrainResult{}, err
	}

	result := TrainResult{
		RunID:         runID,
		Iterations:    iterations,
		LogLikelihood: model.LogLikelihood(),
		Classes:       classListing(model),
	}

	if c.store != nil {
		for _, it := range iterations {
			err := c.store.AppendIteration(ctx, runID, store.Iteration{
				Iteration:     it.Iteration,
				Moves:         it.Moves,
				Delta:         it.Delta,
				LogLikelihood: it.LogLikelihood,
			})
			if err != nil {
				return TrainResult{}, err
			}
		}
		if err := c.store.PutAssignments(ctx, runID, assignmentListing(model)); err != nil {
			return TrainResult{}, err
		}
		err := c.store.FinishRun(ctx, runID, time.Now(), result.LogLikelihood, len(iterations))
		if err != nil {
			return TrainResult{}, err
		}
	}

	c.log.Info("training finished",
		zap.String("run_id", runID),
		zap.Int("iterations", len(iterations)),
		zap.Float64("log_likelihood", result.LogLikelihood),
	)
	return result, nil
}

func classListing(model *exchange.Model) map[int][]string {
	vocab := model.Vocab()
	classes := make(map[int][]string, model.NumClasses())
	for class := 0; class < model.NumClasses(); class++ {
		members, err := model.WordsIn(class)
		if err != nil {
			continue
		}
		words := make([]string, 0, len(members))
		for _, id := range members {
			words = append(words, vocab.Word(id))
		}
		classes[class] = words
	}
	return classes
}

func assignmentListing(model *exchange.Model) []store.Assignment {
	vocab := model.Vocab()
	assignments := make([]store.Assignment, 0, model.VocabSize())
	for word, class := range model.Assignments() {
		assignments = append(assignments, store.Assignment{
			Word:  vocab.Word(word),
			Class: class,
		})
	}
	return assignments
}
