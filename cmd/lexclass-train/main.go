package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"

	"github.com/cognicore/lexclass/pkg/lexclass"
	"github.com/cognicore/lexclass/pkg/lexclass/config"
	"github.com/cognicore/lexclass/pkg/lexclass/corpus"
	"github.com/cognicore/lexclass/pkg/lexclass/store"
	"github.com/cognicore/lexclass/pkg/lexclass/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		corpusPath = flag.String("corpus", "", "Path to corpus, one sentence per line")
		vocabPath  = flag.String("vocabulary", "", "Optional: restriction vocabulary, one word per line")
		classes    = flag.Int("classes", 0, "Number of classes to learn")
		dbPath     = flag.String("db", "", "Optional: sqlite database for results")
		fromHTML   = flag.Bool("html", false, "Treat the corpus file as HTML and extract its text")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}
		cfg = loaded
	}
	if *corpusPath != "" {
		cfg.Corpus = *corpusPath
	}
	if *vocabPath != "" {
		cfg.Vocabulary = *vocabPath
	}
	if *classes > 0 {
		cfg.Classes = *classes
	}
	if *dbPath != "" {
		cfg.Store = *dbPath
	}
	if cfg.Corpus == "" {
		log.Fatal("--corpus required")
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	normalizer := &corpus.Normalizer{
		Lowercase:    cfg.Normalize.Lowercase,
		NFC:          cfg.Normalize.NFC,
		StemLanguage: cfg.Normalize.Stem,
	}

	lines, err := readCorpus(cfg.Corpus, *fromHTML)
	if err != nil {
		logger.Fatal("Failed to read corpus", zap.String("path", cfg.Corpus), zap.Error(err))
	}

	var restrict map[string]struct{}
	if cfg.Vocabulary != "" {
		f, err := os.Open(cfg.Vocabulary)
		if err != nil {
			logger.Fatal("Failed to open vocabulary", zap.String("path", cfg.Vocabulary), zap.Error(err))
		}
		restrict, err = corpus.ReadRestriction(f, normalizer)
		f.Close()
		if err != nil {
			logger.Fatal("Failed to read vocabulary", zap.Error(err))
		}
	}

	var st store.Store
	if cfg.Store != "" {
		st, err = sqlite.Open(ctx, cfg.Store)
		if err != nil {
			logger.Fatal("Failed to open store", zap.String("path", cfg.Store), zap.Error(err))
		}
	}

	clusterer := lexclass.New(lexclass.Options{
		Store:         st,
		Logger:        logger,
		Classes:       cfg.Classes,
		MaxIterations: cfg.MaxIterations,
		MinDelta:      cfg.MinDelta,
		Normalizer:    normalizer,
		CorpusLabel:   cfg.Corpus,
	})
	defer clusterer.Close()

	result, err := clusterer.Train(ctx, lines, restrict)
	if err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}

	printClasses(result)
	if cfg.Store != "" {
		fmt.Printf("\nrun %s saved to %s\n", result.RunID, cfg.Store)
	}
}

func readCorpus(path string, fromHTML bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if fromHTML {
		return corpus.ExtractHTML(f)
	}
	return corpus.ReadLines(f)
}

func printClasses(result lexclass.TrainResult) {
	ids := make([]int, 0, len(result.Classes))
	for id := range result.Classes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Printf("log likelihood: %.4f\n", result.LogLikelihood)
	for _, id := range ids {
		words := result.Classes[id]
		if len(words) == 0 {
			continue
		}
		fmt.Printf("class %d:", id)
		for _, w := range words {
			fmt.Printf(" %s", w)
		}
		fmt.Println()
	}
}
