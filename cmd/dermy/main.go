package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adityasingh03rajput/dermy-buddy/internal/httpapi"
	"github.com/adityasingh03rajput/dermy-buddy/knowledge"
	"github.com/adityasingh03rajput/dermy-buddy/triage"
)

var configPath string

func main() {
	// Optional: environment overrides such as DERMY_CONFIG live in .env.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "dermy",
		Short: "Skin-condition triage pipeline and advisory chat",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("DERMY_CONFIG"), "path to config.json")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(buildIndexCmd())
	rootCmd.AddCommand(knowledgeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEngine builds the conversational engine, preferring a knowledge
// file from config and falling back to the built-in document. A present
// but malformed file is fatal rather than silently replaced.
func loadEngine(cfg triage.Config) (*knowledge.Engine, error) {
	var store *knowledge.Store
	var err error
	if cfg.KnowledgePath != "" {
		store, err = knowledge.LoadStore(cfg.KnowledgePath)
	} else {
		store, err = knowledge.NewStore(knowledge.DefaultDocument())
	}
	if err != nil {
		return nil, fmt.Errorf("load knowledge: %w", err)
	}
	return knowledge.NewEngine(store, nil, nil), nil
}

// loadPipeline assembles the full diagnosis pipeline from config. Any
// missing model or reference file aborts startup.
func loadPipeline(cfg triage.Config, engine *knowledge.Engine, logger *log.Logger) (*triage.Pipeline, func(), error) {
	detector, err := triage.NewOrtDetector(cfg.OrtLibrary, cfg.Detector)
	if err != nil {
		return nil, nil, fmt.Errorf("init detector: %w", err)
	}
	classifier, err := triage.NewOrtClassifier(cfg.OrtLibrary, cfg.Classifier)
	if err != nil {
		detector.Close()
		return nil, nil, fmt.Errorf("init classifier: %w", err)
	}
	embedder, err := triage.NewOrtEmbedder(cfg.OrtLibrary, cfg.Embedder)
	if err != nil {
		detector.Close()
		classifier.Close()
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}
	closeAll := func() {
		detector.Close()
		classifier.Close()
		embedder.Close()
	}

	entries, err := triage.LoadReferenceSet(cfg.Index.ReferencePath)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("load reference set: %w", err)
	}
	index := triage.NewReferenceIndex(entries, cfg.Index.Threshold)

	pipeline, err := triage.NewPipeline(detector, classifier, embedder, index, cfg.Detector.AllowList, engine, logger)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return pipeline, closeAll, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP triage service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := triage.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := log.New(os.Stdout, "", log.LstdFlags)

			engine, err := loadEngine(cfg)
			if err != nil {
				return err
			}
			pipeline, closeAll, err := loadPipeline(cfg, engine, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			logger.Printf("listening on %s", cfg.ListenAddr)
			return httpapi.NewServer(pipeline, engine, logger).ListenAndServe(cfg.ListenAddr)
		},
	}
}

func diagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose FILE",
		Short: "Run one image through the triage pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := triage.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			engine, err := loadEngine(cfg)
			if err != nil {
				return err
			}
			logger := log.New(os.Stderr, "", log.LstdFlags)
			pipeline, closeAll, err := loadPipeline(cfg, engine, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			result, err := pipeline.DiagnoseBytes(cmd.Context(), data)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
}

func printResult(r triage.DiagnosisResult) {
	fmt.Printf("Body part:  %s\n", r.BodyPart)
	if r.Classification.OK() {
		fmt.Printf("Condition:  %s (%.2f%%)\n", r.Classification.Label, r.Classification.Confidence)
		fmt.Printf("Urgency:    %s\n", r.Tier)
	} else {
		fmt.Printf("Condition:  unavailable (%s)\n", r.Classification.Err)
	}
	if r.Similarity.Matched {
		fmt.Printf("Lookalike:  %s (similarity %.3f)\n", r.Similarity.ReferenceID, r.Similarity.Score)
	} else {
		fmt.Printf("Lookalike:  none above threshold (best %.3f)\n", r.Similarity.BestScore)
	}
	if r.Advice != "" {
		fmt.Printf("\n%s\n", r.Advice)
	}
	if r.ConditionInfo != "" {
		fmt.Printf("\n%s\n", r.ConditionInfo)
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive advisory chat on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := triage.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			engine, err := loadEngine(cfg)
			if err != nil {
				return err
			}
			fmt.Println("Ask about a skin condition (empty line to quit).")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					return nil
				}
				reply, err := engine.Respond(line)
				if err != nil {
					fmt.Println("error:", err)
					continue
				}
				fmt.Println(reply)
				fmt.Println()
			}
		},
	}
}

func buildIndexCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build-index DIR",
		Short: "Embed every image under DIR and write the reference set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := triage.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if output == "" {
				output = cfg.Index.ReferencePath
			}
			if output == "" {
				return fmt.Errorf("no output path: set --output or index.referencePath")
			}
			embedder, err := triage.NewOrtEmbedder(cfg.OrtLibrary, cfg.Embedder)
			if err != nil {
				return fmt.Errorf("init embedder: %w", err)
			}
			defer embedder.Close()

			entries, err := buildReferenceSet(cmd.Context(), embedder, args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no decodable images under %s", args[0])
			}
			if err := triage.SaveReferenceSet(output, entries); err != nil {
				return err
			}
			fmt.Printf("wrote %d reference embeddings to %s\n", len(entries), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "reference set path (default: index.referencePath from config)")
	return cmd
}

// buildReferenceSet walks DIR in sorted order so the reference file, and
// therefore tie-breaking in the index, is reproducible across rebuilds.
func buildReferenceSet(ctx context.Context, embedder triage.ImageEmbedder, dir string) ([]triage.ReferenceEntry, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	var entries []triage.ReferenceEntry
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		img, err := triage.DecodeImage(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		vec, err := embedder.Embed(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("embed %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		entries = append(entries, triage.ReferenceEntry{ID: rel, Vector: vec})
	}
	return entries, nil
}

func knowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Knowledge base utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the built-in knowledge document for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "dermatology_knowledge.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", path)
			}
			if err := knowledge.SaveDocument(path, knowledge.DefaultDocument()); err != nil {
				return err
			}
			fmt.Printf("wrote default knowledge document to %s\n", path)
			return nil
		},
	})
	return cmd
}
