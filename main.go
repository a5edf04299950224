package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/oneshot2001/axisfinder/internal/config"
	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/fuzzy"
	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/output"
	"github.com/oneshot2001/axisfinder/internal/query"
	"github.com/oneshot2001/axisfinder/internal/resolve"
	"github.com/oneshot2001/axisfinder/internal/search"
	"github.com/oneshot2001/axisfinder/internal/sentry"
	"github.com/oneshot2001/axisfinder/internal/stats"
	"github.com/oneshot2001/axisfinder/internal/tui"
)

var (
	version = "0.2.0"
	commit  = "release"
	date    = "2026-08-30"
)

// services bundles the constructed lookups. Everything is built once at
// startup from the dataset snapshots and injected into commands; there
// are no lazily-initialized singletons to call too early.
type services struct {
	crossref    *dataset.CrossRef
	specs       *dataset.SpecDatabase
	accessories *dataset.AccessoryDatabase
	msrp        dataset.MSRPDatabase

	engine     *search.Engine
	urls       resolve.URLResolver
	specLookup resolve.SpecLookup
	msrpLookup resolve.MSRPLookup
	accLookup  resolve.AccessoryLookup
}

func buildServices(cfg *config.Config) (*services, error) {
	crossref, err := dataset.LoadCrossRef(cfg.DatasetPath(cfg.Datasets.CrossRef))
	if err != nil {
		return nil, fmt.Errorf("failed to load crossref dataset: %w", err)
	}
	specs, err := dataset.LoadSpecs(cfg.DatasetPath(cfg.Datasets.Specs))
	if err != nil {
		return nil, fmt.Errorf("failed to load spec dataset: %w", err)
	}
	accessories, err := dataset.LoadAccessories(cfg.DatasetPath(cfg.Datasets.Accessories))
	if err != nil {
		return nil, fmt.Errorf("failed to load accessory dataset: %w", err)
	}
	msrp, err := dataset.LoadMSRP(cfg.DatasetPath(cfg.Datasets.MSRP))
	if err != nil {
		return nil, fmt.Errorf("failed to load msrp dataset: %w", err)
	}
	verified, err := dataset.LoadStringMap(cfg.DatasetPath(cfg.Datasets.VerifiedURLs))
	if err != nil {
		return nil, fmt.Errorf("failed to load verified url table: %w", err)
	}
	aliases, err := dataset.LoadStringMap(cfg.DatasetPath(cfg.Datasets.Aliases))
	if err != nil {
		return nil, fmt.Errorf("failed to load alias table: %w", err)
	}

	discontinued := make(map[string]bool, len(crossref.LegacyDatabase.Mappings))
	for _, lm := range crossref.LegacyDatabase.Mappings {
		discontinued[lm.LegacyModel] = true
	}

	urls := resolve.NewProductURLResolver(verified, aliases, discontinued)
	engine, err := search.NewEngine(crossref, urls, search.Options{
		SuggestionLimit: cfg.Search.SuggestionLimit,
		ChunkSize:       cfg.Search.ChunkSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build search engine: %w", err)
	}

	return &services{
		crossref:    crossref,
		specs:       specs,
		accessories: accessories,
		msrp:        msrp,
		engine:      engine,
		urls:        urls,
		specLookup:  resolve.NewProductSpecLookup(specs),
		msrpLookup:  resolve.NewPriceLookup(msrp),
		accLookup:   resolve.NewCompatAccessoryLookup(accessories),
	}, nil
}

func (s *services) close() {
	if s.engine != nil {
		_ = s.engine.Close()
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if sentry.IsEnabled() {
				sentry.CaptureError(fmt.Errorf("panic: %v", r), "main", "panic_recovery")
				sentry.Flush(2 * time.Second)
			}
			fmt.Fprintf(os.Stderr, "axisfinder encountered a fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	cfg, err := config.Load(os.Getenv("AXF_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Data directory override for containers, CI, and test isolation.
	if dataDir := os.Getenv("AXF_DATA_DIR"); dataDir != "" {
		if !filepath.IsAbs(dataDir) {
			fmt.Fprintf(os.Stderr, "AXF_DATA_DIR must be an absolute path, got: %s\n", dataDir)
			os.Exit(1)
		}
		cfg.DataDir = dataDir
	}

	if err := logger.Init(&logger.Config{
		Level:     cfg.Logger.Level,
		Output:    cfg.Logger.Output,
		Color:     cfg.Logger.Color,
		Timestamp: cfg.Logger.Timestamp,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := sentry.Initialize(cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize error monitoring: %v\n", err)
	}
	defer sentry.Close()

	rootCmd := newRootCmd(cfg)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var verbose, quiet, noColor, jsonOut bool

	rootCmd := &cobra.Command{
		Use:   "axf",
		Short: "Cross-reference competitor camera models to Axis replacements",
		Long: `axisfinder resolves competitor, legacy, and current camera model
strings to canonical Axis replacement records with a confidence grade,
then looks up product URLs, specs, accessories, and list prices through
a deterministic fallback cascade.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output JSON")

	formatter := func() *output.Formatter {
		f := output.NewFormatter(cfg)
		f.SetFlags(verbose, quiet, noColor, jsonOut)
		return f
	}

	rootCmd.AddCommand(
		newSearchCmd(cfg, formatter),
		newBatchCmd(cfg, formatter),
		newResolveCmd(cfg, formatter),
		newSpecCmd(cfg, formatter),
		newAccessoriesCmd(cfg, formatter),
		newMSRPCmd(cfg, formatter),
		newStatsCmd(cfg, formatter),
		newEnrichCmd(cfg, formatter),
		newTUICmd(cfg),
		newVersionCmd(formatter),
	)
	return rootCmd
}

func newSearchCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	var voice bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search for an Axis replacement",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()
			q := strings.Join(args, " ")
			if len(strings.TrimSpace(q)) < cfg.Search.MinQueryLength {
				f.Error("query too short (minimum %d characters)", cfg.Search.MinQueryLength)
				return fmt.Errorf("query too short")
			}

			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			if voice {
				normalized := fuzzy.NormalizeVoice(q)
				if normalized != q {
					f.Verbose("voice input normalized: %q -> %q", q, normalized)
				}
				q = normalized
			}

			resp := svc.engine.Search(q)
			f.PrintResponse(resp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&voice, "voice", false, "treat the query as voice-transcribed text")
	return cmd
}

func newBatchCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Search a batch of models from a file or stdin",
		Long: `Reads model strings, one per line (or separated by commas,
semicolons, or tabs), and searches each. Duplicate entries are only
searched once. Input past the batch cap is dropped with a warning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()

			var text string
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					f.Error("failed to read batch file: %v", err)
					return err
				}
				text = string(data)
			} else {
				var b strings.Builder
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					b.WriteString(scanner.Text())
					b.WriteString("\n")
				}
				text = b.String()
			}

			queries := query.ParseBatchInput(text, cfg.Search.MaxBatchSize)
			if valid, reason := query.ValidateBatch(queries, cfg.Search.MaxBatchSize); !valid {
				f.Error("invalid batch: %s", reason)
				return fmt.Errorf("invalid batch: %s", reason)
			}
			supplied := countEntries(text)
			if supplied > len(queries) {
				f.Warning("batch truncated to %d queries (%d supplied)", len(queries), supplied)
			}

			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			jobID := uuid.New().String()
			f.Verbose("batch job %s: %d queries", jobID, len(queries))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			started := time.Now()
			results, err := svc.engine.SearchBatch(ctx, queries)
			if err != nil {
				f.Warning("batch cancelled after %d of %d queries", len(results), len(queries))
			}
			logger.GetLogger().Search().Performance("batch_search", time.Since(started), map[string]interface{}{
				"job_id":  jobID,
				"queries": len(queries),
			})

			if f.JSONMode() {
				return f.JSON(results)
			}
			for _, q := range queries {
				resp, ok := results[q]
				if !ok {
					continue
				}
				f.PrintResponse(resp)
				fmt.Println()
			}
			return nil
		},
	}
	return cmd
}

// countEntries counts non-empty entries in raw batch text, before the
// cap, so the truncation warning can say how much was dropped.
func countEntries(text string) int {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ';' || r == '\t'
	})
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func newResolveCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [model]",
		Short: "Resolve an Axis model to its product page URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()
			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			f.PrintURLResult(args[0], svc.urls.Resolve(args[0]))
			return nil
		},
	}
}

func newSpecCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "spec [model]",
		Short: "Look up catalog specs for an Axis model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()
			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			res := svc.specLookup.Lookup(args[0])
			if f.JSONMode() {
				return f.JSON(res)
			}
			if res.Confidence == resolve.ConfidenceNone {
				f.Warning("no spec data for %s", args[0])
				return nil
			}
			s := res.Spec
			f.Info("%s (%s)", res.MatchedKey, res.Confidence)
			f.PrintWarningBanner(res.Warning)
			fmt.Printf("  type: %s\n", s.ProductType)
			if s.CameraSubtype != "" {
				fmt.Printf("  subtype: %s\n", s.CameraSubtype)
			}
			if s.Resolution != "" {
				fmt.Printf("  resolution: %s\n", s.Resolution)
			}
			if s.MaxFPS > 0 {
				fmt.Printf("  max fps: %d\n", s.MaxFPS)
			}
			if s.Codecs != "" {
				fmt.Printf("  codecs: %s\n", s.Codecs)
			}
			if s.Power != "" {
				fmt.Printf("  power: %s\n", s.Power)
			}
			if s.Chipset != "" {
				fmt.Printf("  chipset: %s\n", s.Chipset)
			}
			if s.Sensor != "" {
				fmt.Printf("  sensor: %s\n", s.Sensor)
			}
			return nil
		},
	}
}

func newAccessoriesCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	var accType, placement string
	var recommended, mountPair bool

	cmd := &cobra.Command{
		Use:   "accessories [camera-model]",
		Short: "List compatible accessories for a camera model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()
			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			camera := args[0]
			res := svc.accLookup.ResolveWithConfidence(camera)
			if res.Confidence == resolve.ConfidenceNone {
				f.Warning("no accessory data for %s", camera)
				return nil
			}
			f.PrintWarningBanner(res.Warning)

			if mountPair {
				if placement == "" {
					f.Error("--mount-pair requires --placement")
					return fmt.Errorf("missing placement")
				}
				best := svc.accLookup.ResolveMountPair(camera, placement)
				if best == nil {
					f.Warning("no %s mount found for %s", placement, camera)
					return nil
				}
				if f.JSONMode() {
					return f.JSON(best)
				}
				extra := ""
				if best.RequiresAdditional {
					extra = " (requires additional accessory)"
				}
				f.Success("%s  tier=%s%s", best.Model, best.Tier, extra)
				return nil
			}

			entries := res.Accessories
			switch {
			case recommended:
				entries = svc.accLookup.Recommended(camera)
			case placement != "":
				entries = svc.accLookup.MountsByPlacement(camera, placement)
			case accType != "":
				entries = svc.accLookup.ByType(camera, accType)
			}

			if f.JSONMode() {
				return f.JSON(entries)
			}
			for _, e := range entries {
				line := fmt.Sprintf("  %-16s %-8s tier=%s", e.Model, e.Type, e.Tier)
				if e.MountPlacement != "" {
					line += " placement=" + e.MountPlacement
				}
				if e.RequiresAdditional {
					line += " +requires-additional"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&accType, "type", "", "filter by accessory type (mount, power, cables, ...)")
	cmd.Flags().StringVar(&placement, "placement", "", "filter mounts by placement (pole, wall, corner, ...)")
	cmd.Flags().BoolVar(&recommended, "recommended", false, "show only recommended accessories")
	cmd.Flags().BoolVar(&mountPair, "mount-pair", false, "pick the best mount for the placement")
	return cmd
}

func newMSRPCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "msrp [model]",
		Short: "Look up the list price for an Axis model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()
			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			res := svc.msrpLookup.Lookup(args[0])
			if f.JSONMode() {
				return f.JSON(res)
			}
			if res.Confidence == resolve.ConfidenceNone {
				f.Warning("price unknown for %s", args[0])
				return nil
			}
			f.Success("%s  $%.2f  %s (%s)", res.MatchedKey, res.Entry.MSRP, res.Entry.Description, res.Confidence)
			return nil
		},
	}
}

func newStatsCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dataset coverage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()
			svc, err := buildServices(cfg)
			if err != nil {
				f.Error("%v", err)
				return err
			}
			defer svc.close()

			report := stats.Collect(svc.crossref, svc.specs, svc.accessories, svc.msrp)
			if f.JSONMode() {
				return f.JSON(report)
			}

			f.Info("mappings: %d  legacy: %d  replacement models: %d",
				report.TotalMappings, report.LegacyMappings, report.Coverage.ReplacementModels)
			fmt.Println("confidence distribution:")
			for _, b := range report.ConfidenceBuckets {
				fmt.Printf("  %-7s %d\n", b.Label, b.Count)
			}
			fmt.Printf("coverage: specs %.0f%%  accessories %.0f%%  msrp %.0f%%\n",
				report.Coverage.SpecCoverage*100, report.Coverage.AccessoryCoverage*100, report.Coverage.MSRPCoverage*100)
			fmt.Println("manufacturers:")
			for _, m := range report.Manufacturers {
				fmt.Printf("  %-16s %4d mappings  avg confidence %.0f  ndaa=%s\n",
					m.Manufacturer, m.Mappings, m.AvgConfidence, m.NDAACategory)
			}
			return nil
		},
	}
}

func newEnrichCmd(cfg *config.Config, formatter func() *output.Formatter) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "enrich [subtype-overlay.json]",
		Short: "Fill missing camera subtypes in the spec dataset from an overlay file",
		Long: `Reads a flat JSON map of model key to camera subtype and fills the
gaps in the spec dataset. Populated subtypes and non-camera entries are
never touched. Without --write the enriched dataset is printed instead
of saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter()

			specPath := cfg.DatasetPath(cfg.Datasets.Specs)
			specs, err := dataset.LoadSpecs(specPath)
			if err != nil {
				f.Error("failed to load spec dataset: %v", err)
				return err
			}
			overlay, err := dataset.LoadStringMap(args[0])
			if err != nil {
				f.Error("failed to load subtype overlay: %v", err)
				return err
			}

			enriched, filled := dataset.EnrichSubtypes(specs, overlay)
			f.Info("filled %d camera subtypes (%d products, %d overlay entries)",
				filled, len(enriched.Products), len(overlay))

			if !write {
				return f.JSON(enriched)
			}
			data, err := json.MarshalIndent(enriched, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(specPath, data, 0o644); err != nil {
				f.Error("failed to write spec dataset: %v", err)
				return err
			}
			f.Success("wrote %s", specPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "write the enriched dataset back in place")
	return cmd
}

func newTUICmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [query]",
		Short: "Interactive search",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildServices(cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			return tui.Run(cfg, tui.Services{
				Engine:      svc.engine,
				URLs:        svc.urls,
				Specs:       svc.specLookup,
				MSRP:        svc.msrpLookup,
				Accessories: svc.accLookup,
			}, tui.Options{InitialQuery: initial})
		},
	}
}

func newVersionCmd(formatter func() *output.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			f := formatter()
			if f.JSONMode() {
				_ = f.JSON(map[string]string{"version": version, "commit": commit, "date": date})
				return
			}
			fmt.Printf("axisfinder %s (%s, %s)\n", version, commit, date)
		},
	}
}
