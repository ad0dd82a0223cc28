package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devinpereira/Flexin/internal/app"
	"github.com/devinpereira/Flexin/internal/catalog"
	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/predictor"
	"github.com/devinpereira/Flexin/internal/service"
)

type generateOptions struct {
	profile         domain.UserProfile
	catalogPath     string
	predictionsPath string
	withDiagnostics bool
}

var genOpts generateOptions

func init() {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a weekly schedule offline",
		Long: "Generate a weekly schedule from a profile and a catalog file. Focus tags come from a " +
			"predictions file, the configured focus model, or the built-in split templates.",
		Run: runGenerate,
	}
	var goal, experience, equipment string
	cmd.Flags().StringVar(&goal, "goal", string(domain.GoalMuscleGain), "Training goal")
	cmd.Flags().StringVar(&experience, "experience", string(domain.ExperienceBeginner), "Experience level")
	cmd.Flags().IntVar(&genOpts.profile.Age, "age", 30, "Age in years")
	cmd.Flags().IntVar(&genOpts.profile.DaysPerWeek, "days", 3, "Training days per week (1-7)")
	cmd.Flags().StringVar(&equipment, "equipment", "", "Comma-separated equipment list")
	cmd.Flags().StringVar(&genOpts.catalogPath, "catalog", "", "Catalog JSON file (default: catalog.path from config)")
	cmd.Flags().StringVar(&genOpts.predictionsPath, "predictions", "", "JSON file mapping day names to focus tags")
	cmd.Flags().BoolVar(&genOpts.withDiagnostics, "diagnostics", false, "Include engine diagnostics in the output")
	cmd.PreRun = func(*cobra.Command, []string) {
		genOpts.profile.Goal = domain.Goal(strings.ToLower(goal))
		genOpts.profile.Experience = domain.Experience(strings.ToLower(experience))
		if equipment != "" {
			genOpts.profile.Equipment = strings.Split(equipment, ",")
		}
	}

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	path := genOpts.catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		exitErr("load catalog", err)
	}

	vocab := engine.DefaultVocabulary()
	var focus predictor.FocusPredictor
	if genOpts.predictionsPath != "" {
		focus, err = filePredictions(genOpts.predictionsPath)
		if err != nil {
			exitErr("read predictions", err)
		}
	} else {
		var release func()
		focus, release = app.BuildFocusPredictor(cmd.Context(), cfg, vocab, log)
		defer release()
	}

	gen := generator{
		vocab:    vocab,
		catalog:  c,
		focus:    focus,
		strategy: app.BuildLoadStrategy(cfg.Model, vocab),
		log:      log,
	}
	if err := gen.write(cmd.Context(), os.Stdout, genOpts.profile, genOpts.withDiagnostics); err != nil {
		exitErr("generate", err)
	}
}

// generator runs one offline generation. It is separate from the command for testing.
type generator struct {
	vocab    engine.Vocabulary
	catalog  engine.Catalog
	focus    predictor.FocusPredictor
	strategy engine.LoadStrategy
	log      *logger.Logger
}

type generateOutput struct {
	VocabularyVersion string                `json:"vocabulary_version"`
	Strategy          string                `json:"strategy"`
	Schedule          domain.WeeklySchedule `json:"schedule"`
	Diagnostics       []domain.Diagnostic   `json:"diagnostics,omitempty"`
}

type collectSink struct{ events []domain.Diagnostic }

func (s *collectSink) Record(d domain.Diagnostic) { s.events = append(s.events, d) }

func (g generator) write(ctx context.Context, w io.Writer, profile domain.UserProfile, withDiagnostics bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := service.ValidateProfile(profile); err != nil {
		return err
	}
	log := g.log
	if log == nil {
		log = logger.Nop()
	}
	preds, err := g.focus.PredictFocus(ctx, profile, g.vocab.FocusRow(profile))
	if err != nil {
		log.Warn("Focus prediction failed, continuing without focus", "error", err)
		preds = engine.FocusPredictions{}
	}

	sink := &collectSink{}
	e := engine.New(g.vocab, engine.DefaultFocusTable(), sink, log)
	out := generateOutput{
		VocabularyVersion: g.vocab.Version,
		Strategy:          g.strategy.Name(),
		Schedule:          e.Assemble(ctx, profile, preds, g.catalog, g.strategy),
	}
	if withDiagnostics {
		out.Diagnostics = sink.events
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// staticPredictions serves focus tags read from a file.
type staticPredictions engine.FocusPredictions

func (p staticPredictions) PredictFocus(context.Context, domain.UserProfile, []float64) (engine.FocusPredictions, error) {
	return engine.FocusPredictions(p), nil
}

func filePredictions(path string) (staticPredictions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, err
	}
	return staticPredictions(engine.FocusPredictionsFromRaw(loose)), nil
}
