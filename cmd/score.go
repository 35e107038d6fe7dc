package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/similarity"
	"github.com/spigell/resume-matcher/internal/utils"
)

const promptAllJobs = "All postings"

var errNoJobs = errors.New("no job postings given (use --job or --jobs-dir)")

var jobExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
}

// selectJob asks the user to pick one of the postings.
var selectJob = func(paths []string) (string, error) {
	prompt := promptui.Select{
		Label: "Which posting should be scored?",
		Items: append([]string{promptAllJobs}, paths...),
		Size:  10,
	}
	_, choice, err := prompt.Run()
	return choice, err
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against one or more job postings",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

// Evaluation is the score of the resume against a single posting.
type Evaluation struct {
	Job    string                `json:"job"`
	Result *matching.ScoreResult `json:"result"`
}

type scoreRequest struct {
	resume    string
	jobs      []string
	overrides extract.JobOverrides
	weights   matching.WeightConfig
	workers   int
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume text file")
	scoreCmd.Flags().StringSlice("job", nil, "job posting text file, may be repeated")
	scoreCmd.Flags().String("jobs-dir", "", "directory with job posting text files")
	scoreCmd.Flags().BoolP("all", "a", false, "score every posting in --jobs-dir without asking")
	scoreCmd.Flags().String("required-skills", "", "comma separated skills that replace the extracted ones")
	scoreCmd.Flags().Int("experience-required", 0, "years of experience that replace the extracted requirement")
	scoreCmd.Flags().Int("workers", 0, "number of postings scored concurrently")

	scoreCmd.MarkFlagRequired("resume")

	viper.BindPFlag("workers", scoreCmd.Flags().Lookup("workers"))
}

func score(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	jobs, err := collectJobs(cmd)
	if err != nil {
		logger.Fatal("collecting job postings", zap.Error(err))
	}

	embedder, err := newEmbedder(ctx, config.Embedding, logger)
	if err != nil {
		logger.Fatal("building embedder", zap.Error(err))
	}

	scorer := similarity.NewDefault(embedder, logger)
	for _, status := range scorer.Describe() {
		logger.Debug("similarity tier",
			zap.String("tier", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	requiredSkills, _ := cmd.Flags().GetString("required-skills")
	experienceRequired, _ := cmd.Flags().GetInt("experience-required")
	resume, _ := cmd.Flags().GetString("resume")

	req := scoreRequest{
		resume: resume,
		jobs:   jobs,
		overrides: extract.JobOverrides{
			RequiredSkills:     utils.SplitList(requiredSkills),
			ExperienceRequired: experienceRequired,
		},
		weights: *config.Weights,
		workers: config.Workers,
	}

	engine := matching.New(scorer, logger)
	evaluations, err := evaluate(ctx, engine, extract.New(), req, config.Embedding.MaxLogLength, logger)
	if err != nil {
		logger.Fatal("scoring resume", zap.Error(err))
	}

	if err := writeEvaluations(cmd.OutOrStdout(), evaluations); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}
}

// evaluate scores the resume against every posting concurrently. Results keep
// the order of req.jobs.
func evaluate(ctx context.Context, engine *matching.Engine, extractor *extract.Extractor, req scoreRequest, maxLogLength int, logger *zap.Logger) ([]Evaluation, error) {
	if len(req.jobs) == 0 {
		return nil, errNoJobs
	}

	resumeText, err := readText(req.resume)
	if err != nil {
		return nil, err
	}
	resume := extractor.ResumeFacts(resumeText)

	logger.Debug("resume extracted",
		zap.String("file", req.resume),
		zap.Strings("skills", resume.Skills.Items()),
		zap.Int("experience_years", resume.ExperienceYears),
		zap.String("content", utils.TruncateForLog(resume.Content, maxLogLength)),
	)

	workers := req.workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]Evaluation, len(req.jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range req.jobs {
		i, path := i, path
		g.Go(func() error {
			text, err := readText(path)
			if err != nil {
				return err
			}

			job := extractor.JobFacts(text, req.overrides)
			logger.Debug("job extracted",
				zap.String("file", path),
				zap.Strings("required_skills", job.RequiredSkills.Items()),
				zap.Int("experience_required", job.ExperienceRequired),
				zap.String("content", utils.TruncateForLog(job.Content, maxLogLength)),
			)

			weights := req.weights
			result, err := engine.ScoreResume(gctx, resume, job, &weights)
			if err != nil {
				return fmt.Errorf("score %s: %w", path, err)
			}

			logger.Info("posting scored",
				zap.String("file", path),
				zap.Float64("overall_score", result.OverallScore),
				zap.String("verdict", string(result.Verdict)),
			)

			results[i] = Evaluation{Job: path, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// collectJobs resolves the postings named by --job and --jobs-dir. Without
// --job and --all, a directory listing is narrowed down interactively.
func collectJobs(cmd *cobra.Command) ([]string, error) {
	jobs, _ := cmd.Flags().GetStringSlice("job")
	dir, _ := cmd.Flags().GetString("jobs-dir")
	all, _ := cmd.Flags().GetBool("all")

	return resolveJobs(jobs, dir, all)
}

func resolveJobs(jobs []string, dir string, all bool) ([]string, error) {
	jobs = utils.SplitList(jobs...)
	if dir == "" {
		if len(jobs) == 0 {
			return nil, errNoJobs
		}
		return jobs, nil
	}

	listed, err := listJobs(dir)
	if err != nil {
		return nil, err
	}

	if all || len(jobs) > 0 {
		return append(jobs, listed...), nil
	}

	if len(listed) == 0 {
		return nil, fmt.Errorf("no job postings found in %s", dir)
	}

	choice, err := selectJob(listed)
	if err != nil {
		return nil, fmt.Errorf("selecting posting: %w", err)
	}
	if choice == promptAllJobs {
		return listed, nil
	}
	return []string{choice}, nil
}

func listJobs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read jobs dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := jobExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}

func writeEvaluations(out io.Writer, evaluations []Evaluation) error {
	pretty, err := json.MarshalIndent(evaluations, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = fmt.Fprintln(out, string(pretty))
	return err
}
