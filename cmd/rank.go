package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/filtering"
	"github.com/spigell/jobrank/internal/logger"
	"github.com/spigell/jobrank/internal/metrics"
	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/ranking"
)

const (
	PromptDone                = "Done"
	PromptReportByCompanies   = "Report by companies"
	PromptInspect             = "Inspect a posting"
	PromptPostingsToFile      = "Dump postings to file"
	PromptAppendToExcludeFile = "Append all postings to exclude file"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank job postings for a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().BoolP("exclude-applied", "a", false, "exclude postings the candidate already has an application status for")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for actions, write the ranking and exit")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with postings to exclude. Default is unset.")
	rankCmd.Flags().StringP("output", "o", "", "write ranked postings as JSON to this file (default is stdout)")
	rankCmd.Flags().String("metrics-file", "", "write ranking metrics in prometheus text format to this file")

	viper.BindPFlag("exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("metrics-file", rankCmd.Flags().Lookup("metrics-file"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobrank", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	b, err := openBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("driver", config.Store.Driver))
	}
	defer b.close()

	resume, err := ranking.FetchResume(ctx, b.profiles, config.Candidate)
	if err != nil {
		logger.Fatal("getting the resume", zap.Error(err), zap.String("candidate", config.Candidate))
	}
	if resume == nil {
		logger.Warn("no resume found, postings are ordered by date only", zap.String("candidate", config.Candidate))
	}

	found, err := b.postings.Postings(ctx, config.Query)
	if err != nil {
		logger.Fatal("getting postings", zap.Error(err))
	}

	logger.Info("getting postings", zap.Int("count", found.Len()), zap.String("text", config.Query.Text))

	if found.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	filters := prepareFilters(cmd, b, config, logger)

	found, err = filters.RunFilters(ctx, found)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if found.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	engine, err := newEngine(config.Matching, logger)
	if err != nil {
		logger.Fatal("building the match engine", zap.Error(err))
	}

	manager := metrics.NewManager()
	ranker := newRanker(config, engine, b.statuses, manager, logger)

	ranked, err := ranker.Rank(ctx, ranking.Request{
		CandidateID: config.Candidate,
		JobTitle:    config.JobTitle,
		Resume:      resume,
		Postings:    found.Items,
	})
	if err != nil {
		logger.Fatal("ranking postings", zap.Error(err))
	}

	if path := config.MetricsFile; path != "" {
		if err := manager.WriteTextfile(path); err != nil {
			logger.Warn("writing metrics file", zap.Error(err), zap.String("filename", path))
		}
	}

	result := &postings.Postings{Items: ranked}
	output := cmd.Flag("output").Value.String()

	action := PromptDone
	for {
		if cmd.Flag("auto-approve").Value.String() == "false" {
			items := []string{PromptDone, PromptReportByCompanies, PromptInspect, PromptPostingsToFile}
			if config.ExcludeFile != "" {
				items = append(items, PromptAppendToExcludeFile)
			}

			prompt := promptui.Select{
				Label: "Procced?",
				Items: items,
			}
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of postings", zap.Int("count", result.Len()))

		if err := handleAction(action, logger, result, output, config.ExcludeFile); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, result *postings.Postings, output, excludeFile string) error {
	switch action {
	case PromptDone:
		if err := writeOutput(output, result); err != nil {
			return fmt.Errorf("write ranking: %w", err)
		}
		logger.Info("exiting", zap.String("reason", "ranking written"), zap.String("output", outputName(output)))
		return errExit
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(result.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("postings count", result.Len()))
		return nil
	case PromptInspect:
		return inspect(logger, result)
	case PromptPostingsToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, result, excludeFile)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func inspect(logger *zap.Logger, result *postings.Postings) error {
	for {
		items := make([]string, 0, result.Len()+1)
		for _, p := range result.Items {
			items = append(items, fmt.Sprintf("%s %.2f %s / %s / %s",
				p.ID, p.Score(), p.Title, p.Company, p.DatePosted,
			))
		}

		postingPrompt := promptui.Select{
			Label: "Choose a posting and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := postingPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		postingID := strings.Split(selected, " ")[0]
		p := result.FindByID(postingID)
		if p == nil {
			return fmt.Errorf("there is no such posting id %s", postingID)
		}

		pretty, _ := json.MarshalIndent(p, "", "  ")
		logger.Info(string(pretty), zap.String("posting_id", p.ID))
	}
}

func appendToExcludeFile(logger *zap.Logger, result *postings.Postings, excludeFile string) error {
	excluded, err := postings.LoadExcluded(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(result.ToExcluded(time.Now()))

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", result.Len()))

	result.Exclude(postings.IDField, excluded.IDs())
	return nil
}

func writeOutput(path string, result *postings.Postings) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}

func prepareFilters(cmd *cobra.Command, b *backend, config *Config, logger *zap.Logger) *filtering.Filtering {
	steps := []filtering.Filter{
		prepareAppliedHistoryFilter(cmd, b, config.Candidate, logger),
		filtering.NewExcludedCompanies(config.Exclude.Companies),
		filtering.NewExcludeFile(config.ExcludeFile),
	}

	return filtering.New(steps, logger)
}

func prepareAppliedHistoryFilter(cmd *cobra.Command, b *backend, candidateID string, logger *zap.Logger) filtering.Filter {
	ignore := true
	if cmd != nil {
		flag := cmd.Flag("exclude-applied")
		if flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			ignore = false
		}
	}

	cfg := &filtering.AppliedHistoryConfig{Ignore: ignore}
	deps := &filtering.AppliedHistoryDeps{
		Statuses:    b.statuses,
		CandidateID: candidateID,
		Logger:      logger,
	}

	return filtering.NewAppliedHistory(cfg, deps)
}
