package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/logger"
	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Manage application statuses of postings",
}

var statusSetCmd = &cobra.Command{
	Use:       "set <posting-id> <status>",
	Short:     "Record the application status of a posting for the candidate",
	Args:      cobra.ExactArgs(2),
	ValidArgs: postings.Statuses(),
	Run: func(cmd *cobra.Command, args []string) {
		setStatus(cmd, args[0], args[1])
	},
}

func init() {
	statusCmd.AddCommand(statusSetCmd)
	rootCmd.AddCommand(statusCmd)
}

func setStatus(cmd *cobra.Command, postingID, value string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	status, err := postings.ParseStatus(value)
	if err != nil {
		logger.Fatal("parsing status", zap.Error(err))
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.Candidate == "" {
		logger.Fatal("candidate is required", zap.String("hint", "set the 'candidate' key or pass --candidate"))
	}

	b, err := openBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("driver", config.Store.Driver))
	}
	defer b.close()

	previous, err := b.statuses.Status(ctx, config.Candidate, postingID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		previous = postings.StatusPending
	case err != nil:
		logger.Fatal("getting the current status", zap.Error(err))
	}

	if err := b.statuses.SetStatus(ctx, config.Candidate, postingID, status); err != nil {
		logger.Fatal("setting the status", zap.Error(err))
	}

	logger.Info("status updated",
		zap.String("candidate_id", config.Candidate),
		zap.String("posting_id", postingID),
		zap.String("from", previous),
		zap.String("to", status),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", postingID, previous, status)
}
