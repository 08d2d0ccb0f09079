package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"github.com/cloudkeep/snapreaper/internal/models"
	"github.com/cloudkeep/snapreaper/internal/version"
	"github.com/cloudkeep/snapreaper/pkg/aws"
	"github.com/cloudkeep/snapreaper/pkg/formatter"
	"github.com/cloudkeep/snapreaper/pkg/reaper"
	"github.com/cloudkeep/snapreaper/pkg/utils"
)

var (
	regions       []string
	retentionDays int
	dryRun        bool
	debug         bool
	showVersion   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "snapreaper",
		Short: "Delete orphaned EBS snapshots past their retention period",
		Long: `snapreaper scans the calling account for EBS snapshots older than the
retention threshold whose source volume is missing or unattached,
deletes them, and prints a per-snapshot decision table.`,
		Run: func(cmd *cobra.Command, args []string) {
			if showVersion {
				info := version.Get()
				fmt.Printf("snapreaper version %s (built: %s, commit: %s, %s)\n",
					info.Version, info.BuildDate, info.GitCommit, info.GoVersion)
				return
			}
			run()
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().StringSliceVarP(&regions, "regions", "r", nil,
		fmt.Sprintf("AWS regions to reap (comma separated, default: %s)", utils.GetDefaultRegion()))
	rootCmd.Flags().IntVar(&retentionDays, "retention-days", reaper.DefaultRetentionDays,
		"Snapshots younger than this many days are always retained")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Evaluate every snapshot but do not delete anything")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() {
	logger := newLogger()
	ctx := context.Background()

	// Use default region if none specified
	if len(regions) == 0 {
		regions = []string{utils.GetDefaultRegion()}
	}

	// Validate regions
	var validRegions []string
	for _, region := range regions {
		if utils.IsValidRegion(region) {
			validRegions = append(validRegions, region)
		} else {
			fmt.Printf("Warning: Skipping invalid region '%s'\n", region)
		}
	}

	if len(validRegions) == 0 {
		fmt.Println("No valid regions specified. Exiting.")
		return
	}

	fmt.Println("Starting EBS snapshot reap ...")
	scanStartTime := time.Now()

	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = " Reaping EBS snapshots ..."
	s.Start()

	// Slice to store results
	allRuns := make([]struct {
		summary models.RunSummary
		results []models.ReapResult
		err     error
		region  string
	}, len(validRegions))

	// Process each region in parallel
	var wg sync.WaitGroup
	var identityOnce sync.Once
	for i, region := range validRegions {
		wg.Add(1)
		go func(idx int, r string) {
			defer wg.Done()

			client, err := aws.NewClient(ctx, r)
			if err != nil {
				allRuns[idx].err = err
				allRuns[idx].region = r
				return
			}

			identityOnce.Do(func() {
				if account, err := client.CallerAccount(ctx); err == nil {
					logger.Info("resolved caller identity", "account", account)
				}
			})

			rp := reaper.New(client, reaper.Options{
				Region:        r,
				RetentionDays: retentionDays,
				DryRun:        dryRun,
				Logger:        logger.New("region", r),
			})

			summary, results, err := rp.Run(ctx)
			allRuns[idx].summary = summary
			allRuns[idx].results = results
			allRuns[idx].err = err
			allRuns[idx].region = r
		}(i, region)
	}

	wg.Wait()

	// Calculate scan duration
	scanDuration := time.Since(scanStartTime)

	// Combine results across regions
	var combined []models.ReapResult
	var summaries []models.RunSummary
	for _, result := range allRuns {
		if result.err == nil {
			combined = append(combined, result.results...)
			summaries = append(summaries, result.summary)
		}
	}

	// Set completion message with scan time and resource count
	s.FinalMSG = fmt.Sprintf("✓ [%d snapshots evaluated] EBS snapshots reaped - Completed in %.2f seconds\n",
		len(combined), scanDuration.Seconds())
	s.Stop()

	// Report per-region failures
	for _, result := range allRuns {
		if result.err != nil {
			fmt.Printf("Error in region %s: %v\n", result.region, result.err)
		}
	}

	// Display as table
	formatter.PrintReapTable(os.Stdout, combined, scanStartTime, scanDuration)
	formatter.PrintReapSummary(os.Stdout, summaries)
}

// newLogger sets up a logfmt logger to stderr so decision lines do not
// interleave with the spinner and tables on stdout.
func newLogger() log15.Logger {
	lvl := log15.LvlInfo
	if debug {
		lvl = log15.LvlDebug
	}
	logger := log15.New()
	logger.SetHandler(
		log15.LvlFilterHandler(
			lvl,
			log15.StreamHandler(os.Stderr, log15.LogfmtFormat()),
		),
	)
	return logger
}
