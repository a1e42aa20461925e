// Command videogen runs one blocking video generation workflow from the
// terminal: submit, poll to a terminal state, print the result location.
// Useful for exercising provider credentials without the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mediagen/internal/domain"
	"mediagen/internal/infra"
	"mediagen/internal/providers/runway"
	"mediagen/internal/workflow"
)

func main() {
	prompt := flag.String("prompt", "", "prompt text (required)")
	seed := flag.Int("seed", 0, "generation seed (0 = provider default)")
	duration := flag.Int("duration", 0, "duration in seconds (0 = provider default)")
	ratio := flag.String("ratio", "", "aspect ratio, e.g. 16:9 (empty = provider default)")
	noWatermark := flag.Bool("no-watermark", false, "disable the provider watermark")
	interval := flag.Duration("interval", 12*time.Second, "poll interval")
	maxWait := flag.Duration("max-wait", 10*time.Minute, "maximum wait before giving up")
	flag.Parse()

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: videogen -prompt \"...\" [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	client, err := runway.NewClient(runway.Options{
		APIKey:  os.Getenv("RUNWAY_API_KEY"),
		BaseURL: os.Getenv("RUNWAY_BASE_URL"),
		Model:   os.Getenv("RUNWAY_MODEL"),
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize runway client")
	}

	req := domain.VideoRequest{Prompt: *prompt}
	if *seed != 0 {
		req.Seed = seed
	}
	if *duration != 0 {
		req.Duration = duration
	}
	if *ratio != "" {
		req.Ratio = ratio
	}
	if *noWatermark {
		watermark := false
		req.Watermark = &watermark
	}

	video := workflow.NewVideo(workflow.VideoOptions{
		Source:   client,
		Interval: *interval,
		MaxWait:  *maxWait,
		Logger:   &logger,
	})

	job, err := video.Run(context.Background(), req)
	if err != nil {
		logger.Fatal().Err(err).Msg("video generation did not complete")
	}

	fmt.Println(job.ResultURL)
}
