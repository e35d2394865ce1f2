package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Usage example on the command line:
// > go run main.go --url=http://localhost:8080/contacts --interval=5s --timeout=2m
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	var url string
	var interval, timeout time.Duration
	cmd := &cobra.Command{
		Use:           "wait-until-available",
		Short:         "Polls the contacts service until it answers with 200 OK",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return waitUntilAvailable(ctx, log, url, interval)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/contacts", "the endpoint to poll")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "the pause between two attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this duration, 0 waits forever")
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("service did not become available")
	}
}

func waitUntilAvailable(ctx context.Context, log zerolog.Logger, url string, interval time.Duration) error {
	var totalWaitTime time.Duration
	for {
		status, err := poll(ctx, url)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("service not reachable")
		case status == http.StatusOK:
			log.Info().Str("url", url).Dur("waited", totalWaitTime).Msg("service available")
			return nil
		default:
			log.Warn().Int("status", status).Msg("service not ready")
		}
		totalWaitTime += interval
		log.Info().Msgf("Waiting %s", totalWaitTime)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func poll(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("could not create request: %w", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	return res.StatusCode, nil
}
