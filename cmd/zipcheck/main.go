// Command zipcheck fetches the ACS demographic record for a single ZIP code
// and prints it as JSON. It exercises the same extraction path as the server
// without touching Gemini or the cache, which makes it handy for verifying
// variable codes and derived-field math against the Census API directly.
//
// Usage:
//
//	go run ./cmd/zipcheck -zip 90210
//	go run ./cmd/zipcheck -zip 10001 -base-url https://api.census.gov/data/2022/acs/acs5
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/doppelganger-engine/internal/adapter/census"
	"github.com/couchcryptid/doppelganger-engine/internal/domain"
	"github.com/couchcryptid/doppelganger-engine/internal/observability"
)

func main() {
	zip := flag.String("zip", "", "ZIP code to look up")
	baseURL := flag.String("base-url", "https://api.census.gov/data/2022/acs/acs5", "Census ACS 5-year API base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if *zip == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*zip, *baseURL, *timeout))
}

func run(zip, baseURL string, timeout time.Duration) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := census.NewClient(baseURL, timeout, observability.NewMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := client.FetchDemographics(ctx, zip)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			fmt.Fprintf(os.Stderr, "no demographic data for ZIP %s\n", zip)
			return 1
		}
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
		return 1
	}
	return 0
}
