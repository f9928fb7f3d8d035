// Command assess evaluates caller-supplied sensor records offline, without
// contacting the weather provider. Each record is evaluated and dispatched
// (recorded only, never published), and one JSON result line is printed per
// record. The exit status is 1 if any record was invalid.
//
// Usage:
//
//	go run ./cmd/assess -input data/sensors.json
//	cat data/sensors.json | go run ./cmd/assess
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/frost-guard/internal/domain"
	"github.com/couchcryptid/frost-guard/internal/observability"
	"github.com/couchcryptid/frost-guard/internal/pipeline"
)

// result is one output line.
type result struct {
	Index          int             `json:"index"`
	Valid          bool            `json:"valid"`
	AtRisk         bool            `json:"at_risk"`
	Action         domain.Action   `json:"action,omitempty"`
	Signals        *domain.Signals `json:"signals,omitempty"`
	SignalCount    int             `json:"signal_count"`
	CameraOverride bool            `json:"camera_override"`
	Error          string          `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("assess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "path to a JSON array of sensor records (default: stdin)")
	minSignals := fs.Int("min-signals", domain.DefaultMinSignals, "signals required for a frost-risk verdict (1-4)")
	verbose := fs.Bool("v", false, "log dispatch records to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	records, err := readRecords(*input, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	thresholds := domain.DefaultThresholds()
	thresholds.MinSignals = *minSignals
	evaluator, err := domain.NewEvaluator(thresholds)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	logOut := io.Discard
	if *verbose {
		logOut = stderr
	}
	recorder := domain.SlogRecorder{Logger: slog.New(slog.NewTextHandler(logOut, nil))}
	dispatcher := pipeline.NewDispatcher(nil, recorder, observability.NewMetricsForTesting(), domain.Geo{})

	enc := json.NewEncoder(stdout)
	code := 0
	for i, rec := range records {
		res := assess(context.Background(), i, rec, evaluator, dispatcher)
		if !res.Valid {
			code = 1
		}
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "FATAL: write result: %v\n", err)
			return 1
		}
	}
	return code
}

func assess(ctx context.Context, index int, rec domain.SensorRecord, evaluator *domain.Evaluator, dispatcher *pipeline.Dispatcher) result {
	res := result{Index: index}

	obs, err := rec.Observation()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	a, err := evaluator.Evaluate(obs)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	action, err := dispatcher.Dispatch(ctx, a)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Valid = true
	res.AtRisk = a.AtRisk
	res.Action = action
	res.Signals = &a.Signals
	res.SignalCount = a.SignalCount
	res.CameraOverride = a.CameraOverride
	return res
}

func readRecords(path string, stdin io.Reader) ([]domain.SensorRecord, error) {
	r := stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []domain.SensorRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input is empty")
		}
		return nil, fmt.Errorf("decode sensor records: %w", err)
	}
	return records, nil
}
