package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/analysis"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/store"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// inputBundle is the on-disk input format: cleaned snapshots plus price
// history for one ticker, produced by the ingestion stage upstream.
type inputBundle struct {
	Ticker    string                     `json:"ticker"`
	Snapshots []models.StatementSnapshot `json:"snapshots"`
	Prices    models.PriceHistory        `json:"prices"`
}

func main() {
	inputPath := flag.String("input", "", "path to the JSON input bundle (snapshots + prices)")
	configPath := flag.String("config", "", "optional policy config file (hjson or yaml); defaults apply when empty")
	save := flag.Bool("save", false, "persist the report to Postgres (requires DATABASE_URL)")
	pretty := flag.Bool("pretty", true, "indent the report JSON")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, assuming environment variables are set")
	}

	if *inputPath == "" {
		log.Fatal().Msg("-input is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
	}

	bundle, err := readBundle(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inputPath).Msg("failed to read input bundle")
	}

	engine, err := analysis.NewEngine(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct analysis engine")
	}

	report, err := engine.Analyze(bundle.Ticker, bundle.Snapshots, bundle.Prices)
	if err != nil {
		log.Fatal().Err(err).Str("ticker", bundle.Ticker).Msg("analysis failed")
	}
	if report.RatingError != "" {
		log.Warn().Str("ticker", report.Ticker).Msg(report.RatingError)
	}

	if *save {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer store.Close()
		if err := store.NewReportRepo().Save(ctx, report); err != nil {
			log.Fatal().Err(err).Str("ticker", report.Ticker).Msg("failed to save report")
		}
		log.Info().Str("ticker", report.Ticker).Msg("report saved")
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("failed to encode report")
	}
}

func readBundle(path string) (*inputBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bundle inputBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if bundle.Ticker == "" {
		return nil, fmt.Errorf("input bundle missing ticker")
	}
	return &bundle, nil
}
