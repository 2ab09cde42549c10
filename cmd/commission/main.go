package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/anyulbade/commission-engine/internal/commission"
	"github.com/anyulbade/commission-engine/internal/config"
	"github.com/anyulbade/commission-engine/internal/dto"
	"github.com/anyulbade/commission-engine/internal/model"
	"github.com/anyulbade/commission-engine/internal/repository"
	"github.com/anyulbade/commission-engine/internal/service"
	"github.com/anyulbade/commission-engine/seeddata"
)

const defaultXLSXFile = "commission-report.xlsx"

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		var verrs dto.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				log.Error().Int("index", ve.Index).Str("field", ve.Field).Msg(ve.Message)
			}
		}
		log.Fatal().Err(err).Msg("commission run failed")
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(cfg.LogLevel)

	// stdout carries the report, so logs go to stderr.
	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	cmd := "calculate"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "calculate":
		return runCalculate(ctx, cfg, args, stdout)
	case "presets":
		return writeJSON(stdout, commission.DefaultConfigurations())
	case "tiered":
		return runTiered(args, stdout)
	}
	return fmt.Errorf("unknown command %q (want calculate, presets or tiered)", cmd)
}

func runCalculate(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	rulesFile := fs.String("rules", cfg.RulesFile, "Path to a JSON or YAML rules file (demo rules when empty)")
	txnFile := fs.String("transactions", cfg.TransactionsFile, "Path to a JSON or YAML transactions file (demo batch when empty)")
	format := fs.String("format", cfg.OutputFormat, "Output format: json or xlsx")
	outFile := fs.String("out", cfg.OutputFile, "Output file (stdout for json when empty)")
	workers := fs.Int("workers", cfg.BatchWorkers, "Concurrent calculation workers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rules, err := loadRules(ctx, *rulesFile)
	if err != nil {
		return err
	}
	txns, err := loadTransactions(ctx, cfg, *txnFile)
	if err != nil {
		return err
	}

	commissionSvc := service.NewCommissionService(commission.NewCalculator(rules), *workers)
	insightSvc := service.NewInsightService(rules)
	reportSvc := service.NewReportService(commissionSvc, insightSvc, service.NewTrendService())

	report, err := reportSvc.GenerateReport(ctx, txns)
	if err != nil {
		return err
	}

	log.Info().
		Int("transactions", report.Summary.TotalTransactions).
		Float64("total_commission", report.Summary.TotalCommission).
		Int("insights", len(report.Insights)).
		Msg("commission report ready")

	switch *format {
	case config.OutputXLSX:
		data, err := reportSvc.RenderXLSX(report)
		if err != nil {
			return fmt.Errorf("render xlsx: %w", err)
		}
		path := *outFile
		if path == "" {
			path = defaultXLSXFile
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("wrote xlsx report")
		return nil
	case config.OutputJSON:
		data, err := reportSvc.RenderJSON(report)
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		if *outFile == "" {
			_, err = fmt.Fprintln(stdout, string(data))
			return err
		}
		if err := os.WriteFile(*outFile, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", *outFile, err)
		}
		log.Info().Str("path", *outFile).Msg("wrote json report")
		return nil
	}
	return fmt.Errorf("unknown output format %q", *format)
}

func runTiered(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tiered", flag.ContinueOnError)
	preset := fs.String("preset", commission.PresetStandardMedical, "Preset tiered configuration id")
	amountStr := fs.String("amount", "", "Amount to break down, e.g. 60,000 (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *amountStr == "" {
		fs.Usage()
		return errors.New("-amount is required")
	}
	amount, err := dto.ParseAmount(*amountStr)
	if err != nil {
		return err
	}

	cfg, ok := commission.DefaultConfiguration(*preset)
	if !ok {
		return fmt.Errorf("unknown tiered preset %q", *preset)
	}

	return writeJSON(stdout, struct {
		Preset string  `json:"preset"`
		Amount float64 `json:"amount"`
		model.TieredCalculationResult
	}{*preset, amount, commission.CalculateTieredCommission(amount, cfg)})
}

func loadRules(ctx context.Context, path string) ([]model.CommissionRule, error) {
	if path == "" {
		log.Info().Msg("no rules file given, using demo rules")
		return repository.DecodeRules(seeddata.DemoRulesYAML, repository.FormatYAML)
	}
	return repository.NewRuleRepository(path).List(ctx)
}

func loadTransactions(ctx context.Context, cfg *config.Config, path string) ([]model.Transaction, error) {
	if path == "" {
		log.Info().Int64("seed", cfg.DemoSeed).Int("count", cfg.DemoTransactions).Msg("no transactions file given, generating demo batch")
		return seeddata.GenerateTransactions(cfg.DemoSeed, cfg.DemoTransactions), nil
	}
	return repository.NewTransactionRepository(path).List(ctx)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
