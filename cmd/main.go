package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"ish-detector/config"
	telegram "ish-detector/internal/api"
	"ish-detector/internal/container"
	"ish-detector/internal/infrastructure/svm"
	"ish-detector/internal/infrastructure/table"
	"ish-detector/internal/logger"
)

var version = "dev"

const usage = `usage: ish-detector [command]

commands:
  run                      analyze images listed in the CSV table (default)
  bot                      start the Telegram bot
  convert <in> <out.xml>   convert a LibSVM model to OpenCV XML
  version                  print version
`

func main() {
	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Println(version)
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "run":
		runBatch(ctx, cfg, log)
	case "bot":
		runBot(ctx, cfg, log)
	case "convert":
		if len(os.Args) != 4 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		convert(os.Args[2], os.Args[3], cfg.ModelName, log)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runBatch(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	t, err := table.ReadFile(cfg.CSVPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CSVPath).Msg("Could not load CSV file!")
	}

	records, err := t.Records()
	if errors.Is(err, table.ErrInvalidHeader) {
		log.Fatal().Strs("header", t.Header).Msg("Invalid headers!")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read records!")
	}

	c, err := container.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load model!")
	}
	defer c.Close()

	batch, window, err := c.Batch(os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Str("display", cfg.Display).Msg("Could not create display!")
	}

	result, err := batch.Run(ctx, records)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not analyze image!")
	}

	if c.Reports != nil {
		saved, err := c.Reports.ListByRun(ctx, result.RunID)
		if err != nil {
			log.Error().Err(err).Msg("list reports")
		} else {
			log.Info().Str("run_id", result.RunID).Int("saved", len(saved)).Str("db", cfg.ReportDB).Msg("reports saved")
		}
	}

	// окно fyne блокирует главную горутину до закрытия
	if window != nil {
		window.Run()
	}
}

func runBot(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	c, err := container.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load model!")
	}
	defer c.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, c.UserService, c.AnalysisService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	log.Info().Msg("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Bot error")
	}
}

func convert(in, out, name string, log zerolog.Logger) {
	m, err := svm.LoadLibSVM(in)
	if err != nil {
		log.Fatal().Err(err).Str("path", in).Msg("Could not load model!")
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Could not create output file!")
	}

	if err := svm.WriteOpenCV(f, m, name); err != nil {
		f.Close()
		log.Fatal().Err(err).Msg("Could not write model!")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("Could not write model!")
	}

	log.Info().Str("in", in).Str("out", out).Int("support_vectors", len(m.SV)).Msg("model converted")
}
