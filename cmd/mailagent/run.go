package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/auditlog"
	"github.com/VladPlusIn/AI-Mail-Agent/internal/gateway"
	"github.com/VladPlusIn/AI-Mail-Agent/internal/mailbox"
	"github.com/VladPlusIn/AI-Mail-Agent/internal/triage"
	"github.com/VladPlusIn/AI-Mail-Agent/pkg/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one triage batch over unread email",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer logger.Sync()

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w (run 'mailagent setup' first)", configPath, err)
		}

		sinks, err := buildSinks(cfg)
		if err != nil {
			return err
		}
		audit := auditlog.New(logger, sinks...)
		defer audit.Close()

		mb, err := mailbox.NewGmailClient(cmd.Context(), cfg.Mail.CredentialsFile, cfg.Mail.TokenFile, logger)
		if err != nil {
			return fmt.Errorf("connecting to mailbox: %w", err)
		}

		completer := gateway.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, logger)
		orchestrator := triage.NewOrchestrator(
			mb,
			triage.NewClassifier(completer, triage.Criteria{
				NeedReply:  cfg.Criteria.NeedReply,
				MightReply: cfg.Criteria.MightReply,
				NoReply:    cfg.Criteria.NoReply,
			}, logger),
			triage.NewSummarizer(completer, logger),
			triage.NewResponder(completer, cfg.Reply.Style, logger),
			audit,
			time.Duration(cfg.Mail.LookbackDays)*24*time.Hour,
			logger,
		)

		return orchestrator.Run(cmd.Context())
	},
}

func buildSinks(cfg *config.Config) ([]auditlog.Sink, error) {
	jsonl, err := auditlog.NewJSONLSink(cfg.Log.JSONLPath)
	if err != nil {
		return nil, fmt.Errorf("opening structured sink: %w", err)
	}
	csv, err := auditlog.NewCSVSink(cfg.Log.CSVPath)
	if err != nil {
		jsonl.Close()
		return nil, fmt.Errorf("opening tabular sink: %w", err)
	}
	sinks := []auditlog.Sink{jsonl, csv}

	if cfg.Log.SQLitePath != "" {
		sqlite, err := auditlog.NewSQLiteSink(cfg.Log.SQLitePath)
		if err != nil {
			jsonl.Close()
			csv.Close()
			return nil, fmt.Errorf("opening sqlite sink: %w", err)
		}
		sinks = append(sinks, sqlite)
	}
	return sinks, nil
}
