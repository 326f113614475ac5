// Command notifier runs the Reportify session notification pipeline.
//
// Usage:
//
//	reportify-notifier serve
//	reportify-notifier sweep
//	reportify-notifier send-report --schedule 12 --date 2026-10-19
//	reportify-notifier preview --schedule 12 --date 2026-10-19
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images

	"reportify_notifier/internal/app"
	"reportify_notifier/internal/domain/delivery"
	"reportify_notifier/internal/infra/config"
	idb "reportify_notifier/internal/infra/database"
	"reportify_notifier/internal/infra/email"
	"reportify_notifier/internal/infra/httpapi"
	"reportify_notifier/internal/infra/logger"
	"reportify_notifier/internal/infra/scheduler"
	"reportify_notifier/internal/infra/telegram"
	"reportify_notifier/internal/infra/whatsapp"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
)

func main() {
	root := &cobra.Command{
		Use:           "reportify-notifier",
		Short:         "Reportify session notification dispatcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(sweepCmd())
	root.AddCommand(sendReportCmd())
	root.AddCommand(previewCmd())

	if err := root.Execute(); err != nil {
		logger.Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

// application holds everything a command needs once configuration and the database are up.
type application struct {
	cfg      *config.AppConfig
	db       *sql.DB
	notifier *app.NotificationServiceImpl
	admin    *app.AdminService
	bot      *telebot.Bot // nil when TELEGRAM_TOKEN is empty
}

func run(fn func(ctx context.Context, a *application) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg)
	logger.Log.WithFields(logrus.Fields{
		"environment":    cfg.Environment,
		"timezone":       cfg.Location.String(),
		"email_provider": cfg.EmailProvider,
	}).Info("Configuration loaded")

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Log.Info("Database connection established successfully.")

	a, err := wire(cfg, db)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

func wire(cfg *config.AppConfig, db *sql.DB) (*application, error) {
	scheduleRepo := idb.NewPostgresScheduleRepository(db)
	studentRepo := idb.NewPostgresStudentRepository(db)
	reportRepo := idb.NewPostgresReportRepository(db)

	wa := whatsapp.NewClient(whatsapp.Config{
		URL:               cfg.WhatsAppURL,
		Username:          cfg.WhatsAppUser,
		Password:          cfg.WhatsAppPassword,
		Timeout:           cfg.WhatsAppTimeout,
		RequestsPerSecond: cfg.WhatsAppRatePerSec,
	}, logger.Component("whatsapp"))

	mailer, err := newEmailChannel(cfg)
	if err != nil {
		return nil, err
	}

	var bot *telebot.Bot
	var alerter *app.SweepAlerter
	if cfg.TelegramToken != "" {
		botLogger := logger.Component("telegram")
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := botLogger.WithError(err)
				if c != nil && c.Sender() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID)
				}
				entry.Error("Telegram handler error")
			},
		})
		if err != nil {
			// Alerts are best effort; the pipeline runs without them.
			botLogger.WithError(err).Warn("Could not create Telegram bot, admin bot and alerts disabled")
			bot = nil
		} else {
			alerter = app.NewSweepAlerter(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID, botLogger)
		}
	}

	notifier := app.NewNotificationServiceImpl(
		scheduleRepo,
		app.NewSessionAggregator(scheduleRepo, studentRepo, reportRepo),
		app.NewMessageFormatter(cfg.SchoolName),
		wa,
		mailer,
		logger.Component("notification_service"),
		app.NotificationConfig{Location: cfg.Location, Window: cfg.SweepWindow, Alerter: alerter},
	)

	a := &application{
		cfg:      cfg,
		db:       db,
		notifier: notifier,
		admin:    app.NewAdminService(notifier, cfg.AdminTelegramID, cfg.Location),
		bot:      bot,
	}
	return a, nil
}

func newEmailChannel(cfg *config.AppConfig) (delivery.Channel, error) {
	emailLogger := logger.Component("email")
	if cfg.EmailProvider == config.EmailProviderSendgrid {
		return email.NewSendgridSender(cfg.SendgridAPIKey, cfg.MailFrom, cfg.MailFromName, cfg.SchoolName, emailLogger), nil
	}
	sender, err := email.NewSMTPSender(email.SMTPConfig{
		Host:       cfg.MailHost,
		Port:       cfg.MailPort,
		Username:   cfg.MailUser,
		Password:   cfg.MailPassword,
		From:       cfg.MailFrom,
		FromName:   cfg.MailFromName,
		SchoolName: cfg.SchoolName,
	}, emailLogger)
	if err != nil {
		return nil, fmt.Errorf("create SMTP sender: %w", err)
	}
	return sender, nil
}

// --------------------------------------------------------------------------
// serve
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the cron sweep, the admin HTTP API and the admin Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(serve)
		},
	}
}

func serve(ctx context.Context, a *application) error {
	notifScheduler := scheduler.NewNotificationScheduler(
		a.notifier,
		logger.Component("scheduler"),
		a.cfg.Location,
		a.cfg.CronSpecSweep,
	)
	if err := notifScheduler.Start(); err != nil {
		return err
	}
	defer notifScheduler.Stop()

	router := httpapi.NewRouter(a.notifier, a.db, httpapi.RouterConfig{
		AdminToken:       a.cfg.AdminAPIToken,
		CORSAllowOrigins: a.cfg.CORSAllowOrigins,
		Location:         a.cfg.Location,
	}, logger.Component("http"))
	if a.cfg.AdminAPIToken == "" {
		logger.Log.Warn("ADMIN_API_TOKEN is empty, notification endpoints will reject every request")
	}
	srv := httpapi.NewServer(a.cfg.HTTPAddr, router)
	serveErr := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", a.cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if a.bot != nil {
		botLogger := logger.Component("telegram")
		telegram.RegisterBotCommands(a.bot, a.admin, botLogger)
		telegram.RegisterAdminHandlers(ctx, a.bot, a.admin, botLogger)
		go a.bot.Start()
		defer a.bot.Stop()
		logger.Log.Info("Telegram admin bot started")
	}

	logger.Log.Info("Application setup complete.")
	var err error
	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down application...")
	case err = <-serveErr:
		logger.Log.WithError(err).Error("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Log.WithError(shutdownErr).Warn("HTTP server shutdown incomplete")
	}
	return err
}

// --------------------------------------------------------------------------
// one-shot commands
// --------------------------------------------------------------------------

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one notification sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *application) error {
				report, err := a.notifier.RunNotificationSweep(ctx)
				if report != nil {
					if printErr := printJSON(cmd, report); printErr != nil {
						return printErr
					}
				}
				return err
			})
		},
	}
}

func sendReportCmd() *cobra.Command {
	var scheduleID int64
	var date string
	cmd := &cobra.Command{
		Use:   "send-report",
		Short: "Send the session report of one schedule regardless of window and marker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *application) error {
				day, err := resolveDate(date, a.cfg)
				if err != nil {
					return err
				}
				outcome, err := a.notifier.SendSessionReport(ctx, scheduleID, day)
				if err != nil {
					return err
				}
				return printJSON(cmd, outcome)
			})
		},
	}
	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Schedule ID")
	cmd.Flags().StringVar(&date, "date", "", "Session date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}

func previewCmd() *cobra.Command {
	var scheduleID int64
	var date string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the messages of one schedule without sending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *application) error {
				day, err := resolveDate(date, a.cfg)
				if err != nil {
					return err
				}
				preview, err := a.notifier.PreviewSessionReport(ctx, scheduleID, day)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(preview.Items) == 0 {
					fmt.Fprintf(out, "Schedule %d on %s: class has no students.\n", preview.ScheduleID, preview.Date)
					return nil
				}
				for _, item := range preview.Items {
					fmt.Fprintf(out, "=== %s (id %d) ===\n%s\n\n", item.StudentName, item.StudentID, item.Message)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Schedule ID")
	cmd.Flags().StringVar(&date, "date", "", "Session date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}

func resolveDate(v string, cfg *config.AppConfig) (time.Time, error) {
	if v == "" {
		return time.Now().In(cfg.Location), nil
	}
	return app.ParseDate(v, cfg.Location)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
