package main

import (
	"fmt"
	"time"

	"github.com/billkeeper/billkeeper/internal/logger"
	"github.com/billkeeper/billkeeper/internal/notify"
	"github.com/billkeeper/billkeeper/internal/reminder"
	"github.com/spf13/cobra"
)

var (
	remindDaysBefore int
	remindDaysAfter  int
	remindDate       string
	remindWindow     string
	remindDryRun     bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send payment reminders for unpaid invoices",
	Long: `Send payment reminders for unpaid invoices.

Unpaid invoices are bucketed against today's date: invoices due in
--days-before days get an upcoming reminder, invoices due today get a
due-today reminder, and invoices --days-after days past due get an overdue
reminder and are marked overdue. Supplier and client are notified
independently, each in the locale of their country.

There is no record of already-sent reminders: running the command twice on
the same day sends everything twice.`,
	Example: `  # Default offsets (3 days before, 1 day after)
  billkeeper remind

  # Widen the upcoming window and preview without sending mail
  billkeeper remind --days-before 7 --dry-run`,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().IntVar(&remindDaysBefore, "days-before", 0, "days before the due date for upcoming reminders (default from config)")
	remindCmd.Flags().IntVar(&remindDaysAfter, "days-after", 0, "days past the due date for overdue reminders (default from config)")
	remindCmd.Flags().StringVar(&remindDate, "date", "", "run as if today were this date (YYYY-MM-DD)")
	remindCmd.Flags().StringVar(&remindWindow, "window", string(reminder.WindowExactDay), "due-date matching policy: exact or range")
	remindCmd.Flags().BoolVar(&remindDryRun, "dry-run", false, "log reminders instead of sending them")
}

func runRemind(cmd *cobra.Command, args []string) error {
	conn, err := openDB()
	if err != nil {
		return err
	}

	opts := reminder.Options{
		DaysBefore:  cfg.Reminder.DaysBefore,
		DaysAfter:   cfg.Reminder.DaysAfter,
		UnpaidSlugs: cfg.Reminder.UnpaidStatuses,
		Window:      reminder.Window(remindWindow),
	}
	if remindDaysBefore > 0 {
		opts.DaysBefore = remindDaysBefore
	}
	if remindDaysAfter > 0 {
		opts.DaysAfter = remindDaysAfter
	}

	today := time.Now()
	if remindDate != "" {
		today, err = time.Parse("2006-01-02", remindDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	var notifier notify.Notifier
	if remindDryRun || !cfg.SMTP.Enabled {
		notifier = &notify.LogNotifier{Log: logger.Log}
	} else {
		notifier = notify.NewSMTPNotifier(cfg.SMTP)
	}

	sched, err := reminder.NewScheduler(conn, notifier, opts, logger.Log)
	if err != nil {
		return err
	}

	summary, runErr := sched.Run(cmd.Context(), today)
	fmt.Println(summary.String())
	return runErr
}
