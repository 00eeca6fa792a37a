// Package digest produces the scheduled daily activity summary: message
// volume over the last 24 hours plus the current channel roster, printed
// to the operator log and optionally posted to a Slack webhook.
package digest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	slackapi "github.com/slack-go/slack"

	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/store"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Report holds computed metrics for a 24-hour period.
type Report struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Incoming       int
	Outgoing       int
	Pending        int
	ActiveChannels []string
}

// webhookPoster abstracts the Slack webhook call, enabling test mocks.
type webhookPoster func(ctx context.Context, url string, msg *slackapi.WebhookMessage) error

// Digest builds and delivers the daily summary on a cron schedule.
type Digest struct {
	store      *store.Store
	cronExpr   string
	webhookURL string
	post       webhookPoster
	out        io.Writer
}

// Opts holds parameters for creating a Digest.
type Opts struct {
	Store *store.Store
	Cron  string // 5-field cron expression; defaults to "0 9 * * *"

	// SlackWebhook, when set, receives the formatted summary in addition
	// to the operator log.
	SlackWebhook string

	// Post overrides the webhook delivery; tests inject fakes here.
	Post webhookPoster

	Out io.Writer // defaults to os.Stdout
}

// New creates a Digest. Call Run to start the schedule.
func New(opts Opts) (*Digest, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("digest: store is required")
	}
	expr := opts.Cron
	if expr == "" {
		expr = "0 9 * * *"
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return nil, fmt.Errorf("digest: invalid cron expression %q: %w", expr, err)
	}
	post := opts.Post
	if post == nil {
		post = slackapi.PostWebhookContext
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Digest{
		store:      opts.Store,
		cronExpr:   expr,
		webhookURL: opts.SlackWebhook,
		post:       post,
		out:        out,
	}, nil
}

// BuildReport computes metrics for the 24 hours ending at now. Returns nil
// when there was no traffic and no channel is active; a quiet day produces
// no digest.
func (d *Digest) BuildReport(now time.Time) (*Report, error) {
	since := now.Add(-24 * time.Hour)

	incoming, err := d.store.CountMessagesByTypeSince(models.MessageIncoming, since)
	if err != nil {
		return nil, fmt.Errorf("digest: build report: %w", err)
	}
	outgoing, err := d.store.CountMessagesByTypeSince(models.MessageOutgoing, since)
	if err != nil {
		return nil, fmt.Errorf("digest: build report: %w", err)
	}
	pending, err := d.store.ActiveMessages()
	if err != nil {
		return nil, fmt.Errorf("digest: build report: %w", err)
	}
	channels, err := d.store.ActiveChannels()
	if err != nil {
		return nil, fmt.Errorf("digest: build report: %w", err)
	}

	if incoming == 0 && outgoing == 0 && len(channels) == 0 {
		return nil, nil
	}

	report := &Report{
		PeriodStart: since,
		PeriodEnd:   now,
		Incoming:    int(incoming),
		Outgoing:    int(outgoing),
		Pending:     len(pending),
	}
	for _, ch := range channels {
		report.ActiveChannels = append(report.ActiveChannels, fmt.Sprintf("%s (%s)", ch.Name, ch.Type))
	}
	return report, nil
}

// Format renders a report as a Slack webhook message. The text body doubles
// as the operator-log form.
func Format(report *Report) *slackapi.WebhookMessage {
	var lines []string
	lines = append(lines, fmt.Sprintf("Period: %s – %s",
		report.PeriodStart.Format("Jan 2 15:04"),
		report.PeriodEnd.Format("Jan 2 15:04")))
	lines = append(lines, fmt.Sprintf("Messages: %d incoming, %d outgoing", report.Incoming, report.Outgoing))
	if report.Pending > 0 {
		lines = append(lines, fmt.Sprintf("Pending: %d awaiting reply", report.Pending))
	}
	if len(report.ActiveChannels) > 0 {
		lines = append(lines, fmt.Sprintf("Channels: %s", strings.Join(report.ActiveChannels, ", ")))
	}

	fields := []slackapi.AttachmentField{
		{Title: "Incoming", Value: fmt.Sprintf("%d", report.Incoming), Short: true},
		{Title: "Outgoing", Value: fmt.Sprintf("%d", report.Outgoing), Short: true},
		{Title: "Channels", Value: fmt.Sprintf("%d", len(report.ActiveChannels)), Short: true},
	}
	if report.Pending > 0 {
		fields = append(fields, slackapi.AttachmentField{
			Title: "Pending", Value: fmt.Sprintf("%d", report.Pending), Short: true,
		})
	}

	return &slackapi.WebhookMessage{
		Text: "Daily Digest",
		Attachments: []slackapi.Attachment{{
			Title:    "Daily Digest",
			Text:     strings.Join(lines, "\n"),
			Fallback: "Daily Digest",
			Fields:   fields,
		}},
	}
}

// Run fires the digest on the configured cron schedule until the context is
// cancelled. Blocks; run it in its own goroutine.
func (d *Digest) Run(ctx context.Context) error {
	for {
		wait := nextCronDuration(d.cronExpr)
		if wait == 0 {
			return fmt.Errorf("digest: invalid cron expression %q", d.cronExpr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			if err := d.RunOnce(ctx); err != nil {
				log.Printf("digest: %v", err)
			}
		}
	}
}

// RunOnce builds and delivers a single digest. Quiet periods are skipped
// silently.
func (d *Digest) RunOnce(ctx context.Context) error {
	report, err := d.BuildReport(time.Now())
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	msg := Format(report)
	fmt.Fprintf(d.out, "digest: %s\n", msg.Attachments[0].Text)

	if d.webhookURL != "" {
		if err := d.post(ctx, d.webhookURL, msg); err != nil {
			return fmt.Errorf("digest: post webhook: %w", err)
		}
	}
	return nil
}
