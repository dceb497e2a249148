package rotator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Publisher makes an update visible.
type Publisher interface {
	Publish(ctx context.Context, u Update) error
}

// ErrNoTokens is returned by a DiscordPublisher without account tokens.
var ErrNoTokens = errors.New("no discord tokens configured")

// DiscordPublisher sets the custom status of every configured account.
type DiscordPublisher struct {
	endpoint string
	tokens   []string
	http     *http.Client
	logger   *slog.Logger
}

func NewDiscordPublisher(endpoint string, tokens []string, logger *slog.Logger) *DiscordPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordPublisher{
		endpoint: strings.TrimRight(endpoint, "/"),
		tokens:   tokens,
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type customStatus struct {
	Text      string `json:"text"`
	EmojiName string `json:"emoji_name"`
}

type settingsPatch struct {
	CustomStatus customStatus `json:"custom_status"`
}

// Publish sends u to every account. All accounts are attempted; the
// returned error joins the individual failures.
func (p *DiscordPublisher) Publish(ctx context.Context, u Update) error {
	if len(p.tokens) == 0 {
		return ErrNoTokens
	}
	body, err := json.Marshal(settingsPatch{CustomStatus: customStatus{Text: u.Text, EmojiName: u.Emoji}})
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	var errs []error
	for i, token := range p.tokens {
		if err := p.patch(ctx, token, body); err != nil {
			p.logger.Warn("status_update_failed", "account", i, "error", err)
			errs = append(errs, fmt.Errorf("account %d: %w", i, err))
			continue
		}
		p.logger.Info("status_updated", "account", i, "emoji", u.Emoji, "text", u.Text)
	}
	return errors.Join(errs...)
}

func (p *DiscordPublisher) patch(ctx context.Context, token string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, p.endpoint+"/api/v10/users/@me/settings", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord returned status %d", resp.StatusCode)
	}
	return nil
}

// LogPublisher only logs updates.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, u Update) error {
	p.logger.Info("status_update_dry_run", "emoji", u.Emoji, "text", u.Text)
	return nil
}
