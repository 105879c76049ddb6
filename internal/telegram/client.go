package telegram

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	baseURL = "https://api.telegram.org"

	// Telegram rejects messages over 4096 characters. Longer messages are
	// cut at 4000 characters and a truncation marker is appended. Both
	// limits count runes, not bytes: the messages are emoji-heavy and a
	// byte-offset cut could split a rune and produce invalid UTF-8, which
	// Telegram rejects outright.
	maxMessageLength  = 4096
	truncateAt        = 4000
	truncationMarker  = "\n*Message truncated due to length.*"
	telegramParseMode = "Markdown"
)

// Notifier is the outbound notification sink. Send delivers one formatted
// message to the configured channel; a non-nil error carries the delivery
// failure reason for the caller to log.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Client sends messages through the Telegram Bot API.
// It implements the Notifier interface.
type Client struct {
	client  *resty.Client
	token   string
	chatID  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ Notifier = (*Client)(nil)

// apiResponse is the envelope Telegram wraps every Bot API reply in.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewClient creates a new Telegram Bot API client.
func NewClient(cfg *config.Telegram, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		logger:  logger,
		limiter: limiter,
	}
}

// Send delivers one message to the configured chat, truncating it to fit
// Telegram's length ceiling if needed.
func (c *Client) Send(ctx context.Context, text string) error {
	if utf8.RuneCountInString(text) > maxMessageLength {
		c.logger.Warn("Message exceeds Telegram limit, truncating",
			zap.Int("length", utf8.RuneCountInString(text)))
		text = string([]rune(text)[:truncateAt]) + truncationMarker
	}

	req := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":    c.chatID,
			"text":       text,
			"parse_mode": telegramParseMode,
		}).
		SetResult(&apiResponse{})

	resp, err := c.doRequest(ctx, req, fmt.Sprintf("/bot%s/sendMessage", c.token))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	result := resp.Result().(*apiResponse)
	if !result.OK {
		return fmt.Errorf("telegram rejected message: %s", result.Description)
	}

	c.logger.Debug("Message sent to Telegram", zap.Int("length", len(text)))
	return nil
}

// doRequest executes the request with rate limiting and retry on transient
// failures (HTTP 429 and 5xx).
func (c *Client) doRequest(ctx context.Context, req *resty.Request, url string) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err = req.Execute(http.MethodPost, url)
		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else {
			// Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Telegram request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
