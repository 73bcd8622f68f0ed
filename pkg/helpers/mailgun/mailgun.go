// SPDX-License-Identifier: MPL-2.0

// Package mailgun declares the options of the Mailgun HTTP API and sends
// simple messages through it with resty.
package mailgun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"resty.dev/v3"
)

// Group is the option group name used for shard registration.
const Group = "mailgun"

// DefaultAPIBase is the public Mailgun API endpoint.
const DefaultAPIBase = "https://api.mailgun.net/v3"

var (
	// ErrNoRecipients is returned when a message has no recipient.
	ErrNoRecipients = errors.New("no recipients")
	// ErrNotSent is the sentinel wrapped by SendError.
	ErrNotSent = errors.New("message not sent")
)

type (
	// Config is the resolved configuration of a Mailgun client.
	Config struct {
		APIKey  string
		Domain  string
		APIBase string
	}

	// MessageResponse is the body Mailgun answers a send request with.
	MessageResponse struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}

	// EmailStatus reports the outcome of a send request.
	EmailStatus struct {
		Sent       bool
		StatusCode int
		Result     MessageResponse
	}

	// SendError is returned when Mailgun rejects a message.
	SendError struct {
		StatusCode int
		Message    string
	}

	// Client sends messages for one Mailgun domain.
	Client struct {
		cfg    Config
		http   *resty.Client
		logger *log.Logger
	}

	// ClientOption configures a Client.
	ClientOption func(*Client)
)

// Error implements the error interface.
func (e *SendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mailgun rejected the message with status %d", e.StatusCode)
	}
	return fmt.Sprintf("mailgun rejected the message with status %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns ErrNotSent for errors.Is() compatibility.
func (e *SendError) Unwrap() error { return ErrNotSent }

// AddFlags declares the mailgun-* options of shard on fs. The API key and
// domain are required unless the environment or overrides provide them.
func AddFlags(reg *options.Registry, fs *pflag.FlagSet, shard string, overrides options.Overrides) ([]*options.Flag, error) {
	d := reg.Declare(fs, Group, shard, overrides)
	d.Add(options.Option{Name: "mailgun-api-key", Required: true,
		Help: "The Mailgun API Key to use"})
	d.Add(options.Option{Name: "mailgun-domain", Required: true,
		Help: "The Mailgun domain to use"})
	d.Add(options.Option{Name: "mailgun-api-base", Default: DefaultAPIBase,
		Help: "The Mailgun API endpoint"})
	return d.Flags(), d.Err()
}

// FromFlags reads the configuration of shard from a parsed flag set.
func FromFlags(reg *options.Registry, fs *pflag.FlagSet, shard string) (Config, error) {
	if err := reg.Shards.Validate(Group, shard); err != nil {
		return Config{}, err
	}
	r := options.NewReader(fs, shard)
	cfg := Config{
		APIKey:  r.String("mailgun-api-key"),
		Domain:  r.String("mailgun-domain"),
		APIBase: r.String("mailgun-api-base"),
	}
	if err := r.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithLogger sets the logger used to report sent messages.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// NewClient returns a client for cfg. Close releases its resources.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	c := &Client{
		cfg:    cfg,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "mailgun"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = resty.New()
	}
	c.http.SetBaseURL(strings.TrimRight(cfg.APIBase, "/")).
		SetBasicAuth("api", cfg.APIKey)
	return c
}

// Close releases the client's idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// SendSimpleMessage sends a plain text message. A message Mailgun does not
// accept yields a non-sent status and a *SendError.
func (c *Client) SendSimpleMessage(ctx context.Context, to []EmailAddress, sender EmailAddress, subject, body string) (EmailStatus, error) {
	if len(to) == 0 {
		return EmailStatus{}, ErrNoRecipients
	}
	recipients := make([]string, len(to))
	for i, addr := range to {
		recipients[i] = addr.String()
	}

	c.logger.Debug("sending email", "to", recipients, "subject", subject)

	var (
		result  MessageResponse
		failure MessageResponse
	)
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"from":    sender.String(),
			"to":      strings.Join(recipients, ","),
			"subject": subject,
			"text":    body,
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/" + c.cfg.Domain + "/messages")
	if err != nil {
		return EmailStatus{}, fmt.Errorf("send email: %w", err)
	}

	status := EmailStatus{
		Sent:       res.StatusCode() == http.StatusOK,
		StatusCode: res.StatusCode(),
		Result:     result,
	}
	c.logger.Info("email processed", "to", recipients, "subject", subject, "sent", status.Sent)
	if !status.Sent {
		msg := failure.Message
		if msg == "" {
			msg = strings.TrimSpace(res.String())
		}
		status.Result = failure
		return status, &SendError{StatusCode: status.StatusCode, Message: msg}
	}
	return status, nil
}
