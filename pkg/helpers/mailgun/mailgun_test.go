// SPDX-License-Identifier: MPL-2.0

package mailgun

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/argparseutils/argparseutils/internal/testutil"
	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/charmbracelet/log"
)

func TestAddFlags_APIKeyStaysRequired(t *testing.T) {
	t.Parallel()

	reg := testutil.NewRegistry(t, map[string]string{"MAILGUN_DOMAIN": "mg.example.com"})
	fs := testutil.NewFlagSet("mailgun")
	flags, err := AddFlags(reg, fs, "", nil)
	if err != nil {
		t.Fatalf("AddFlags() unexpected error: %v", err)
	}

	required := map[string]bool{}
	for _, f := range flags {
		required[f.Name] = f.Required
	}
	if !required["mailgun-api-key"] {
		t.Error("mailgun-api-key should stay required without a default")
	}
	if required["mailgun-domain"] || required["mailgun-api-base"] {
		t.Errorf("domain and api base have defaults and must be optional: %v", required)
	}

	testutil.MustParse(t, fs)
	var missing *options.MissingRequiredError
	if err := options.CheckRequired(fs); !errors.As(err, &missing) || len(missing.Flags) != 1 || missing.Flags[0] != "mailgun-api-key" {
		t.Errorf("CheckRequired() = %v, want only mailgun-api-key missing", err)
	}
}

func TestFromFlags(t *testing.T) {
	t.Parallel()

	reg := testutil.NewRegistry(t, map[string]string{"ALERTS_MAILGUN_API_KEY": "key-123"})
	fs := testutil.NewFlagSet("mailgun")
	if _, err := AddFlags(reg, fs, "alerts", options.Overrides{"mailgun-domain": "mg.example.com"}); err != nil {
		t.Fatalf("AddFlags() unexpected error: %v", err)
	}
	testutil.MustParse(t, fs)

	cfg, err := FromFlags(reg, fs, "alerts")
	if err != nil {
		t.Fatalf("FromFlags() unexpected error: %v", err)
	}
	want := Config{APIKey: "key-123", Domain: "mg.example.com", APIBase: DefaultAPIBase}
	if cfg != want {
		t.Errorf("FromFlags() = %+v, want %+v", cfg, want)
	}

	if _, err := FromFlags(reg, fs, ""); !errors.Is(err, options.ErrInvalidShard) {
		t.Errorf("FromFlags(unregistered) = %v, want ErrInvalidShard", err)
	}
}

func TestSendSimpleMessage(t *testing.T) {
	t.Parallel()

	var got struct {
		path, user, pass       string
		from, to, subject, txt string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.user, got.pass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got.from, got.to = r.PostForm.Get("from"), r.PostForm.Get("to")
		got.subject, got.txt = r.PostForm.Get("subject"), r.PostForm.Get("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"<20240101.1@mg.example.com>","message":"Queued. Thank you."}`)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "key-123", Domain: "mg.example.com", APIBase: srv.URL + "/v3/"}, WithLogger(log.New(io.Discard)))
	defer testutil.DeferClose(t, client)()

	to := []EmailAddress{{Name: "Alice", Address: "alice@example.com"}, {Address: "bob@example.com"}}
	status, err := client.SendSimpleMessage(context.Background(), to, EmailAddress{Address: "noreply@example.com"}, "hello", "body")
	if err != nil {
		t.Fatalf("SendSimpleMessage() unexpected error: %v", err)
	}
	if !status.Sent || status.StatusCode != http.StatusOK || status.Result.Message != "Queued. Thank you." {
		t.Errorf("status = %+v", status)
	}
	if got.path != "/v3/mg.example.com/messages" {
		t.Errorf("path = %q", got.path)
	}
	if got.user != "api" || got.pass != "key-123" {
		t.Errorf("basic auth = %q/%q, want api/key-123", got.user, got.pass)
	}
	if got.to != `"Alice" <alice@example.com>,bob@example.com` {
		t.Errorf("to = %q", got.to)
	}
	if got.from != "noreply@example.com" || got.subject != "hello" || got.txt != "body" {
		t.Errorf("form = %+v", got)
	}
}

func TestSendSimpleMessage_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid private key"}`)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "bad", Domain: "mg.example.com", APIBase: srv.URL}, WithLogger(log.New(io.Discard)))
	defer testutil.DeferClose(t, client)()

	status, err := client.SendSimpleMessage(context.Background(), []EmailAddress{{Address: "a@example.com"}}, EmailAddress{Address: "b@example.com"}, "s", "b")
	if !errors.Is(err, ErrNotSent) {
		t.Fatalf("SendSimpleMessage() error = %v, want ErrNotSent", err)
	}
	var sendErr *SendError
	if !errors.As(err, &sendErr) || sendErr.StatusCode != http.StatusUnauthorized || sendErr.Message != "Invalid private key" {
		t.Errorf("error = %+v", err)
	}
	if status.Sent || status.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %+v", status)
	}
}

func TestSendSimpleMessage_NoRecipients(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{APIKey: "k", Domain: "d"}, WithLogger(log.New(io.Discard)))
	defer testutil.DeferClose(t, client)()
	if _, err := client.SendSimpleMessage(context.Background(), nil, EmailAddress{Address: "a@example.com"}, "s", "b"); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("SendSimpleMessage() = %v, want ErrNoRecipients", err)
	}
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    EmailAddress
		str     string
		wantErr bool
	}{
		{"alice@example.com", EmailAddress{Address: "alice@example.com"}, "alice@example.com", false},
		{"Alice Smith <alice@example.com>", EmailAddress{Name: "Alice Smith", Address: "alice@example.com"}, `"Alice Smith" <alice@example.com>`, false},
		{"  <bob@example.com> ", EmailAddress{Address: "bob@example.com"}, "bob@example.com", false},
		{"not an address", EmailAddress{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("ParseAddress(%q) error = %v, want ErrInvalidAddress", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAddress(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want || got.String() != tt.str {
				t.Errorf("ParseAddress(%q) = %+v (%s), want %+v (%s)", tt.in, got, got, tt.want, tt.str)
			}
		})
	}

	list, err := ParseAddressList([]string{"a@example.com", "B <b@example.com>"})
	if err != nil || len(list) != 2 || list[1].Name != "B" {
		t.Errorf("ParseAddressList() = %v, %v", list, err)
	}
	if _, err := ParseAddressList([]string{"a@example.com", "nope"}); err == nil {
		t.Error("ParseAddressList() with a bad entry should fail")
	}
}
