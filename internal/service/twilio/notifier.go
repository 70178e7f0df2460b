package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	twiliosdk "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	drepo "StockAlert/internal/domain/repository"
	"StockAlert/pkg/logger"
)

// MaxBodyChars is the longest message body the Messages API accepts.
const MaxBodyChars = 1600

// ErrIncompleteCredentials is returned when any credential is missing and
// nothing was sent.
var ErrIncompleteCredentials = errors.New("twilio credentials not fully provided")

// Credentials identify the Twilio account and the sender/recipient numbers.
type Credentials struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
}

// Complete reports whether every credential field is set.
func (c Credentials) Complete() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != "" && c.ToNumber != ""
}

// Missing lists the names of the unset credential fields.
func (c Credentials) Missing() []string {
	var out []string
	if c.AccountSID == "" {
		out = append(out, "TWILIO_ACCOUNT_SID")
	}
	if c.AuthToken == "" {
		out = append(out, "TWILIO_AUTH_TOKEN")
	}
	if c.FromNumber == "" {
		out = append(out, "TWILIO_FROM_PHONE")
	}
	if c.ToNumber == "" {
		out = append(out, "TWILIO_TO_PHONE")
	}
	return out
}

// BodyLength counts the characters of an SMS body the way the API limit does.
func BodyLength(body string) int { return utf8.RuneCountInString(body) }

// Notifier sends SMS through the Twilio REST SDK.
type Notifier struct {
	creds Credentials
	rest  *twiliosdk.RestClient
	log   *logger.Logger
}

// New creates a Twilio SMS notifier. hc, when not nil, carries every API call.
func New(creds Credentials, hc *http.Client, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: creds.AccountSID,
		Password: creds.AuthToken,
	})
	if c, ok := rest.Client.(*twclient.Client); ok && hc != nil {
		c.HTTPClient = hc
	}
	return &Notifier{creds: creds, rest: rest, log: log}
}

// SendText delivers body as a single SMS. With incomplete credentials no
// request is made and ErrIncompleteCredentials is returned.
func (n *Notifier) SendText(ctx context.Context, body string) error {
	if !n.creds.Complete() {
		n.log.Warn("twilio credentials not fully provided, skipping sms",
			logger.Strings("missing", n.creds.Missing()))
		return ErrIncompleteCredentials
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetBody(body)
	params.SetFrom(n.creds.FromNumber)
	params.SetTo(n.creds.ToNumber)

	resp, err := n.rest.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	n.log.Info("sms dispatched",
		logger.String("sid", deref(resp.Sid)),
		logger.String("status", deref(resp.Status)),
		logger.Int("chars", BodyLength(body)))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ drepo.Notifier = (*Notifier)(nil)
