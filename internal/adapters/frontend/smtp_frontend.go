package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/whitelist"
	"go.uber.org/zap"
)

// Verdict header values
const (
	HeaderValuePhishing = "phishing"
	HeaderValueClean    = "clean"
	HeaderValueTrusted  = "trusted"

	// AnalysisErrorHeader is added when a message passed through unanalyzed
	AnalysisErrorHeader = "X-Phish-Analysis-Error"
)

// SMTPFrontendConfig holds the SMTP content filter settings
type SMTPFrontendConfig struct {
	ListenAddress   string
	BlockCritical   bool
	AnalysisTimeout time.Duration
	VerdictHeader   string
	TierHeader      string
	ScoreHeader     string
	PostfixEnabled  bool
	PostfixAddress  string
	PostfixPort     int
}

// SMTPFrontend is a Postfix content filter that annotates mail with phishing verdicts
type SMTPFrontend struct {
	analyzer core.Analyzer
	trusted  *whitelist.Checker
	logger   *zap.Logger
	cfg      SMTPFrontendConfig
	server   *smtp.Server
}

// NewSMTPFrontend creates a new SMTP content filter. trusted may be nil.
func NewSMTPFrontend(analyzer core.Analyzer, trusted *whitelist.Checker, logger *zap.Logger, cfg SMTPFrontendConfig) *SMTPFrontend {
	return &SMTPFrontend{
		analyzer: analyzer,
		trusted:  trusted,
		logger:   logger,
		cfg:      cfg,
	}
}

// Start starts the SMTP server
func (f *SMTPFrontend) Start() error {
	f.server = smtp.NewServer(&smtpBackend{frontend: f})

	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	ln, err := net.Listen("tcp", f.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.cfg.ListenAddress, err)
	}

	f.logger.Info("SMTP frontend started", zap.String("address", ln.Addr().String()))

	go func() {
		if err := f.server.Serve(ln); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (f *SMTPFrontend) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail analyzes email text directly
func (f *SMTPFrontend) ProcessEmail(ctx context.Context, emailText string) (*core.Verdict, error) {
	return f.analyzer.Analyze(ctx, emailText)
}

// filterMessage analyzes a raw message and returns it with verdict headers prepended.
// Critical mail is refused with an *smtp.SMTPError when blocking is enabled.
func (f *SMTPFrontend) filterMessage(ctx context.Context, sender string, raw []byte) ([]byte, error) {
	var headers bytes.Buffer

	parsed, err := ParseEmail(raw)
	if err != nil {
		f.logger.Warn("Failed to parse message, passing through", zap.Error(err))
		writeHeader(&headers, AnalysisErrorHeader, err.Error())
		return append(headers.Bytes(), raw...), nil
	}

	if sender == "" {
		sender = parsed.From
	}
	if f.trusted != nil && (f.trusted.IsTrusted(sender) || f.trusted.IsTrusted(parsed.From)) {
		f.logger.Info("Skipping analysis for trusted sender", zap.String("sender", sender))
		writeHeader(&headers, f.cfg.VerdictHeader, HeaderValueTrusted)
		return append(headers.Bytes(), raw...), nil
	}

	if f.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.AnalysisTimeout)
		defer cancel()
	}

	verdict, err := f.analyzer.Analyze(ctx, parsed.AnalysisText())
	if err != nil {
		// The mail is delivered unannotated rather than lost
		f.logger.Error("Failed to analyze email",
			zap.Error(err),
			zap.String("sender", sender))
		writeHeader(&headers, AnalysisErrorHeader, err.Error())
		return append(headers.Bytes(), raw...), nil
	}

	if f.cfg.BlockCritical && verdict.IsMalicious && verdict.SeverityTier == core.SeverityCritical {
		f.logger.Info("Rejecting phishing email",
			zap.String("sender", sender),
			zap.Float64("score", verdict.Score))
		return nil, &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as phishing (score: %d)", verdict.DisplayScore),
		}
	}

	verdictValue := HeaderValueClean
	if verdict.IsMalicious {
		verdictValue = HeaderValuePhishing
	}
	writeHeader(&headers, f.cfg.VerdictHeader, verdictValue)
	writeHeader(&headers, f.cfg.TierHeader, string(verdict.SeverityTier))
	writeHeader(&headers, f.cfg.ScoreHeader, fmt.Sprintf("%d", verdict.DisplayScore))

	f.logger.Info("Processed email",
		zap.String("sender", sender),
		zap.Bool("is_malicious", verdict.IsMalicious),
		zap.String("tier", string(verdict.SeverityTier)),
		zap.Float64("score", verdict.Score))

	return append(headers.Bytes(), raw...), nil
}

// writeHeader writes a single-line header, folding any line breaks in value
func writeHeader(buf *bytes.Buffer, name, value string) {
	if name == "" {
		return
	}
	value = strings.Join(strings.Fields(value), " ")
	if len(value) > 200 {
		value = value[:200]
	}
	fmt.Fprintf(buf, "%s: %s\r\n", name, value)
}

// sendToPostfix re-injects the filtered message into Postfix
func (f *SMTPFrontend) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := net.JoinHostPort(f.cfg.PostfixAddress, fmt.Sprintf("%d", f.cfg.PostfixPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	frontend *SMTPFrontend
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{frontend: b.frontend}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	frontend   *SMTPFrontend
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data filters the message and forwards it to Postfix
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.frontend.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	filtered, err := s.frontend.filterMessage(context.Background(), s.sender, raw)
	if err != nil {
		return err
	}

	if !s.frontend.cfg.PostfixEnabled {
		s.frontend.logger.Warn("Postfix forwarding disabled, dropping filtered message",
			zap.String("sender", s.sender))
		return nil
	}

	if err := s.frontend.sendToPostfix(s.sender, s.recipients, filtered); err != nil {
		s.frontend.logger.Error("Failed to send email back to Postfix",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}

	return nil
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}
