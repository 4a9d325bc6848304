package emailsend

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"
)

// SMTPTransport sends through an SMTP relay. Port 465 uses implicit TLS;
// other ports upgrade with STARTTLS when UseTLS is set.
type SMTPTransport struct {
	config  config.SMTPConfig
	timeout time.Duration
}

func NewSMTPTransport(cfg config.SMTPConfig, timeout time.Duration) *SMTPTransport {
	return &SMTPTransport{config: cfg, timeout: timeout}
}

func (t *SMTPTransport) Name() string { return ProviderSMTP }

func (t *SMTPTransport) Verify(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled before sending email: %w", err)
	}

	client, err := t.connect(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	messageID := t.messageID()

	if err = client.Mail(msg.From); err != nil {
		return "", fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range msg.To {
		if err = client.Rcpt(addr); err != nil {
			return "", fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(BuildMessage(msg, messageID)); err != nil {
		return "", fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("failed to close data writer: %w", err)
	}

	return messageID, client.Quit()
}

func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.config.Host, strconv.Itoa(t.config.Port))
	dialer := &net.Dialer{Timeout: t.timeout}
	tlsConfig := &tls.Config{ServerName: t.config.Host}

	var conn net.Conn
	var err error
	if t.config.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.config.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start SMTP session: %w", err)
	}

	if t.config.Port != 465 && t.config.UseTLS {
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if t.config.Username != "" && t.config.Password != "" {
		auth := smtp.PlainAuth("", t.config.Username, t.config.Password, t.config.Host)
		if err = client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	return client, nil
}

func (t *SMTPTransport) messageID() string {
	return fmt.Sprintf("<%d.local@%s>", time.Now().UnixNano(), t.config.Host)
}

// BuildMessage renders the RFC 5322 headers and HTML body.
func BuildMessage(msg Message, messageID string) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(msg.Subject)))
	if messageID != "" {
		b.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	return []byte(b.String())
}

// encodeHeader applies RFC 2047 encoding to non-ASCII subjects such as the naira sign.
func encodeHeader(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.QEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
