// Package email sends multipart text/HTML mail over SMTP, with either
// implicit TLS or STARTTLS.
package email

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Message is a single outbound email.
type Message struct {
	From      string
	To        string
	Subject   string
	Text      string
	HTML      string
	MessageID string
}

// Transport holds SMTP connection settings.
type Transport struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS; otherwise the connection is upgraded
	// with STARTTLS when the server offers it.
	Secure bool
	// SkipVerify disables certificate verification (development only).
	SkipVerify bool
}

func (t Transport) addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

func (t Transport) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         t.Host,
		InsecureSkipVerify: t.SkipVerify,
	}
}

func (t Transport) dial() (*smtp.Client, error) {
	if t.Secure {
		conn, err := tls.Dial("tcp", t.addr(), t.tlsConfig())
		if err != nil {
			return nil, fmt.Errorf("tls dial %s failed: %w", t.addr(), err)
		}
		c, err := smtp.NewClient(conn, t.Host)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("smtp handshake with %s failed: %w", t.addr(), err)
		}
		return c, nil
	}

	c, err := smtp.Dial(t.addr())
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", t.addr(), err)
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(t.tlsConfig()); err != nil {
			c.Close()
			return nil, fmt.Errorf("starttls with %s failed: %w", t.addr(), err)
		}
	}
	return c, nil
}

// Verify opens a connection, authenticates, and quits. It proves the
// transport is usable without sending anything.
func (t Transport) Verify() error {
	c, err := t.dial()
	if err != nil {
		return err
	}
	defer c.Close()

	if t.Username != "" {
		auth := smtp.PlainAuth("", t.Username, t.Password, t.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}
	return c.Quit()
}

// Send delivers msg as a multipart/alternative message.
func (t Transport) Send(msg Message) error {
	if !strings.Contains(msg.To, "@") {
		return fmt.Errorf("invalid email address: %s", msg.To)
	}

	c, err := t.dial()
	if err != nil {
		return err
	}
	defer c.Close()

	if t.Username != "" {
		auth := smtp.PlainAuth("", t.Username, t.Password, t.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	envelopeFrom := extractAddress(msg.From)
	if err := c.Mail(envelopeFrom); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("RCPT TO rejected: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(build(msg)); err != nil {
		return fmt.Errorf("write message body failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message body failed: %w", err)
	}
	return c.Quit()
}

// build assembles the raw RFC 822 message bytes.
func build(msg Message) []byte {
	var b strings.Builder
	boundary := "vilo-" + fmt.Sprintf("%d", time.Now().UnixNano())

	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	// accented subjects need RFC 2047 encoding; ASCII passes through as is
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	if msg.MessageID != "" {
		fmt.Fprintf(&b, "Message-ID: %s\r\n", msg.MessageID)
	}
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.Text)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text)
	fmt.Fprintf(&b, "\r\n--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)
	fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)
	return []byte(b.String())
}

// extractAddress strips an optional display name from "Name <addr>".
func extractAddress(from string) string {
	if i := strings.IndexByte(from, '<'); i >= 0 {
		if j := strings.IndexByte(from[i:], '>'); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return from
}
