package imap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// ParsedMessage holds the parts of a message the reply sync cares about.
type ParsedMessage struct {
	MessageID string
	Subject   string
	To        []string
	Date      time.Time
	TextBody  string
}

// Recipient returns the primary (first) To address, or "".
func (m *ParsedMessage) Recipient() string {
	if len(m.To) == 0 {
		return ""
	}
	return m.To[0]
}

// ParseMessage decodes headers and the first inline text/plain part.
// Transfer encodings and non-UTF-8 charsets are decoded.
func ParseMessage(raw []byte) (*ParsedMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("read message: %w", err)
	}
	if mr == nil {
		return nil, errors.New("read message: empty reader")
	}

	parsed := &ParsedMessage{}
	parsed.Subject, _ = mr.Header.Subject()
	parsed.MessageID, _ = mr.Header.MessageID()
	parsed.Date, _ = mr.Header.Date()

	if addrs, err := mr.Header.AddressList("To"); err == nil {
		for _, a := range addrs {
			parsed.To = append(parsed.To, a.Address)
		}
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if contentType != "" && !strings.EqualFold(contentType, "text/plain") {
			continue
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, fmt.Errorf("read text part: %w", err)
		}
		parsed.TextBody = string(body)
		break
	}

	return parsed, nil
}
