package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"admissions-backend/pkg/config"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RawMessage is one fetched message in RFC 5322 form.
type RawMessage struct {
	UID  uint32
	Data []byte
}

// Session is an authenticated connection with a folder selected.
type Session interface {
	// SearchReplies returns messages dated on or after since whose Subject contains marker.
	SearchReplies(since time.Time, marker string) ([]RawMessage, error)
	Close() error
}

type dialFunc func(addr string, creds config.MailCredentials) (*client.Client, error)

func dialTLS(addr string, creds config.MailCredentials) (*client.Client, error) {
	dialer := &net.Dialer{Timeout: creds.AuthTimeout}
	return client.DialWithDialerTLS(dialer, addr, &tls.Config{ServerName: creds.Host})
}

// IMAPService opens read-only sessions against the admissions mailbox.
type IMAPService struct {
	dial          dialFunc
	tokenEndpoint oauth2.Endpoint
}

func NewService() *IMAPService {
	return &IMAPService{
		dial:          dialTLS,
		tokenEndpoint: google.Endpoint,
	}
}

// OpenSent connects, authenticates and selects the sent folder read-only.
// The dial, the OAuth token exchange and the login commands are bounded by
// creds.AuthTimeout; later commands are not.
func (s *IMAPService) OpenSent(ctx context.Context, creds config.MailCredentials) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(creds.Host, fmt.Sprintf("%d", creds.Port))
	c, err := s.dial(addr, creds)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	authCtx, cancel := ctx, context.CancelFunc(func() {})
	if creds.AuthTimeout > 0 {
		authCtx, cancel = context.WithTimeout(ctx, creds.AuthTimeout)
	}
	defer cancel()

	c.Timeout = creds.AuthTimeout
	if err := s.authenticate(authCtx, c, creds); err != nil {
		_ = c.Logout()
		return nil, err
	}
	c.Timeout = 0

	if _, err := c.Select(creds.SentFolder, true); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("select %q: %w", creds.SentFolder, err)
	}

	log.Printf("[IMAP] Opened %q on %s as %s", creds.SentFolder, creds.Host, creds.User)
	return &sentSession{c: c}, nil
}

func (s *IMAPService) authenticate(ctx context.Context, c *client.Client, creds config.MailCredentials) error {
	if creds.OAuthRefreshToken != "" {
		accessToken, err := fetchAccessToken(ctx, s.tokenEndpoint, creds.OAuthClientID, creds.OAuthClientSecret, creds.OAuthRefreshToken)
		if err != nil {
			return err
		}
		if err := c.Authenticate(newXOAuth2Client(creds.User, accessToken)); err != nil {
			return fmt.Errorf("xoauth2 authenticate: %w", err)
		}
		return nil
	}

	if err := c.Login(creds.User, creds.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

type sentSession struct {
	c *client.Client
}

func (s *sentSession) SearchReplies(since time.Time, marker string) ([]RawMessage, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	criteria.Header.Add("Subject", marker)

	uids, err := s.c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.c.UidFetch(seqset, items, messages)
	}()

	var out []RawMessage
	var readErr error
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		data, err := io.ReadAll(body)
		if err != nil {
			// keep draining so the fetch goroutine can finish
			if readErr == nil {
				readErr = fmt.Errorf("read message %d: %w", msg.Uid, err)
			}
			continue
		}
		out = append(out, RawMessage{UID: msg.Uid, Data: data})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if readErr != nil {
		log.Printf("[IMAP] %v", readErr)
	}
	return out, nil
}

func (s *sentSession) Close() error {
	return s.c.Logout()
}
