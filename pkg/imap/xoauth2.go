package imap

import (
	"context"
	"fmt"

	"github.com/emersion/go-sasl"
	"golang.org/x/oauth2"
)

// xoauth2Client implements the Gmail XOAUTH2 SASL mechanism.
type xoauth2Client struct {
	username    string
	accessToken string
}

// newXOAuth2Client returns a sasl.Client for the XOAUTH2 mechanism.
func newXOAuth2Client(username, accessToken string) sasl.Client {
	return &xoauth2Client{username: username, accessToken: accessToken}
}

func (c *xoauth2Client) Start() (mech string, ir []byte, err error) {
	ir = []byte("user=" + c.username + "\x01auth=Bearer " + c.accessToken + "\x01\x01")
	return "XOAUTH2", ir, nil
}

// Next answers a server error challenge with an empty response so the server
// can finish the exchange with a tagged NO.
func (c *xoauth2Client) Next(challenge []byte) ([]byte, error) {
	return []byte{}, nil
}

// fetchAccessToken exchanges the stored refresh token for a fresh Gmail access token.
// The exchange is abandoned when ctx is done.
func fetchAccessToken(ctx context.Context, endpoint oauth2.Endpoint, clientID, clientSecret, refreshToken string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refresh oauth token: %w", err)
	}
	return token.AccessToken, nil
}
