// Package auth issues and verifies the identity credential a client must
// present when it connects. Verification happens before the WebSocket
// upgrade, so a rejected client never reaches the presence registry.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/gorilla/securecookie"

	"github.com/chatline/chatline/internal/domain"
)

const CookieName = "chatline_id"

var ErrInvalidCredential = errors.New("invalid credential")

// Credential is the identity carried in the signed cookie.
type Credential struct {
	UserID   domain.UserID
	Username string
	Avatar   string
}

func (c Credential) User() *domain.User {
	return &domain.User{ID: c.UserID, Username: c.Username, Avatar: c.Avatar}
}

// Codec signs and verifies credentials with keys derived from the server
// secret. Cookies are both authenticated and encrypted, so clients cannot
// mint or alter an identity.
type Codec struct {
	sc *securecookie.SecureCookie
}

func NewCodec(secret string) *Codec {
	hashKey := sha256.Sum256([]byte("chatline.hash:" + secret))
	blockKey := sha256.Sum256([]byte("chatline.block:" + secret))
	return &Codec{sc: securecookie.New(hashKey[:], blockKey[:])}
}

// Issue encodes a credential into a cookie value.
func (c *Codec) Issue(cred Credential) (string, error) {
	encoded, err := c.sc.Encode(CookieName, cred)
	if err != nil {
		return "", fmt.Errorf("encode credential: %w", err)
	}
	return encoded, nil
}

// Verify decodes and authenticates a cookie value. Any failure (garbage,
// tampering, wrong key, expiry) collapses into ErrInvalidCredential; the
// handshake surface does not distinguish.
func (c *Codec) Verify(value string) (Credential, error) {
	var cred Credential
	if err := c.sc.Decode(CookieName, value, &cred); err != nil {
		return Credential{}, ErrInvalidCredential
	}
	if cred.UserID == "" {
		return Credential{}, ErrInvalidCredential
	}
	return cred, nil
}
