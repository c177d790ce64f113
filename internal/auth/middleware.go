package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "identity"

// Middleware guards the signaling endpoints. A request without a valid
// credential cookie is rejected with 401 before any upgrade happens.
func Middleware(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(CookieName)
		if err != nil || value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
			return
		}
		cred, err := codec.Verify(value)
		if err != nil {
			log.Warn().Str("module", "auth").Msg("rejected handshake: bad credential")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			return
		}
		c.Set(identityKey, cred)
		c.Next()
	}
}

// Identity returns the credential the middleware attached to the request.
func Identity(c *gin.Context) (Credential, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Credential{}, false
	}
	cred, ok := v.(Credential)
	return cred, ok
}
