package insights

import (
	"fmt"

	"github.com/gorilla/securecookie"
)

const sessionHandleName = "insights_session"

// SessionCodec signs session ids into opaque handles so clients cannot
// guess or forge another viewer's session.
type SessionCodec struct {
	codec *securecookie.SecureCookie
}

// NewSessionCodec builds a codec from hashKey. An empty key generates a
// random one, which invalidates handles on restart. Handles carry no
// expiry: securecookie would age them from the moment the session opened,
// so idle lifetime is enforced by Service.PruneIdle instead.
func NewSessionCodec(hashKey []byte) (*SessionCodec, error) {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
		if hashKey == nil {
			return nil, fmt.Errorf("insights: generate session hash key")
		}
	}
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0)
	return &SessionCodec{codec: codec}, nil
}

// Encode returns the signed handle for a session id.
func (c *SessionCodec) Encode(sessionID string) (string, error) {
	handle, err := c.codec.Encode(sessionHandleName, sessionID)
	if err != nil {
		return "", fmt.Errorf("insights: encode session handle: %w", err)
	}
	return handle, nil
}

// Decode verifies a handle and returns its session id. Invalid handles
// report not found so forged values are indistinguishable from closed
// sessions.
func (c *SessionCodec) Decode(handle string) (string, error) {
	var sessionID string
	if err := c.codec.Decode(sessionHandleName, handle, &sessionID); err != nil {
		return "", sessionNotFound(handle)
	}
	return sessionID, nil
}
