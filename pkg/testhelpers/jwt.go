package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// GenerateTestJWT creates a test JWT token for use when verification is
// disabled. The token has a valid structure but no signature (alg: none).
// This is useful for testing auth flows without needing real JWKS
// validation.
func GenerateTestJWT(sub, name string, roles ...string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload := map[string]any{"sub": sub}
	if name != "" {
		payload["name"] = name
	}
	if len(roles) > 0 {
		payload["roles"] = roles
	}

	body, _ := json.Marshal(payload)
	encodedPayload := base64.RawURLEncoding.EncodeToString(body)
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateTestJWTWithBearer returns the token with a "Bearer " prefix for
// the Authorization header.
func GenerateTestJWTWithBearer(sub, name string, roles ...string) string {
	return "Bearer " + GenerateTestJWT(sub, name, roles...)
}
