// Copyright (c) 2025, Rackpulse Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package appliance

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/rackpulse/rackpulse/pkg/config"
)

// apiKeyPattern matches the vendor's API-key shape: a numeric key id, a
// dash, then the secret.
var apiKeyPattern = regexp.MustCompile(`^\d+-\S+$`)

// credential is the resolved authentication request for one token.
type credential struct {
	method string
	params []any
}

// resolveCredential maps the single configured token slot onto an auth
// method. The deployment accepts either an opaque API key or a base64
// user:password pair through the same slot, so by default the form is
// sniffed from the token's shape: base64 that decodes to user:password
// (contains a colon) and does not look like an API key is sent as a
// username/password login. An explicit kind bypasses the sniffing, since a
// key that happens to decode as base64 would otherwise be misclassified.
func resolveCredential(token string, kind config.AuthKind) credential {
	switch kind {
	case config.AuthAPIKey:
		return credential{method: methodLoginAPIKey, params: []any{token}}
	case config.AuthPassword:
		if user, pass, ok := decodeUserPass(token); ok {
			return credential{method: methodLoginPassword, params: []any{user, pass}}
		}
		// Not decodable: send as-is and let the server reject it.
		return credential{method: methodLoginPassword, params: []any{token, ""}}
	}

	if !apiKeyPattern.MatchString(token) {
		if user, pass, ok := decodeUserPass(token); ok {
			return credential{method: methodLoginPassword, params: []any{user, pass}}
		}
	}
	return credential{method: methodLoginAPIKey, params: []any{token}}
}

// decodeUserPass attempts to read the token as base64 "user:password".
func decodeUserPass(token string) (user, pass string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", false
	}
	decoded := string(raw)
	i := strings.IndexByte(decoded, ':')
	if i <= 0 {
		return "", "", false
	}
	return decoded[:i], decoded[i+1:], true
}
