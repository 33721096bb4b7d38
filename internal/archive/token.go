// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

const (
	// tokenBytes is the entropy behind one token; tokens are its hex form.
	tokenBytes = 10
	// TokenLength is the length of every termination token.
	TokenLength = tokenBytes * 2
	// maxTokenDraws bounds redraws of a random token that hit a payload line.
	maxTokenDraws = 8
)

// tokenDomainKey keys the BLAKE3 hash used for reproducible tokens. It is
// the ASCII text "shzip.heredoc.token" zero-padded to 32 bytes; changing it
// changes every reproducible archive.
var tokenDomainKey = [32]byte{
	's', 'h', 'z', 'i', 'p', '.', 'h', 'e', 'r', 'e', 'd', 'o', 'c', '.',
	't', 'o', 'k', 'e', 'n',
}

// TokenGenerator produces here-document delimiters.
type TokenGenerator struct {
	reproducible bool
	random       io.Reader
}

// NewTokenGenerator returns a generator. In reproducible mode tokens are a
// keyed BLAKE3 digest of the body; otherwise they come from crypto/rand.
func NewTokenGenerator(reproducible bool) *TokenGenerator {
	return &TokenGenerator{reproducible: reproducible, random: rand.Reader}
}

// Token returns a delimiter for body, the escaped payload exactly as it
// will appear in the script. The token never equals a line of body.
func (g *TokenGenerator) Token(path string, body []byte) (string, error) {
	if g.reproducible {
		token := derivedToken(body)
		if containsLine(body, token) {
			return "", &TokenCollisionError{Path: path, Token: token}
		}
		return token, nil
	}

	var token string
	for range maxTokenDraws {
		buf := make([]byte, tokenBytes)
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("draw termination token: %w", err)
		}
		token = hex.EncodeToString(buf)
		if !containsLine(body, token) {
			return token, nil
		}
	}
	return "", &TokenCollisionError{Path: path, Token: token}
}

func derivedToken(body []byte) string {
	h, err := blake3.NewKeyed(tokenDomainKey[:])
	if err != nil {
		// NewKeyed only rejects keys that are not 32 bytes long.
		panic(fmt.Sprintf("archive: invalid token domain key: %v", err))
	}
	_, _ = h.Write(body)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:tokenBytes])
}

// containsLine reports whether any newline-separated line of body equals line.
func containsLine(body []byte, line string) bool {
	needle := []byte(line)
	for len(body) > 0 {
		end := bytes.IndexByte(body, '\n')
		if end < 0 {
			return bytes.Equal(body, needle)
		}
		if bytes.Equal(body[:end], needle) {
			return true
		}
		body = body[end+1:]
	}
	return false
}
