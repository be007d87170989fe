package http

import (
	"encoding/base64"
	"strings"
)

// Header is a single request header entry.
type Header struct {
	Name  string
	Value string
}

func CustomHeader(name, value string) Header {
	return Header{Name: name, Value: value}
}

func ContentTypeHeader(value string) Header {
	return Header{Name: "Content-Type", Value: value}
}

func AcceptHeader(value string) Header {
	return Header{Name: "Accept", Value: value}
}

func AuthorizationHeader(value string) Header {
	return Header{Name: "Authorization", Value: value}
}

func BearerAuthHeader(token string) Header {
	return AuthorizationHeader("Bearer " + token)
}

func BasicAuthHeader(username, password string) Header {
	creds := username + ":" + password
	return AuthorizationHeader("Basic " + base64.StdEncoding.EncodeToString([]byte(creds)))
}

func UserAgentHeader(value string) Header {
	return Header{Name: "User-Agent", Value: value}
}

// ParseHeaderBlock converts a raw CRLF-delimited response header block into
// a map keyed by lower-cased header name. Values are trimmed, may contain
// colons, and later duplicates overwrite earlier ones. Lines without a colon
// are skipped.
func ParseHeaderBlock(raw string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(raw, "\r\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(key)] = strings.TrimSpace(value)
	}
	return headers
}
