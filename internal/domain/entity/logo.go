package entity

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// LogoSourceKind tells where logo bytes come from.
type LogoSourceKind int

const (
	LogoSourceHTTP LogoSourceKind = iota + 1
	LogoSourceDataURI
	LogoSourcePath
)

func (k LogoSourceKind) String() string {
	switch k {
	case LogoSourceHTTP:
		return "http"
	case LogoSourceDataURI:
		return "data-uri"
	case LogoSourcePath:
		return "path"
	default:
		return "unknown"
	}
}

// LogoSource is the resolved form of a logo reference.
// Data is only set for LogoSourceDataURI.
type LogoSource struct {
	Kind     LogoSourceKind
	Location string
	Data     []byte
}

// ParseLogoSource classifies a raw logo reference by prefix.
// Data URIs are decoded here so nothing downstream sees the string form.
func ParseLogoSource(raw string) (LogoSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LogoSource{}, fmt.Errorf("empty logo source")
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return LogoSource{}, fmt.Errorf("invalid logo url %q", raw)
		}
		return LogoSource{Kind: LogoSourceHTTP, Location: raw}, nil
	case strings.HasPrefix(lower, "data:"):
		data, err := decodeDataURI(raw)
		if err != nil {
			return LogoSource{}, err
		}
		return LogoSource{Kind: LogoSourceDataURI, Location: "data-uri", Data: data}, nil
	default:
		return LogoSource{Kind: LogoSourcePath, Location: raw}, nil
	}
}

// decodeDataURI handles "data:[<mime>][;base64],<payload>".
func decodeDataURI(raw string) ([]byte, error) {
	header, payload, ok := strings.Cut(raw[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri: missing comma")
	}
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data uri: %w", err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data uri: %w", err)
	}
	return []byte(unescaped), nil
}

// EncodeDataURI is the inverse of the base64 branch of decodeDataURI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
