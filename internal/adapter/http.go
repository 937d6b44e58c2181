package adapter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
)

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func newClient(rawURL string, timeout time.Duration, log *logger.Logger) (*utils.HTTPClient, error) {
	baseURL, err := normalizeBaseURL(rawURL)
	if err != nil {
		return nil, err
	}

	return utils.NewHTTPClient(baseURL, timeout).WithLogging(log), nil
}
