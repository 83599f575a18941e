package service

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Dan9191/bank-onboarding/internal/integrations/basiq"
)

type linkExtractor func(payload any) string

// linkExtractors are tried in order; the first non-empty result wins.
var linkExtractors = []linkExtractor{
	directURL,
	publicLink,
	nestedObjectURL,
	nestedArrayURL,
	rawLinkString,
}

// ExtractAuthLink finds the hosted link URL in a successful auth link
// response. When no URL is present the link is built from the response id.
func ExtractAuthLink(body []byte) (string, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = strings.TrimSpace(string(body))
	}

	for _, extract := range linkExtractors {
		if link := extract(payload); link != "" {
			return link, nil
		}
	}

	if id := stringField(asObject(payload), "id"); id != "" {
		return fmt.Sprintf("%s/%s?action=connect", basiq.ConnectURL, url.PathEscape(id)), nil
	}
	return "", fmt.Errorf("%w: %s", ErrLinkExtraction, strings.TrimSpace(string(body)))
}

func directURL(payload any) string {
	return stringField(asObject(payload), "url")
}

func publicLink(payload any) string {
	return stringField(asObject(asObject(payload)["links"]), "public")
}

func nestedObjectURL(payload any) string {
	return stringField(asObject(asObject(payload)["data"]), "url")
}

func nestedArrayURL(payload any) string {
	items, ok := asObject(payload)["data"].([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	return stringField(asObject(items[0]), "url")
}

func rawLinkString(payload any) string {
	s, ok := payload.(string)
	if !ok || !strings.Contains(s, "connect.basiq.io") {
		return ""
	}
	return s
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
