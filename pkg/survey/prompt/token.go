package prompt

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies what a choice token selects.
type Kind string

const (
	KindSegment    Kind = "seg"
	KindCategory   Kind = "cat"
	KindDesignator Kind = "des"

	KindDone    Kind = "done"
	KindConfirm Kind = "confirm"
	KindCancel  Kind = "cancel"

	// Read-only menus; valid in any state.
	KindReportMenu     Kind = "rpt"
	KindReportSegment  Kind = "rseg"
	KindInfoMenu       Kind = "info"
	KindInfoCategory   Kind = "icat"
	KindInfoDesignator Kind = "ides"
)

// EncodeToken builds an opaque choice token. The value is percent-encoded so
// arbitrary catalog text survives the round trip. Telegram caps callback data
// at 64 bytes, which catalog names fit comfortably.
func EncodeToken(kind Kind, value string) string {
	if value == "" {
		return string(kind)
	}
	return fmt.Sprintf("%s:%s", kind, url.QueryEscape(value))
}

// DecodeToken parses a token back into (kind, value).
func DecodeToken(token string) (Kind, string, error) {
	raw, encodedValue, found := strings.Cut(token, ":")
	kind := Kind(raw)

	switch kind {
	case KindSegment, KindCategory, KindDesignator,
		KindDone, KindConfirm, KindCancel,
		KindReportMenu, KindReportSegment,
		KindInfoMenu, KindInfoCategory, KindInfoDesignator:
	default:
		return "", "", fmt.Errorf("unknown choice token %q", token)
	}

	if !found {
		return kind, "", nil
	}

	value, err := url.QueryUnescape(encodedValue)
	if err != nil {
		return "", "", fmt.Errorf("malformed choice token %q: %w", token, err)
	}
	return kind, value, nil
}
