package idempotency

import (
	"net/http"
	"strings"
)

const Header = "Idempotency-Key"

func Key(r *http.Request) string {
	return KeyFrom(r.Header)
}

func KeyFrom(h http.Header) string {
	return strings.TrimSpace(h.Get(Header))
}
