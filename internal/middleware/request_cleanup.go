package middleware

import (
	"io"
	"net/http"
	"strings"
)

// maxDrainBytes caps how much of an unread body is discarded. Anything larger
// is left for the server to close the connection on.
const maxDrainBytes = 64 << 10

// DrainAndCloseRequest discards what the handler left unread of the request
// body and closes it, so keep-alive connections can be reused. Upgraded
// requests (the live stats websocket) own their connection and are skipped.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || isUpgrade(r) {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = r.Body.Close()
		})
	}
}

func isUpgrade(r *http.Request) bool {
	for _, v := range r.Header.Values("Connection") {
		for _, token := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(token), "upgrade") {
				return true
			}
		}
	}
	return false
}
