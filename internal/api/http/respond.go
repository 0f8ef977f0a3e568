package http

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/student-submissions/internal/exam"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeError maps a domain error to its status. Store and decode failures
// are logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch exam.KindOf(err) {
	case exam.KindNotFound:
		writeDetail(w, http.StatusNotFound, err.Error())
	case exam.KindConflict, exam.KindInvalidState, exam.KindInvalid:
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

// pathParam returns the unescaped value of a route parameter; chi hands out
// the raw segment when the path carried escapes such as %2F.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
