package http

import (
	"errors"
	"net/http"

	auth "github.com/mind-engage/student-submissions/internal/auth/middleware"
	"github.com/mind-engage/student-submissions/internal/exam"
)

// POST /results  { "user_id": "...", "exam_results": [...] }
// Overwrites the user's whole outcome list.
func PutResultHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in exam.Result
		if !decodeBody(w, r, &in) {
			return
		}
		in.ID = ""
		if in.ExamResults == nil {
			in.ExamResults = []exam.Outcome{}
		}
		res, err := svc.PutResult(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /results
func ListResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := store.ListResults(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if results == nil {
			results = []exam.Result{}
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// GET /results/me
func MyResultHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.GetResult(r.Context(), auth.SubjectFromContext(r.Context()))
		if errors.Is(err, exam.ErrResultNotFound) {
			writeDetail(w, http.StatusNotFound, "No results found for current user")
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /results/{user_id}
func GetResultHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.GetResult(r.Context(), pathParam(r, "user_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
