package http

import (
	"net/http"

	"github.com/mind-engage/student-submissions/internal/exam"
)

// POST /exams
func CreateExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in exam.Exam
		if !decodeBody(w, r, &in) {
			return
		}
		e, err := svc.CreateExam(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// GET /exams
func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exams, err := store.ListExams(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if exams == nil {
			exams = []exam.Exam{}
		}
		writeJSON(w, http.StatusOK, exams)
	}
}

// GET /exams/{exam_name}
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExam(r.Context(), pathParam(r, "exam_name"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}
