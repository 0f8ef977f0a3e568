package http

import (
	"net/http"

	auth "github.com/mind-engage/student-submissions/internal/auth/middleware"
	"github.com/mind-engage/student-submissions/internal/exam"
)

type submitReq struct {
	ExamName string   `json:"exam_name" validate:"required"`
	Answers  []string `json:"answers" validate:"required"`
}

// POST /submit-answers  { "exam_name": "...", "answers": ["a","b"] }
// Records the caller's answers, replacing an earlier submission for the exam.
func SubmitAnswersHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if !decodeBody(w, r, &req) {
			return
		}
		if err := exam.Validate(req); err != nil {
			writeError(w, r, exam.Invalid("invalid submission: %v", err))
			return
		}
		sub := auth.SubjectFromContext(r.Context())
		if err := svc.Submit(r.Context(), sub, req.ExamName, req.Answers); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Answers submitted successfully"})
	}
}

type calculateResp struct {
	Message string `json:"message"`
	exam.Calculation
}

// POST /calculate-result/me/{exam_name} scores the caller; the
// /calculate-result/{user_id}/{exam_name} form scores any user.
func CalculateResultHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := pathParam(r, "user_id")
		if userID == "" {
			userID = auth.SubjectFromContext(r.Context())
		}
		calc, err := svc.CalculateResult(r.Context(), userID, pathParam(r, "exam_name"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, calculateResp{Message: "Result calculated successfully", Calculation: calc})
	}
}
