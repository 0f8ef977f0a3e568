package http

import (
	"net/http"

	auth "github.com/mind-engage/student-submissions/internal/auth/middleware"
	"github.com/mind-engage/student-submissions/internal/exam"
)

// userResponse is the public view of a user; the credential never leaves
// the server.
type userResponse struct {
	UserID        string            `json:"user_id"`
	UserName      string            `json:"user_name"`
	ExamsEnrolled []string          `json:"exams_enrolled"`
	ExamAnswers   []exam.Submission `json:"exam_answers"`
	IsActive      bool              `json:"is_active"`
}

func toUserResponse(u exam.User) userResponse {
	out := userResponse{
		UserID:        u.UserID,
		UserName:      u.UserName,
		ExamsEnrolled: u.ExamsEnrolled,
		ExamAnswers:   u.ExamAnswers,
		IsActive:      u.IsActive,
	}
	if out.ExamsEnrolled == nil {
		out.ExamsEnrolled = []string{}
	}
	if out.ExamAnswers == nil {
		out.ExamAnswers = []exam.Submission{}
	}
	return out
}

// POST /auth/register and POST /users
// { "user_id": "...", "user_name": "...", "password": "<client hash>", "exams_enrolled": [...] }
func CreateUserHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in exam.NewUser
		if !decodeBody(w, r, &in) {
			return
		}
		u, err := svc.RegisterUser(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// GET /auth/me
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// GET /users
func ListUsersHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /users/{user_id}
func GetUserHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := store.GetUser(r.Context(), pathParam(r, "user_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}
