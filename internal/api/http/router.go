package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/student-submissions/internal/auth/middleware"
	"github.com/mind-engage/student-submissions/internal/exam"
)

type Deps struct {
	Service     *exam.Service
	Auth        *auth.AuthService
	CORSOrigins []string
}

var apiInfo = map[string]any{
	"name":        "Student Submissions API",
	"description": "A backend to track submissions for certain exams by students",
	"capabilities": []string{
		"Track user specific marks",
		"Track subject specific marks for a user",
		"Track the questions posed to the user",
		"Track results for each exam for the user",
	},
	"endpoints": map[string]string{
		"users":            "/users/",
		"exams":            "/exams/",
		"results":          "/results/",
		"submit_answers":   "/submit-answers/",
		"calculate_result": "/calculate-result/",
	},
}

// NewRouter mounts every route. Paths are accepted with or without a
// trailing slash.
func NewRouter(d Deps) http.Handler {
	store := d.Service.Store()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.StripSlashes)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, apiInfo)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/register", CreateUserHandler(d.Service))
	r.Post("/auth/login", auth.LoginHandler(d.Auth, store))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth, store))

		pr.Get("/auth/me", MeHandler())

		pr.Route("/users", func(ur chi.Router) {
			ur.Post("/", CreateUserHandler(d.Service))
			ur.Get("/", ListUsersHandler(store))
			ur.Get("/{user_id}", GetUserHandler(store))
		})

		pr.Route("/exams", func(er chi.Router) {
			er.Post("/", CreateExamHandler(d.Service))
			er.Get("/", ListExamsHandler(store))
			er.Get("/{exam_name}", GetExamHandler(store))
		})

		pr.Post("/submit-answers", SubmitAnswersHandler(d.Service))

		pr.Route("/calculate-result", func(cr chi.Router) {
			cr.Post("/me/{exam_name}", CalculateResultHandler(d.Service))
			cr.Post("/{user_id}/{exam_name}", CalculateResultHandler(d.Service))
		})

		pr.Route("/results", func(rr chi.Router) {
			rr.Post("/", PutResultHandler(d.Service))
			rr.Get("/", ListResultsHandler(store))
			rr.Get("/me", MyResultHandler(store))
			rr.Get("/{user_id}", GetResultHandler(store))
		})
	})

	return r
}
