package exam

import (
	"context"

	"github.com/mind-engage/student-submissions/internal/grading"
)

// Service owns the write paths: registering users, creating exams, tracking
// submissions and scoring them.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// Store exposes the backing store for read-only handlers.
func (s *Service) Store() Store { return s.store }

// NewUser carries a registration request. Password is stored as given: the
// client hashes it.
type NewUser struct {
	UserID        string   `json:"user_id" validate:"required"`
	UserName      string   `json:"user_name" validate:"required"`
	Password      string   `json:"password" validate:"required"`
	ExamsEnrolled []string `json:"exams_enrolled"`
}

func (s *Service) RegisterUser(ctx context.Context, in NewUser) (User, error) {
	if err := validate.Struct(in); err != nil {
		return User{}, Invalid("invalid user: %v", err)
	}
	enrolled := in.ExamsEnrolled
	if enrolled == nil {
		enrolled = []string{}
	}
	return s.store.CreateUser(ctx, User{
		UserID:         in.UserID,
		UserName:       in.UserName,
		HashedPassword: in.Password,
		ExamsEnrolled:  enrolled,
		ExamAnswers:    []Submission{},
		IsActive:       true,
	})
}

// CreateExam rejects exams without questions and questions whose
// correct_option is not one of their options.
func (s *Service) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	e.ID = ""
	if err := checkNewExam(e); err != nil {
		return Exam{}, err
	}
	return s.store.CreateExam(ctx, e)
}

// Submit records answers for (userID, examName), replacing any earlier
// submission for that exam. The exam must exist and the user must be
// enrolled in it.
func (s *Service) Submit(ctx context.Context, userID, examName string, answers []string) error {
	if _, err := s.store.GetExam(ctx, examName); err != nil {
		return err
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.Enrolled(examName) {
		return ErrNotEnrolled
	}
	if answers == nil {
		answers = []string{}
	}
	return s.store.ReplaceSubmission(ctx, userID, Submission{ExamName: examName, Answers: answers})
}

// Calculation is what CalculateResult reports back to the caller.
type Calculation struct {
	Score      string `json:"score"`
	Percentage string `json:"percentage"`
	Grade      string `json:"grade"`
	Result     string `json:"result"`
}

// CalculateResult scores the user's stored submission for examName and
// replaces the exam's outcome in the user's result document. Enrollment is
// not rechecked; a submission is enough.
func (s *Service) CalculateResult(ctx context.Context, userID, examName string) (Calculation, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Calculation{}, err
	}
	ex, err := s.store.GetExam(ctx, examName)
	if err != nil {
		return Calculation{}, err
	}
	answers, ok := u.SubmissionFor(examName)
	if !ok {
		return Calculation{}, ErrNoSubmission
	}

	rep := grading.Score(ex.AnswerKey(), answers)
	if err := s.store.ReplaceOutcome(ctx, userID, Outcome{ExamName: examName, ExamResult: rep.Summary()}); err != nil {
		return Calculation{}, err
	}
	return Calculation{
		Score:      rep.Fraction(),
		Percentage: rep.PercentText(),
		Grade:      rep.Grade,
		Result:     rep.Summary(),
	}, nil
}

// PutResult overwrites a user's outcome list. The user must exist.
func (s *Service) PutResult(ctx context.Context, r Result) (Result, error) {
	if err := validate.Struct(r); err != nil {
		return Result{}, Invalid("invalid result: %v", err)
	}
	if _, err := s.store.GetUser(ctx, r.UserID); err != nil {
		return Result{}, err
	}
	return s.store.PutResult(ctx, r)
}
