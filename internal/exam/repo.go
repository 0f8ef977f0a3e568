package exam

import "context"

// Store persists the users, exams and results collections. Each document is
// addressed by its natural key: user_id (or user_name), exam_name, user_id.
type Store interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	// FindUser matches login against user_id first, then user_name.
	FindUser(ctx context.Context, login string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// ReplaceSubmission drops any submission the user has for s.ExamName and
	// appends s, as one write.
	ReplaceSubmission(ctx context.Context, userID string, s Submission) error

	CreateExam(ctx context.Context, e Exam) (Exam, error)
	GetExam(ctx context.Context, name string) (Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)

	GetResult(ctx context.Context, userID string) (Result, error)
	ListResults(ctx context.Context) ([]Result, error)
	// PutResult sets the whole outcome list, creating the document if needed.
	PutResult(ctx context.Context, r Result) (Result, error)
	// ReplaceOutcome drops any outcome for o.ExamName and appends o, creating
	// the result document when the user has none.
	ReplaceOutcome(ctx context.Context, userID string, o Outcome) error

	Close(ctx context.Context) error
}
