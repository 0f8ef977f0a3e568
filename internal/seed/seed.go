// Package seed loads the sample exams, users and results used for demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mind-engage/student-submissions/internal/exam"
)

func opts(pairs ...string) []exam.Option {
	out := make([]exam.Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, exam.Option{OptionID: pairs[i], OptionDescription: pairs[i+1]})
	}
	return out
}

var Exams = []exam.Exam{
	{
		Name: "Python Basics",
		Questions: []exam.Question{
			{
				QuestionID:          "q1",
				QuestionDescription: "What is the correct way to create a list in Python?",
				Options:             opts("a", "list = []", "b", "list = {}", "c", "list = ()", "d", "list = <>"),
				CorrectOption:       "a",
			},
			{
				QuestionID:          "q2",
				QuestionDescription: "Which keyword is used to define a function in Python?",
				Options:             opts("a", "function", "b", "def", "c", "func", "d", "define"),
				CorrectOption:       "b",
			},
		},
	},
	{
		Name: "JavaScript Fundamentals",
		Questions: []exam.Question{
			{
				QuestionID:          "q1",
				QuestionDescription: "How do you declare a variable in JavaScript?",
				Options:             opts("a", "var myVar;", "b", "variable myVar;", "c", "v myVar;", "d", "declare myVar;"),
				CorrectOption:       "a",
			},
			{
				QuestionID:          "q2",
				QuestionDescription: "What does '===' operator do in JavaScript?",
				Options:             opts("a", "Assigns a value", "b", "Compares values only", "c", "Compares values and types", "d", "Creates a new variable"),
				CorrectOption:       "c",
			},
		},
	},
}

// Users carry sha256 hex digests as credentials, the form clients send.
var Users = []exam.User{
	{
		UserID:         "user001",
		UserName:       "John Doe",
		HashedPassword: "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		ExamsEnrolled:  []string{"Python Basics", "JavaScript Fundamentals"},
		ExamAnswers:    []exam.Submission{{ExamName: "Python Basics", Answers: []string{"a", "b"}}},
		IsActive:       true,
	},
	{
		UserID:         "user002",
		UserName:       "Jane Smith",
		HashedPassword: "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92",
		ExamsEnrolled:  []string{"Python Basics"},
		ExamAnswers:    []exam.Submission{},
		IsActive:       true,
	},
	{
		UserID:         "user003",
		UserName:       "Bob Johnson",
		HashedPassword: "481f6cc0511143ccdd7e2d1b1b94faf0a700a8b49cd13922a70b5ae28acaa8c5",
		ExamsEnrolled:  []string{"JavaScript Fundamentals"},
		ExamAnswers:    []exam.Submission{{ExamName: "JavaScript Fundamentals", Answers: []string{"a", "c"}}},
		IsActive:       true,
	},
}

var Results = []exam.Result{
	{UserID: "user001", ExamResults: []exam.Outcome{{ExamName: "Python Basics", ExamResult: "100% - Excellent"}}},
	{UserID: "user003", ExamResults: []exam.Outcome{{ExamName: "JavaScript Fundamentals", ExamResult: "100% - Excellent"}}},
}

// Load inserts the sample records. Records that already exist are left
// alone, so Load can run on every start.
func Load(ctx context.Context, store exam.Store) error {
	for _, e := range Exams {
		if _, err := store.CreateExam(ctx, e); err != nil && !errors.Is(err, exam.ErrExamExists) {
			return fmt.Errorf("seed exam %q: %w", e.Name, err)
		}
	}
	for _, u := range Users {
		if _, err := store.CreateUser(ctx, u); err != nil && !errors.Is(err, exam.ErrUserExists) {
			return fmt.Errorf("seed user %q: %w", u.UserID, err)
		}
	}
	for _, r := range Results {
		if _, err := store.GetResult(ctx, r.UserID); err == nil {
			continue
		} else if !errors.Is(err, exam.ErrResultNotFound) {
			return fmt.Errorf("seed result %q: %w", r.UserID, err)
		}
		if _, err := store.PutResult(ctx, r); err != nil {
			return fmt.Errorf("seed result %q: %w", r.UserID, err)
		}
	}
	log.Printf("sample data loaded: %d exams, %d users, %d results", len(Exams), len(Users), len(Results))
	return nil
}
