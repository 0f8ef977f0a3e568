package exam

import (
	"github.com/go-playground/validator/v10"
)

const (
	collUsers   = "users"
	collExams   = "exams"
	collResults = "results"
)

var validate = validator.New()

// Validate checks v against its struct tags.
func Validate(v any) error { return validate.Struct(v) }

// checkUser validates a user read back from a store and fills nil slices.
func checkUser(key string, u *User) error {
	if err := validate.Struct(u); err != nil {
		return &DecodeError{Collection: collUsers, Key: key, Err: err}
	}
	if u.ExamsEnrolled == nil {
		u.ExamsEnrolled = []string{}
	}
	if u.ExamAnswers == nil {
		u.ExamAnswers = []Submission{}
	}
	for i := range u.ExamAnswers {
		if u.ExamAnswers[i].Answers == nil {
			u.ExamAnswers[i].Answers = []string{}
		}
	}
	return nil
}

func checkExam(key string, e *Exam) error {
	if err := validate.Struct(e); err != nil {
		return &DecodeError{Collection: collExams, Key: key, Err: err}
	}
	return nil
}

func checkResult(key string, r *Result) error {
	if err := validate.Struct(r); err != nil {
		return &DecodeError{Collection: collResults, Key: key, Err: err}
	}
	if r.ExamResults == nil {
		r.ExamResults = []Outcome{}
	}
	return nil
}

// checkNewExam applies the creation rules on top of the struct tags: option
// ids unique per question and correct_option naming one of them.
func checkNewExam(e Exam) error {
	if err := validate.Struct(e); err != nil {
		return Invalid("invalid exam: %v", err)
	}
	for _, q := range e.Questions {
		seen := map[string]bool{}
		for _, o := range q.Options {
			if seen[o.OptionID] {
				return Invalid("question %q: duplicate option %q", q.QuestionID, o.OptionID)
			}
			seen[o.OptionID] = true
		}
		if !seen[q.CorrectOption] {
			return Invalid("question %q: correct_option %q is not one of its options", q.QuestionID, q.CorrectOption)
		}
	}
	return nil
}
