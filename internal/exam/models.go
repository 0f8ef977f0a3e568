package exam

type Option struct {
	OptionID          string `json:"option_id" bson:"option_id" validate:"required"`
	OptionDescription string `json:"option_description" bson:"option_description"`
}

type Question struct {
	QuestionID          string   `json:"question_id" bson:"question_id" validate:"required"`
	QuestionDescription string   `json:"question_description" bson:"question_description"`
	Options             []Option `json:"options" bson:"options" validate:"required,min=1,dive"`
	CorrectOption       string   `json:"correct_option" bson:"correct_option" validate:"required"`
}

// Exam is addressed by Name everywhere; ID is the store's internal handle.
type Exam struct {
	ID        string     `json:"_id,omitempty" bson:"-"`
	Name      string     `json:"exam_name" bson:"exam_name" validate:"required"`
	Questions []Question `json:"questions" bson:"questions" validate:"required,min=1,dive"`
}

// AnswerKey returns the correct option of every question, in order.
func (e Exam) AnswerKey() []string {
	key := make([]string, len(e.Questions))
	for i, q := range e.Questions {
		key[i] = q.CorrectOption
	}
	return key
}

// Submission is a user's chosen option ids for one exam, aligned with the
// exam's question order.
type Submission struct {
	ExamName string   `json:"exam_name" bson:"exam_name" validate:"required"`
	Answers  []string `json:"answers" bson:"answers"`
}

type User struct {
	ID             string       `json:"-" bson:"-"`
	UserID         string       `json:"user_id" bson:"user_id" validate:"required"`
	UserName       string       `json:"user_name" bson:"user_name" validate:"required"`
	HashedPassword string       `json:"hashed_password" bson:"hashed_password"`
	ExamsEnrolled  []string     `json:"exams_enrolled" bson:"exams_enrolled"`
	ExamAnswers    []Submission `json:"exam_answers" bson:"exam_answers" validate:"dive"`
	IsActive       bool         `json:"is_active" bson:"is_active"`
}

// Enrolled reports whether examName is in the user's enrollment set.
func (u User) Enrolled(examName string) bool {
	for _, n := range u.ExamsEnrolled {
		if n == examName {
			return true
		}
	}
	return false
}

// SubmissionFor returns the stored answers for examName.
func (u User) SubmissionFor(examName string) ([]string, bool) {
	for _, s := range u.ExamAnswers {
		if s.ExamName == examName {
			return s.Answers, true
		}
	}
	return nil, false
}

// Outcome is the stored grade summary for one exam inside a Result.
type Outcome struct {
	ExamName   string `json:"exam_name" bson:"exam_name" validate:"required"`
	ExamResult string `json:"exam_result" bson:"exam_result"`
}

type Result struct {
	ID          string    `json:"_id,omitempty" bson:"-"`
	UserID      string    `json:"user_id" bson:"user_id" validate:"required"`
	ExamResults []Outcome `json:"exam_results" bson:"exam_results" validate:"dive"`
}

// replaceSubmission drops any submission for s.ExamName and appends s.
func replaceSubmission(list []Submission, s Submission) []Submission {
	out := make([]Submission, 0, len(list)+1)
	for _, x := range list {
		if x.ExamName != s.ExamName {
			out = append(out, x)
		}
	}
	return append(out, s)
}

// replaceOutcome drops any outcome for o.ExamName and appends o.
func replaceOutcome(list []Outcome, o Outcome) []Outcome {
	out := make([]Outcome, 0, len(list)+1)
	for _, x := range list {
		if x.ExamName != o.ExamName {
			out = append(out, x)
		}
	}
	return append(out, o)
}
