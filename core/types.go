package core

import (
	"strings"
	"time"
)

// QueryType classifies what kind of help a learner is asking for. The
// taxonomy is fixed; downstream components (orchestrator preferences,
// cache TTL factors) key off it.
type QueryType string

const (
	QueryGeneral     QueryType = "general_question"
	QueryHomework    QueryType = "homework_help"
	QueryConcept     QueryType = "concept_explanation"
	QueryProblem     QueryType = "problem_solving"
	QueryCreative    QueryType = "creative_writing"
	QueryCode        QueryType = "code_assistance"
	QueryMath        QueryType = "math_problem"
	QueryLanguage    QueryType = "language_learning"
)

var queryTypes = map[QueryType]bool{
	QueryGeneral: true, QueryHomework: true, QueryConcept: true,
	QueryProblem: true, QueryCreative: true, QueryCode: true,
	QueryMath: true, QueryLanguage: true,
}

// ValidQueryType reports whether qt is part of the fixed taxonomy.
func ValidQueryType(qt QueryType) bool { return queryTypes[qt] }

// InputMode identifies the modality of the incoming query.
type InputMode string

const (
	ModeText       InputMode = "text"
	ModeVoice      InputMode = "voice"
	ModeImage      InputMode = "image"
	ModeMultimodal InputMode = "multimodal"
)

// LearnerProfile carries the subset of learner identity the pipeline is
// allowed to see. Supplied by the identity collaborator; never fetched here.
type LearnerProfile struct {
	Age           int    `json:"age,omitempty"`
	Grade         int    `json:"grade,omitempty"`
	LearningStyle string `json:"learning_style,omitempty"`
	Language      string `json:"language,omitempty"`
}

// CourseContext situates a request inside a course. ReferenceMaterials are
// identifiers only; resolving them is the caller's job.
type CourseContext struct {
	CourseID           string   `json:"course_id,omitempty"`
	Subject            string   `json:"subject,omitempty"`
	GradeLevel         int      `json:"grade_level,omitempty"`
	CurrentLesson      string   `json:"current_lesson,omitempty"`
	ReferenceMaterials []string `json:"reference_materials,omitempty"`
}

// Request is a single learner question entering the pipeline. Immutable once
// created; Type may be inferred from the query text when the caller leaves
// it empty.
type Request struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	Type      QueryType `json:"type,omitempty"`
	Mode      InputMode `json:"mode,omitempty"`

	Learner *LearnerProfile `json:"learner,omitempty"`
	Course  *CourseContext  `json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Classification returns the request's query type, inferring it from the
// query text when unset.
func (r Request) Classification() QueryType {
	if r.Type != "" {
		return r.Type
	}
	return ClassifyQuery(r.Query)
}

// LearnerAge returns the learner age or 0 when no profile is attached.
func (r Request) LearnerAge() int {
	if r.Learner == nil {
		return 0
	}
	return r.Learner.Age
}

var classificationHints = []struct {
	qt    QueryType
	words []string
}{
	{QueryHomework, []string{"homework", "assignment", "worksheet", "due tomorrow", "my teacher asked"}},
	{QueryMath, []string{"solve", "equation", "calculate", "integral", "derivative", "fraction", "algebra"}},
	{QueryCode, []string{"code", "function", "bug", "compile", "program", "python", "javascript", "golang"}},
	{QueryCreative, []string{"write a story", "poem", "essay about", "creative"}},
	{QueryLanguage, []string{"translate", "in spanish", "in french", "conjugate", "vocabulary", "pronounce"}},
	{QueryConcept, []string{"explain", "what is", "what are", "how does", "why does", "difference between"}},
	{QueryProblem, []string{"how do i", "how can i", "steps to", "figure out"}},
}

// ClassifyQuery infers a query type from raw text using keyword heuristics.
// Returns QueryGeneral when nothing matches.
func ClassifyQuery(query string) QueryType {
	q := strings.ToLower(query)
	for _, hint := range classificationHints {
		for _, w := range hint.words {
			if strings.Contains(q, w) {
				return hint.qt
			}
		}
	}
	return QueryGeneral
}
