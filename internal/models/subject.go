package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AcademicState is the progress of a student in a subject. Grading events outside this
// service move a subject between states; the portal only reads them.
type AcademicState string

const (
	StateNotTaken            AcademicState = "NOT_TAKEN"
	StateInProgress          AcademicState = "IN_PROGRESS"
	StateMissingPrerequisite AcademicState = "MISSING_PREREQUISITE"
	StateRegular             AcademicState = "REGULAR"
	StatePromoted            AcademicState = "PROMOTED"
	StateApproved            AcademicState = "APPROVED"
	StateWithdrawn           AcademicState = "WITHDRAWN"
)

var stateLabels = map[AcademicState]string{
	StateNotTaken:            "No cursado",
	StateInProgress:          "Cursando",
	StateMissingPrerequisite: "Falta correlativa",
	StateRegular:             "Regular",
	StatePromoted:            "Promoción",
	StateApproved:            "Aprobada",
	StateWithdrawn:           "Libre",
}

// AcademicStates lists every state in display order.
func AcademicStates() []AcademicState {
	return []AcademicState{
		StateNotTaken,
		StateInProgress,
		StateMissingPrerequisite,
		StateRegular,
		StatePromoted,
		StateApproved,
		StateWithdrawn,
	}
}

// Valid reports whether s belongs to the closed set.
func (s AcademicState) Valid() bool {
	_, ok := stateLabels[s]
	return ok
}

// Label returns the wording students see in the portal.
func (s AcademicState) Label() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseAcademicState accepts either the code or the portal label, case-insensitively.
func ParseAcademicState(raw string) (AcademicState, error) {
	trimmed := strings.TrimSpace(raw)
	for state, label := range stateLabels {
		if strings.EqualFold(trimmed, string(state)) || strings.EqualFold(trimmed, label) {
			return state, nil
		}
	}
	return "", fmt.Errorf("unknown academic state %q", raw)
}

// UnmarshalJSON lets payloads use either representation.
func (s *AcademicState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseAcademicState(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Grade is one recorded mark for a subject.
type Grade struct {
	ID    string  `db:"id" json:"id"`
	Value float64 `db:"value" json:"value"`
}

// Subject ("materia") is a curriculum unit together with the student's state in it.
type Subject struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Code          string        `json:"code"`
	Year          int           `json:"year"`
	Prerequisites []string      `json:"prerequisites"`
	State         AcademicState `json:"state"`
	Grades        []Grade       `json:"grades"`
}

// HasPrerequisites reports whether the subject lists any correlative.
func (s Subject) HasPrerequisites() bool {
	return len(s.Prerequisites) > 0
}

// SubjectFilter narrows the catalog listing.
type SubjectFilter struct {
	StudentID string
	Year      int
}

// CursabilityResult tells whether a subject can be taken again and which correlatives block it.
type CursabilityResult struct {
	SubjectID            string    `json:"subject_id"`
	Eligible             bool      `json:"eligible"`
	MissingPrerequisites []Subject `json:"missing_prerequisites"`
}

// SubjectDetail is the subject view with its prerequisites resolved.
type SubjectDetail struct {
	Subject
	StateLabel    string            `json:"state_label"`
	Prerequisites []Subject         `json:"prerequisite_subjects"`
	Cursability   CursabilityResult `json:"cursability"`
}

// StudyPlanYear groups the catalog by curriculum year.
type StudyPlanYear struct {
	Year     int                `json:"year"`
	Subjects []StudyPlanSubject `json:"subjects"`
}

// StudyPlanSubject is one roadmap entry.
type StudyPlanSubject struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Code       string        `json:"code"`
	State      AcademicState `json:"state"`
	StateLabel string        `json:"state_label"`
	Eligible   bool          `json:"eligible"`
	MissingIDs []string      `json:"missing_prerequisite_ids,omitempty"`
}
