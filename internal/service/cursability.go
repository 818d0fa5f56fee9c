package service

import (
	"fmt"
	"strings"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

// satisfiesPrerequisite reports whether a correlative in this state unblocks dependants.
// Only coursework completion counts: APPROVED (final passed) is deliberately not listed.
func satisfiesPrerequisite(state models.AcademicState) bool {
	return state == models.StateRegular || state == models.StatePromoted
}

// EvaluateCursability checks the direct prerequisites of subject against the catalog.
// Prerequisite ids that do not resolve to a subject in all are ignored.
func EvaluateCursability(subject models.Subject, all []models.Subject) models.CursabilityResult {
	result := models.CursabilityResult{SubjectID: subject.ID, Eligible: true, MissingPrerequisites: []models.Subject{}}
	if !subject.HasPrerequisites() {
		return result
	}

	byID := indexSubjects(all)
	for _, id := range subject.Prerequisites {
		prereq, ok := byID[id]
		if !ok {
			continue
		}
		if !satisfiesPrerequisite(prereq.State) {
			result.MissingPrerequisites = append(result.MissingPrerequisites, prereq)
		}
	}
	result.Eligible = len(result.MissingPrerequisites) == 0
	return result
}

// CanRetake is the stricter check used to filter subject lists: unlike
// EvaluateCursability, a prerequisite id that does not resolve blocks the subject.
func CanRetake(subject models.Subject, all []models.Subject) bool {
	byID := indexSubjects(all)
	for _, id := range subject.Prerequisites {
		prereq, ok := byID[id]
		if !ok || !satisfiesPrerequisite(prereq.State) {
			return false
		}
	}
	return true
}

// ValidatePrerequisiteGraph rejects catalogs with unknown or self references and cycles.
func ValidatePrerequisiteGraph(subjects []models.Subject) error {
	byID := indexSubjects(subjects)
	for _, s := range subjects {
		for _, id := range s.Prerequisites {
			if id == s.ID {
				return appErrors.Clone(appErrors.ErrInvalidCatalog, fmt.Sprintf("subject %s lists itself as a prerequisite", s.ID))
			}
			if _, ok := byID[id]; !ok {
				return appErrors.Clone(appErrors.ErrInvalidCatalog, fmt.Sprintf("subject %s references unknown prerequisite %s", s.ID, id))
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(subjects))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, path[start:]...), id)
			return appErrors.Clone(appErrors.ErrInvalidCatalog, "prerequisite cycle: "+strings.Join(cycle, " -> "))
		}
		marks[id] = visiting
		path = append(path, id)
		for _, next := range byID[id].Prerequisites {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		marks[id] = done
		return nil
	}

	for _, s := range subjects {
		if marks[s.ID] == unvisited {
			if err := visit(s.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func indexSubjects(all []models.Subject) map[string]models.Subject {
	byID := make(map[string]models.Subject, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}
	return byID
}
