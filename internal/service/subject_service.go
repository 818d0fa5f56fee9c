package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/JavierCodely/sistema-educativo/internal/models"
	appErrors "github.com/JavierCodely/sistema-educativo/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
}

// SubjectService serves the subject catalog of a student with cursability computed on top.
type SubjectService struct {
	repo    subjectRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSubjectService creates a new subject service. cache and metrics may be nil.
func NewSubjectService(repo subjectRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// Catalog returns the full, validated catalog of the student.
func (s *SubjectService) Catalog(ctx context.Context, studentID string) ([]models.Subject, error) {
	key := SubjectsCacheKey(studentID)
	var cached []models.Subject
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	subjects, err := s.repo.List(ctx, models.SubjectFilter{StudentID: studentID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load subjects")
	}
	if err := ValidatePrerequisiteGraph(subjects); err != nil {
		s.metrics.RecordCatalogRejection()
		s.logger.Error("subject catalog rejected", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	_ = s.cache.Set(ctx, key, subjects, 0)
	return subjects, nil
}

// List returns the catalog, optionally restricted to one curriculum year.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects, err := s.Catalog(ctx, filter.StudentID)
	if err != nil {
		return nil, err
	}
	if filter.Year <= 0 {
		return subjects, nil
	}
	out := make([]models.Subject, 0)
	for _, subject := range subjects {
		if subject.Year == filter.Year {
			out = append(out, subject)
		}
	}
	return out, nil
}

// Get returns one subject with its prerequisites resolved.
func (s *SubjectService) Get(ctx context.Context, studentID, id string) (*models.SubjectDetail, error) {
	subjects, err := s.Catalog(ctx, studentID)
	if err != nil {
		return nil, err
	}
	byID := indexSubjects(subjects)
	subject, ok := byID[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	prereqs := make([]models.Subject, 0, len(subject.Prerequisites))
	for _, pid := range subject.Prerequisites {
		if p, ok := byID[pid]; ok {
			prereqs = append(prereqs, p)
		}
	}
	return &models.SubjectDetail{
		Subject:       subject,
		StateLabel:    subject.State.Label(),
		Prerequisites: prereqs,
		Cursability:   EvaluateCursability(subject, subjects),
	}, nil
}

// Cursability evaluates whether the student may take the subject again.
func (s *SubjectService) Cursability(ctx context.Context, studentID, id string) (*models.CursabilityResult, error) {
	subjects, err := s.Catalog(ctx, studentID)
	if err != nil {
		return nil, err
	}
	subject, ok := indexSubjects(subjects)[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	result := EvaluateCursability(subject, subjects)
	return &result, nil
}

// StudyPlan groups the catalog by year, in ascending year order.
func (s *SubjectService) StudyPlan(ctx context.Context, studentID string) ([]models.StudyPlanYear, error) {
	subjects, err := s.Catalog(ctx, studentID)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int][]models.StudyPlanSubject)
	for _, subject := range subjects {
		result := EvaluateCursability(subject, subjects)
		entry := models.StudyPlanSubject{
			ID:         subject.ID,
			Name:       subject.Name,
			Code:       subject.Code,
			State:      subject.State,
			StateLabel: subject.State.Label(),
			Eligible:   result.Eligible,
		}
		for _, missing := range result.MissingPrerequisites {
			entry.MissingIDs = append(entry.MissingIDs, missing.ID)
		}
		byYear[subject.Year] = append(byYear[subject.Year], entry)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	plan := make([]models.StudyPlanYear, 0, len(years))
	for _, year := range years {
		plan = append(plan, models.StudyPlanYear{Year: year, Subjects: byYear[year]})
	}
	return plan, nil
}
