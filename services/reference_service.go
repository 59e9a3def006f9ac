package services

import (
	"context"
	"errors"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
)

// ReferenceService exposes the read-only reference data: countries with
// their adjacency relation and golf courses with tee ratings.
type ReferenceService interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	ListCourses(ctx context.Context, limit, offset int) ([]models.GolfCourse, error)
	GetCourse(ctx context.Context, id int) (*models.GolfCourse, error)
}

type referenceService struct {
	countryRepo repositories.CountryRepository
	courseRepo  repositories.CourseRepository
}

func NewReferenceService(countryRepo repositories.CountryRepository, courseRepo repositories.CourseRepository) ReferenceService {
	return &referenceService{countryRepo: countryRepo, courseRepo: courseRepo}
}

func (s *referenceService) ListCountries(ctx context.Context) ([]models.Country, error) {
	return s.countryRepo.ListActive(ctx)
}

func (s *referenceService) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	country, err := s.countryRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrCountryNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return country, nil
}

func (s *referenceService) ListCourses(ctx context.Context, limit, offset int) ([]models.GolfCourse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.courseRepo.List(ctx, limit, offset)
}

func (s *referenceService) GetCourse(ctx context.Context, id int) (*models.GolfCourse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}
