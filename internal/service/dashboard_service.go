package service

import (
	"context"
	"encoding/json"
	"time"

	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardCacheKey = "dashboard:counters"
const dashboardCacheTTL = 60 * time.Second

// DashboardCounters are the headline numbers of the landing dashboard.
type DashboardCounters struct {
	Users       int64 `json:"users"`
	Teachers    int64 `json:"teachers"`
	Students    int64 `json:"students"`
	Courses     int64 `json:"courses"`
	Enrollments int64 `json:"enrollments"`
	Submissions int64 `json:"submissions"`
}

// DashboardService serves cached platform counters. Redis is a soft
// dependency: with a nil client every request recomputes.
type DashboardService struct {
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	SubmissionRepo *repository.SubmissionRepository
	Redis          *redis.Client
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	submissionRepo *repository.SubmissionRepository,
	rdb *redis.Client,
) *DashboardService {
	return &DashboardService{
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		SubmissionRepo: submissionRepo,
		Redis:          rdb,
	}
}

func (s *DashboardService) Counters(ctx context.Context) (*DashboardCounters, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var counters DashboardCounters
			if err := json.Unmarshal(cached, &counters); err == nil {
				return &counters, nil
			}
		}
	}

	counters, err := s.compute()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(counters); err == nil {
			if err := s.Redis.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}

	return counters, nil
}

func (s *DashboardService) compute() (*DashboardCounters, error) {
	var counters DashboardCounters
	var err error

	if counters.Teachers, err = s.UserRepo.CountByRole("teacher"); err != nil {
		return nil, err
	}
	if counters.Students, err = s.UserRepo.CountByRole("student"); err != nil {
		return nil, err
	}
	counters.Users = counters.Teachers + counters.Students

	if counters.Courses, err = s.CourseRepo.Count(); err != nil {
		return nil, err
	}
	if counters.Enrollments, err = s.EnrollmentRepo.Count(); err != nil {
		return nil, err
	}
	if counters.Submissions, err = s.SubmissionRepo.Count(); err != nil {
		return nil, err
	}

	return &counters, nil
}
