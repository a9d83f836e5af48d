package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/scheduler"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
)

// ScheduleGeneratorConfig bounds a single generation request.
type ScheduleGeneratorConfig struct {
	MaxResults  int
	MaxExplored int
	Timeout     time.Duration
	MaxCourses  int
	MaxReserved int
}

// ScheduleGeneratorService turns a course request into every conflict-free schedule.
type ScheduleGeneratorService struct {
	lookup    scheduler.SectionLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGeneratorConfig
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(lookup scheduler.SectionLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ScheduleGeneratorConfig) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{lookup: lookup, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// Generate validates the request, expands it against the catalog and enumerates schedules.
// An empty or truncated result is a successful response.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	start := time.Now()

	courses, reserved, err := s.parseRequest(req)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeInvalid, 0, 0, "", time.Since(start))
		return nil, err
	}

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	plan, err := scheduler.Expand(runCtx, s.lookup, courses, reserved)
	if err != nil {
		outcome, appErr := s.mapExpandError(err)
		s.metrics.ObserveGeneration(outcome, 0, 0, "", time.Since(start))
		return nil, appErr
	}

	enumerator := scheduler.NewEnumerator(plan, scheduler.Limits{MaxResults: s.cfg.MaxResults, MaxExplored: s.cfg.MaxExplored})
	result, err := scheduler.Collect(runCtx, enumerator)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeCancelled, 0, enumerator.Explored(), "", time.Since(start))
		s.logger.Info("schedule generation cancelled", zap.Int("explored", enumerator.Explored()), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRequestCancelled.Code, appErrors.ErrRequestCancelled.Status, appErrors.ErrRequestCancelled.Message)
	}

	resp := &dto.GenerateScheduleResponse{
		Schedules:        AssembleSchedules(result.Schedules),
		Reserved:         assembleReserved(plan.Reserved),
		Count:            len(result.Schedules),
		Truncated:        result.Truncated != scheduler.NotTruncated,
		TruncationReason: string(result.Truncated),
		Explored:         result.Explored,
	}
	resp.Message = resultMessage(resp)

	outcome := OutcomeOK
	switch {
	case resp.Truncated:
		outcome = OutcomeTruncated
	case resp.Count == 0:
		outcome = OutcomeEmpty
	}
	duration := time.Since(start)
	s.metrics.ObserveGeneration(outcome, resp.Count, resp.Explored, resp.TruncationReason, duration)
	s.logger.Info("schedules generated",
		zap.Int("courses", len(courses)),
		zap.Int("reserved", len(reserved)),
		zap.Int("count", resp.Count),
		zap.Int("explored", resp.Explored),
		zap.String("truncation_reason", resp.TruncationReason),
		zap.Duration("duration", duration),
	)
	return resp, nil
}

func (s *ScheduleGeneratorService) parseRequest(req dto.GenerateScheduleRequest) ([]scheduler.CourseKey, []scheduler.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	if s.cfg.MaxCourses > 0 && len(req.Courses) > s.cfg.MaxCourses {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d courses may be requested", s.cfg.MaxCourses))
	}
	if s.cfg.MaxReserved > 0 && len(req.Reserved) > s.cfg.MaxReserved {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d reserved times may be given", s.cfg.MaxReserved))
	}

	courses := make([]scheduler.CourseKey, 0, len(req.Courses))
	for _, c := range req.Courses {
		courses = append(courses, scheduler.CourseKey{
			DepartmentID: normalizeCode(c.DepartmentID),
			CourseNumber: normalizeCode(c.CourseNumber),
		})
	}

	reserved := make([]scheduler.Reservation, 0, len(req.Reserved))
	for i, r := range req.Reserved {
		block, err := parseReservedBlock(r)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid reserved time at index %d: %v", i, err))
		}
		reserved = append(reserved, scheduler.Reservation{Label: strings.TrimSpace(r.Description), Block: block})
	}
	return courses, reserved, nil
}

func parseReservedBlock(r dto.ReservedTimeRequest) (scheduler.TimeBlock, error) {
	days, err := scheduler.ParseDayNames(r.Days)
	if err != nil {
		return scheduler.TimeBlock{}, err
	}
	start, err := scheduler.ParseClock(r.StartTime)
	if err != nil {
		return scheduler.TimeBlock{}, err
	}
	end, err := scheduler.ParseClock(r.EndTime)
	if err != nil {
		return scheduler.TimeBlock{}, err
	}
	return scheduler.NewTimeBlock(days, start, end)
}

func (s *ScheduleGeneratorService) mapExpandError(err error) (string, error) {
	var reqErr *scheduler.RequestError
	if errors.As(err, &reqErr) {
		return OutcomeInvalid, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, reqErr.Error())
	}
	var noSections *scheduler.NoSectionsError
	if errors.As(err, &noSections) {
		msg := fmt.Sprintf("no sections found for %s %s", noSections.DepartmentID, noSections.CourseNumber)
		return OutcomeNotFound, appErrors.Wrap(err, appErrors.ErrNoSectionsFound.Code, appErrors.ErrNoSectionsFound.Status, msg)
	}
	if errors.Is(err, context.Canceled) {
		return OutcomeCancelled, appErrors.Wrap(err, appErrors.ErrRequestCancelled.Code, appErrors.ErrRequestCancelled.Status, appErrors.ErrRequestCancelled.Message)
	}
	s.logger.Error("catalog lookup failed", zap.Error(err))
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeError, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "catalog lookup timed out")
	}
	return OutcomeError, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course sections")
}

func resultMessage(resp *dto.GenerateScheduleResponse) string {
	switch {
	case resp.Count == 0 && resp.Truncated:
		return "search stopped before any conflict-free schedule was found"
	case resp.Count == 0:
		return "no conflict-free schedule exists for the requested courses and reserved times"
	case resp.Truncated:
		return fmt.Sprintf("showing the first %d schedules; search stopped early (%s)", resp.Count, resp.TruncationReason)
	}
	return ""
}
