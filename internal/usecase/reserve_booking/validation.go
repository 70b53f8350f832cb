package reserve_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest проверяет запрос до любой записи в хранилище
func validateRequest(req *Request, now time.Time) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return ErrDateRequired
	}
	if req.Date.Format(domain.DateFormat) < now.Format(domain.DateFormat) {
		return fmt.Errorf("%w: %s", ErrDateInPast, req.Date.Format(domain.DateFormat))
	}
	if len(req.TemplateIDs) == 0 {
		return ErrEmptySelection
	}

	seen := make(map[int64]struct{}, len(req.TemplateIDs))
	for _, id := range req.TemplateIDs {
		if id <= 0 {
			return fmt.Errorf("%w: template id must be positive, got %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: template id %d selected twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return validateProfile(&req.Profile)
}

// validateProfile проверяет обязательные поля анкеты и допустимые значения
func validateProfile(p *domain.ClientProfile) error {
	required := []struct {
		name  string
		value string
		max   int
	}{
		{"firstName", p.FirstName, domain.MaxNameLength},
		{"lastName", p.LastName, domain.MaxNameLength},
		{"email", p.Email, domain.MaxNameLength * 2},
		{"phoneNumber", p.PhoneNumber, domain.MaxNameLength},
		{"occupation", p.Occupation, domain.MaxNameLength * 2},
	}
	for _, f := range required {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidProfile, f.name)
		}
		if len(v) > f.max {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidProfile, f.name, f.max)
		}
	}

	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: email is invalid", ErrInvalidProfile)
	}
	if p.Age < domain.MinAge || p.Age > domain.MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidProfile, domain.MinAge, domain.MaxAge)
	}
	if p.ReadinessScore < domain.MinReadinessScore || p.ReadinessScore > domain.MaxReadinessScore {
		return fmt.Errorf("%w: readinessScore must be between %d and %d",
			ErrInvalidProfile, domain.MinReadinessScore, domain.MaxReadinessScore)
	}
	if len(p.Goals) > domain.MaxGoals {
		return fmt.Errorf("%w: at most %d goals allowed", ErrInvalidProfile, domain.MaxGoals)
	}
	if p.SleepHours != "" && !oneOf(p.SleepHours, domain.SleepHoursOptions) {
		return fmt.Errorf("%w: sleepHours must be one of %v", ErrInvalidProfile, domain.SleepHoursOptions)
	}
	if p.StressLevel != "" && !oneOf(p.StressLevel, domain.StressLevelOptions) {
		return fmt.Errorf("%w: stressLevel must be one of %v", ErrInvalidProfile, domain.StressLevelOptions)
	}

	texts := map[string]string{
		"dietDescription":  p.DietDescription,
		"biggestChallenge": p.BiggestChallenge,
		"successVision":    p.SuccessVision,
	}
	for name, v := range texts {
		if len(v) > domain.MaxTextLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidProfile, name, domain.MaxTextLength)
		}
	}

	return nil
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
