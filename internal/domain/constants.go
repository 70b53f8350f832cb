package domain

import "github.com/m04kA/SMC-ConsultationService/pkg/types"

// Defaults used by the operator console when adding a template
const (
	DefaultTemplateStart types.TimeString = "09:00"
	DefaultTemplateEnd   types.TimeString = "17:00"
	DefaultPricePerHour                   = 100
)

// Precision of derived decimal values
const (
	CurrencyPrecision = 2
	HoursPrecision    = 2
)

// Currency of payment orders
const DefaultCurrency = "usd"

// Intake questionnaire limits
const (
	MinAge            = 1
	MaxAge            = 120
	MinReadinessScore = 1
	MaxReadinessScore = 10
	MaxGoals          = 3
	MaxTextLength     = 2000
	MaxNameLength     = 100
)

// Read model defaults
const (
	DefaultRecentLimit = 5
	MaxListLimit       = 200
)

// SleepHoursOptions valid answers for the sleep question
var SleepHoursOptions = []string{"<5", "5-6", "6-7", "7+"}

// StressLevelOptions valid answers for the stress question
var StressLevelOptions = []string{"Low", "Moderate", "High"}

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
