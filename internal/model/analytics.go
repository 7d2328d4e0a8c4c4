package model

import (
	"fmt"
	"time"
)

// Analytics periods accepted by the report endpoints.
const (
	Period7Days  = "7d"
	Period30Days = "30d"
	Period90Days = "90d"
	Period1Year  = "1y"
)

// PeriodDuration maps a period string to its length in days.
func PeriodDuration(period string) (int, error) {
	switch period {
	case Period7Days:
		return 7, nil
	case Period30Days:
		return 30, nil
	case Period90Days:
		return 90, nil
	case Period1Year:
		return 365, nil
	default:
		return 0, fmt.Errorf("invalid period %q", period)
	}
}

// PeriodWindow returns the current window [start, end) and the previous
// window of equal length ending where the current one starts.
func PeriodWindow(period string, now time.Time) (start, end, prevStart, prevEnd time.Time, err error) {
	days, err := PeriodDuration(period)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, time.Time{}, err
	}
	end = now
	start = now.AddDate(0, 0, -days)
	prevEnd = start
	prevStart = start.AddDate(0, 0, -days)
	return start, end, prevStart, prevEnd, nil
}

// GrowthRate computes percentage growth against the previous window, using a
// floor of 1 on the previous value so an empty baseline still yields a
// finite number.
func GrowthRate(current, previous float64) float64 {
	if previous < 1 {
		previous = 1
	}
	return (current - previous) / previous * 100
}

// AnalyticsOverview is the top-level platform report.
type AnalyticsOverview struct {
	Period            string  `json:"period"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalPatients     int     `json:"total_patients"`
	TotalDoctors      int     `json:"total_doctors"`
	TotalAppointments int     `json:"total_appointments"`
	RevenueGrowth     float64 `json:"revenue_growth"`
	PatientGrowth     float64 `json:"patient_growth"`
	AppointmentGrowth float64 `json:"appointment_growth"`
	IsDemoData        bool    `json:"is_demo_data,omitempty"`
}

type TimeSeriesPoint struct {
	Date  string  `json:"date" db:"date"`
	Value float64 `json:"value" db:"value"`
}

type LabelCount struct {
	Label string `json:"label" db:"label"`
	Count int    `json:"count" db:"count"`
}

type DoctorBooking struct {
	DoctorName   string `json:"doctor_name" db:"doctor_name"`
	Appointments int    `json:"appointments" db:"appointments"`
}

type PlanRevenue struct {
	Plan    string  `json:"plan"`
	Revenue float64 `json:"revenue"`
}

type AppointmentAnalytics struct {
	Period     string             `json:"period"`
	Total      int                `json:"total"`
	Completed  int                `json:"completed"`
	Cancelled  int                `json:"cancelled"`
	NoShow     int                `json:"no_show"`
	Growth     float64            `json:"growth"`
	ByDay      []*TimeSeriesPoint `json:"by_day"`
	ByType     []*LabelCount      `json:"by_type"`
	ByStatus   []*LabelCount      `json:"by_status"`
	IsDemoData bool               `json:"is_demo_data,omitempty"`
}

type PatientAnalytics struct {
	Period       string             `json:"period"`
	Total        int                `json:"total"`
	NewInPeriod  int                `json:"new_in_period"`
	Growth       float64            `json:"growth"`
	ByGender     []*LabelCount      `json:"by_gender"`
	ByBloodGroup []*LabelCount      `json:"by_blood_group"`
	ByAgeGroup   []*LabelCount      `json:"by_age_group"`
	Registration []*TimeSeriesPoint `json:"registration_trend"`
	IsDemoData   bool               `json:"is_demo_data,omitempty"`
}

type DoctorAnalytics struct {
	Period           string           `json:"period"`
	Total            int              `json:"total"`
	Available        int              `json:"available"`
	BySpecialization []*LabelCount    `json:"by_specialization"`
	TopBookings      []*DoctorBooking `json:"top_bookings"`
	IsDemoData       bool             `json:"is_demo_data,omitempty"`
}

type RevenueAnalytics struct {
	Period       string             `json:"period"`
	TotalRevenue float64            `json:"total_revenue"`
	Growth       float64            `json:"growth"`
	ByPlan       []*PlanRevenue     `json:"by_plan"`
	MonthlyTrend []*TimeSeriesPoint `json:"monthly_trend"`
	ActiveSubs   int                `json:"active_subscriptions"`
	TrialSubs    int                `json:"trial_subscriptions"`
	IsDemoData   bool               `json:"is_demo_data,omitempty"`
}

// DemoOverview returns the canned overview used when the platform has no
// real data yet and demo mode is enabled.
func DemoOverview(period string) *AnalyticsOverview {
	return &AnalyticsOverview{
		Period:            period,
		TotalRevenue:      1250000,
		TotalPatients:     450,
		TotalDoctors:      12,
		TotalAppointments: 320,
		RevenueGrowth:     15.5,
		PatientGrowth:     22.3,
		AppointmentGrowth: 18.7,
		IsDemoData:        true,
	}
}
