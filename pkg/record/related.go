package record

import "time"

// Note is free text attached to an application.
type Note struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Contact is a person associated with an application.
type Contact struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	LinkedinURL   string    `json:"linkedinUrl,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ContactInput is the writable subset of a Contact.
type ContactInput struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Reminder is a dated follow-up.
type Reminder struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	RemindAt      time.Time `json:"remindAt"`
	Message       string    `json:"message"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Activity is an entry in an application's server-side audit trail.
type Activity struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ConversionRates are percentages in [0, 100].
type ConversionRates struct {
	AppliedToInterview float64 `json:"appliedToInterview"`
	InterviewToOffer   float64 `json:"interviewToOffer"`
	AppliedToOffer     float64 `json:"appliedToOffer"`
}

// Analytics is the dashboard summary.
type Analytics struct {
	StatusCounts    map[string]int     `json:"statusCounts"`
	AppsPerWeek     map[string]int     `json:"appsPerWeek,omitempty"`
	ConversionRates ConversionRates    `json:"conversionRates"`
	AvgTimeInStage  map[string]float64 `json:"avgTimeInStage,omitempty"`
}

// User is the signed-in account and its display preferences.
type User struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	EmailNotifications bool   `json:"emailNotifications"`
	AutoArchiveOldApps bool   `json:"autoArchiveOldApps"`
	ShowArchivedApps   bool   `json:"showArchivedApps"`
}

// Preferences is a partial preference update; nil fields are left unchanged.
type Preferences struct {
	EmailNotifications *bool `json:"emailNotifications,omitempty"`
	AutoArchiveOldApps *bool `json:"autoArchiveOldApps,omitempty"`
	ShowArchivedApps   *bool `json:"showArchivedApps,omitempty"`
}
