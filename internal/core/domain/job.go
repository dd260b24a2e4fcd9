package domain

import (
	"strconv"
	"time"
)

// JobStatus represents the lifecycle state of a job card.
type JobStatus string

const (
	StatusPending        JobStatus = "Pending"
	StatusAssigned       JobStatus = "Assigned"
	StatusDepartedToSite JobStatus = "Departed to Site"
	StatusOnSite         JobStatus = "On-Site"
	StatusCompleted      JobStatus = "Completed"
	StatusOnHold         JobStatus = "On Hold"
)

// Statuses lists the ordered lifecycle followed by the On Hold side-state.
var Statuses = []JobStatus{
	StatusPending,
	StatusAssigned,
	StatusDepartedToSite,
	StatusOnSite,
	StatusCompleted,
	StatusOnHold,
}

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is offered.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// Colour is the badge colour used when listing jobs.
func (s JobStatus) Colour() string {
	switch s {
	case StatusPending:
		return "#ffc107"
	case StatusAssigned, StatusDepartedToSite, StatusOnSite:
		return "#007bff"
	case StatusCompleted:
		return "#28a745"
	default:
		return "#6c757d"
	}
}

// PropertyRef is the slice of a property embedded in job listings.
type PropertyRef struct {
	StreetAddress string
}

// CategoryRef is the slice of a category embedded in job listings.
type CategoryRef struct {
	Name string
}

// TechnicianRef identifies the technician a job is assigned to.
type TechnicianRef struct {
	ID   int64
	Name string
}

// Job is the read-only snapshot shown on the dashboard.
type Job struct {
	ID              int64
	ReferenceNumber string
	Status          JobStatus
	CreatedAt       time.Time
	Property        *PropertyRef
	Category        *CategoryRef
	Technician      *TechnicianRef
}

// Reference returns the reference number, falling back to the numeric id.
func (j Job) Reference() string {
	if j.ReferenceNumber != "" {
		return j.ReferenceNumber
	}
	return strconv.FormatInt(j.ID, 10)
}

// AssignedTo reports whether the job is assigned to the given user id.
func (j Job) AssignedTo(userID int64) bool {
	return j.Technician != nil && j.Technician.ID == userID
}

// Complainant is the person who reported the job.
type Complainant struct {
	Name        string
	PhoneNumber string
}

// DetailedJob is a job plus the fields fetched for its detail view.
type DetailedJob struct {
	Job
	Description  string
	Complainant  Complainant
	CreatorName  string
	PropertyInfo *Property
}

// Property is a municipal account record used to anchor a job.
type Property struct {
	ID                     int64
	AccountNumber          string
	AccountHolder          string
	ErfNumber              string
	StreetAddress          string
	Suburb                 string
	Ward                   string
	CellNumber             string
	CellNumber2            string
	IsIndigent             bool
	InArrears              *bool
	MeterNumberElectricity string
	MeterNumberWater       string
}

// JobCategory is a selectable category for new jobs.
type JobCategory struct {
	ID         int64
	Name       string
	Visibility string
}

// NewJob carries everything the backend needs to open a job.
type NewJob struct {
	PropertyID       int64
	CategoryID       int64
	Description      string
	ComplainantName  string
	ComplainantPhone string
}
