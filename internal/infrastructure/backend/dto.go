package backend

import "time"

// Wire types owned by the transport layer. They mirror the backend's JSON
// (including its capitalised association keys) and never leave this package.

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type assignRequest struct {
	TechnicianID int64 `json:"technicianId"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type createJobRequest struct {
	PropertyID             int64  `json:"propertyId"`
	CategoryID             int64  `json:"categoryId"`
	Description            string `json:"description"`
	ComplainantName        string `json:"complainantName"`
	ComplainantPhoneNumber string `json:"complainantPhoneNumber"`
}

type propertyDTO struct {
	ID                     int64   `json:"id"`
	AccountNumber          string  `json:"accountNumber"`
	AccountHolder          string  `json:"accountHolder"`
	ErfNumber              string  `json:"erfNumber"`
	StreetAddress          string  `json:"streetAddress"`
	Suburb                 string  `json:"suburb"`
	Ward                   string  `json:"ward"`
	CellNumber             string  `json:"cellNumber"`
	CellNumber2            string  `json:"cellNumber2"`
	IsIndigent             bool    `json:"isIndigent"`
	InArrears              *bool   `json:"inArrears"`
	MeterNumberElectricity *string `json:"meterNumberElectricity"`
	MeterNumberWater       *string `json:"meterNumberWater"`
}

type categoryDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
}

type personDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type jobDTO struct {
	ID              int64        `json:"id"`
	ReferenceNumber *string      `json:"referenceNumber"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	Property        *propertyDTO `json:"Property"`
	JobCategory     *categoryDTO `json:"JobCategory"`
	Technician      *personDTO   `json:"technician"`

	// Detail-only fields.
	Description            string     `json:"description"`
	ComplainantName        string     `json:"complainantName"`
	ComplainantPhoneNumber string     `json:"complainantPhoneNumber"`
	Creator                *personDTO `json:"creator"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
