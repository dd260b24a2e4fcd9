package backend

import "github.com/dkm/jobcards/internal/core/domain"

// --- Wire → domain ---

func toJob(d jobDTO) domain.Job {
	job := domain.Job{
		ID:        d.ID,
		Status:    domain.JobStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
	if d.ReferenceNumber != nil {
		job.ReferenceNumber = *d.ReferenceNumber
	}
	if d.Property != nil {
		job.Property = &domain.PropertyRef{StreetAddress: d.Property.StreetAddress}
	}
	if d.JobCategory != nil {
		job.Category = &domain.CategoryRef{Name: d.JobCategory.Name}
	}
	if d.Technician != nil {
		job.Technician = &domain.TechnicianRef{ID: d.Technician.ID, Name: d.Technician.Name}
	}
	return job
}

func toJobs(ds []jobDTO) []domain.Job {
	jobs := make([]domain.Job, 0, len(ds))
	for _, d := range ds {
		jobs = append(jobs, toJob(d))
	}
	return jobs
}

func toDetailedJob(d jobDTO) *domain.DetailedJob {
	detailed := &domain.DetailedJob{
		Job:         toJob(d),
		Description: d.Description,
		Complainant: domain.Complainant{
			Name:        d.ComplainantName,
			PhoneNumber: d.ComplainantPhoneNumber,
		},
	}
	if d.Creator != nil {
		detailed.CreatorName = d.Creator.Name
	}
	if d.Property != nil {
		p := toProperty(*d.Property)
		detailed.PropertyInfo = &p
	}
	return detailed
}

func toProperty(d propertyDTO) domain.Property {
	p := domain.Property{
		ID:            d.ID,
		AccountNumber: d.AccountNumber,
		AccountHolder: d.AccountHolder,
		ErfNumber:     d.ErfNumber,
		StreetAddress: d.StreetAddress,
		Suburb:        d.Suburb,
		Ward:          d.Ward,
		CellNumber:    d.CellNumber,
		CellNumber2:   d.CellNumber2,
		IsIndigent:    d.IsIndigent,
		InArrears:     d.InArrears,
	}
	if d.MeterNumberElectricity != nil {
		p.MeterNumberElectricity = *d.MeterNumberElectricity
	}
	if d.MeterNumberWater != nil {
		p.MeterNumberWater = *d.MeterNumberWater
	}
	return p
}

func toProperties(ds []propertyDTO) []domain.Property {
	out := make([]domain.Property, 0, len(ds))
	for _, d := range ds {
		out = append(out, toProperty(d))
	}
	return out
}

func toCategories(ds []categoryDTO) []domain.JobCategory {
	out := make([]domain.JobCategory, 0, len(ds))
	for _, d := range ds {
		out = append(out, domain.JobCategory{ID: d.ID, Name: d.Name, Visibility: d.Visibility})
	}
	return out
}

func toUsers(ds []personDTO) []domain.User {
	out := make([]domain.User, 0, len(ds))
	for _, d := range ds {
		out = append(out, domain.User{ID: d.ID, Name: d.Name, Role: domain.Role(d.Role)})
	}
	return out
}

// --- Domain → wire ---

func toCreateJobRequest(j domain.NewJob) createJobRequest {
	return createJobRequest{
		PropertyID:             j.PropertyID,
		CategoryID:             j.CategoryID,
		Description:            j.Description,
		ComplainantName:        j.ComplainantName,
		ComplainantPhoneNumber: j.ComplainantPhone,
	}
}
