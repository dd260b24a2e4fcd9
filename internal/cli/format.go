package cli

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dkm/jobcards/internal/core/domain"
)

const notAvailable = "N/A"

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	faint    = color.New(color.Faint).SprintFunc()
	headline = color.New(color.Bold).SprintFunc()
)

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

// statusText colours a status the way the dashboard badges do.
func statusText(s domain.JobStatus) string {
	var c *color.Color
	switch s {
	case domain.StatusPending:
		c = color.New(color.FgYellow)
	case domain.StatusAssigned, domain.StatusDepartedToSite, domain.StatusOnSite:
		c = color.New(color.FgBlue)
	case domain.StatusCompleted:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.FgHiBlack)
	}
	return c.Sprint(string(s))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func optionalYesNo(b *bool) string {
	if b == nil {
		return notAvailable
	}
	return yesNo(*b)
}

func jobCategory(j domain.Job) string {
	if j.Category == nil {
		return notAvailable
	}
	return orNA(j.Category.Name)
}

func jobAddress(j domain.Job) string {
	if j.Property == nil {
		return notAvailable
	}
	return orNA(j.Property.StreetAddress)
}

func jobTechnician(j domain.Job) string {
	if j.Technician == nil {
		return faint("unassigned")
	}
	return j.Technician.Name
}

// renderStats prints the stat cards as a single row table.
func renderStats(w io.Writer, stats domain.JobStats) {
	tw := newTable(w)
	header := table.Row{"Total"}
	row := table.Row{stats.Total}
	for _, s := range domain.Statuses {
		header = append(header, string(s))
		row = append(row, stats.Count(s))
	}
	tw.AppendHeader(header)
	tw.AppendRow(row)
	tw.Render()
}

func renderJobs(w io.Writer, jobs []domain.Job) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Reference", "Category", "Address", "Status", "Technician", "Logged"})
	for _, j := range jobs {
		tw.AppendRow(table.Row{
			j.ID,
			j.Reference(),
			jobCategory(j),
			jobAddress(j),
			statusText(j.Status),
			jobTechnician(j),
			j.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	tw.Render()
}

func renderJobDetail(w io.Writer, job *domain.DetailedJob) {
	tw := newTable(w)
	tw.SetTitle(headline("Job " + job.Reference()))
	tw.AppendRows([]table.Row{
		{"Category", jobCategory(job.Job)},
		{"Status", statusText(job.Status)},
		{"Date logged", job.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Logged by", orNA(job.CreatorName)},
		{"Technician", jobTechnician(job.Job)},
		{"Description", orNA(job.Description)},
	})

	if p := job.PropertyInfo; p != nil {
		tw.AppendSeparator()
		tw.AppendRows([]table.Row{
			{"Account holder", orNA(p.AccountHolder)},
			{"Account number", orNA(p.AccountNumber)},
			{"Address", orNA(p.StreetAddress)},
			{"ERF", orNA(p.ErfNumber)},
			{"Ward", orNA(p.Ward)},
			{"Suburb", orNA(p.Suburb)},
			{"Indigent", yesNo(p.IsIndigent)},
			{"In arrears", optionalYesNo(p.InArrears)},
			{"Electricity meter", orNA(p.MeterNumberElectricity)},
			{"Water meter", orNA(p.MeterNumberWater)},
		})
	}

	tw.AppendSeparator()
	rows := []table.Row{}
	if p := job.PropertyInfo; p != nil {
		rows = append(rows, table.Row{"Cellphone", orNA(p.CellNumber)})
		if p.CellNumber2 != "" {
			rows = append(rows, table.Row{"Cellphone 2", p.CellNumber2})
		}
	}
	rows = append(rows,
		table.Row{"Complainant", orNA(job.Complainant.Name)},
		table.Row{"Complainant cellphone", orNA(job.Complainant.PhoneNumber)},
	)
	tw.AppendRows(rows)
	tw.Render()
}

func renderPeople(w io.Writer, people []domain.User) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Name"})
	for _, p := range people {
		tw.AppendRow(table.Row{p.ID, p.Name})
	}
	tw.Render()
}

func renderProperties(w io.Writer, props []domain.Property) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"#", "Account", "Holder", "Address", "ERF", "Cellphone"})
	for i, p := range props {
		tw.AppendRow(table.Row{i + 1, orNA(p.AccountNumber), orNA(p.AccountHolder), orNA(p.StreetAddress), orNA(p.ErfNumber), orNA(p.CellNumber)})
	}
	tw.Render()
}
