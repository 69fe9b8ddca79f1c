// Package catalog holds the back-office business records: companies, the job
// offers they publish, and the candidates who applied. It is plain
// field-mapped CRUD over the relational schema; the interesting invariants
// all live in the auth package.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Company is a provisioned company account
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:cmp"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string    `bun:"name,notnull,unique" json:"name,omitempty"`
}

// JobOffer is a published position
type JobOffer struct {
	bun.BaseModel  `bun:"table:job_offers,alias:jo"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CompanyID      uuid.UUID  `bun:"company_id,notnull,type:uuid" json:"company_id,omitempty"`
	Title          string     `bun:"title,notnull" json:"title,omitempty"`
	Description    string     `bun:"description,notnull" json:"description,omitempty"`
	Requirements   *string    `bun:"requirements" json:"requirements,omitempty"`
	Location       string     `bun:"location,notnull" json:"location,omitempty"`
	Remote         *string    `bun:"remote" json:"remote,omitempty"`
	EmploymentType string     `bun:"employment_type,notnull" json:"employment_type,omitempty"`
	Salary         float64    `bun:"salary" json:"salary,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// Candidate is an application to a company. FileName references an uploaded
// CV; the upload plumbing itself lives outside this package.
type Candidate struct {
	bun.BaseModel `bun:"table:candidates,alias:cnd"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CompanyID     uuid.UUID `bun:"company_id,notnull,type:uuid" json:"company_id,omitempty"`
	LastName      string    `bun:"lastname,notnull" json:"lastname,omitempty"`
	FirstName     string    `bun:"firstname,notnull" json:"firstname,omitempty"`
	FileName      string    `bun:"file_name,notnull" json:"file_name,omitempty"`
	Phone         string    `bun:"phone" json:"phone,omitempty"`
	Email         string    `bun:"email" json:"email,omitempty"`
	Motivation    string    `bun:"motivation,type:text" json:"motivation,omitempty"`
}
