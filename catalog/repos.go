package catalog

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Companies is the company record store
type Companies interface {
	repository.Repository[*Company]

	FindAll(ctx context.Context) ([]*Company, error)
	FindByName(ctx context.Context, name string) (*Company, error)
	Create(ctx context.Context, record *Company, criteria ...repository.InsertCriteria) (*Company, error)
}

// JobOffers is the job offer store. Listing is always company scoped; the
// controller decides which scope the caller is allowed to use.
type JobOffers interface {
	repository.Repository[*JobOffer]

	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*JobOffer, error)
	SearchByLocation(ctx context.Context, companyID uuid.UUID, location string) ([]*JobOffer, error)
	Create(ctx context.Context, record *JobOffer, criteria ...repository.InsertCriteria) (*JobOffer, error)
}

// Candidates is the candidate application store
type Candidates interface {
	repository.Repository[*Candidate]

	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Candidate, error)
	Create(ctx context.Context, record *Candidate, criteria ...repository.InsertCriteria) (*Candidate, error)
}

type companies struct {
	repository.Repository[*Company]
	db *bun.DB
}

var _ Companies = (*companies)(nil)

// NewCompaniesRepository wires the company store over bun
func NewCompaniesRepository(db *bun.DB) Companies {
	repo := repository.NewRepository[*Company](db, repository.ModelHandlers[*Company]{
		NewRecord: func() *Company { return &Company{} },
		GetID: func(c *Company) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Company, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &companies{Repository: repo, db: db}
}

func (r *companies) FindAll(ctx context.Context) ([]*Company, error) {
	var records []*Company
	err := r.db.NewSelect().
		Model(&records).
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "company listing failed")
	}

	return records, nil
}

func (r *companies) FindByName(ctx context.Context, name string) (*Company, error) {
	record := &Company{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", strings.TrimSpace(name)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "company lookup failed")
	}

	return record, nil
}

func (r *companies) Create(ctx context.Context, record *Company, criteria ...repository.InsertCriteria) (*Company, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.Create(ctx, record, criteria...)
}

type jobOffers struct {
	repository.Repository[*JobOffer]
	db *bun.DB
}

var _ JobOffers = (*jobOffers)(nil)

// NewJobOffersRepository wires the job offer store over bun
func NewJobOffersRepository(db *bun.DB) JobOffers {
	repo := repository.NewRepository[*JobOffer](db, repository.ModelHandlers[*JobOffer]{
		NewRecord: func() *JobOffer { return &JobOffer{} },
		GetID: func(j *JobOffer) uuid.UUID {
			if j == nil {
				return uuid.Nil
			}
			return j.ID
		},
		SetID: func(j *JobOffer, id uuid.UUID) {
			if j != nil {
				j.ID = id
			}
		},
		GetIdentifier: func() string {
			return "title"
		},
	})

	return &jobOffers{Repository: repo, db: db}
}

func (r *jobOffers) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*JobOffer, error) {
	var records []*JobOffer
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.company_id = ?", companyID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "job offer listing failed")
	}

	return records, nil
}

// SearchByLocation does a case-insensitive substring match on the location
// column, still scoped to a company.
func (r *jobOffers) SearchByLocation(ctx context.Context, companyID uuid.UUID, location string) ([]*JobOffer, error) {
	var records []*JobOffer
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.company_id = ?", companyID).
		Where("lower(?TableAlias.location) LIKE lower(?)", "%"+strings.TrimSpace(location)+"%").
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "job offer search failed")
	}

	return records, nil
}

func (r *jobOffers) Create(ctx context.Context, record *JobOffer, criteria ...repository.InsertCriteria) (*JobOffer, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.Create(ctx, record, criteria...)
}

type candidates struct {
	repository.Repository[*Candidate]
	db *bun.DB
}

var _ Candidates = (*candidates)(nil)

// NewCandidatesRepository wires the candidate store over bun
func NewCandidatesRepository(db *bun.DB) Candidates {
	repo := repository.NewRepository[*Candidate](db, repository.ModelHandlers[*Candidate]{
		NewRecord: func() *Candidate { return &Candidate{} },
		GetID: func(c *Candidate) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Candidate, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &candidates{Repository: repo, db: db}
}

func (r *candidates) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Candidate, error) {
	var records []*Candidate
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.company_id = ?", companyID).
		Order("lastname ASC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "candidate listing failed")
	}

	return records, nil
}

func (r *candidates) Create(ctx context.Context, record *Candidate, criteria ...repository.InsertCriteria) (*Candidate, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.Create(ctx, record, criteria...)
}
