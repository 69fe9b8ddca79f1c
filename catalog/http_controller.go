package catalog

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/hirestack/backoffice/auth"
	"github.com/nyaruka/phonenumbers"
)

// CatalogControllerRoutes is the catalog route table
type CatalogControllerRoutes struct {
	Companies  string
	JobOffers  string
	Candidates string
}

// CatalogController owns the company, job offer, and candidate HTTP surface.
// Every route sits behind the auth middleware; admins only ever see records
// for their own company, superadmins pick any scope.
type CatalogController struct {
	Logger       auth.Logger
	Companies    Companies
	JobOffers    JobOffers
	Candidates   Candidates
	Routes       *CatalogControllerRoutes
	ErrorHandler func(c router.Context, err error) error
}

type CatalogControllerOption func(*CatalogController) *CatalogController

func NewCatalogController(opts ...CatalogControllerOption) *CatalogController {
	c := &CatalogController{
		Logger: auth.DefaultLogger(),
		Routes: &CatalogControllerRoutes{
			Companies:  "/admin/companies",
			JobOffers:  "/admin/job-offers",
			Candidates: "/admin/candidates",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Companies == nil || c.JobOffers == nil || c.Candidates == nil {
		panic("Missing repositories in catalog controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = defaultErrHandler
	}

	return c
}

func WithRepositories(companies Companies, offers JobOffers, candidates Candidates) CatalogControllerOption {
	return func(c *CatalogController) *CatalogController {
		c.Companies = companies
		c.JobOffers = offers
		c.Candidates = candidates
		return c
	}
}

func WithControllerLogger(l auth.Logger) CatalogControllerOption {
	return func(c *CatalogController) *CatalogController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// RegisterCatalogRoutes wires the catalog surface, per-verb. The protected
// and superadminOnly middlewares come from the auth route authenticator so
// both surfaces share one verification pipeline.
func RegisterCatalogRoutes[T any](app router.Router[T], controller *CatalogController, protected, superadminOnly router.MiddlewareFunc) {
	app.Get(controller.Routes.Companies, controller.CompanyList, protected, superadminOnly).SetName("admin-companies.get")
	app.Post(controller.Routes.Companies, controller.CompanyCreate, protected, superadminOnly).SetName("admin-companies.post")
	app.Get(controller.Routes.JobOffers, controller.JobOfferList, protected).SetName("admin-job-offers.get")
	app.Post(controller.Routes.JobOffers, controller.JobOfferCreate, protected).SetName("admin-job-offers.post")
	app.Get(controller.Routes.Candidates, controller.CandidateList, protected).SetName("admin-candidates.get")
	app.Post(controller.Routes.Candidates, controller.CandidateCreate, protected).SetName("admin-candidates.post")
}

// scopeFor resolves which company a caller may read. Superadmins may pass an
// explicit company_id query argument; everyone else is pinned to the company
// on their identity.
func scopeFor(ctx router.Context, identity auth.Identity) (uuid.UUID, error) {
	if identity.Role() == auth.RoleSuperAdmin {
		if requested := ctx.Query("company_id", ""); requested != "" {
			id, err := uuid.Parse(requested)
			if err != nil {
				return uuid.Nil, ErrScopeForbidden
			}
			return id, nil
		}
	}

	id, err := uuid.Parse(identity.CompanyID())
	if err != nil {
		return uuid.Nil, ErrScopeForbidden
	}

	return id, nil
}

// CompanyRequest payload
type CompanyRequest struct {
	Name string `form:"name" json:"name"`
}

// Validate will run validation rules
func (r CompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
	)
}

func (a *CatalogController) CompanyList(ctx router.Context) error {
	records, err := a.Companies.FindAll(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"companies": records,
	})
}

func (a *CatalogController) CompanyCreate(ctx router.Context) error {
	payload := new(CompanyRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	record, err := a.Companies.Create(ctx.Context(), &Company{Name: payload.Name})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"company": record,
	})
}

func (a *CatalogController) JobOfferList(ctx router.Context) error {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, auth.ErrTokenMissing)
	}

	scope, err := scopeFor(ctx, identity)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	var records []*JobOffer
	if location := ctx.Query("location", ""); location != "" {
		records, err = a.JobOffers.SearchByLocation(ctx.Context(), scope, location)
	} else {
		records, err = a.JobOffers.ListByCompany(ctx.Context(), scope)
	}

	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"job_offers": records,
	})
}

// JobOfferRequest payload
type JobOfferRequest struct {
	Title          string  `form:"title" json:"title"`
	Description    string  `form:"description" json:"description"`
	Requirements   string  `form:"requirements" json:"requirements"`
	Location       string  `form:"location" json:"location"`
	Remote         string  `form:"remote" json:"remote"`
	EmploymentType string  `form:"employment_type" json:"employment_type"`
	Salary         float64 `form:"salary" json:"salary"`
}

// Validate will run validation rules
func (r JobOfferRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.EmploymentType, validation.Required, validation.In("full-time", "part-time", "contract", "internship")),
		validation.Field(&r.Salary, validation.Min(0.0)),
	)
}

func (a *CatalogController) JobOfferCreate(ctx router.Context) error {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, auth.ErrTokenMissing)
	}

	scope, err := scopeFor(ctx, identity)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(JobOfferRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	record := &JobOffer{
		CompanyID:      scope,
		Title:          payload.Title,
		Description:    payload.Description,
		Location:       payload.Location,
		EmploymentType: payload.EmploymentType,
		Salary:         payload.Salary,
	}

	if payload.Requirements != "" {
		record.Requirements = &payload.Requirements
	}

	if payload.Remote != "" {
		record.Remote = &payload.Remote
	}

	record, err = a.JobOffers.Create(ctx.Context(), record)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"job_offer": record,
	})
}

func (a *CatalogController) CandidateList(ctx router.Context) error {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, auth.ErrTokenMissing)
	}

	scope, err := scopeFor(ctx, identity)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	records, err := a.Candidates.ListByCompany(ctx.Context(), scope)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"candidates": records,
	})
}

// CandidateRequest payload
type CandidateRequest struct {
	LastName   string `form:"lastname" json:"lastname"`
	FirstName  string `form:"firstname" json:"firstname"`
	FileName   string `form:"file_name" json:"file_name"`
	Phone      string `form:"phone" json:"phone"`
	Region     string `form:"region" json:"region"`
	Email      string `form:"email" json:"email"`
	Motivation string `form:"motivation" json:"motivation"`
}

// Validate will run validation rules
func (r CandidateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.FileName, validation.Required),
		validation.Field(&r.Email, is.Email),
	)
}

// NormalizePhone parses and reformats a candidate phone number in E.164. The
// region hint is used for national formats; it defaults to FR to match the
// recruitment market the platform launched in.
func NormalizePhone(raw, region string) (string, error) {
	if raw == "" {
		return "", nil
	}

	if region == "" {
		region = "FR"
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", ErrInvalidPhone
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func (a *CatalogController) CandidateCreate(ctx router.Context) error {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, auth.ErrTokenMissing)
	}

	scope, err := scopeFor(ctx, identity)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(CandidateRequest)
	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	phone, err := NormalizePhone(payload.Phone, payload.Region)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "'" + payload.Phone + "' is not a valid phone number",
		})
	}

	record, err := a.Candidates.Create(ctx.Context(), &Candidate{
		CompanyID:  scope,
		LastName:   payload.LastName,
		FirstName:  payload.FirstName,
		FileName:   payload.FileName,
		Phone:      phone,
		Email:      payload.Email,
		Motivation: payload.Motivation,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"candidate": record,
	})
}

func defaultErrHandler(c router.Context, err error) error {
	switch {
	case auth.IsAuthorizationError(err):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
	case auth.IsAuthenticationError(err):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token, please login again"})
	case goerrors.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
