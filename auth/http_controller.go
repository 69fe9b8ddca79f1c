package auth

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// AuthControllerRoutes is the back-office route table
type AuthControllerRoutes struct {
	Login  string
	Logout string
	Signup string
	Home   string
}

type AuthControllerViews struct {
	Login string
	Home  string
}

// AuthController owns the login/logout/provisioning HTTP surface. One
// handler per verb; the flow controller underneath never branches on the
// transport method.
type AuthController struct {
	Logger       Logger
	Auther       *RouteAuthenticator
	Provisioner  *Provisioner
	Routes       *AuthControllerRoutes
	Views        *AuthControllerViews
	ErrorHandler func(c router.Context, err error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:  "/admin/login",
			Logout: "/admin/logout",
			Signup: "/admin/signup",
			Home:   "/admin/",
		},
		Views: &AuthControllerViews{
			Login: "login",
			Home:  "home",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	if c.Provisioner == nil {
		panic("Missing Provisioner in auth controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.Auther.defaultErrHandler
	}

	return c
}

func WithAuther(a *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = a
		return c
	}
}

func WithProvisioner(p *Provisioner) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Provisioner = p
		return c
	}
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// RegisterAuthRoutes wires the back-office auth surface, per-verb
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	protected := controller.Auther.ProtectedRoute()
	superadminOnly := controller.Auther.RequireRole(RoleSuperAdmin)

	app.Get(controller.Routes.Login, controller.LoginShow).SetName("admin-login.get")
	app.Post(controller.Routes.Login, controller.LoginPost).SetName("admin-login.post")
	app.Post(controller.Routes.Logout, controller.LogoutPost, protected).SetName("admin-logout.post")
	app.Get(controller.Routes.Home, controller.HomeShow, protected).SetName("admin-home.get")
	app.Post(controller.Routes.Signup, controller.SignupPost, protected, superadminOnly).SetName("admin-signup.post")
}

func (a *AuthController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// LoginRequest payload
type LoginRequest struct {
	UsernameOrEmail string `form:"username_or_email" json:"username_or_email"`
	Password        string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UsernameOrEmail, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(http.StatusBadRequest).Render(a.Views.Login, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"validation": err.Error()},
		})
	}

	result, err := a.Auther.Login(ctx, payload.UsernameOrEmail, payload.Password)
	if err != nil {
		a.Logger.Info("login attempt failed for %s", payload.UsernameOrEmail)
		return ctx.Status(http.StatusUnauthorized).Render(a.Views.Login, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"authentication": "Wrong username or password, please try again"},
		})
	}

	if result.Degraded() {
		// Exists but has no password set; surface it without a session.
		return ctx.Status(http.StatusUnauthorized).Render(a.Views.Login, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"authentication": "Account is not activated"},
		})
	}

	return ctx.Redirect(a.Routes.Home, http.StatusFound)
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrTokenMissing)
	}

	if err := a.Auther.Logout(ctx, identity.Username()); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Redirect("/", http.StatusFound)
}

func (a *AuthController) HomeShow(ctx router.Context) error {
	identity, _ := IdentityFromContext(ctx)
	return ctx.Render(a.Views.Home, router.ViewContext{
		"identity": identity,
	})
}

// SignupRequest is the provisioning payload; reaching the handler already
// required a superadmin credential.
type SignupRequest struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	Role      string `form:"role" json:"role"`
	CompanyID string `form:"company_id" json:"company_id"`
}

// Validate will validate the payload
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required),
		validation.Field(&r.CompanyID, is.UUIDv4),
	)
}

func (a *AuthController) SignupPost(ctx router.Context) error {
	payload := new(SignupRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	role, err := ParseRole(payload.Role)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "'" + payload.Role + "' is not a valid role",
		})
	}

	req := NewUser{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     role,
	}

	if payload.CompanyID != "" {
		companyID, err := uuid.Parse(payload.CompanyID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid company reference",
			})
		}
		req.CompanyID = &companyID
	}

	user, err := a.Provisioner.Provision(ctx.Context(), req)
	if err != nil {
		if HasTextCode(err, ErrUsernameTaken.TextCode) {
			return ctx.JSON(http.StatusConflict, map[string]string{
				"error": "User '" + payload.Username + "' is already registered",
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"message":  "Signup successfully",
		"username": user.Username,
	})
}
