package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/hirestack/backoffice/auth"
	"github.com/hirestack/backoffice/catalog"
	"github.com/hirestack/backoffice/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

// App carries the wired process dependencies
type App struct {
	config *config.App
	logger *glog.BaseLogger
	bunDB  *bun.DB
	repo   auth.RepositoryManager
	srv    router.Server[*fiber.App]
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("backoffice"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	mlog := app.GetLogger("main")
	mlog.Info("configuration loaded")
	mlog.Debug(print.MaybeHighlightJSON(cfg))

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithSuperAdmin(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		log.Fatal(err)
	}

	mlog.Info("listening", "address", cfg.GetServer().GetAddress())

	if err := app.srv.Serve(cfg.GetServer().GetAddress()); err != nil {
		log.Fatal(err)
	}
}

// WithPersistence opens the database, runs migrations for both schemas, and
// hands the repository manager to the app.
func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.config.GetPersistence()

	var db *sql.DB
	var dialect schema.Dialect
	var err error

	switch pcfg.GetDriver() {
	case "postgres":
		db = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pcfg.GetDSN())))
		dialect = pgdialect.New()
	default:
		db, err = sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
		if err != nil {
			return err
		}
		dialect = sqlitedialect.New()
	}

	persistence.RegisterModel((*auth.User)(nil))
	persistence.RegisterModel((*auth.LoginHistory)(nil))
	persistence.RegisterModel((*catalog.Company)(nil))
	persistence.RegisterModel((*catalog.JobOffer)(nil))
	persistence.RegisterModel((*catalog.Candidate)(nil))

	client, err := persistence.New(pcfg, db, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence").Info)

	authMigrations, err := fs.Sub(auth.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	catalogMigrations, err := fs.Sub(catalog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterSQLMigrations(authMigrations, catalogMigrations)

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	// DB exposes bun.IDB; the repositories need the concrete handle the
	// client wraps around the sql.DB we opened above.
	bunDB, ok := client.DB().(*bun.DB)
	if !ok {
		return errors.New("persistence client returned an unexpected database handle", errors.CategoryInternal)
	}

	app.bunDB = bunDB
	app.repo = auth.NewRepositoryManager(bunDB)

	return nil
}

// WithSuperAdmin provisions the bootstrap superadmin on first run. It has no
// password, so its only path into the system is account activation; logging
// in against it yields no session.
func WithSuperAdmin(ctx context.Context, app *App) error {
	users := app.repo.Users()

	exists, err := users.HasSuperAdmin(ctx)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	app.GetLogger("seed").Info("provisioning bootstrap superadmin account")

	provisioner := auth.NewProvisioner(users).WithLogger(app.GetLogger("seed"))
	_, err = provisioner.Provision(ctx, auth.NewUser{
		Username: "superadmin",
		Email:    "superadmin@localhost",
		Role:     auth.RoleSuperAdmin,
	})

	return err
}

// WithHTTPServer wires the routes behind the go-router fiber adapter
func WithHTTPServer(_ context.Context, app *App) error {
	engine := django.New("./views", ".html")

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	acfg := app.config.GetAuth()
	tokens := auth.NewTokenService(
		[]byte(acfg.GetSigningKey()),
		acfg.GetTokenExpiration(),
		acfg.GetIssuer(),
		acfg.GetAudience(),
		app.GetLogger("auth:tokens"),
	)

	store := auth.NewSessionStore(app.repo.Users())

	authenticator := auth.NewAuthenticator(
		app.repo.Users(),
		store,
		app.repo.LoginHistories(),
		tokens,
	).WithLogger(app.GetLogger("auth:flow"))

	verifier := auth.NewVerifier(tokens, store).WithLogger(app.GetLogger("auth:verify"))

	httpAuth := auth.NewHTTPAuthenticator(authenticator, verifier, acfg)
	httpAuth.Logger = app.GetLogger("auth:http")

	provisioner := auth.NewProvisioner(app.repo.Users()).WithLogger(app.GetLogger("auth:prv"))

	authController := auth.NewAuthController(
		auth.WithAuther(httpAuth),
		auth.WithProvisioner(provisioner),
		auth.WithControllerLogger(app.GetLogger("auth:ctrl")),
	)
	auth.RegisterAuthRoutes(srv.Router(), authController)

	catalogController := catalog.NewCatalogController(
		catalog.WithRepositories(
			catalog.NewCompaniesRepository(app.bunDB),
			catalog.NewJobOffersRepository(app.bunDB),
			catalog.NewCandidatesRepository(app.bunDB),
		),
		catalog.WithControllerLogger(app.GetLogger("catalog:ctrl")),
	)
	catalog.RegisterCatalogRoutes(
		srv.Router(),
		catalogController,
		httpAuth.ProtectedRoute(),
		httpAuth.RequireRole(auth.RoleSuperAdmin),
	)

	srv.Router().Get("/health-check", func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}).SetName("health-check.get")

	srv.Router().Get("/", func(ctx router.Context) error {
		return ctx.Redirect(authController.Routes.Home, http.StatusFound)
	}).SetName("root.get")

	// Registered after every route so it only sees unmatched requests.
	srv.Router().Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			return ctx.Status(http.StatusNotFound).Render("404", router.ViewContext{})
		}
	})

	app.srv = srv

	return nil
}
