package cli

import (
	"household-shopping/internal/catalog"
	"household-shopping/internal/database"
	"household-shopping/internal/identity"
	"household-shopping/internal/metrics"
	"household-shopping/internal/session"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

// app is the core wired over the local SQLite database.
type app struct {
	db        *database.DB
	catalog   *catalog.Catalog
	templates *templates.Service
	lists     *shopping.Engine
	metrics   *metrics.Store
}

func openApp(opts *RootOptions) (*app, error) {
	db, err := database.NewDB(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	cat := catalog.NewCatalog(catalog.NewRepository(db.SQL))
	tpl := templates.NewService(templates.NewRepository(db.SQL), identity.ContextProvider{})
	return &app{
		db:        db,
		catalog:   cat,
		templates: tpl,
		lists:     shopping.NewEngine(shopping.NewRepository(db.SQL), tpl, cat, identity.ContextProvider{}),
		metrics:   metrics.NewStore(db.SQL),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// tracker keeps the active list in a JSON file under --state-dir, one
// directory per user.
func (a *app) tracker(opts *RootOptions) (*session.Tracker, error) {
	store, err := session.NewFileStore(stateDir(opts))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open state directory", err)
	}
	return session.NewTracker(store, a.lists), nil
}
