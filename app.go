package noisemaster

import (
	"fmt"
	"reflect"

	"github.com/gekko3d/noisemaster/logging"
)

// App is the resource container modules install into. Resources are keyed
// by their pointed-to type, so there is at most one of each.
type App struct {
	modules   []Module
	resources map[reflect.Type]any
	releasers []func()
	// logger is the first Logger resource installed.
	logger logging.Logger
}

func NewApp() *App {
	return &App{resources: make(map[reflect.Type]any)}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
		if l, ok := resource.(logging.Logger); ok && app.logger == nil {
			app.logger = l
		}
	}
	return app
}

// onRelease registers fn to run on Release. Functions run in reverse
// registration order, so later modules tear down before the ones they
// depend on.
func (app *App) onRelease(fn func()) {
	app.releasers = append(app.releasers, fn)
}

// Release tears down every installed module. It is safe to call twice.
func (app *App) Release() {
	for i := len(app.releasers) - 1; i >= 0; i-- {
		app.releasers[i]()
	}
	app.releasers = nil
}

// Resource returns the installed resource of type T.
func Resource[T any](app *App) (*T, bool) {
	if app == nil {
		return nil, false
	}
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := r.(*T)
	return typed, ok
}

// MustResource is Resource for resources a module requires.
func MustResource[T any](app *App) *T {
	r, ok := Resource[T](app)
	if !ok {
		var zero T
		panic(fmt.Sprintf("resource %T is not installed", zero))
	}
	return r
}

// Logger returns the first Logger resource installed, otherwise a no-op
// logger. It never returns nil.
func (app *App) Logger() logging.Logger {
	if app == nil || app.logger == nil {
		return logging.NewNopLogger()
	}
	return app.logger
}

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Install(app *App) error {
	app.addResources(logging.NewDefaultLogger(m.Prefix, m.Debug))
	return nil
}

// RecorderModule installs an in-memory logger, for tools and tests that
// inspect diagnostics after the fact.
type RecorderModule struct {
	Recorder *logging.Recorder
}

func (m RecorderModule) Install(app *App) error {
	rec := m.Recorder
	if rec == nil {
		rec = logging.NewRecorder()
	}
	app.addResources(rec)
	return nil
}
