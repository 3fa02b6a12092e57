package noisemaster

import "fmt"

// Module installs resources into an App.
type Module interface {
	Install(app *App) error
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: NewApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs modules in order. If one fails, everything installed so
// far is released and the error is returned.
func (b *AppBuilder) Build() (*App, error) {
	app := b.app

	for _, module := range b.modules {
		if err := module.Install(app); err != nil {
			app.Release()
			return nil, fmt.Errorf("install %T: %w", module, err)
		}
		app.modules = append(app.modules, module)
	}

	return app, nil
}
