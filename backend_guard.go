package noisemaster

import (
	"fmt"
	"reflect"
)

// BackendTag records which compute backend owns the App's device. Programs
// and textures are bound to the device that made them, so handlers from two
// backends could never share a layer copier or a texture.
type BackendTag struct {
	Name BackendName
}

// ensureSingleBackend claims the App for name. It reports true when name
// already owns it, so a repeated install can return without touching the
// device. A different backend panics.
func ensureSingleBackend(app *App, name BackendName) bool {
	if app == nil {
		panic("ensureSingleBackend: app is nil")
	}
	t := reflect.TypeOf((*BackendTag)(nil)).Elem()
	res, ok := app.resources[t]
	if !ok {
		app.addResources(&BackendTag{Name: name})
		return false
	}
	tag, ok := res.(*BackendTag)
	if !ok {
		panic(fmt.Sprintf("BackendTag resource has type %T", res))
	}
	if tag.Name != name {
		app.Logger().Errorf("Multiple backends installed: %s and %s", tag.Name, name)
		panic(fmt.Sprintf("Multiple backends installed: %s and %s", tag.Name, name))
	}
	return true
}
