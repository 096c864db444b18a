package game

import "errors"

var (
	// ErrUnknownScene is returned for a scene index outside the catalog.
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidState is returned when a scene transition is requested from
	// a state that does not allow it.
	ErrInvalidState = errors.New("invalid scene state")
	// ErrAlreadyLoaded is returned when loading a scene that is Enabled or Disabled.
	ErrAlreadyLoaded = errors.New("scene already loaded")
	// ErrNotLoaded is returned when unloading, enabling or disabling a scene
	// that is not loaded.
	ErrNotLoaded = errors.New("scene not loaded")
	// ErrSceneBusy is returned when a load or unload is already in flight
	// for the scene.
	ErrSceneBusy = errors.New("scene has an operation in flight")
)
