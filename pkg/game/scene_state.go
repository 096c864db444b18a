package game

// SceneState is the lifecycle state of a Scene.
//
//	Unloaded --LoadAssets--> Loading --(all assets loaded)--> Disabled
//	Disabled --Enable--> Enabled
//	Enabled  --Disable--> Disabled
//	Enabled|Disabled --UnloadAssetsAndGameObjects--> Unloading --> Unloaded
//
// A failed asset load returns the scene from Loading to Unloaded.
type SceneState int

const (
	SceneUnloaded SceneState = iota
	SceneLoading
	SceneDisabled
	SceneEnabled
	SceneUnloading
)

func (s SceneState) String() string {
	switch s {
	case SceneUnloaded:
		return "unloaded"
	case SceneLoading:
		return "loading"
	case SceneDisabled:
		return "disabled"
	case SceneEnabled:
		return "enabled"
	case SceneUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// IsLoaded reports whether the state is Disabled or Enabled.
func (s SceneState) IsLoaded() bool {
	return s == SceneDisabled || s == SceneEnabled
}

// Membership is where the SceneManager currently tracks a scene. Every
// scene is in exactly one of these at any observation point.
type Membership int

const (
	// Untracked scenes are Unloaded.
	Untracked Membership = iota
	// InFlightLoading scenes have a load running (sync or async).
	InFlightLoading
	// Staged scenes finished loading assets and wait for
	// InstantiateNewLoadedScenes to spawn their game objects.
	Staged
	TrackedEnabled
	TrackedDisabled
	// InFlightUnloading scenes have an unload running or not yet reaped.
	InFlightUnloading
)

func (m Membership) String() string {
	switch m {
	case Untracked:
		return "untracked"
	case InFlightLoading:
		return "loading"
	case Staged:
		return "staged"
	case TrackedEnabled:
		return "enabled"
	case TrackedDisabled:
		return "disabled"
	case InFlightUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}
