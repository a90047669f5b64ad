package appvol

// Subsystem binds the host audio subsystem for the duration of a single operation.
// Each platform provides one through NewSubsystem
type Subsystem interface {
	Open() (Binding, error)
}

// Binding is a live connection to the host audio subsystem. Everything acquired through it
// must be released before the binding itself
type Binding interface {
	DefaultRenderEndpoint() (Endpoint, error)
	Release()
}

// Endpoint is the default audio output device
type Endpoint interface {
	SessionManager() (SessionManager, error)
	Release()
}

// SessionManager gives access to the audio sessions of one endpoint
type SessionManager interface {
	Sessions() (SessionEnumerator, error)
	Release()
}

// SessionEnumerator is a snapshot of the sessions on an endpoint, in host enumeration order
type SessionEnumerator interface {
	Count() (int, error)
	Session(idx int) (SessionControl, error)
	Release()
}

// SessionControl is a single audio session
type SessionControl interface {
	// InstanceIdentifier returns the opaque, host-formatted identifier embedding the owning executable's path
	InstanceIdentifier() (string, error)
	ProcessID() (uint32, error)
	SimpleVolume() (SimpleVolume, error)
	Release()
}

// SimpleVolume reads and writes the scalar playback volume of a session
type SimpleVolume interface {
	MasterVolume() (float32, error)
	SetMasterVolume(v float32) error
	Release()
}
