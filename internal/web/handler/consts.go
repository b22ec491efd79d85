package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the path of a group's own root.
	RouterRootPath = ""

	// ErrNilACAFatalLogMsg is used if app or cfg or auth service pointer is nil.
	ErrNilACAFatalLogMsg = "app, cfg or auth service is nil"
)
