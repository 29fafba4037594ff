package launcher

import "errors"

var (
	// Pipeline errors 🚫
	ErrAlreadyRunning       = errors.New("❌ a launch is already in flight")
	ErrDefinitionResolution = errors.New("❌ version definition resolution failed")
	ErrTransportFailure     = errors.New("❌ download transport failure")
	ErrIntegrityFailure     = errors.New("❌ download integrity failure")
	ErrFilesystemFailure    = errors.New("❌ filesystem failure")
	ErrNativeExtraction     = errors.New("❌ native extraction failed")
	ErrProcessSpawn         = errors.New("❌ failed to spawn game process")
)
