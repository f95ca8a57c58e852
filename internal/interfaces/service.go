package interfaces

// Service is an interface exposing the engine, started once the
// application layer is wired and stopped on shutdown.
type Service interface {
	Start() error
	Stop()
}
