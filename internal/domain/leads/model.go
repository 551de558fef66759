package leads

import "time"

// Lead es una captura de contacto de un visitante, opcionalmente referida a
// un evento del catálogo. Sink append-only: nunca se edita ni se borra.
type Lead struct {
	ID        string
	Email     string
	Consent   bool
	EventID   string
	CreatedAt time.Time
}
