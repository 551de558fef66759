package auth

import "context"

// Claims representa la información extraída del token del curador/admin.
type Claims struct {
	UserID string
	Email  string
}

// Verifier verifica un token y devuelve claims o error. La implementación
// real queda fuera de este servicio; en dev el verifier es nil y el
// middleware acepta X-Debug-User-ID.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
