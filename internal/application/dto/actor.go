package dto

import "strings"

// Actor identidad del operador que ejecuta la petición (extraída del token).
type Actor struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// OperatorName devuelve el operador indicado en la petición o, si falta, el nombre del token.
func (a Actor) OperatorName(requested string) string {
	if s := strings.TrimSpace(requested); s != "" {
		return s
	}
	if s := strings.TrimSpace(a.Name); s != "" {
		return s
	}
	return strings.TrimSpace(a.Email)
}
