package dto

// Valores por defecto de paginación (pagina empieza en 1).
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageQuery paginación en el formato de la consola (pagina/limite).
type PageQuery struct {
	Pagina int `query:"pagina"`
	Limite int `query:"limite"`
}

// Normalize aplica valores por defecto y límites.
func (p *PageQuery) Normalize(defLimit, maxLimit int) {
	if defLimit <= 0 {
		defLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Pagina < 1 {
		p.Pagina = 1
	}
	if p.Limite <= 0 {
		p.Limite = defLimit
	}
	if p.Limite > maxLimit {
		p.Limite = maxLimit
	}
}

// Offset devuelve el desplazamiento de la página (requiere Normalize).
func (p PageQuery) Offset() int {
	return (p.Pagina - 1) * p.Limite
}

// TotalPages calcula el número de páginas para total elementos.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
