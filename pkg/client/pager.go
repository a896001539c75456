package client

import (
	"context"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

// HistoryPager acumula páginas del historial ("cargar más") sin repetir movimientos.
type HistoryPager struct {
	client  *Client
	tipo    string
	recurso string
	limite  int

	mu           sync.Mutex
	items        []dto.MovementResponse
	seen         map[string]struct{}
	pagina       int
	totalPaginas int
	loaded       bool
}

// NewHistoryPager construye el paginador para un filtro fijo.
func NewHistoryPager(c *Client, tipo, recurso string, limite int) *HistoryPager {
	return &HistoryPager{
		client:  c,
		tipo:    tipo,
		recurso: recurso,
		limite:  limite,
		seen:    make(map[string]struct{}),
	}
}

// HasMore informa si queda al menos una página por cargar.
func (p *HistoryPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.loaded || p.pagina < p.totalPaginas
}

// LoadMore pide la siguiente página y agrega los movimientos nuevos. Devuelve cuántos agregó.
func (p *HistoryPager) LoadMore(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.loaded && p.pagina >= p.totalPaginas {
		p.mu.Unlock()
		return 0, nil
	}
	next := p.pagina + 1
	p.mu.Unlock()

	page, err := p.client.History(ctx, p.tipo, p.recurso, next, p.limite)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	added := 0
	for _, m := range page.Movimientos {
		if _, dup := p.seen[m.ID]; dup {
			continue
		}
		p.seen[m.ID] = struct{}{}
		p.items = append(p.items, m)
		added++
	}
	p.pagina = page.Pagina
	if p.pagina < next {
		p.pagina = next
	}
	p.totalPaginas = page.TotalPaginas
	p.loaded = true
	return added, nil
}

// Items devuelve una copia de los movimientos cargados, en el orden recibido.
func (p *HistoryPager) Items() []dto.MovementResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]dto.MovementResponse, len(p.items))
	copy(out, p.items)
	return out
}

// Reset descarta lo cargado; la próxima llamada vuelve a la página 1.
func (p *HistoryPager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.seen = make(map[string]struct{})
	p.pagina, p.totalPaginas, p.loaded = 0, 0, false
}
