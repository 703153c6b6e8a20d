package stocks

import (
	"context"

	"golang.org/x/sync/errgroup"

	"newsdesk/internal/view"
)

// Row is one watch-list line. A failed row carries its own error and never
// affects the others.
type Row struct {
	Symbol string      `json:"symbol"`
	Label  string      `json:"label"`
	Status view.Status `json:"status"`
	Data   *Data       `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Widget loads a fixed watch-list.
type Widget struct {
	service *Service
	symbols []string
}

// NewWidget creates a Widget over symbols, or DefaultSymbols when empty.
func NewWidget(service *Service, symbols []string) *Widget {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	return &Widget{service: service, symbols: symbols}
}

// Symbols returns the watch-list.
func (w *Widget) Symbols() []string { return w.symbols }

// Load resolves every row concurrently, in watch-list order.
func (w *Widget) Load(ctx context.Context) []Row {
	rows := make([]Row, len(w.symbols))

	var g errgroup.Group
	for i, sym := range w.symbols {
		g.Go(func() error {
			rows[i] = w.row(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func (w *Widget) row(ctx context.Context, symbol string) Row {
	d, err := w.service.Get(ctx, symbol)
	if err != nil {
		return Row{
			Symbol: symbol,
			Label:  Label(symbol, nil),
			Status: view.Error,
			Error:  err.Error(),
		}
	}
	return Row{
		Symbol: symbol,
		Label:  Label(symbol, d.Profile),
		Status: view.Success,
		Data:   &d,
	}
}
