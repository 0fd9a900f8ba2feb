// Package tasks agrupa las tareas en segundo plano de la aplicación.
package tasks

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

// LowStockWatcher recorre periódicamente todas las empresas y registra en el
// log los productos con existencias por debajo de su mínimo.
type LowStockWatcher struct {
	companyRepo repository.CompanyRepository
	ledger      *inventory.LedgerUseCase
	log         *logger.Logger
	interval    time.Duration
}

// NewLowStockWatcher construye el watcher.
func NewLowStockWatcher(
	companyRepo repository.CompanyRepository,
	ledger *inventory.LedgerUseCase,
	log *logger.Logger,
	interval time.Duration,
) *LowStockWatcher {
	return &LowStockWatcher{
		companyRepo: companyRepo,
		ledger:      ledger,
		log:         log.Component("lowstock-watcher"),
		interval:    interval,
	}
}

// Run ejecuta el ciclo del watcher hasta que el contexto se cancele.
// Hace un escaneo inmediato al arrancar y luego uno por intervalo.
func (w *LowStockWatcher) Run(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("watcher de stock bajo iniciado")
	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("watcher de stock bajo detenido")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan recorre las empresas por páginas y alerta las existencias bajas.
func (w *LowStockWatcher) scan(ctx context.Context) {
	const pageSize = 100
	for offset := 0; ; offset += pageSize {
		companies, err := w.companyRepo.List(pageSize, offset)
		if err != nil {
			w.log.Error().Err(err).Msg("error listando empresas")
			return
		}
		if len(companies) == 0 {
			return
		}
		for _, company := range companies {
			items, err := w.ledger.LowStock(ctx, company.ID, "")
			if err != nil {
				w.log.Error().Err(err).Str("company_id", company.ID).Msg("error consultando stock bajo")
				continue
			}
			for _, item := range items {
				w.log.Warn().
					Str("company_id", company.ID).
					Str("product_id", item.ProductID).
					Str("sku", item.SKU).
					Str("warehouse_id", item.WarehouseID).
					Int64("quantity", item.Quantity).
					Int64("min_stock", item.MinStock).
					Int64("shortage", item.Shortage).
					Msg("producto con stock bajo")
			}
		}
		if len(companies) < pageSize {
			return
		}
	}
}
