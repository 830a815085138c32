package http

import (
	"github.com/gofiber/fiber/v2"

	appbom "github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BOMUC     *appbom.UseCase
	StockUC   *stock.UseCase
	ReportsUC *stock.ReportsUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// BOMs: definición, escalado y costeo de listas de materiales
	boms := api.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms.Post("/", bomHandler.Create)
	boms.Get("/:id", bomHandler.GetByID)
	boms.Put("/:id/components", bomHandler.UpdateComponents)
	boms.Get("/:id/scale", bomHandler.Scale)
	boms.Get("/:id/cost-breakdown", bomHandler.CostBreakdown)
	boms.Post("/:id/clone", bomHandler.Clone)
	boms.Delete("/:id", bomHandler.SoftDelete)

	// Stock: escrituras al ledger
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/movements", stockHandler.RecordMovement)
	stockGroup.Post("/adjustments", stockHandler.PerformAdjustment)
	stockGroup.Post("/transfers", stockHandler.TransferStock)
	stockGroup.Post("/consumptions", stockHandler.ConsumeMaterials)
	stockGroup.Post("/receipts", stockHandler.ReceiveProduction)

	// Reportes: lecturas derivadas del ledger
	reportsHandler := NewReportsHandler(deps.ReportsUC)
	stockGroup.Get("/products/:id/audit-trail", reportsHandler.AuditTrail)
	stockGroup.Get("/levels", reportsHandler.StockLevels)
	stockGroup.Get("/valuation", reportsHandler.StockValuation)
	stockGroup.Get("/aging", reportsHandler.InventoryAging)
	stockGroup.Get("/abc-analysis", reportsHandler.ABCAnalysis)
}
