package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/stock"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ReportsHandler maneja las consultas derivadas del ledger.
type ReportsHandler struct {
	uc *stock.ReportsUseCase
}

// NewReportsHandler construye el handler de reportes.
func NewReportsHandler(uc *stock.ReportsUseCase) *ReportsHandler {
	return &ReportsHandler{uc: uc}
}

// AuditTrail godoc
// @Summary      Auditoría de movimientos con balance corrido
// @Tags         reportes
// @Produce      json
// @Param        id    path   string  true   "ID del producto"
// @Param        from  query  string  false  "Fecha inicial (RFC3339)"
// @Param        to    query  string  false  "Fecha final (RFC3339)"
// @Success      200   {array}   dto.AuditTrailEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/audit-trail [get]
func (h *ReportsHandler) AuditTrail(c *fiber.Ctx) error {
	productID := c.Params("id")

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido: se espera RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido: se espera RFC3339"})
	}

	trail, err := h.uc.AuditTrail(c.Context(), productID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trail)
}

// StockLevels godoc
// @Summary      Niveles de stock actuales
// @Tags         reportes
// @Produce      json
// @Param        category        query  string  false  "Filtrar por categoría"
// @Param        low_stock_only  query  bool    false  "Solo productos bajo punto de reorden"
// @Success      200  {array}  dto.StockLevelDTO
// @Router       /api/stock/levels [get]
func (h *ReportsHandler) StockLevels(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Category:     c.Query("category"),
		LowStockOnly: c.QueryBool("low_stock_only"),
	}
	levels, err := h.uc.CurrentStockLevels(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(levels)
}

// StockValuation godoc
// @Summary      Valuación del inventario por categoría
// @Tags         reportes
// @Produce      json
// @Param        category  query  string  false  "Limitar a una categoría"
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/stock/valuation [get]
func (h *ReportsHandler) StockValuation(c *fiber.Ctx) error {
	resp, err := h.uc.StockValuation(c.Context(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// InventoryAging godoc
// @Summary      Antigüedad del inventario por buckets
// @Tags         reportes
// @Produce      json
// @Param        periods  query  string  false  "Límites en días, separados por coma (default 30,60,90)"
// @Success      200  {object}  dto.AgingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/aging [get]
func (h *ReportsHandler) InventoryAging(c *fiber.Ctx) error {
	periods, err := parsePeriods(c.Query("periods"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "periods inválido: se esperan enteros separados por coma"})
	}
	resp, err := h.uc.InventoryAging(c.Context(), periods)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ABCAnalysis godoc
// @Summary      Análisis ABC de consumo
// @Tags         reportes
// @Produce      json
// @Param        period_days  query  int     true  "Ventana de análisis en días"
// @Param        basis        query  string  true  "Base de clasificación: value | quantity"
// @Success      200  {object}  dto.ABCAnalysisResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/abc-analysis [get]
func (h *ReportsHandler) ABCAnalysis(c *fiber.Ctx) error {
	periodDays := c.QueryInt("period_days")
	basis := c.Query("basis")
	resp, err := h.uc.ABCAnalysis(c.Context(), periodDays, basis)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// parseTimeQuery lee un query param de fecha opcional en RFC3339.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parsePeriods convierte "30,60,90" en []int. Cadena vacía delega en los
// períodos por defecto del caso de uso.
func parsePeriods(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	periods := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		periods = append(periods, n)
	}
	return periods, nil
}
