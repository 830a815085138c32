package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	appbom "github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
)

// BOMHandler maneja las peticiones HTTP del motor de BOM.
type BOMHandler struct {
	uc *appbom.UseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *appbom.UseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Crear BOM
// @Tags         boms
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "product_id, version, components"
// @Success      201   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener BOM por ID
// @Tags         boms
// @Produce      json
// @Param        id  path  string  true  "BOM ID"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// UpdateComponents godoc
// @Summary      Reemplazar componentes del BOM (en bloque)
// @Tags         boms
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "BOM ID"
// @Param        body  body  dto.UpdateComponentsRequest  true  "conjunto completo de componentes"
// @Success      200   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/components [put]
func (h *BOMHandler) UpdateComponents(c *fiber.Ctx) error {
	var in dto.UpdateComponentsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.UpdateComponents(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Scale godoc
// @Summary      Escalar BOM a una cantidad de producción
// @Tags         boms
// @Produce      json
// @Param        id        path   string  true  "BOM ID"
// @Param        quantity  query  string  true  "cantidad objetivo (> 0)"
// @Success      200  {object}  dto.ScaledBOMResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/scale [get]
func (h *BOMHandler) Scale(c *fiber.Ctx) error {
	quantity, err := parseQuantity(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	resp, err := h.uc.Scale(c.Context(), c.Params("id"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// CostBreakdown godoc
// @Summary      Desglose de costos de materiales
// @Tags         boms
// @Produce      json
// @Param        id        path   string  true  "BOM ID"
// @Param        quantity  query  string  true  "cantidad objetivo (> 0)"
// @Success      200  {object}  dto.CostBreakdownResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/cost-breakdown [get]
func (h *BOMHandler) CostBreakdown(c *fiber.Ctx) error {
	quantity, err := parseQuantity(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	resp, err := h.uc.CostBreakdown(c.Context(), c.Params("id"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Clone godoc
// @Summary      Clonar BOM en una nueva versión
// @Tags         boms
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "BOM ID origen"
// @Param        body  body  dto.CloneBOMRequest  true  "new_version"
// @Success      201   {object}  dto.BOMResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/clone [post]
func (h *BOMHandler) Clone(c *fiber.Ctx) error {
	var in dto.CloneBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Clone(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SoftDelete godoc
// @Summary      Dar de baja un BOM (baja lógica)
// @Tags         boms
// @Produce      json
// @Param        id  path  string  true  "BOM ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [delete]
func (h *BOMHandler) SoftDelete(c *fiber.Ctx) error {
	if err := h.uc.SoftDelete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "BOM dado de baja"})
}

// parseQuantity parsea un decimal de query string; vacío o no numérico es error.
func parseQuantity(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}
