package bom

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	domainbom "github.com/jhoicas/Manufactura-api/internal/domain/bom"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase implementa el motor de BOM: alta, consulta, reemplazo de componentes,
// escalado a cantidad de producción, desglose de costos, clonado de versión y
// baja lógica. Las escrituras multi-fila van dentro de TxRunner.
type UseCase struct {
	txRunner    TxRunner
	bomRepo     repository.BOMRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el motor de BOM.
func NewUseCase(txRunner TxRunner, bomRepo repository.BOMRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{txRunner: txRunner, bomRepo: bomRepo, productRepo: productRepo}
}

// validateComponents valida el conjunto de componentes de un BOM:
// no vacío, cantidades positivas, merma en [0,100] y productos existentes.
func (uc *UseCase) validateComponents(components []dto.BOMComponentRequest) error {
	if len(components) == 0 {
		return fmt.Errorf("%w: el BOM debe tener al menos un componente", domain.ErrInvalidInput)
	}
	hundred := decimal.NewFromInt(100)
	for _, c := range components {
		if c.ComponentProductID == "" {
			return fmt.Errorf("%w: component_product_id vacío", domain.ErrInvalidInput)
		}
		if !c.QuantityRequired.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: quantity_required debe ser > 0 (componente %s)",
				domain.ErrInvalidInput, c.ComponentProductID)
		}
		if c.WastePercentage.LessThan(decimal.Zero) || c.WastePercentage.GreaterThan(hundred) {
			return fmt.Errorf("%w: waste_percentage fuera de [0,100] (componente %s)",
				domain.ErrInvalidInput, c.ComponentProductID)
		}
		product, err := uc.productRepo.GetByID(c.ComponentProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto componente %s", domain.ErrNotFound, c.ComponentProductID)
		}
	}
	return nil
}

// Create crea un BOM con su lista inicial de componentes.
// (product_id, version) debe ser único entre BOMs activos: se verifica antes
// de insertar y además el índice único de BD cierra la carrera check-then-insert.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	if in.ProductID == "" || in.Version == "" {
		return nil, fmt.Errorf("%w: product_id y version son obligatorios", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if err := uc.validateComponents(in.Components); err != nil {
		return nil, err
	}
	existing, err := uc.bomRepo.GetByProductAndVersion(in.ProductID, in.Version)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s versión %s", domain.ErrDuplicateVersion, in.ProductID, in.Version)
	}

	now := time.Now()
	b := &entity.BOM{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Version:     in.Version,
		Description: in.Description,
		Status:      entity.BOMStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Components = buildComponents(b.ID, in.Components, now)

	if err := uc.txRunner.RunBOM(ctx, func(bomRepo repository.BOMRepository) error {
		return bomRepo.Create(b)
	}); err != nil {
		return nil, err
	}
	return uc.toBOMResponse(b)
}

// Get devuelve un BOM activo con sus componentes resueltos.
// Los BOMs dados de baja responden ErrNotFound en esta superficie; las órdenes
// históricas siguen pudiendo escalarlos (ver Scale).
func (uc *UseCase) Get(ctx context.Context, bomID string) (*dto.BOMResponse, error) {
	b, err := uc.getBOM(bomID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, fmt.Errorf("%w: BOM %s inactivo", domain.ErrNotFound, bomID)
	}
	return uc.toBOMResponse(b)
}

// UpdateComponents reemplaza en bloque el conjunto de componentes del BOM
// (delete-all + reinsert en una sola transacción). Nunca hay parche parcial.
func (uc *UseCase) UpdateComponents(ctx context.Context, bomID string, in dto.UpdateComponentsRequest) (*dto.BOMResponse, error) {
	b, err := uc.getBOM(bomID)
	if err != nil {
		return nil, err
	}
	if err := uc.validateComponents(in.Components); err != nil {
		return nil, err
	}
	now := time.Now()
	components := buildComponents(b.ID, in.Components, now)

	if err := uc.txRunner.RunBOM(ctx, func(bomRepo repository.BOMRepository) error {
		return bomRepo.ReplaceComponents(b.ID, components)
	}); err != nil {
		return nil, err
	}
	b.Components = components
	b.UpdatedAt = now
	return uc.toBOMResponse(b)
}

// Scale escala el BOM a una cantidad de producción: por componente calcula
// cantidad efectiva (con merma), cantidad escalada, costo y disponibilidad,
// y acumula costo total, costo por unidad y faltantes.
// La lectura de stock es una foto al momento de la consulta, no una reserva.
func (uc *UseCase) Scale(ctx context.Context, bomID string, targetQuantity decimal.Decimal) (*dto.ScaledBOMResponse, error) {
	if !targetQuantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad objetivo debe ser > 0", domain.ErrInvalidInput)
	}
	b, err := uc.getBOM(bomID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ScaledBOMResponse{
		BOMID:          b.ID,
		ProductID:      b.ProductID,
		TargetQuantity: targetQuantity,
		Components:     make([]dto.ScaledComponentDTO, 0, len(b.Components)),
		TotalCost:      decimal.Zero,
		AllAvailable:   true,
		Shortages:      []dto.ShortageDTO{},
	}
	for _, c := range b.Components {
		product, err := uc.productRepo.GetByID(c.ComponentProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto componente %s", domain.ErrNotFound, c.ComponentProductID)
		}
		effective := domainbom.EffectiveQuantity(c.QuantityRequired, c.WastePercentage)
		scaled := effective.Mul(targetQuantity)
		cost := domainbom.ComponentCost(scaled, product.CostPrice)
		sufficient := product.CurrentStock.GreaterThanOrEqual(scaled)

		resp.Components = append(resp.Components, dto.ScaledComponentDTO{
			ComponentProductID: c.ComponentProductID,
			ComponentName:      product.Name,
			UnitOfMeasure:      product.UnitOfMeasure,
			QuantityRequired:   c.QuantityRequired,
			WastePercentage:    c.WastePercentage,
			EffectiveQuantity:  effective,
			ScaledQuantity:     scaled,
			CostPrice:          product.CostPrice,
			ComponentCost:      cost,
			AvailableStock:     product.CurrentStock,
			StockSufficient:    sufficient,
		})
		resp.TotalCost = resp.TotalCost.Add(cost)
		if !sufficient {
			resp.AllAvailable = false
			resp.Shortages = append(resp.Shortages, dto.ShortageDTO{
				ComponentProductID: c.ComponentProductID,
				ComponentName:      product.Name,
				Required:           scaled,
				Available:          product.CurrentStock,
				Shortage:           scaled.Sub(product.CurrentStock),
			})
		}
	}
	resp.CostPerUnit = resp.TotalCost.Div(targetQuantity)
	return resp, nil
}

// CostBreakdown mismo escalado que Scale, anotando cada línea con su
// participación porcentual en el costo total (0 si el total es 0).
func (uc *UseCase) CostBreakdown(ctx context.Context, bomID string, targetQuantity decimal.Decimal) (*dto.CostBreakdownResponse, error) {
	scaled, err := uc.Scale(ctx, bomID, targetQuantity)
	if err != nil {
		return nil, err
	}
	resp := &dto.CostBreakdownResponse{
		BOMID:          scaled.BOMID,
		ProductID:      scaled.ProductID,
		TargetQuantity: scaled.TargetQuantity,
		Lines:          make([]dto.CostBreakdownLineDTO, 0, len(scaled.Components)),
		TotalCost:      scaled.TotalCost,
		CostPerUnit:    scaled.CostPerUnit,
	}
	for _, line := range scaled.Components {
		resp.Lines = append(resp.Lines, dto.CostBreakdownLineDTO{
			ScaledComponentDTO: line,
			CostPercentage:     domainbom.CostPercentage(line.ComponentCost, scaled.TotalCost),
		})
	}
	return resp, nil
}

// Clone crea una nueva versión del BOM copiando los componentes por valor
// (filas independientes, pueden divergir después). Rechaza versión duplicada.
func (uc *UseCase) Clone(ctx context.Context, bomID string, in dto.CloneBOMRequest) (*dto.BOMResponse, error) {
	if in.NewVersion == "" {
		return nil, fmt.Errorf("%w: new_version es obligatorio", domain.ErrInvalidInput)
	}
	src, err := uc.getBOM(bomID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.bomRepo.GetByProductAndVersion(src.ProductID, in.NewVersion)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s versión %s", domain.ErrDuplicateVersion, src.ProductID, in.NewVersion)
	}

	description := in.Description
	if description == "" {
		description = src.Description
	}
	now := time.Now()
	clone := &entity.BOM{
		ID:          uuid.New().String(),
		ProductID:   src.ProductID,
		Version:     in.NewVersion,
		Description: description,
		Status:      entity.BOMStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	clone.Components = make([]entity.BOMComponent, 0, len(src.Components))
	for _, c := range src.Components {
		clone.Components = append(clone.Components, entity.BOMComponent{
			ID:                 uuid.New().String(),
			BOMID:              clone.ID,
			ComponentProductID: c.ComponentProductID,
			QuantityRequired:   c.QuantityRequired,
			WastePercentage:    c.WastePercentage,
			CreatedAt:          now,
		})
	}

	if err := uc.txRunner.RunBOM(ctx, func(bomRepo repository.BOMRepository) error {
		return bomRepo.Create(clone)
	}); err != nil {
		return nil, err
	}
	return uc.toBOMResponse(clone)
}

// SoftDelete marca el BOM como inactivo. No borra filas: las órdenes
// históricas siguen resolviéndolo por ID.
func (uc *UseCase) SoftDelete(ctx context.Context, bomID string) error {
	if _, err := uc.getBOM(bomID); err != nil {
		return err
	}
	return uc.bomRepo.UpdateStatus(bomID, entity.BOMStatusInactive)
}

// getBOM resuelve un BOM por ID (activo o inactivo) o ErrNotFound.
func (uc *UseCase) getBOM(bomID string) (*entity.BOM, error) {
	if bomID == "" {
		return nil, fmt.Errorf("%w: bom_id vacío", domain.ErrInvalidInput)
	}
	b, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: BOM %s", domain.ErrNotFound, bomID)
	}
	return b, nil
}

// toBOMResponse arma la respuesta resolviendo nombre, unidad y costo de cada componente.
func (uc *UseCase) toBOMResponse(b *entity.BOM) (*dto.BOMResponse, error) {
	resp := &dto.BOMResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		Version:     b.Version,
		Description: b.Description,
		Status:      b.Status,
		Components:  make([]dto.BOMComponentDTO, 0, len(b.Components)),
	}
	for _, c := range b.Components {
		product, err := uc.productRepo.GetByID(c.ComponentProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto componente %s", domain.ErrNotFound, c.ComponentProductID)
		}
		resp.Components = append(resp.Components, dto.BOMComponentDTO{
			ComponentProductID: c.ComponentProductID,
			SKU:                product.SKU,
			ComponentName:      product.Name,
			UnitOfMeasure:      product.UnitOfMeasure,
			QuantityRequired:   c.QuantityRequired,
			WastePercentage:    c.WastePercentage,
			CostPrice:          product.CostPrice,
		})
	}
	return resp, nil
}

func buildComponents(bomID string, in []dto.BOMComponentRequest, now time.Time) []entity.BOMComponent {
	components := make([]entity.BOMComponent, 0, len(in))
	for _, c := range in {
		components = append(components, entity.BOMComponent{
			ID:                 uuid.New().String(),
			BOMID:              bomID,
			ComponentProductID: c.ComponentProductID,
			QuantityRequired:   c.QuantityRequired,
			WastePercentage:    c.WastePercentage,
			CreatedAt:          now,
		})
	}
	return components
}
