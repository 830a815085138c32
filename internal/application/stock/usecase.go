package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Estados de calidad aceptados al recibir producción.
const (
	QualityPassed = "passed"
	QualityFailed = "failed"
	QualityRework = "rework"
)

// UseCase implementa el motor del ledger de stock: registro de movimientos,
// ajustes, traslados, consumo y recepción de producción. Cada mutación de
// balance bloquea la fila del producto (SELECT FOR UPDATE) y escribe el
// movimiento y la caché de stock en la misma transacción.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewUseCase construye el motor del ledger.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo}
}

// RecordMovement registra un movimiento in/out de forma transaccional.
// Una salida que dejaría el stock negativo se rechaza con ErrInsufficientStock
// sin escribir nada; nunca se hace clamp a cero.
func (uc *UseCase) RecordMovement(ctx context.Context, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovementInput(in); err != nil {
		return nil, err
	}

	var resp *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		mov, product, err := applyMovement(movRepo, productRepo, in, time.Now())
		if err != nil {
			return err
		}
		resp = toMovementResponse(mov, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PerformAdjustment registra un ajuste con delta con signo: delta>0 es una
// entrada, delta<0 una salida por |delta|. Delta cero es entrada inválida.
// Un ajuste negativo que dejaría stock negativo falla con ErrInsufficientStock.
func (uc *UseCase) PerformAdjustment(ctx context.Context, in dto.AdjustmentRequest) (*dto.MovementResponse, error) {
	if in.Delta.IsZero() {
		return nil, fmt.Errorf("%w: el delta de ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	movementType := entity.MovementTypeIn
	quantity := in.Delta
	if in.Delta.IsNegative() {
		movementType = entity.MovementTypeOut
		quantity = in.Delta.Neg()
	}
	reason := in.Reason
	if in.Notes != "" {
		reason = reason + " — " + in.Notes
	}
	return uc.RecordMovement(ctx, dto.RecordMovementRequest{
		ProductID:     in.ProductID,
		MovementType:  movementType,
		Quantity:      quantity,
		ReferenceType: entity.ReferenceTypeAdjustment,
		Reason:        reason,
		RecordedBy:    in.RecordedBy,
	})
}

// TransferStock registra la salida en origen y la entrada en destino como una
// unidad atómica: si cualquier pata falla, ninguna queda escrita.
func (uc *UseCase) TransferStock(ctx context.Context, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromLocation == "" || in.ToLocation == "" {
		return nil, fmt.Errorf("%w: from_location y to_location son obligatorios", domain.ErrInvalidInput)
	}
	if in.FromLocation == in.ToLocation {
		return nil, fmt.Errorf("%w: origen y destino del traslado son iguales", domain.ErrInvalidInput)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser > 0", domain.ErrInvalidInput)
	}

	transferID := uuid.New().String()
	var resp *dto.TransferResponse
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		now := time.Now()
		outMov, product, err := applyMovement(movRepo, productRepo, dto.RecordMovementRequest{
			ProductID:     in.ProductID,
			MovementType:  entity.MovementTypeOut,
			Quantity:      in.Quantity,
			ReferenceType: entity.ReferenceTypeTransfer,
			ReferenceID:   transferID,
			Reason:        fmt.Sprintf("traslado %s → %s", in.FromLocation, in.ToLocation),
			RecordedBy:    in.RecordedBy,
		}, now)
		if err != nil {
			return err
		}
		inMov, product, err := applyMovement(movRepo, productRepo, dto.RecordMovementRequest{
			ProductID:     in.ProductID,
			MovementType:  entity.MovementTypeIn,
			Quantity:      in.Quantity,
			ReferenceType: entity.ReferenceTypeTransfer,
			ReferenceID:   transferID,
			Reason:        fmt.Sprintf("traslado %s → %s", in.FromLocation, in.ToLocation),
			RecordedBy:    in.RecordedBy,
		}, now)
		if err != nil {
			return err
		}
		resp = &dto.TransferResponse{
			OutMovement: *toMovementResponse(outMov, product),
			InMovement:  *toMovementResponse(inMov, product),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ConsumeMaterials aplica una salida por cada línea de consumo de la orden de
// manufactura, todo o nada: si una línea falla (stock insuficiente, producto
// inexistente) ninguna queda escrita.
func (uc *UseCase) ConsumeMaterials(ctx context.Context, in dto.ConsumeMaterialsRequest) ([]dto.MovementResponse, error) {
	if in.ManufacturingOrderID == "" {
		return nil, fmt.Errorf("%w: manufacturing_order_id es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: el consumo debe tener al menos una línea", domain.ErrInvalidInput)
	}
	for _, line := range in.Lines {
		if line.ProductID == "" {
			return nil, fmt.Errorf("%w: product_id vacío en línea de consumo", domain.ErrInvalidInput)
		}
		if !line.QuantityConsumed.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: quantity_consumed debe ser > 0 (producto %s)",
				domain.ErrInvalidInput, line.ProductID)
		}
	}

	// Bloquear en orden estable de producto para evitar deadlocks entre
	// consumos concurrentes de la misma orden de materiales.
	lines := make([]dto.ConsumeLine, len(in.Lines))
	copy(lines, in.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	var responses []dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		now := time.Now()
		responses = make([]dto.MovementResponse, 0, len(lines))
		for _, line := range lines {
			mov, product, err := applyMovement(movRepo, productRepo, dto.RecordMovementRequest{
				ProductID:     line.ProductID,
				MovementType:  entity.MovementTypeOut,
				Quantity:      line.QuantityConsumed,
				ReferenceType: entity.ReferenceTypeManufacturingOrder,
				ReferenceID:   in.ManufacturingOrderID,
				Reason:        "consumo de materiales",
				RecordedBy:    in.RecordedBy,
			}, now)
			if err != nil {
				return err
			}
			responses = append(responses, *toMovementResponse(mov, product))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ReceiveProduction recibe el producto terminado de una orden de manufactura.
// Solo "passed" genera entrada al stock; "failed" y "rework" devuelven el
// registro de seguimiento sin tocar el ledger.
func (uc *UseCase) ReceiveProduction(ctx context.Context, in dto.ReceiveProductionRequest) (*dto.ProductionReceiptDTO, error) {
	if in.ManufacturingOrderID == "" {
		return nil, fmt.Errorf("%w: manufacturing_order_id es obligatorio", domain.ErrInvalidInput)
	}
	if !in.QuantityProduced.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity_produced debe ser > 0", domain.ErrInvalidInput)
	}
	switch in.QualityStatus {
	case QualityPassed, QualityFailed, QualityRework:
	default:
		return nil, fmt.Errorf("%w: quality_status %q", domain.ErrInvalidInput, in.QualityStatus)
	}

	receipt := &dto.ProductionReceiptDTO{
		ManufacturingOrderID: in.ManufacturingOrderID,
		ProductID:            in.ProductID,
		QuantityProduced:     in.QuantityProduced,
		QualityStatus:        in.QualityStatus,
	}

	if in.QualityStatus != QualityPassed {
		product, err := uc.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		return receipt, nil
	}

	mov, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{
		ProductID:     in.ProductID,
		MovementType:  entity.MovementTypeIn,
		Quantity:      in.QuantityProduced,
		ReferenceType: entity.ReferenceTypeManufacturingOrder,
		ReferenceID:   in.ManufacturingOrderID,
		Reason:        "recepción de producción",
		RecordedBy:    in.RecordedBy,
	})
	if err != nil {
		return nil, err
	}
	receipt.StockAffected = true
	receipt.Movement = mov
	return receipt, nil
}

// validateMovementInput valida el request antes de tocar la transacción.
func validateMovementInput(in dto.RecordMovementRequest) error {
	if in.ProductID == "" {
		return fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.MovementType != entity.MovementTypeIn && in.MovementType != entity.MovementTypeOut {
		return fmt.Errorf("%w: movement_type %q", domain.ErrInvalidInput, in.MovementType)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad debe ser > 0", domain.ErrInvalidInput)
	}
	return nil
}

// applyMovement ejecuta una mutación de balance dentro de la transacción del
// caller: bloquea la fila del producto, verifica disponibilidad, escribe el
// movimiento con previous/new stock capturados y actualiza la caché de stock.
func applyMovement(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	in dto.RecordMovementRequest,
	now time.Time,
) (*entity.StockMovement, *entity.Product, error) {
	// Bloquea la fila en products (SELECT FOR UPDATE): a lo sumo una mutación
	// de balance en vuelo por producto.
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}

	previous := product.CurrentStock
	var newStock decimal.Decimal
	switch in.MovementType {
	case entity.MovementTypeIn:
		newStock = previous.Add(in.Quantity)
	case entity.MovementTypeOut:
		if in.Quantity.GreaterThan(previous) {
			return nil, nil, fmt.Errorf("%w: producto %s, disponible %s, solicitado %s",
				domain.ErrInsufficientStock, in.ProductID, previous, in.Quantity)
		}
		newStock = previous.Sub(in.Quantity)
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		MovementType:  in.MovementType,
		Quantity:      in.Quantity,
		PreviousStock: previous,
		NewStock:      newStock,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Reason:        in.Reason,
		RecordedBy:    in.RecordedBy,
		MovementDate:  now,
		CreatedAt:     now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}
	// La caché products.current_stock se actualiza en la misma transacción
	// que el append al ledger.
	if err := productRepo.UpdateStock(in.ProductID, newStock); err != nil {
		return nil, nil, err
	}
	product.CurrentStock = newStock
	return mov, product, nil
}

// toMovementResponse enriquece el movimiento con los datos del producto.
func toMovementResponse(m *entity.StockMovement, p *entity.Product) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		SKU:           p.SKU,
		ProductName:   p.Name,
		UnitOfMeasure: p.UnitOfMeasure,
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Reason:        m.Reason,
		RecordedBy:    m.RecordedBy,
		MovementDate:  m.MovementDate,
	}
}
