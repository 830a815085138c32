package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/stock"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stockFixture struct {
	store    *memory.Store
	txRunner *memory.TxRunner
	products *memory.ProductRepo
	uc       *stock.UseCase
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	products := memory.NewProductRepository(store)
	return &stockFixture{
		store:    store,
		txRunner: txRunner,
		products: products,
		uc:       stock.NewUseCase(txRunner, products),
	}
}

// seedProduct crea un producto con el stock inicial indicado.
func (f *stockFixture) seedProduct(t *testing.T, sku, initialStock string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.NewString(),
		SKU:           sku,
		Name:          "Producto " + sku,
		Category:      "materia_prima",
		UnitOfMeasure: "kg",
		CostPrice:     decimal.RequireFromString("2.50"),
		CurrentStock:  decimal.RequireFromString(initialStock),
		ReorderLevel:  decimal.NewFromInt(10),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.products.Create(p))
	return p
}

func (f *stockFixture) currentStock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.products.GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaYSalida(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "100")
	ctx := context.Background()

	out, err := f.uc.RecordMovement(ctx, dto.RecordMovementRequest{
		ProductID:    p.ID,
		MovementType: entity.MovementTypeOut,
		Quantity:     d("30"),
		Reason:       "despacho",
		RecordedBy:   "operario-1",
	})
	require.NoError(t, err)
	assert.True(t, out.PreviousStock.Equal(d("100")), "previous_stock debe capturar el stock antes del movimiento")
	assert.True(t, out.NewStock.Equal(d("70")))
	assert.True(t, f.currentStock(t, p.ID).Equal(d("70")), "la caché current_stock debe quedar sincronizada")

	in, err := f.uc.RecordMovement(ctx, dto.RecordMovementRequest{
		ProductID:    p.ID,
		MovementType: entity.MovementTypeIn,
		Quantity:     d("15.5"),
		Reason:       "reposición",
	})
	require.NoError(t, err)
	assert.True(t, in.PreviousStock.Equal(d("70")))
	assert.True(t, in.NewStock.Equal(d("85.5")))
}

// Una salida mayor al disponible se rechaza sin escribir nada: ni movimiento
// en el ledger ni cambio en la caché. Nunca se hace clamp a cero.
func TestRecordMovement_StockInsuficienteRechazaSinEscribir(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "70")
	ctx := context.Background()

	_, err := f.uc.RecordMovement(ctx, dto.RecordMovementRequest{
		ProductID:    p.ID,
		MovementType: entity.MovementTypeOut,
		Quantity:     d("80"),
		Reason:       "despacho",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, f.currentStock(t, p.ID).Equal(d("70")), "el stock no debe moverse tras el rechazo")
	movements, err := f.txRunner.MovementRepo.ListByProduct(p.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, movements, "el ledger no debe registrar el intento rechazado")
}

func TestRecordMovement_Validaciones(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "10")
	ctx := context.Background()

	cases := []struct {
		nombre string
		req    dto.RecordMovementRequest
	}{
		{"producto vacío", dto.RecordMovementRequest{MovementType: entity.MovementTypeIn, Quantity: d("1")}},
		{"tipo inválido", dto.RecordMovementRequest{ProductID: p.ID, MovementType: "destroy", Quantity: d("1")}},
		{"cantidad cero", dto.RecordMovementRequest{ProductID: p.ID, MovementType: entity.MovementTypeIn, Quantity: decimal.Zero}},
		{"cantidad negativa", dto.RecordMovementRequest{ProductID: p.ID, MovementType: entity.MovementTypeIn, Quantity: d("-3")}},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := f.uc.RecordMovement(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestRecordMovement_ProductoInexistente(t *testing.T) {
	f := newStockFixture(t)
	_, err := f.uc.RecordMovement(context.Background(), dto.RecordMovementRequest{
		ProductID:    uuid.NewString(),
		MovementType: entity.MovementTypeIn,
		Quantity:     d("5"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// PerformAdjustment
// ──────────────────────────────────────────────────────────────────────────────

func TestPerformAdjustment_DeltaConSigno(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "50")
	ctx := context.Background()

	up, err := f.uc.PerformAdjustment(ctx, dto.AdjustmentRequest{
		ProductID: p.ID, Delta: d("8"), Reason: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIn, up.MovementType)
	assert.True(t, up.Quantity.Equal(d("8")))
	assert.True(t, up.NewStock.Equal(d("58")))
	assert.Equal(t, entity.ReferenceTypeAdjustment, up.ReferenceType)

	down, err := f.uc.PerformAdjustment(ctx, dto.AdjustmentRequest{
		ProductID: p.ID, Delta: d("-10"), Reason: "merma detectada", Notes: "góndola 3",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOut, down.MovementType)
	assert.True(t, down.Quantity.Equal(d("10")), "la cantidad almacenada es |delta|")
	assert.True(t, down.NewStock.Equal(d("48")))
	assert.Equal(t, "merma detectada — góndola 3", down.Reason)
}

func TestPerformAdjustment_DeltaCeroRechazado(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "50")

	_, err := f.uc.PerformAdjustment(context.Background(), dto.AdjustmentRequest{
		ProductID: p.ID, Delta: decimal.Zero, Reason: "nada",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestPerformAdjustment_NegativoSinStockSuficiente(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "5")

	_, err := f.uc.PerformAdjustment(context.Background(), dto.AdjustmentRequest{
		ProductID: p.ID, Delta: d("-9"), Reason: "ajuste",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, f.currentStock(t, p.ID).Equal(d("5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// TransferStock
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferStock_DosPatasMismoReferenceID(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "100")

	resp, err := f.uc.TransferStock(context.Background(), dto.TransferRequest{
		ProductID:    p.ID,
		FromLocation: "bodega-central",
		ToLocation:   "planta-2",
		Quantity:     d("40"),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeOut, resp.OutMovement.MovementType)
	assert.Equal(t, entity.MovementTypeIn, resp.InMovement.MovementType)
	assert.Equal(t, entity.ReferenceTypeTransfer, resp.OutMovement.ReferenceType)
	assert.Equal(t, entity.ReferenceTypeTransfer, resp.InMovement.ReferenceType)
	assert.Equal(t, resp.OutMovement.ReferenceID, resp.InMovement.ReferenceID,
		"ambas patas comparten el mismo reference_id de traslado")

	// El traslado es sobre el mismo producto: el balance neto no cambia.
	assert.True(t, f.currentStock(t, p.ID).Equal(d("100")))
	assert.True(t, resp.OutMovement.NewStock.Equal(d("60")))
	assert.True(t, resp.InMovement.NewStock.Equal(d("100")))
}

func TestTransferStock_MismaUbicacionRechazado(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "100")

	_, err := f.uc.TransferStock(context.Background(), dto.TransferRequest{
		ProductID:    p.ID,
		FromLocation: "bodega-central",
		ToLocation:   "bodega-central",
		Quantity:     d("10"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Si la segunda pata falla, la primera también debe deshacerse: el traslado es
// una unidad atómica. Se inyecta la falla vía CreateHook del repo en memoria.
func TestTransferStock_SegundaPataFallaRollbackTotal(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "100")

	calls := 0
	sentinel := errors.New("falla inyectada")
	f.txRunner.MovementRepo.CreateHook = func(m *entity.StockMovement) error {
		calls++
		if calls == 2 {
			return sentinel
		}
		return nil
	}
	defer func() { f.txRunner.MovementRepo.CreateHook = nil }()

	_, err := f.uc.TransferStock(context.Background(), dto.TransferRequest{
		ProductID:    p.ID,
		FromLocation: "bodega-central",
		ToLocation:   "planta-2",
		Quantity:     d("40"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))

	assert.True(t, f.currentStock(t, p.ID).Equal(d("100")), "el stock debe volver al valor previo")
	movements, err := f.txRunner.MovementRepo.ListByProduct(p.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, movements, "la pata de salida también debe deshacerse")
}

// ──────────────────────────────────────────────────────────────────────────────
// ConsumeMaterials
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumeMaterials_TodasLasLineas(t *testing.T) {
	f := newStockFixture(t)
	harina := f.seedProduct(t, "MAT-HARINA", "100")
	azucar := f.seedProduct(t, "MAT-AZUCAR", "50")
	moID := uuid.NewString()

	resp, err := f.uc.ConsumeMaterials(context.Background(), dto.ConsumeMaterialsRequest{
		ManufacturingOrderID: moID,
		Lines: []dto.ConsumeLine{
			{ProductID: harina.ID, QuantityConsumed: d("20")},
			{ProductID: azucar.ID, QuantityConsumed: d("5")},
		},
		RecordedBy: "operario-1",
	})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	for _, mov := range resp {
		assert.Equal(t, entity.MovementTypeOut, mov.MovementType)
		assert.Equal(t, entity.ReferenceTypeManufacturingOrder, mov.ReferenceType)
		assert.Equal(t, moID, mov.ReferenceID)
	}
	assert.True(t, f.currentStock(t, harina.ID).Equal(d("80")))
	assert.True(t, f.currentStock(t, azucar.ID).Equal(d("45")))
}

// Si una línea no tiene stock suficiente, ninguna de las anteriores queda
// aplicada: el consumo es todo o nada.
func TestConsumeMaterials_UnaLineaFallaNingunaQueda(t *testing.T) {
	f := newStockFixture(t)
	harina := f.seedProduct(t, "MAT-HARINA", "100")
	azucar := f.seedProduct(t, "MAT-AZUCAR", "3")

	_, err := f.uc.ConsumeMaterials(context.Background(), dto.ConsumeMaterialsRequest{
		ManufacturingOrderID: uuid.NewString(),
		Lines: []dto.ConsumeLine{
			{ProductID: harina.ID, QuantityConsumed: d("20")},
			{ProductID: azucar.ID, QuantityConsumed: d("5")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, f.currentStock(t, harina.ID).Equal(d("100")), "la línea que sí tenía stock debe deshacerse")
	assert.True(t, f.currentStock(t, azucar.ID).Equal(d("3")))
	movements, err := f.txRunner.MovementRepo.ListByProduct(harina.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestConsumeMaterials_Validaciones(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "MAT-001", "10")
	ctx := context.Background()

	_, err := f.uc.ConsumeMaterials(ctx, dto.ConsumeMaterialsRequest{
		Lines: []dto.ConsumeLine{{ProductID: p.ID, QuantityConsumed: d("1")}},
	})
	require.Error(t, err, "sin manufacturing_order_id")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.ConsumeMaterials(ctx, dto.ConsumeMaterialsRequest{
		ManufacturingOrderID: uuid.NewString(),
	})
	require.Error(t, err, "sin líneas")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.ConsumeMaterials(ctx, dto.ConsumeMaterialsRequest{
		ManufacturingOrderID: uuid.NewString(),
		Lines:                []dto.ConsumeLine{{ProductID: p.ID, QuantityConsumed: decimal.Zero}},
	})
	require.Error(t, err, "cantidad cero")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// ReceiveProduction
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveProduction_PassedAfectaStock(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "PT-TORTA", "0")
	moID := uuid.NewString()

	receipt, err := f.uc.ReceiveProduction(context.Background(), dto.ReceiveProductionRequest{
		ManufacturingOrderID: moID,
		ProductID:            p.ID,
		QuantityProduced:     d("25"),
		QualityStatus:        stock.QualityPassed,
	})
	require.NoError(t, err)
	assert.True(t, receipt.StockAffected)
	require.NotNil(t, receipt.Movement)
	assert.Equal(t, entity.MovementTypeIn, receipt.Movement.MovementType)
	assert.Equal(t, moID, receipt.Movement.ReferenceID)
	assert.True(t, f.currentStock(t, p.ID).Equal(d("25")))
}

func TestReceiveProduction_FailedYReworkNoTocanElLedger(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "PT-TORTA", "0")

	for _, status := range []string{stock.QualityFailed, stock.QualityRework} {
		t.Run(status, func(t *testing.T) {
			receipt, err := f.uc.ReceiveProduction(context.Background(), dto.ReceiveProductionRequest{
				ManufacturingOrderID: uuid.NewString(),
				ProductID:            p.ID,
				QuantityProduced:     d("10"),
				QualityStatus:        status,
			})
			require.NoError(t, err)
			assert.False(t, receipt.StockAffected)
			assert.Nil(t, receipt.Movement)
		})
	}
	assert.True(t, f.currentStock(t, p.ID).Equal(decimal.Zero))
}

func TestReceiveProduction_EstadoDesconocidoRechazado(t *testing.T) {
	f := newStockFixture(t)
	p := f.seedProduct(t, "PT-TORTA", "0")

	_, err := f.uc.ReceiveProduction(context.Background(), dto.ReceiveProductionRequest{
		ManufacturingOrderID: uuid.NewString(),
		ProductID:            p.ID,
		QuantityProduced:     d("10"),
		QualityStatus:        "maybe",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
