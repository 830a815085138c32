package bom_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbom "github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type bomFixture struct {
	store    *memory.Store
	products *memory.ProductRepo
	boms     *memory.BOMRepo
	uc       *appbom.UseCase
}

func newBOMFixture(t *testing.T) *bomFixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	boms := memory.NewBOMRepository(store)
	return &bomFixture{
		store:    store,
		products: products,
		boms:     boms,
		uc:       appbom.NewUseCase(memory.NewTxRunner(store), boms, products),
	}
}

// seedProduct crea un producto con costo y stock controlados por el test.
func (f *bomFixture) seedProduct(t *testing.T, sku, costPrice, stock string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.NewString(),
		SKU:           sku,
		Name:          "Producto " + sku,
		Category:      "materia_prima",
		UnitOfMeasure: "kg",
		CostPrice:     d(costPrice),
		CurrentStock:  d(stock),
		ReorderLevel:  decimal.NewFromInt(10),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.products.Create(p))
	return p
}

// seedBOM crea un BOM activo vía el caso de uso.
func (f *bomFixture) seedBOM(t *testing.T, productID, version string, components []dto.BOMComponentRequest) *dto.BOMResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), dto.CreateBOMRequest{
		ProductID:   productID,
		Version:     version,
		Description: "receta " + version,
		Components:  components,
	})
	require.NoError(t, err)
	return resp
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_BOMConComponentes(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")

	resp := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("0.5"), WastePercentage: d("5")},
	})

	assert.Equal(t, terminado.ID, resp.ProductID)
	assert.Equal(t, "v1", resp.Version)
	assert.Equal(t, entity.BOMStatusActive, resp.Status)
	require.Len(t, resp.Components, 1)
	assert.Equal(t, harina.ID, resp.Components[0].ComponentProductID)
	assert.Equal(t, "MAT-HARINA", resp.Components[0].SKU)
	assert.True(t, resp.Components[0].CostPrice.Equal(d("2.50")))
}

func TestCreate_VersionDuplicadaRechazada(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	components := []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("1")},
	}
	f.seedBOM(t, terminado.ID, "v1", components)

	_, err := f.uc.Create(context.Background(), dto.CreateBOMRequest{
		ProductID:  terminado.ID,
		Version:    "v1",
		Components: components,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateVersion))
}

func TestCreate_Validaciones(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	ctx := context.Background()

	cases := []struct {
		nombre     string
		req        dto.CreateBOMRequest
		wantSentin error
	}{
		{
			"sin componentes",
			dto.CreateBOMRequest{ProductID: terminado.ID, Version: "v1"},
			domain.ErrInvalidInput,
		},
		{
			"cantidad cero",
			dto.CreateBOMRequest{ProductID: terminado.ID, Version: "v1", Components: []dto.BOMComponentRequest{
				{ComponentProductID: harina.ID, QuantityRequired: decimal.Zero},
			}},
			domain.ErrInvalidInput,
		},
		{
			"merma fuera de rango",
			dto.CreateBOMRequest{ProductID: terminado.ID, Version: "v1", Components: []dto.BOMComponentRequest{
				{ComponentProductID: harina.ID, QuantityRequired: d("1"), WastePercentage: d("101")},
			}},
			domain.ErrInvalidInput,
		},
		{
			"merma negativa",
			dto.CreateBOMRequest{ProductID: terminado.ID, Version: "v1", Components: []dto.BOMComponentRequest{
				{ComponentProductID: harina.ID, QuantityRequired: d("1"), WastePercentage: d("-1")},
			}},
			domain.ErrInvalidInput,
		},
		{
			"componente inexistente",
			dto.CreateBOMRequest{ProductID: terminado.ID, Version: "v1", Components: []dto.BOMComponentRequest{
				{ComponentProductID: uuid.NewString(), QuantityRequired: d("1")},
			}},
			domain.ErrNotFound,
		},
		{
			"producto padre inexistente",
			dto.CreateBOMRequest{ProductID: uuid.NewString(), Version: "v1", Components: []dto.BOMComponentRequest{
				{ComponentProductID: harina.ID, QuantityRequired: d("1")},
			}},
			domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantSentin))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateComponents
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateComponents_ReemplazoEnBloque(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	azucar := f.seedProduct(t, "MAT-AZUCAR", "1.80", "300")

	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("0.5")},
	})

	updated, err := f.uc.UpdateComponents(context.Background(), b.ID, dto.UpdateComponentsRequest{
		Components: []dto.BOMComponentRequest{
			{ComponentProductID: azucar.ID, QuantityRequired: d("0.3"), WastePercentage: d("2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Components, 1, "el conjunto anterior se reemplaza completo")
	assert.Equal(t, azucar.ID, updated.Components[0].ComponentProductID)
}

func TestUpdateComponents_ConjuntoVacioRechazado(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("0.5")},
	})

	_, err := f.uc.UpdateComponents(context.Background(), b.ID, dto.UpdateComponentsRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := f.uc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, got.Components, 1, "el conjunto original queda intacto tras el rechazo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Scale
// ──────────────────────────────────────────────────────────────────────────────

// Vector de referencia: 2 kg con 10% de merma para 5 unidades → 11 kg;
// a 3.00/kg el costo del componente es 33.00.
func TestScale_VectorExacto(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "3.00", "500")

	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("2"), WastePercentage: d("10")},
	})

	resp, err := f.uc.Scale(context.Background(), b.ID, d("5"))
	require.NoError(t, err)
	require.Len(t, resp.Components, 1)

	c := resp.Components[0]
	assert.True(t, c.EffectiveQuantity.Equal(d("2.2")))
	assert.True(t, c.ScaledQuantity.Equal(d("11")))
	assert.True(t, c.ComponentCost.Equal(d("33")))
	assert.True(t, c.StockSufficient)
	assert.True(t, resp.TotalCost.Equal(d("33")))
	assert.True(t, resp.CostPerUnit.Equal(d("6.6")))
	assert.True(t, resp.AllAvailable)
	assert.Empty(t, resp.Shortages)
}

func TestScale_FaltantesReportados(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "3.00", "8")

	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("2"), WastePercentage: d("10")},
	})

	resp, err := f.uc.Scale(context.Background(), b.ID, d("5"))
	require.NoError(t, err)
	assert.False(t, resp.AllAvailable)
	require.Len(t, resp.Shortages, 1)
	s := resp.Shortages[0]
	assert.Equal(t, harina.ID, s.ComponentProductID)
	assert.True(t, s.Required.Equal(d("11")))
	assert.True(t, s.Available.Equal(d("8")))
	assert.True(t, s.Shortage.Equal(d("3")))
}

func TestScale_CantidadObjetivoInvalida(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "3.00", "500")
	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("1")},
	})

	for _, target := range []string{"0", "-2"} {
		_, err := f.uc.Scale(context.Background(), b.ID, d(target))
		require.Error(t, err, "target %s", target)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CostBreakdown
// ──────────────────────────────────────────────────────────────────────────────

func TestCostBreakdown_Participaciones(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "3.00", "500") // 1 kg → 3.00
	azucar := f.seedProduct(t, "MAT-AZUCAR", "1.00", "300") // 1 kg → 1.00

	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("1")},
		{ComponentProductID: azucar.ID, QuantityRequired: d("1")},
	})

	resp, err := f.uc.CostBreakdown(context.Background(), b.ID, d("1"))
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.TotalCost.Equal(d("4")))
	assert.True(t, resp.Lines[0].CostPercentage.Equal(d("75")))
	assert.True(t, resp.Lines[1].CostPercentage.Equal(d("25")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Clone
// ──────────────────────────────────────────────────────────────────────────────

func TestClone_ComponentesIndependientes(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	azucar := f.seedProduct(t, "MAT-AZUCAR", "1.80", "300")
	ctx := context.Background()

	src := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("0.5"), WastePercentage: d("5")},
	})

	clone, err := f.uc.Clone(ctx, src.ID, dto.CloneBOMRequest{NewVersion: "v2"})
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, clone.ID)
	assert.Equal(t, "v2", clone.Version)
	require.Len(t, clone.Components, 1)
	assert.True(t, clone.Components[0].QuantityRequired.Equal(d("0.5")))

	// Divergen después: modificar el clon no toca el original.
	_, err = f.uc.UpdateComponents(ctx, clone.ID, dto.UpdateComponentsRequest{
		Components: []dto.BOMComponentRequest{
			{ComponentProductID: azucar.ID, QuantityRequired: d("9")},
		},
	})
	require.NoError(t, err)

	original, err := f.uc.Get(ctx, src.ID)
	require.NoError(t, err)
	require.Len(t, original.Components, 1)
	assert.Equal(t, harina.ID, original.Components[0].ComponentProductID)
}

func TestClone_VersionExistenteRechazada(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	components := []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("1")},
	}
	src := f.seedBOM(t, terminado.ID, "v1", components)
	f.seedBOM(t, terminado.ID, "v2", components)

	_, err := f.uc.Clone(context.Background(), src.ID, dto.CloneBOMRequest{NewVersion: "v2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateVersion))
}

// ──────────────────────────────────────────────────────────────────────────────
// SoftDelete / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestSoftDelete_GetRespondeNotFoundPeroScaleSigue(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "3.00", "500")
	ctx := context.Background()

	b := f.seedBOM(t, terminado.ID, "v1", []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("2")},
	})

	require.NoError(t, f.uc.SoftDelete(ctx, b.ID))

	_, err := f.uc.Get(ctx, b.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "la superficie de consulta oculta los inactivos")

	// Las órdenes históricas siguen pudiendo escalar el BOM dado de baja.
	resp, err := f.uc.Scale(ctx, b.ID, d("3"))
	require.NoError(t, err)
	assert.True(t, resp.TotalCost.Equal(d("18")))
}

// Tras la baja, la versión queda libre: crear un BOM nuevo con la misma
// versión para el mismo producto debe funcionar.
func TestSoftDelete_LiberaLaVersion(t *testing.T) {
	f := newBOMFixture(t)
	terminado := f.seedProduct(t, "PT-TORTA", "12.00", "0")
	harina := f.seedProduct(t, "MAT-HARINA", "2.50", "500")
	components := []dto.BOMComponentRequest{
		{ComponentProductID: harina.ID, QuantityRequired: d("1")},
	}
	ctx := context.Background()

	b := f.seedBOM(t, terminado.ID, "v1", components)
	require.NoError(t, f.uc.SoftDelete(ctx, b.ID))

	again, err := f.uc.Create(ctx, dto.CreateBOMRequest{
		ProductID:  terminado.ID,
		Version:    "v1",
		Components: components,
	})
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, again.ID)
}

func TestGet_BOMInexistente(t *testing.T) {
	f := newBOMFixture(t)
	_, err := f.uc.Get(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
