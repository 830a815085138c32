// seed carga productos y BOMs de demostración para desarrollo local.
//
// Uso: go run ./cmd/seed
// Requiere una base PostgreSQL accesible con la configuración de pkg/config.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/stock"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	stockUC := stock.NewUseCase(txRunner, productRepo)

	now := time.Now()
	dec := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	// Los productos nacen con stock cero; la carga inicial entra por el ledger
	// para que el replay de auditoría cubra todo el stock desde el origen.
	type seedProduct struct {
		product      *entity.Product
		initialStock string
	}
	seeds := []seedProduct{
		{&entity.Product{ID: uuid.NewString(), SKU: "MAT-HARINA", Name: "Harina de trigo", Category: "materia_prima", UnitOfMeasure: "kg", CostPrice: dec("2.50"), CurrentStock: decimal.Zero, ReorderLevel: dec("100"), IsActive: true, CreatedAt: now, UpdatedAt: now}, "500"},
		{&entity.Product{ID: uuid.NewString(), SKU: "MAT-AZUCAR", Name: "Azúcar refinada", Category: "materia_prima", UnitOfMeasure: "kg", CostPrice: dec("1.80"), CurrentStock: decimal.Zero, ReorderLevel: dec("80"), IsActive: true, CreatedAt: now, UpdatedAt: now}, "300"},
		{&entity.Product{ID: uuid.NewString(), SKU: "MAT-HUEVO", Name: "Huevo", Category: "materia_prima", UnitOfMeasure: "unidad", CostPrice: dec("0.35"), CurrentStock: decimal.Zero, ReorderLevel: dec("300"), IsActive: true, CreatedAt: now, UpdatedAt: now}, "1200"},
		{&entity.Product{ID: uuid.NewString(), SKU: "PT-TORTA", Name: "Torta de vainilla", Category: "producto_terminado", UnitOfMeasure: "unidad", CostPrice: dec("12.00"), CurrentStock: decimal.Zero, ReorderLevel: dec("10"), IsActive: true, CreatedAt: now, UpdatedAt: now}, ""},
	}
	for _, s := range seeds {
		if err := productRepo.Create(s.product); err != nil {
			fmt.Fprintf(os.Stderr, "crear producto %s: %v\n", s.product.SKU, err)
			os.Exit(1)
		}
		fmt.Printf("producto %s (%s) creado\n", s.product.SKU, s.product.ID)

		if s.initialStock == "" {
			continue
		}
		mov, err := stockUC.RecordMovement(ctx, dto.RecordMovementRequest{
			ProductID:     s.product.ID,
			MovementType:  entity.MovementTypeIn,
			Quantity:      dec(s.initialStock),
			ReferenceType: entity.ReferenceTypeAdjustment,
			Reason:        "carga inicial de inventario",
			RecordedBy:    "seed",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "carga inicial %s: %v\n", s.product.SKU, err)
			os.Exit(1)
		}
		fmt.Printf("  stock inicial %s %s\n", mov.NewStock, s.product.UnitOfMeasure)
	}

	finished := seeds[3].product
	bom := &entity.BOM{
		ID:          uuid.NewString(),
		ProductID:   finished.ID,
		Version:     "v1",
		Description: "Receta estándar torta de vainilla",
		Status:      entity.BOMStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	bom.Components = []entity.BOMComponent{
		{ID: uuid.NewString(), BOMID: bom.ID, ComponentProductID: seeds[0].product.ID, QuantityRequired: dec("0.5"), WastePercentage: dec("5"), CreatedAt: now},
		{ID: uuid.NewString(), BOMID: bom.ID, ComponentProductID: seeds[1].product.ID, QuantityRequired: dec("0.3"), WastePercentage: dec("2"), CreatedAt: now},
		{ID: uuid.NewString(), BOMID: bom.ID, ComponentProductID: seeds[2].product.ID, QuantityRequired: dec("4"), WastePercentage: decimal.Zero, CreatedAt: now},
	}

	// La unicidad (product_id, version) la garantiza el índice parcial; un
	// segundo run del seed falla con versión duplicada en lugar de duplicar datos.
	err = txRunner.RunBOM(ctx, func(bomRepo repository.BOMRepository) error {
		return bomRepo.Create(bom)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear BOM %s: %v\n", bom.Version, err)
		os.Exit(1)
	}
	fmt.Printf("BOM %s (%s) creado con %d componentes\n", bom.Version, bom.ID, len(bom.Components))
}
