package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Maquinaria-api/internal/application/catalog"
	"github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/application/masterdata"
	"github.com/jhoicas/Maquinaria-api/internal/application/purchase"
	"github.com/jhoicas/Maquinaria-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *catalog.UseCase
	MasterDataUC *masterdata.UseCase
	PurchaseUC   *purchase.RegisterPurchaseUseCase
	KardexUC     *inventory.KardexUseCase
	UnitUC       *inventory.UnitUseCase
	Tokens       *jwt.Manager
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras además exigen rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Tokens), RequireRole())

	almacen := RequireRole(RoleAdmin, RoleJefeAlmacen, RoleAlmacenero)

	// Catálogo de unidades
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	cat := api.Group("/catalog")
	cat.Post("/dimensions", RequireRole(RoleAdmin, RoleJefeAlmacen), catalogHandler.CreateDimension)
	cat.Post("/units", RequireRole(RoleAdmin, RoleJefeAlmacen), catalogHandler.CreateUnit)
	cat.Post("/relations", RequireRole(RoleAdmin, RoleJefeAlmacen), catalogHandler.CreateRelation)
	cat.Get("/dimensions/:id/units", catalogHandler.ListUnits)

	// Datos maestros
	master := NewMasterDataHandler(deps.MasterDataUC)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", RequireRole(RoleAdmin, RoleJefeAlmacen), master.CreateWarehouse)
	warehouses.Get("/", master.ListWarehouses)
	warehouses.Get("/:id", master.GetWarehouse)

	// Compras
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	api.Post("/purchases", RequireRole(RoleAdmin, RoleJefeAlmacen, RoleAlmacenero, RoleCompras), purchaseHandler.Register)

	// Insumos: kardex, proveedores y unidades asignables
	kardexHandler := NewKardexHandler(deps.KardexUC)
	unitHandler := NewUnitHandler(deps.UnitUC)
	items := api.Group("/items")
	items.Post("/", RequireRole(RoleAdmin, RoleJefeAlmacen), master.CreateItem)
	items.Get("/:id", master.GetItem)
	items.Get("/:id/suppliers", purchaseHandler.SupplierPrices)
	items.Get("/:id/kardex", kardexHandler.Entries)
	items.Get("/:id/kardex.pdf", kardexHandler.ExportPDF)
	items.Get("/:id/balance", kardexHandler.Balance)
	items.Post("/:id/issues", almacen, kardexHandler.Issue)
	items.Post("/:id/receipts", almacen, kardexHandler.Receive)
	items.Get("/:id/assignable-units", unitHandler.AssignableUnits)

	// Unidades serializadas
	units := api.Group("/units")
	units.Post("/:id/transitions",
		RequireRole(RoleAdmin, RoleJefeAlmacen, RoleAlmacenero, RoleJefeTecnicos, RoleTecnico),
		unitHandler.Transition)
	units.Get("/:id/history", unitHandler.History)
	units.Get("/:id/location", unitHandler.CurrentLocation)

	// Maquinarias
	machines := api.Group("/machines")
	machines.Post("/", RequireRole(RoleAdmin, RoleJefeTecnicos), master.CreateMachine)
	machines.Get("/:id", master.GetMachine)
	machines.Get("/:id/cost-center", unitHandler.MachineCostCenter)
}
