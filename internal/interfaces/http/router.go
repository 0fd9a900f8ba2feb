package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/order"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	WarehouseUC *usecase.WarehouseUseCase
	CustomerUC  *usecase.CustomerUseCase
	PromotionUC *usecase.PromotionUseCase
	Ledger      *inventory.LedgerUseCase
	OrderUC     *order.UseCase
	ValuationUC *reports.ValuationUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// Roles:
//   - admin:     todo.
//   - bodeguero: inventario y catálogo (sin órdenes de venta ni promociones).
//   - cajero:    órdenes de venta y consultas (sin ajustes manuales de inventario).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	salesStaff := RequireRole(entity.RoleAdmin, entity.RoleCajero)

	// Users (protegido, solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", warehouseStaff, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", warehouseStaff, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", warehouseStaff, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", warehouseStaff, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventory ledger (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/adjustments", warehouseStaff, inventoryHandler.ApplyDelta)
	invGroup.Get("/adjustments", inventoryHandler.ListAdjustments)
	invGroup.Get("/quantity", inventoryHandler.GetQuantity)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", salesStaff, customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", salesStaff, customerHandler.Update)

	// Promotions (protegido, solo admin)
	promotions := protected.Group("/promotions", adminOnly)
	promotionHandler := NewPromotionHandler(deps.PromotionUC)
	promotions.Post("/", promotionHandler.Create)
	promotions.Get("/", promotionHandler.List)
	promotions.Get("/:id", promotionHandler.GetByID)
	promotions.Put("/:id", promotionHandler.Update)

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", salesStaff, orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/number/:number", orderHandler.GetByNumber)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/fulfill", salesStaff, orderHandler.Fulfill)
	orders.Post("/:id/cancel", salesStaff, orderHandler.Cancel)

	// Reports (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ValuationUC)
	reportsGroup.Get("/valuation", reportHandler.Valuation)
	reportsGroup.Get("/valuation/pdf", reportHandler.ValuationPDF)
}
