package routes

import (
	"github.com/gofiber/fiber/v2"

	"inventory-backend/controllers"
	"inventory-backend/middlewares"
)

// Register wires all HTTP routes. Paths mirror the contract the frontend
// already speaks; trailing slashes are handled by Fiber's non-strict routing.
func Register(app *fiber.App) {
	// Public auth endpoints
	app.Post("/auth/registration", controllers.Register)
	app.Post("/auth/login", controllers.Login)
	app.Post("/auth/logout", controllers.Logout)

	// Idempotency guard for every mutating endpoint (active only when the
	// client sends an Idempotency-Key header)
	app.Use(middlewares.Idempotency())

	// Orders
	app.Get("/orders", controllers.GetOrders)
	app.Post("/orders/create", controllers.CreateOrder)
	app.Post("/orders/send-otp", controllers.SendOTP)
	app.Post("/orders/verify-otp", controllers.VerifyOTP)
	app.Get("/orders/:order_id", controllers.GetOrder)
	app.Put("/orders/:order_id/update", controllers.UpdateOrder)
	app.Delete("/orders/:order_id/delete", controllers.DeleteOrder)
	app.Post("/orders/:order_id/add-parts", controllers.AddPartsToOrder)
	app.Post("/orders/:order_id/finalize", controllers.FinalizeOrder)

	// Invoices ("next" before the id routes so it isn't shadowed)
	app.Get("/invoices/next/:order_id/:invoice_type", controllers.GetNextInvoiceNumber)
	app.Post("/invoices/create", controllers.CreateInvoice)
	app.Get("/invoices/:id", controllers.GetInvoicesOrDetail)
	app.Put("/invoices/:invoice_id", controllers.UpdateInvoice)
	app.Delete("/invoices/:invoice_id", controllers.DeleteInvoice)

	// Product catalog; reads are open, mutations need a logged-in user
	app.Get("/products", controllers.GetProducts)
	app.Get("/products/:product_id", controllers.GetProduct)

	catalog := app.Group("", middlewares.IsAuthenticatedHeader())
	catalog.Post("/products/create", controllers.CreateProduct)
	catalog.Put("/products/:product_id/update", controllers.UpdateProduct)
	catalog.Delete("/products/:product_id/delete", controllers.DeleteProduct)
	catalog.Post("/products/:product_id/media", controllers.AddProductMedia)
	catalog.Delete("/products/media/:media_id", controllers.DeleteProductMedia)
}
