package server

import (
	"paypal-order-sync/internal/handler"
	"paypal-order-sync/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(syncService service.SyncService) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(syncService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/capabilities", s.checkoutHandler.GetCapabilities)

	// -------- checkout orders --------
	checkout := api.Group("/checkout")
	checkout.POST("/orders", s.checkoutHandler.CreateOrder)
	checkout.PUT("/orders/:orderID", s.checkoutHandler.UpdateOrder)
	checkout.GET("/orders/:orderID", s.checkoutHandler.GetOrder)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
