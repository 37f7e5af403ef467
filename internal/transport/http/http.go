package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/kashan660/sellaap-orders/internal/service/models/catalogitem"
	"github.com/kashan660/sellaap-orders/internal/service/models/order"
	listorders "github.com/kashan660/sellaap-orders/internal/transport/http/list_orders"
	listproducts "github.com/kashan660/sellaap-orders/internal/transport/http/list_products"
	submitorder "github.com/kashan660/sellaap-orders/internal/transport/http/submit_order"
	updatestatus "github.com/kashan660/sellaap-orders/internal/transport/http/update_order_status"
	"github.com/kashan660/sellaap-orders/pkg/http/middleware/auth"
	"github.com/kashan660/sellaap-orders/pkg/http/middleware/trace"
	"github.com/kashan660/sellaap-orders/pkg/logger"
)

type orderService interface {
	SubmitOrder(ctx context.Context, req order.SubmitRequest) (*order.Order, error)
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status order.Status) (*order.Order, error)
}

type catalogService interface {
	ListProducts(ctx context.Context, limit, offset int) ([]catalogitem.CatalogItem, error)
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	orderSvc   orderService
	catalogSvc catalogService
}

func NewHTTPTransport(orderSvc orderService, catalogSvc catalogService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:     server,
		router:     router,
		orderSvc:   orderSvc,
		catalogSvc: catalogSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Post("/orders", h.submitOrder)
		r.Get("/orders", h.listOrders)
		r.Patch("/orders/{orderID}/status", h.updateOrderStatus)
	})
}

func (h *HTTPTransport) submitOrder(w http.ResponseWriter, r *http.Request) {
	submitorder.SubmitOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateOrderStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.catalogSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(auth.NewActorMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
