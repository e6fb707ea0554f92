package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/metrics"
)

var (
	// ErrOrderNotFound indicates the id is not part of the loaded orders.
	ErrOrderNotFound = errors.New("order not found")
	// ErrValidation indicates the order form was rejected before any request was sent.
	ErrValidation = errors.New("invalid order form")
	// ErrUnknownFilter indicates a filter that is neither "todos" nor an order state.
	ErrUnknownFilter = errors.New("unknown order filter")
)

// Estado is the localized order state.
type Estado string

const (
	EstadoPendiente   Estado = "pendiente"
	EstadoProcesando  Estado = "procesando"
	EstadoPreparacion Estado = "preparación"
	EstadoCompletado  Estado = "completado"

	// FilterAll selects every order.
	FilterAll = "todos"
)

// Filters lists the filter tabs in display order.
var Filters = []string{FilterAll, string(EstadoPendiente), string(EstadoProcesando), string(EstadoPreparacion), string(EstadoCompletado)}

var estadoFromStatus = map[models.OrderStatus]Estado{
	models.OrderPending:    EstadoPendiente,
	models.OrderProcessing: EstadoProcesando,
	models.OrderPreparing:  EstadoPreparacion,
	models.OrderCompleted:  EstadoCompletado,
}

var statusFromEstado = map[Estado]models.OrderStatus{
	EstadoPendiente:   models.OrderPending,
	EstadoProcesando:  models.OrderProcessing,
	EstadoPreparacion: models.OrderPreparing,
	EstadoCompletado:  models.OrderCompleted,
}

// Label capitalizes the state for badges ("Preparación").
func (e Estado) Label() string {
	if e == "" {
		return ""
	}
	r := []rune(string(e))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Order is the presentation form of a customer order.
type Order struct {
	ID           string `json:"id"`
	Cliente      string `json:"cliente"`
	Producto     string `json:"producto"`
	Cantidad     string `json:"cantidad"`
	Estado       Estado `json:"estado"`
	EstadoLabel  string `json:"estadoEtiqueta"`
	Fecha        string `json:"fecha"`
	FechaEntrega string `json:"fechaEntrega"`
	FechaTexto   string `json:"fechaTexto,omitempty"`
	EntregaTexto string `json:"fechaEntregaTexto,omitempty"`
}

// Form is the new/edit order form.
type Form struct {
	Cliente      string `json:"cliente"`
	Producto     string `json:"producto"`
	Cantidad     string `json:"cantidad"`
	Estado       Estado `json:"estado"`
	Fecha        string `json:"fecha"`
	FechaEntrega string `json:"fechaEntrega"`
}

// List is the filtered order list with its header label.
type List struct {
	Filtro   string   `json:"filtro"`
	Filtros  []string `json:"filtros"`
	Total    int      `json:"total"`
	Etiqueta string   `json:"etiqueta"`
	Pedidos  []Order  `json:"pedidos"`
}

// Store is the backend surface the order screen needs.
type Store interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, o models.Order) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, o models.Order) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// FromAPI maps a backend order into its localized form. Unknown states fall back to pendiente.
func FromAPI(o models.Order) Order {
	estado, ok := estadoFromStatus[models.OrderStatus(strings.ToUpper(string(o.Status)))]
	if !ok {
		estado = EstadoPendiente
	}
	return Order{
		ID:           o.ID.String(),
		Cliente:      o.Customer,
		Producto:     o.Product,
		Cantidad:     o.Quantity,
		Estado:       estado,
		EstadoLabel:  estado.Label(),
		Fecha:        o.OrderDate,
		FechaEntrega: o.DeliveryDate,
		FechaTexto:   shortDate(o.OrderDate),
		EntregaTexto: shortDate(o.DeliveryDate),
	}
}

// ToAPI validates the form and builds the backend record.
func ToAPI(f Form) (models.Order, error) {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(f.Cliente) == "" {
		missing = append(missing, "cliente")
	}
	if strings.TrimSpace(f.Producto) == "" {
		missing = append(missing, "producto")
	}
	if strings.TrimSpace(f.Cantidad) == "" {
		missing = append(missing, "cantidad")
	}
	if len(missing) > 0 {
		return models.Order{}, fmt.Errorf("%w: campos requeridos: %s", ErrValidation, strings.Join(missing, ", "))
	}

	estado := f.Estado
	if estado == "" {
		estado = EstadoPendiente
	}
	status, ok := statusFromEstado[estado]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: estado desconocido %q", ErrValidation, f.Estado)
	}
	for _, d := range []string{f.Fecha, f.FechaEntrega} {
		if d != "" && parseDate(d).IsZero() {
			return models.Order{}, fmt.Errorf("%w: fecha inválida %q", ErrValidation, d)
		}
	}

	return models.Order{
		Customer:     strings.TrimSpace(f.Cliente),
		Product:      strings.TrimSpace(f.Producto),
		Quantity:     strings.TrimSpace(f.Cantidad),
		Status:       status,
		OrderDate:    f.Fecha,
		DeliveryDate: f.FechaEntrega,
	}, nil
}

// CountLabel renders the header count ("1 pedido", "4 pedidos").
func CountLabel(n int) string {
	if n == 1 {
		return "1 pedido"
	}
	return fmt.Sprintf("%d pedidos", n)
}

// Service owns the in-memory state of the order screen.
type Service struct {
	store  Store
	logger *zap.Logger

	mu     sync.Mutex
	orders []Order
	loaded bool
}

// NewService wires the order screen against the backend.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Load fetches every order.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.store.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	out := make([]Order, 0, len(records))
	for _, rec := range records {
		out = append(out, FromAPI(rec))
	}

	s.mu.Lock()
	s.orders = out
	s.loaded = true
	s.mu.Unlock()
	s.logger.Debug("orders loaded", zap.Int("count", len(out)))
	return nil
}

// Loaded reports whether the orders have been fetched since the last invalidation.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Invalidate forces the next request to refetch.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

// List returns the orders matching filter ("todos" or a state).
func (s *Service) List(filter string) (List, error) {
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll {
		if _, ok := statusFromEstado[Estado(filter)]; !ok {
			return List{}, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter == FilterAll || string(o.Estado) == filter {
			out = append(out, o)
		}
	}
	return List{
		Filtro:   filter,
		Filtros:  Filters,
		Total:    len(out),
		Etiqueta: CountLabel(len(out)),
		Pedidos:  out,
	}, nil
}

// Get returns a loaded order.
func (s *Service) Get(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// Active returns the orders that are not completed.
func (s *Service) Active() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.Estado != EstadoCompletado {
			out = append(out, o)
		}
	}
	return out
}

// Create persists a new order and appends the stored record.
func (s *Service) Create(ctx context.Context, f Form) (Order, error) {
	rec, err := ToAPI(f)
	if err != nil {
		return Order{}, err
	}
	created, err := s.store.CreateOrder(ctx, rec)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	o := FromAPI(*created)

	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()

	metrics.OrderMutations.WithLabelValues("create").Inc()
	s.logger.Info("order created", zap.String("order_id", o.ID), zap.String("customer", o.Cliente))
	return o, nil
}

// Update replaces an order with the form values.
func (s *Service) Update(ctx context.Context, id string, f Form) (Order, error) {
	if _, err := s.Get(id); err != nil {
		return Order{}, err
	}
	rec, err := ToAPI(f)
	if err != nil {
		return Order{}, err
	}
	updated, err := s.store.UpdateOrder(ctx, id, rec)
	if err != nil {
		return Order{}, fmt.Errorf("update order %s: %w", id, err)
	}
	o := FromAPI(*updated)
	if o.ID == "" {
		o.ID = id
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i] = o
			break
		}
	}
	s.mu.Unlock()

	metrics.OrderMutations.WithLabelValues("update").Inc()
	s.logger.Info("order updated", zap.String("order_id", id))
	return o, nil
}

// Delete removes an order remotely, then locally.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	s.mu.Lock()
	kept := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	s.mu.Unlock()

	metrics.OrderMutations.WithLabelValues("delete").Inc()
	s.logger.Info("order deleted", zap.String("order_id", id))
	return nil
}

// Orders returns a copy of the loaded orders.
func (s *Service) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func parseDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// shortDate renders a date the way es-ES locales print it (15/11/2024).
func shortDate(value string) string {
	t := parseDate(value)
	if t.IsZero() {
		return ""
	}
	return t.Format("2/1/2006")
}
