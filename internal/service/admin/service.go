package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// ErrNotFound indicates the id is not part of the loaded admin lists.
var ErrNotFound = errors.New("admin record not found")

// Store is the backend surface of the administration center.
type Store interface {
	ListSpecies(ctx context.Context) ([]models.Species, error)
	CreateSpecies(ctx context.Context, s models.Species) (*models.Species, error)
	UpdateSpecies(ctx context.Context, id string, s models.Species) (*models.Species, error)
	DeleteSpecies(ctx context.Context, id string) error

	ListFormulas(ctx context.Context) ([]models.Formula, error)
	CreateFormula(ctx context.Context, f models.Formula) (*models.Formula, error)
	UpdateFormula(ctx context.Context, id string, f models.Formula) (*models.Formula, error)
	DeleteFormula(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, s models.SystemSettings) (*models.SystemSettings, error)
}

// Summary is the stats row at the top of the administration center.
type Summary struct {
	Especies int `json:"especies"`
	Formulas int `json:"formulas"`
	Usuarios int `json:"usuarios"`
}

// Service owns the state of the administration center.
type Service struct {
	store  Store
	logger *zap.Logger

	species  *collection[Alga]
	formulas *collection[Formula]
	users    *collection[Usuario]

	mu       sync.Mutex
	settings Configuracion
	loaded   bool
}

// NewService wires the administration center against the backend.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		logger:   logger,
		species:  newCollection(func(a Alga) string { return a.ID }),
		formulas: newCollection(func(f Formula) string { return f.ID }),
		users:    newCollection(func(u Usuario) string { return u.ID }),
	}
}

// Load fetches the four tabs.
func (s *Service) Load(ctx context.Context) error {
	species, err := s.store.ListSpecies(ctx)
	if err != nil {
		return fmt.Errorf("load species: %w", err)
	}
	formulas, err := s.store.ListFormulas(ctx)
	if err != nil {
		return fmt.Errorf("load formulas: %w", err)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	s.species.replace(mapAll(species, AlgaFromAPI))
	s.formulas.replace(mapAll(formulas, FormulaFromAPI))
	s.users.replace(mapAll(users, UsuarioFromAPI))
	s.mu.Lock()
	s.settings = ConfiguracionFromAPI(*settings)
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("admin loaded",
		zap.Int("species", len(species)),
		zap.Int("formulas", len(formulas)),
		zap.Int("users", len(users)),
	)
	return nil
}

// Loaded reports whether the tabs have been fetched since the last invalidation.
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

// Summary counts the loaded records.
func (s *Service) Summary() Summary {
	return Summary{Especies: s.species.len(), Formulas: s.formulas.len(), Usuarios: s.users.len()}
}

// Species returns the species whose common or scientific name contains query, case-insensitively.
func (s *Service) Species(query string) []Alga {
	all := s.species.all()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]Alga, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Nombre), q) || strings.Contains(strings.ToLower(a.NombreCientifico), q) {
			out = append(out, a)
		}
	}
	return out
}

// SpeciesByID returns one species.
func (s *Service) SpeciesByID(id string) (Alga, error) {
	a, ok := s.species.find(id)
	if !ok {
		return Alga{}, fmt.Errorf("%w: species %s", ErrNotFound, id)
	}
	return a, nil
}

func (s *Service) CreateSpecies(ctx context.Context, form Alga) (Alga, error) {
	rec, err := AlgaToAPI(form)
	if err != nil {
		return Alga{}, err
	}
	created, err := s.store.CreateSpecies(ctx, rec)
	if err != nil {
		return Alga{}, fmt.Errorf("create species: %w", err)
	}
	a := AlgaFromAPI(*created)
	s.species.add(a)
	s.logger.Info("species created", zap.String("species_id", a.ID), zap.String("name", a.Nombre))
	return a, nil
}

func (s *Service) UpdateSpecies(ctx context.Context, id string, form Alga) (Alga, error) {
	if _, err := s.SpeciesByID(id); err != nil {
		return Alga{}, err
	}
	rec, err := AlgaToAPI(form)
	if err != nil {
		return Alga{}, err
	}
	updated, err := s.store.UpdateSpecies(ctx, id, rec)
	if err != nil {
		return Alga{}, fmt.Errorf("update species %s: %w", id, err)
	}
	a := AlgaFromAPI(*updated)
	a.ID = id
	s.species.put(id, a)
	s.logger.Info("species updated", zap.String("species_id", id))
	return a, nil
}

func (s *Service) DeleteSpecies(ctx context.Context, id string) error {
	if err := s.store.DeleteSpecies(ctx, id); err != nil {
		return fmt.Errorf("delete species %s: %w", id, err)
	}
	s.species.drop(id)
	s.logger.Info("species deleted", zap.String("species_id", id))
	return nil
}

// Formulas returns the loaded formulas.
func (s *Service) Formulas() []Formula {
	return s.formulas.all()
}

func (s *Service) CreateFormula(ctx context.Context, form Formula) (Formula, error) {
	rec, err := FormulaToAPI(form)
	if err != nil {
		return Formula{}, err
	}
	created, err := s.store.CreateFormula(ctx, rec)
	if err != nil {
		return Formula{}, fmt.Errorf("create formula: %w", err)
	}
	f := FormulaFromAPI(*created)
	s.formulas.add(f)
	s.logger.Info("formula created", zap.String("formula_id", f.ID))
	return f, nil
}

func (s *Service) UpdateFormula(ctx context.Context, id string, form Formula) (Formula, error) {
	if _, ok := s.formulas.find(id); !ok {
		return Formula{}, fmt.Errorf("%w: formula %s", ErrNotFound, id)
	}
	rec, err := FormulaToAPI(form)
	if err != nil {
		return Formula{}, err
	}
	updated, err := s.store.UpdateFormula(ctx, id, rec)
	if err != nil {
		return Formula{}, fmt.Errorf("update formula %s: %w", id, err)
	}
	f := FormulaFromAPI(*updated)
	f.ID = id
	s.formulas.put(id, f)
	s.logger.Info("formula updated", zap.String("formula_id", id))
	return f, nil
}

func (s *Service) DeleteFormula(ctx context.Context, id string) error {
	if err := s.store.DeleteFormula(ctx, id); err != nil {
		return fmt.Errorf("delete formula %s: %w", id, err)
	}
	s.formulas.drop(id)
	s.logger.Info("formula deleted", zap.String("formula_id", id))
	return nil
}

// Users returns the loaded accounts.
func (s *Service) Users() []Usuario {
	return s.users.all()
}

func (s *Service) CreateUser(ctx context.Context, form Usuario) (Usuario, error) {
	rec, err := UsuarioToAPI(form)
	if err != nil {
		return Usuario{}, err
	}
	created, err := s.store.CreateUser(ctx, rec)
	if err != nil {
		return Usuario{}, fmt.Errorf("create user: %w", err)
	}
	u := UsuarioFromAPI(*created)
	s.users.add(u)
	s.logger.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Rol)))
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, form Usuario) (Usuario, error) {
	if _, ok := s.users.find(id); !ok {
		return Usuario{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	rec, err := UsuarioToAPI(form)
	if err != nil {
		return Usuario{}, err
	}
	updated, err := s.store.UpdateUser(ctx, id, rec)
	if err != nil {
		return Usuario{}, fmt.Errorf("update user %s: %w", id, err)
	}
	u := UsuarioFromAPI(*updated)
	u.ID = id
	s.users.put(id, u)
	s.logger.Info("user updated", zap.String("user_id", id))
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.users.drop(id)
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// Settings returns the loaded system toggles.
func (s *Service) Settings() Configuracion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings replaces the system toggles and keeps what the backend stored.
func (s *Service) SaveSettings(ctx context.Context, c Configuracion) (Configuracion, error) {
	stored, err := s.store.UpdateSettings(ctx, ConfiguracionToAPI(c))
	if err != nil {
		return Configuracion{}, fmt.Errorf("update settings: %w", err)
	}
	out := ConfiguracionFromAPI(*stored)

	s.mu.Lock()
	s.settings = out
	s.mu.Unlock()

	s.logger.Info("system settings updated",
		zap.Bool("maintenance", out.MantenimientoProgramado),
		zap.Bool("notifications", out.NotificacionesEmail),
	)
	return out, nil
}

func mapAll[A, B any](in []A, fn func(A) B) []B {
	out := make([]B, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
