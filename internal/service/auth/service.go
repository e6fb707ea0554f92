package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/biogeles/internal/domain/models"
	"github.com/mamadbah2/biogeles/internal/service/admin"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrNotAuthenticated is returned when a profile is requested without a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ValidationError carries the per-field messages of a rejected login form.
type ValidationError struct {
	Fields map[string]string `json:"errores"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range []string{"email", "password"} {
		if msg, ok := e.Fields[k]; ok {
			parts = append(parts, k+": "+msg)
		}
	}
	return "invalid login form: " + strings.Join(parts, "; ")
}

// Backend is the authentication surface of the backend client.
type Backend interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Me(ctx context.Context) (*models.User, error)
	Logout()
}

// SessionStore is the operator session the login screen reads and writes.
type SessionStore interface {
	Authenticated() bool
	User() (models.User, bool)
	Remember(email string)
	RememberedEmail() string
}

// Form is the login form.
type Form struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Recordarme bool   `json:"recordarme"`
}

// Prefill is what the login screen shows on open.
type Prefill struct {
	Email      string `json:"email"`
	Recordarme bool   `json:"recordarme"`
}

// Status reports the session state to the console.
type Status struct {
	Autenticado bool           `json:"autenticado"`
	Usuario     *admin.Usuario `json:"usuario,omitempty"`
}

// Service drives the login screen and the profile.
type Service struct {
	backend Backend
	session SessionStore
	logger  *zap.Logger
}

// NewService wires the login flow.
func NewService(backend Backend, session SessionStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, session: session, logger: logger}
}

// Validate checks the form the way the login screen does, without any request.
func Validate(f Form) error {
	fields := make(map[string]string)

	switch {
	case f.Email == "":
		fields["email"] = "El correo es requerido"
	case !emailPattern.MatchString(f.Email):
		fields["email"] = "Por favor ingresa un correo válido"
	}

	switch {
	case f.Password == "":
		fields["password"] = "La contraseña es requerida"
	case utf8.RuneCountInString(f.Password) < minPasswordLength:
		fields["password"] = fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLength)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Prefill returns the remembered email, if any.
func (s *Service) Prefill() Prefill {
	email := s.session.RememberedEmail()
	return Prefill{Email: email, Recordarme: email != ""}
}

// Login validates the form, signs in and applies the remember-me preference.
func (s *Service) Login(ctx context.Context, f Form) (Status, error) {
	if err := Validate(f); err != nil {
		return Status{}, err
	}

	res, err := s.backend.Login(ctx, models.Credentials{Email: f.Email, Password: f.Password})
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", f.Email), zap.Error(err))
		return Status{}, fmt.Errorf("login: %w", err)
	}

	if f.Recordarme {
		s.session.Remember(f.Email)
	} else {
		s.session.Remember("")
	}

	u := admin.UsuarioFromAPI(res.User)
	s.logger.Info("operator signed in", zap.String("user_id", u.ID), zap.String("role", string(u.Rol)))
	return Status{Autenticado: true, Usuario: &u}, nil
}

// Logout clears the session.
func (s *Service) Logout() {
	s.backend.Logout()
	s.logger.Info("operator signed out")
}

// Status reports whether an operator is signed in.
func (s *Service) Status() Status {
	u, ok := s.session.User()
	if !ok {
		return Status{}
	}
	view := admin.UsuarioFromAPI(u)
	return Status{Autenticado: true, Usuario: &view}
}

// Profile fetches the signed-in operator's profile.
func (s *Service) Profile(ctx context.Context) (admin.Usuario, error) {
	if !s.session.Authenticated() {
		return admin.Usuario{}, ErrNotAuthenticated
	}
	u, err := s.backend.Me(ctx)
	if err != nil {
		return admin.Usuario{}, fmt.Errorf("profile: %w", err)
	}
	return admin.UsuarioFromAPI(*u), nil
}
