package admin

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// ErrValidation indicates an admin form was rejected before any request was sent.
var ErrValidation = errors.New("invalid admin form")

// Rango is an inclusive interval as shown in the species sheet.
type Rango struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Alga is the presentation form of a species.
type Alga struct {
	ID                  string  `json:"id"`
	Nombre              string  `json:"nombre"`
	NombreCientifico    string  `json:"nombreCientifico"`
	CicloPromedio       int     `json:"cicloPromedio"`
	TempOptima          Rango   `json:"tempOptima"`
	PHOptimo            Rango   `json:"pHOptimo"`
	SalinidadOptima     Rango   `json:"salinidadOptima"`
	RendimientoEsperado float64 `json:"rendimientoEsperado"`
	Color               string  `json:"color"`
	Usos                string  `json:"usos"`
	Descripcion         string  `json:"descripcion"`
}

// Formula is the presentation form of a nutrient formula.
type Formula struct {
	ID         string   `json:"id"`
	Nombre     string   `json:"nombre"`
	Nutrientes []string `json:"nutrientes"`
	Dosis      string   `json:"dosis"`
	Aplicacion string   `json:"aplicacion"`
}

// Rol is the localized role tag.
type Rol string

const (
	RolAdmin    Rol = "admin"
	RolOperator Rol = "operator"
)

// Label is the badge text of the role.
func (r Rol) Label() string {
	if r == RolAdmin {
		return "Admin"
	}
	return "Operador"
}

// EstadoUsuario is the localized account state.
type EstadoUsuario string

const (
	EstadoActivo   EstadoUsuario = "activo"
	EstadoInactivo EstadoUsuario = "inactivo"
)

// Usuario is the presentation form of an operator account.
type Usuario struct {
	ID            string        `json:"id"`
	Nombre        string        `json:"nombre"`
	Email         string        `json:"email"`
	Rol           Rol           `json:"rol"`
	RolEtiqueta   string        `json:"rolEtiqueta"`
	Estado        EstadoUsuario `json:"estado"`
	FechaRegistro string        `json:"fechaRegistro"`
}

// Configuracion holds the system toggles of the admin panel.
type Configuracion struct {
	MantenimientoProgramado bool `json:"mantenimientoProgramado"`
	BackupAutomatico        bool `json:"backupAutomatico"`
	NotificacionesEmail     bool `json:"notificacionesEmail"`
	HistorialExtendido      bool `json:"historialExtendido"`
}

func rango(r models.Range) Rango { return Rango{Min: r.Min, Max: r.Max} }

func (r Rango) toAPI() models.Range { return models.Range{Min: r.Min, Max: r.Max} }

// AlgaFromAPI maps a backend species.
func AlgaFromAPI(s models.Species) Alga {
	return Alga{
		ID:                  s.ID.String(),
		Nombre:              s.Name,
		NombreCientifico:    s.ScientificName,
		CicloPromedio:       s.AverageCycleDays,
		TempOptima:          rango(s.OptimalTemperature),
		PHOptimo:            rango(s.OptimalPH),
		SalinidadOptima:     rango(s.OptimalSalinity),
		RendimientoEsperado: s.ExpectedYield,
		Color:               s.Color,
		Usos:                s.Uses,
		Descripcion:         s.Description,
	}
}

// AlgaToAPI validates a species form.
func AlgaToAPI(a Alga) (models.Species, error) {
	if strings.TrimSpace(a.Nombre) == "" || strings.TrimSpace(a.NombreCientifico) == "" {
		return models.Species{}, fmt.Errorf("%w: nombre y nombre científico son requeridos", ErrValidation)
	}
	if a.CicloPromedio < 0 || a.RendimientoEsperado < 0 {
		return models.Species{}, fmt.Errorf("%w: ciclo y rendimiento no pueden ser negativos", ErrValidation)
	}
	for name, r := range map[string]Rango{"temperatura": a.TempOptima, "pH": a.PHOptimo, "salinidad": a.SalinidadOptima} {
		if r.Min > r.Max {
			return models.Species{}, fmt.Errorf("%w: rango de %s inválido", ErrValidation, name)
		}
	}
	return models.Species{
		Name:               strings.TrimSpace(a.Nombre),
		ScientificName:     strings.TrimSpace(a.NombreCientifico),
		AverageCycleDays:   a.CicloPromedio,
		OptimalTemperature: a.TempOptima.toAPI(),
		OptimalPH:          a.PHOptimo.toAPI(),
		OptimalSalinity:    a.SalinidadOptima.toAPI(),
		ExpectedYield:      a.RendimientoEsperado,
		Color:              a.Color,
		Uses:               a.Usos,
		Description:        a.Descripcion,
	}, nil
}

// FormulaFromAPI maps a backend formula.
func FormulaFromAPI(f models.Formula) Formula {
	nutrients := f.Nutrients
	if nutrients == nil {
		nutrients = []string{}
	}
	return Formula{ID: f.ID.String(), Nombre: f.Name, Nutrientes: nutrients, Dosis: f.Dosage, Aplicacion: f.Application}
}

// FormulaToAPI validates a formula form.
func FormulaToAPI(f Formula) (models.Formula, error) {
	if strings.TrimSpace(f.Nombre) == "" {
		return models.Formula{}, fmt.Errorf("%w: nombre es requerido", ErrValidation)
	}
	nutrients := make([]string, 0, len(f.Nutrientes))
	for _, n := range f.Nutrientes {
		if n = strings.TrimSpace(n); n != "" {
			nutrients = append(nutrients, n)
		}
	}
	return models.Formula{
		Name:        strings.TrimSpace(f.Nombre),
		Nutrients:   nutrients,
		Dosage:      strings.TrimSpace(f.Dosis),
		Application: strings.TrimSpace(f.Aplicacion),
	}, nil
}

// UsuarioFromAPI maps a backend user. Unknown roles read as operator, unknown states as activo.
func UsuarioFromAPI(u models.User) Usuario {
	rol := RolOperator
	if models.Role(strings.ToUpper(string(u.Role))) == models.RoleAdmin {
		rol = RolAdmin
	}
	estado := EstadoActivo
	if models.UserStatus(strings.ToUpper(string(u.Status))) == models.UserInactive {
		estado = EstadoInactivo
	}
	return Usuario{
		ID:            u.ID.String(),
		Nombre:        u.Name,
		Email:         u.Email,
		Rol:           rol,
		RolEtiqueta:   rol.Label(),
		Estado:        estado,
		FechaRegistro: registrationDate(u.CreatedAt),
	}
}

// UsuarioToAPI validates a user form.
func UsuarioToAPI(u Usuario) (models.User, error) {
	if strings.TrimSpace(u.Nombre) == "" {
		return models.User{}, fmt.Errorf("%w: nombre es requerido", ErrValidation)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return models.User{}, fmt.Errorf("%w: correo inválido", ErrValidation)
	}

	var role models.Role
	switch u.Rol {
	case RolAdmin:
		role = models.RoleAdmin
	case RolOperator, "":
		role = models.RoleOperator
	default:
		return models.User{}, fmt.Errorf("%w: rol desconocido %q", ErrValidation, u.Rol)
	}

	var status models.UserStatus
	switch u.Estado {
	case EstadoActivo, "":
		status = models.UserActive
	case EstadoInactivo:
		status = models.UserInactive
	default:
		return models.User{}, fmt.Errorf("%w: estado desconocido %q", ErrValidation, u.Estado)
	}

	return models.User{
		Name:   strings.TrimSpace(u.Nombre),
		Email:  strings.TrimSpace(u.Email),
		Role:   role,
		Status: status,
	}, nil
}

// ConfiguracionFromAPI maps the backend toggles.
func ConfiguracionFromAPI(s models.SystemSettings) Configuracion {
	return Configuracion{
		MantenimientoProgramado: s.MaintenanceMode,
		BackupAutomatico:        s.AutoBackup,
		NotificacionesEmail:     s.EmailNotifications,
		HistorialExtendido:      s.ExtendedHistory,
	}
}

// ConfiguracionToAPI maps the toggles back.
func ConfiguracionToAPI(c Configuracion) models.SystemSettings {
	return models.SystemSettings{
		MaintenanceMode:    c.MantenimientoProgramado,
		AutoBackup:         c.BackupAutomatico,
		EmailNotifications: c.NotificacionesEmail,
		ExtendedHistory:    c.HistorialExtendido,
	}
}

// registrationDate keeps the date part of an ISO timestamp.
func registrationDate(createdAt string) string {
	if len(createdAt) >= 10 && createdAt[4] == '-' {
		return createdAt[:10]
	}
	return createdAt
}
