package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Editor de facturas (máquina de estados de secciones).
	ErrNoActiveSection      = errors.New("no hay ninguna sección en edición")
	ErrSectionMismatch      = errors.New("la operación no corresponde a la sección en edición")
	ErrUnknownSection       = errors.New("sección desconocida")
	ErrLastItem             = errors.New("la factura debe conservar al menos un ítem")
	ErrItemNotFound         = errors.New("ítem no encontrado en el borrador")
	ErrSessionNotReady      = errors.New("la sesión de edición no está lista")
	ErrSubmissionInProgress = errors.New("ya hay un envío de factura en curso")
)

// ValidationError error corregible por el usuario. Fields mapea campo -> motivo.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un solo campo.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// LoadError falla al cargar los datos iniciales de la sesión (perfil, catálogo).
// Bloquea la edición; el usuario puede reintentar.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("carga inicial (%s): %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SubmissionError el backend rechazó la factura o falló la red. El documento se conserva.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("envío de factura: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// RenderError falla aislada de la capa de PDF/vista previa.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render PDF: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
