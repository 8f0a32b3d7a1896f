package services

import "errors"

// Common service errors
var (
	ErrNotFound          = errors.New("registro no encontrado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrSessionNotFound   = errors.New("sesión de cotización no encontrada o expirada")
	ErrLotNotAvailable   = errors.New("el lote no está disponible")
	ErrProjectInactive   = errors.New("el proyecto no está activo")
	ErrSupervisorInvalid = errors.New("el usuario seleccionado no es un supervisor activo")
	ErrIncompleteDraft   = errors.New("la cotización tiene campos obligatorios pendientes")
	ErrRateUnavailable   = errors.New("no se pudo obtener la tasa de cambio")
)
