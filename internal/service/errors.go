package service

import "errors"

// Errores de negocio exportados (los usan los controllers)
var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidStatus      = errors.New("estado de orden no reconocido")
	ErrOrderAlreadyExists = errors.New("la orden ya fue inicializada previamente")
	ErrInvalidItem        = errors.New("ítem de orden inválido")
	ErrInvalidTotals      = errors.New("los totales de la orden no cierran")

	ErrMissingActingAdmin = errors.New("no se pudo resolver la identidad del admin")
	ErrNotDistributor     = errors.New("el usuario no tiene rol distribuidor")
	ErrNotApproved        = errors.New("el distribuidor no está aprobado")
	ErrInvalidRole        = errors.New("rol no reconocido")
	ErrEmptyPatch         = errors.New("la actualización no contiene campos soportados")
)
