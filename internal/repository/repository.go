package repository

import "errors"

// ErrNotFound lo devuelven ambos repositorios cuando el documento no existe.
var ErrNotFound = errors.New("recurso no encontrado")
