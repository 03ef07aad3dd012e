package repository

import "context"

// InvoiceSequenceRepository contador atómico de consecutivos por empresa y año fiscal.
type InvoiceSequenceRepository interface {
	// Next avanza el contador y devuelve el nuevo valor. Si el contador no existe
	// se crea partiendo de baseline.
	Next(ctx context.Context, companyID, fiscalYear string, baseline int64) (int64, error)
	// Current último valor entregado; (0, false) si el contador no existe.
	Current(ctx context.Context, companyID, fiscalYear string) (int64, bool, error)
}
