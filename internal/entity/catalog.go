package entity

// Branch represents a business location (sucursal).
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// ExpenseConcept represents an expense category catalog entry (concepto de gasto).
type ExpenseConcept struct {
	ID     int64  `json:"id"`
	Name   string `json:"nombre"`
	Active bool   `json:"activo"`
}
