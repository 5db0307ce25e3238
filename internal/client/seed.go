package client

import "gastowise/internal/core"

// DefaultCategories returns the category set used to seed a device that has
// never talked to the backend. Returned fresh on every call so callers can
// mutate their copy.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "cat-1", Name: "Alimentación", SubCategories: []string{"Mercado", "Comida Calle"}},
		{ID: "cat-2", Name: "Transporte", SubCategories: []string{"Bus", "Indrive", "Gasolina", "Mantenimiento"}},
		{ID: "cat-3", Name: "Vivienda", SubCategories: []string{"Arriendo"}},
		{ID: "cat-4", Name: "Servicios", SubCategories: []string{"Luz", "Agua", "Gas", "Internet Casa", "Celular"}},
		{ID: "cat-5", Name: "Ocio", SubCategories: []string{"Cine", "Streaming", "Salidas"}},
		{ID: "cat-6", Name: "Salud", SubCategories: []string{"Farmacia", "Consulta", "Gimnasio"}},
	}
}
