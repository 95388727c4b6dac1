package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	MaterialCount   int                `json:"material_count"`
	ProductCount    int                `json:"product_count"`
	LowStock        []ItemResponse     `json:"low_stock"`        // materias primas en o bajo su umbral
	RecentMovements []MovementResponse `json:"recent_movements"` // últimos N, más reciente primero
}
