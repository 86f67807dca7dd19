package responses

// ErrorResponse resposta de erro
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse resposta de sucesso genérica
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// HealthCheckResponse resposta de verificação de saúde
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// AdminStatsResponse estatísticas administrativas
type AdminStatsResponse struct {
	CacheHitRate  float64 `json:"cache_hit_rate"`
	TotalHits     int64   `json:"total_hits"`
	TotalMiss     int64   `json:"total_miss"`
	TotalItems    int64   `json:"total_items"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}
