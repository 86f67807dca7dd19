package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/requests"
	"github.com/empresa-normalizer/app/responses"
	"github.com/empresa-normalizer/app/services"
	"github.com/empresa-normalizer/internal/normalizer"
)

// AdminController controller das operações administrativas e de diagnóstico
type AdminController struct {
	recordService    *services.RecordService
	documentoService *services.DocumentoService
	cacheService     services.ICacheService
	logger           *zap.Logger
}

// NewAdminController cria o AdminController
func NewAdminController(recordService *services.RecordService, documentoService *services.DocumentoService, cacheService services.ICacheService, logger *zap.Logger) *AdminController {
	return &AdminController{
		recordService:    recordService,
		documentoService: documentoService,
		cacheService:     cacheService,
		logger:           logger,
	}
}

// GetStats estatísticas do cache de documentos e uptime
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.cacheService.GetStats(c.Request.Context())
	if err != nil {
		ac.logger.Warn("erro ao ler stats do cache", zap.Error(err))
		stats = &services.CacheStats{}
	}

	c.JSON(http.StatusOK, responses.AdminStatsResponse{
		CacheHitRate:  stats.HitRate,
		TotalHits:     stats.TotalHits,
		TotalMiss:     stats.TotalMiss,
		TotalItems:    stats.TotalItems,
		UptimeSeconds: int64(time.Since(ac.recordService.GetStartTime()).Seconds()),
	})
}

// InvalidateCache refresh forçado da listagem de um documento
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	var req requests.InvalidateCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request inválido: " + err.Error(),
		})
		return
	}
	if req.Documento == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "MISSING_DOCUMENTO",
			Message: "Falta o campo documento",
		})
		return
	}

	if err := ac.documentoService.Invalidate(c.Request.Context(), req.Documento); err != nil {
		ac.logger.Error("erro ao invalidar cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "INVALIDATE_ERROR",
			Message: "Erro ao invalidar cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Cache invalidado",
		Data:    map[string]any{"documento": req.Documento},
	})
}

// ClearCache limpa todo o cache de listagens de documentos
func (ac *AdminController) ClearCache(c *gin.Context) {
	if err := ac.cacheService.Clear(c.Request.Context()); err != nil {
		ac.logger.Error("erro ao limpar cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CLEAR_ERROR",
			Message: "Erro ao limpar cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Cache limpo",
	})
}

// BuildIndexes reindexa as empresas no motor de busca
func (ac *AdminController) BuildIndexes(c *gin.Context) {
	startTime := time.Now()

	total, err := ac.recordService.Reindex(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		ac.logger.Error("erro ao reindexar empresas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "REINDEX_ERROR",
			Message: "Erro ao reindexar: " + err.Error(),
		})
		return
	}

	processingTime := time.Since(startTime)
	ac.logger.Info("reindex concluído",
		zap.Int("empresas", total),
		zap.Duration("duration", processingTime))

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Reindex concluído",
		Data: map[string]any{
			"empresas":           total,
			"processing_time_ms": processingTime.Milliseconds(),
		},
	})
}

// VinculosPendentes empresas sem certificado resolvido e seus candidatos por
// similaridade de nome; diagnóstico apenas, nenhum vínculo é criado aqui
func (ac *AdminController) VinculosPendentes(c *gin.Context) {
	sugestoes, err := ac.recordService.SugerirVinculos(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		ac.logger.Error("erro ao sugerir vínculos", zap.Error(err))
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "BACKEND_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Sugestões de vínculo",
		Data:    sugestoes,
	})
}

// CheckVocabulario valida palavras candidatas contra as regras de classificação
// existentes, apontando pares em que a regra mais genérica sombrearia a nova
func (ac *AdminController) CheckVocabulario(c *gin.Context) {
	var req requests.VocabularioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request inválido: " + err.Error(),
		})
		return
	}

	conflitos := normalizer.CheckVocabulary(req.Palavras...)

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: len(conflitos) == 0,
		Message: "Verificação de vocabulário",
		Data: map[string]any{
			"palavras":  req.Palavras,
			"conflitos": conflitos,
		},
	})
}
