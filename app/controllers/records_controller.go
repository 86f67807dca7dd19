package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/models"
	"github.com/empresa-normalizer/app/requests"
	"github.com/empresa-normalizer/app/responses"
	"github.com/empresa-normalizer/app/services"
	"github.com/empresa-normalizer/internal/backend"
)

// RecordsController controller das listagens normalizadas e de documentos
type RecordsController struct {
	recordService    *services.RecordService
	documentoService *services.DocumentoService
	logger           *zap.Logger
}

// NewRecordsController cria o RecordsController
func NewRecordsController(recordService *services.RecordService, documentoService *services.DocumentoService, logger *zap.Logger) *RecordsController {
	return &RecordsController{
		recordService:    recordService,
		documentoService: documentoService,
		logger:           logger,
	}
}

// Listar handler de listagem para um recurso lógico (novo ou legado); aliases
// dobram para o mesmo recurso canônico e o mesmo transformador
func (rc *RecordsController) Listar(recurso string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts requests.ListOptions
		if err := c.ShouldBindQuery(&opts); err != nil {
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{
				Error:   "INVALID_REQUEST",
				Message: "Parâmetros inválidos: " + err.Error(),
			})
			return
		}

		canonico, err := backend.Canonical(recurso)
		if err != nil {
			c.JSON(http.StatusNotFound, responses.ErrorResponse{
				Error:   "UNKNOWN_RESOURCE",
				Message: "Recurso desconhecido: " + recurso,
			})
			return
		}

		ctx := c.Request.Context()
		token := c.GetHeader("Authorization")

		switch canonico {
		case "empresas":
			responder(c, rc.logger)(rc.recordService.ListEmpresas(ctx, opts, token))
		case "licencas":
			responder(c, rc.logger)(rc.recordService.ListLicencas(ctx, opts, token))
		case "taxas":
			responder(c, rc.logger)(rc.recordService.ListTaxas(ctx, opts, token))
		case "certificados":
			responder(c, rc.logger)(rc.recordService.ListCertificados(ctx, opts, token))
		case "alertas":
			responder(c, rc.logger)(rc.recordService.ListAlertas(ctx, opts, token))
		default:
			responder(c, rc.logger)(rc.recordService.ListGenerico(ctx, canonico, opts, token))
		}
	}
}

// GetDocumento listagem de arquivos por documento (cacheada por chave)
func (rc *RecordsController) GetDocumento(c *gin.Context) {
	documento := c.Param("documento")

	listing, err := rc.documentoService.Lookup(c.Request.Context(), documento, c.GetHeader("Authorization"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, backend.ErrRecursoDesconhecido) {
			status = http.StatusNotFound
		}
		c.JSON(status, responses.ErrorResponse{
			Error:   "LOOKUP_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// EmitirCertificado repassa a emissão ao backend; em sucesso a listagem do
// documento é invalidada (refresh forçado por escrita)
func (rc *RecordsController) EmitirCertificado(c *gin.Context) {
	var payload models.RawRecord
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Payload inválido: " + err.Error(),
		})
		return
	}

	resp, err := rc.documentoService.EmitirCertificado(c.Request.Context(), payload, c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "EMISSAO_ERROR",
			Message: err.Error(),
		})
		return
	}

	if len(resp) > 0 && json.Valid(resp) {
		c.Data(http.StatusOK, "application/json", resp)
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true, Message: "Certificado emitido"})
}

// HealthCheck verificação de saúde do serviço
func (rc *RecordsController) HealthCheck(c *gin.Context) {
	uptime := time.Since(rc.recordService.GetStartTime())

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    uptime.String(),
		Version:   "1.0.0",
		Services: map[string]string{
			"normalizer": "healthy",
			"cache":      "healthy",
		},
	})
}

// responder serializa envelope ou erro de backend; o envelope não altera a
// forma iterável da coleção para consumidores que ignoram os metadados
func responder(c *gin.Context, logger *zap.Logger) func(any, error) {
	return func(envelope any, err error) {
		if err != nil {
			logger.Error("erro na listagem", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusBadGateway, responses.ErrorResponse{
				Error:   "BACKEND_ERROR",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, envelope)
	}
}
