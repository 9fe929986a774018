package api

import (
	"errors"
	"strings"

	"FairLens/internal/adapters"
	"FairLens/internal/domain/models"
	"FairLens/internal/fairness"
	"FairLens/internal/usecase"
	xhttp "FairLens/pkg/http"
	xlogger "FairLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuditEchoHandler implements the audit HTTP API.
type AuditEchoHandler struct {
	logger *xlogger.Logger
	svc    *usecase.AuditService
}

func NewAuditEchoHandler(logger *xlogger.Logger, svc *usecase.AuditService) *AuditEchoHandler {
	return &AuditEchoHandler{logger: logger, svc: svc}
}

func (h *AuditEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/audits", h.Audit)
	g.POST("/audits/dataset", h.AuditDataset)
	g.GET("/profiles", h.Profiles)
	g.GET("/profiles/:name", h.Profile)
	g.GET("/explanations", h.Explanations)
}

func (h *AuditEchoHandler) Audit(c echo.Context) error {
	req := &models.AuditRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	records := make([]fairness.GroupRecord, len(req.Records))
	for i, r := range req.Records {
		records[i] = fairness.GroupRecord{Group: r.Group, YTrue: r.YTrue, YPred: *r.YPred}
	}

	return h.run(c, records, req.Options)
}

func (h *AuditEchoHandler) AuditDataset(c echo.Context) error {
	req := &models.DatasetAuditRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	source := adapters.NewTabularSource(strings.NewReader(req.Dataset), req.GroupColumn, req.YTrueColumn, req.YPredColumn)
	records, err := source.Read(c.Request().Context())
	if err != nil {
		return h.auditError(c, err)
	}

	return h.run(c, records, req.Options)
}

func (h *AuditEchoHandler) run(c echo.Context, records []fairness.GroupRecord, opts models.AuditOptions) error {
	cfg := h.buildConfig(opts)

	report, err := h.svc.Audit(c.Request().Context(), records, cfg)
	if err != nil {
		return h.auditError(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

// buildConfig applies request overrides on top of the server defaults.
func (h *AuditEchoHandler) buildConfig(opts models.AuditOptions) fairness.Config {
	cfg := h.svc.DefaultConfig()
	if opts.Elasticity != nil {
		cfg.Elasticity = *opts.Elasticity
	}
	if opts.Profile != "" {
		cfg.Profile = opts.Profile
	}
	if len(opts.RequestedMetrics) > 0 {
		cfg.RequestedMetrics = opts.RequestedMetrics
	}
	if opts.ZeroOutcomePolicy != "" {
		cfg.ZeroOutcomePolicy = opts.ZeroOutcomePolicy
	}
	if opts.DistributionShift != nil {
		cfg.DistributionShift = *opts.DistributionShift
	}
	return cfg
}

// auditError maps engine errors to HTTP statuses: bad input and bad config
// are the caller's fault, everything else is ours.
func (h *AuditEchoHandler) auditError(c echo.Context, err error) error {
	var verr *fairness.ValidationError
	if errors.As(err, &verr) {
		return xhttp.UnprocessableResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_INVALID_DATA",
			Field:   verr.Field,
			Message: verr.Message,
		}})
	}
	var cerr *fairness.ConfigurationError
	if errors.As(err, &cerr) {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_INVALID_CONFIG",
			Field:   cerr.Field,
			Message: cerr.Message,
		}})
	}

	h.logger.Error("audit usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func (h *AuditEchoHandler) Profiles(c echo.Context) error {
	names := h.svc.Registry().Names()
	return xhttp.ListResponse(c, names, int64(len(names)))
}

func (h *AuditEchoHandler) Profile(c echo.Context) error {
	p, err := h.svc.Registry().Get(c.Param("name"))
	if err != nil {
		return xhttp.NotFoundResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *AuditEchoHandler) Explanations(c echo.Context) error {
	return xhttp.SuccessResponse(c, fairness.Explanations())
}

func (h *AuditEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
