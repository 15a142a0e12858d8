package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/api/metrics"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

type ProviderHandler struct {
	service ports.ProviderService
	log     zerolog.Logger
}

func NewProviderHandler(service ports.ProviderService, log zerolog.Logger) *ProviderHandler {
	return &ProviderHandler{service: service, log: log}
}

// List returns the caller's providers.
//
// @Summary      List providers
// @Tags         providers
// @Produce      json
// @Security     BearerAuth
// @Param        all  query     bool  false  "List every provider instead of only the caller's"
// @Success      200  {object}  providerListResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/providers [get]
func (h *ProviderHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	all, _ := strconv.ParseBool(c.QueryParam("all"))

	providers, err := h.service.List(c.Request().Context(), ports.ListProvidersInput{CallerID: userID, All: all})
	if err != nil {
		return h.failed("list", "Error retrieving providers", err)
	}

	h.succeeded("list")
	h.log.Info().Int("count", len(providers)).Msg("providers listed")
	return c.JSON(http.StatusOK, providerListResponse{
		Message: "Providers retrieved successfully",
		Data:    providers,
	})
}

// Create stores a provider. Snake_case keys are accepted as aliases.
//
// @Summary      Create a provider
// @Tags         providers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProviderRequest  true  "Provider"
// @Success      201   {object}  providerResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /api/providers [post]
func (h *ProviderHandler) Create(c echo.Context) error {
	const summary = "Error creating provider"

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var payload providerPayload
	if err := c.Bind(&payload); err != nil {
		return h.failed("create", summary, errInvalidPayload)
	}
	req := payload.toCanonical().toCreateRequest()
	if err := c.Validate(&req); err != nil {
		h.log.Warn().Err(err).Msg("provider validation failed")
		return h.failed("create", summary, err)
	}

	p, err := h.service.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return h.failed("create", summary, err)
	}

	h.succeeded("create")
	return c.JSON(http.StatusCreated, providerResponse{Message: "Provider created successfully", Data: p})
}

// Get returns one provider.
//
// @Summary      Get a provider
// @Tags         providers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  providerResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/providers/{id} [get]
func (h *ProviderHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.failed("get", "Error retrieving provider", err)
	}

	h.succeeded("get")
	return c.JSON(http.StatusOK, providerResponse{Message: "Provider retrieved successfully", Data: p})
}

// Update applies a partial update; absent fields are left untouched.
//
// @Summary      Update a provider
// @Tags         providers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Provider ID"
// @Param        body  body      providerFields  true  "Fields to change"
// @Success      200   {object}  providerResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /api/providers/{id} [put]
// @Router       /api/providers/{id} [patch]
func (h *ProviderHandler) Update(c echo.Context) error {
	const summary = "Error updating provider"

	var payload providerPayload
	if err := c.Bind(&payload); err != nil {
		return h.failed("update", summary, errInvalidPayload)
	}
	fields := payload.toCanonical()
	if err := c.Validate(&fields); err != nil {
		return h.failed("update", summary, err)
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), fields.toPatch())
	if err != nil {
		return h.failed("update", summary, err)
	}

	h.succeeded("update")
	return c.JSON(http.StatusOK, providerResponse{Message: "Provider updated successfully", Data: p})
}

// Delete removes a provider.
//
// @Summary      Delete a provider
// @Tags         providers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/providers/{id} [delete]
func (h *ProviderHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.failed("delete", "Error deleting provider", err)
	}

	h.succeeded("delete")
	return c.JSON(http.StatusOK, messageResponse{Message: "Provider deleted successfully"})
}

func (h *ProviderHandler) succeeded(op string) {
	metrics.ProviderOperationsTotal.WithLabelValues(op, "success").Inc()
}

func (h *ProviderHandler) failed(op, summary string, err error) error {
	metrics.ProviderOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
	return fail(summary, err)
}
