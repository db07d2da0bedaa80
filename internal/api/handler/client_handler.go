package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// maxImportSize caps the uploaded CSV.
const maxImportSize = 5 << 20

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create handles POST /v1/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cl, err := h.service.Create(c.Request().Context(), ports.CreateClientInput{
		OwnerID: owner,
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Notes:   req.Notes,
		Status:  domain.ClientStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClientResponse(cl))
}

// List handles GET /v1/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Match name, email or company"
// @Success      200     {object}  listResponse[clientResponse]
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	clients, err := h.service.List(c.Request().Context(), ports.ClientFilter{
		OwnerID: owner,
		Status:  domain.ClientStatus(c.QueryParam("status")),
		Search:  c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toClientResponses(clients)))
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cl, err := h.service.Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// Update handles PATCH /v1/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  clientResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cl, err := h.service.Update(c.Request().Context(), ports.UpdateClientInput{
		OwnerID: owner,
		ID:      c.Param("id"),
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Notes:   req.Notes,
		Status:  clientStatusPtr(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// Delete handles DELETE /v1/clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  string  true  "Client ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// LogContact handles POST /v1/clients/:id/contact.
//
// @Summary      Record a contact with the client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true   "Client ID"
// @Param        body  body      logContactRequest  false  "Optional note"
// @Success      200   {object}  clientResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/clients/{id}/contact [post]
func (h *ClientHandler) LogContact(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req logContactRequest
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	cl, err := h.service.LogContact(c.Request().Context(), owner, c.Param("id"), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// Import handles POST /v1/clients/import. The CSV is sent as the multipart
// field "file".
//
// @Summary      Import clients from CSV
// @Tags         clients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file with a header row"
// @Success      200   {object}  importClientsResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/clients/import [post]
func (h *ClientHandler) Import(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > maxImportSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file could not be read")
	}
	defer f.Close()

	res, err := h.service.ImportCSV(c.Request().Context(), owner, f)
	if err != nil {
		return err
	}

	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(http.StatusOK, importClientsResponse{
		Imported: toClientResponses(res.Imported),
		Errors:   errs,
	})
}
