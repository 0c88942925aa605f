package handler

import (
	"io"
	"net/http"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/apierror"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/middleware"
)

// maxImportSize caps CSV uploads at 10 MB.
const maxImportSize = 10 << 20

type ImportsHandler struct{ svc service.ImportService }

func NewImportsHandler(svc service.ImportService) *ImportsHandler {
	return &ImportsHandler{svc: svc}
}

func readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file field"))
		return nil, false
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("File exceeds 10 MB"))
		return nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Unreadable file"))
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Unreadable file"))
		return nil, false
	}
	return data, true
}

// Import godoc
// @Summary Bulk import sales from CSV
// @Description Processes the file row by row. Rejected rows and skipped duplicates are reported per row with the raw line; valid rows commit. An infrastructure failure aborts and the result reports the true committed count.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file (header: client_email, serial_number, sale_date, selling_price, [type, retail_price, profit_margin, notes])"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} apierror.APIError
// @Router /v1/transactions/import [post]
func (h *ImportsHandler) Import(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	result, err := h.svc.Import(c.Request.Context(), userID, data)
	if err != nil {
		if result != nil {
			// Partial commit: report what actually landed alongside the error.
			c.JSON(http.StatusInternalServerError, gin.H{
				"detail": err.Error(),
				"result": result,
			})
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Preview godoc
// @Summary Dry-run a CSV import
// @Description Runs the identical validation and duplicate detection without writing anything.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} apierror.APIError
// @Router /v1/transactions/import/preview [post]
func (h *ImportsHandler) Preview(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	result, err := h.svc.Preview(c.Request.Context(), userID, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}
