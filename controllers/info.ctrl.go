package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandlivre/grandlivre/lib/service"
)

// InfoController : Info controller struct
type InfoController struct {
	svc *service.LedgerService
}

func NewInfoController(svc *service.LedgerService) *InfoController {
	return &InfoController{svc: svc}
}

type InfoResponse struct {
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency"`
}

// GetInfo godoc
// @Summary      Service info
// @Description  Returns basic service information
// @Produce      json
// @Tags         Info
// @Success      200  {object}  InfoResponse
// @Router       /v1/info [get]
func (controller *InfoController) GetInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, &InfoResponse{
		Name:            "grandlivre",
		DefaultCurrency: controller.svc.Config.DefaultCurrency,
	})
}
