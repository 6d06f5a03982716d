package handler

import (
	"movie_curator/internal/service"
	"movie_curator/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IAdminHandler interface {
	FetchDbConfigs(c *fiber.Ctx) error
}

type AdminHandler struct {
	adminService service.IAdminService
}

func NewAdminHandler(adminService service.IAdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

//------------------------------------------
//------------------------------------------

// FetchDbConfigs godoc
//
//	@Summary		Fetch Configs
//	@Description	Reload dynamic configs from mongodb.
//	@Tags			Admin
//	@Success		200				{object}	response.ResponseOKWithDataModel{data=configs.DbConfigData}
//	@Failure		401,403,502,503	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/fetch_configs [get]
func (m *AdminHandler) FetchDbConfigs(c *fiber.Ctx) error {
	data, err := m.adminService.FetchDbConfigs()
	if err != nil {
		return response.ResponseCuratorError(c, err)
	}

	return response.ResponseOKWithData(c, data)
}
