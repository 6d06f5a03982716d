package service

import (
	"errors"
	"movie_curator/configs"
	"movie_curator/internal/repository"
	"movie_curator/model"
)

type IAdminService interface {
	FetchDbConfigs() (configs.DbConfigData, error)
	GetDbConfigs() configs.DbConfigData
}

type AdminService struct {
	AdminRepo repository.IAdminRepository
}

func NewAdminService(AdminRepo repository.IAdminRepository) *AdminService {
	service := &AdminService{
		AdminRepo: AdminRepo,
	}

	return service
}

//-----------------------------------------
//-----------------------------------------

func (m *AdminService) FetchDbConfigs() (configs.DbConfigData, error) {
	err := m.AdminRepo.ReloadDbConfigs()
	if errors.Is(err, repository.ErrMongoNotConfigured) {
		return configs.DbConfigData{}, model.NewConfigurationError("Dynamic configs are not configured.", err)
	}
	if err != nil {
		return configs.DbConfigData{}, model.NewTransportError("Failed to reload configs.", err)
	}
	return configs.GetDbConfigs(), nil
}

func (m *AdminService) GetDbConfigs() configs.DbConfigData {
	return configs.GetDbConfigs()
}
