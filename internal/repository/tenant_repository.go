package repository

import (
	"dormitory-be-svc/internal/models"

	"gorm.io/gorm"
)

// TenantRepository defines the interface for tenant data operations
type TenantRepository interface {
	GetTenantByID(id uint) (*models.Tenant, error)
	GetTenantByRoomID(roomID uint) (*models.Tenant, error)
}

// tenantRepository implements TenantRepository
type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new instance of TenantRepository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{
		db: db,
	}
}

// GetTenantByID retrieves a tenant by ID
func (r *tenantRepository) GetTenantByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant

	err := r.db.Where("id = ?", id).First(&tenant).Error
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

// GetTenantByRoomID retrieves the tenant currently assigned to a room
func (r *tenantRepository) GetTenantByRoomID(roomID uint) (*models.Tenant, error) {
	var tenant models.Tenant

	err := r.db.Where("room_id = ?", roomID).First(&tenant).Error
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}
