package repository

import (
	"time"

	"passkey_mfa_ms/domain"

	"gorm.io/gorm"
)

type IPasskeyRepository interface {
	Create(db *gorm.DB, passkey *domain.Passkey) error
	GetByID(db *gorm.DB, employeeID uint, id uint) (*domain.Passkey, error)
	ListByEmployee(db *gorm.DB, employeeID uint) ([]domain.Passkey, error)
	ListActiveByEmployee(db *gorm.DB, employeeID uint) ([]domain.Passkey, error)
	CountActiveByEmployee(db *gorm.DB, employeeID uint) (int64, error)
	GetActiveByCredentialID(db *gorm.DB, employeeID uint, credentialID string) (*domain.Passkey, error)
	UpdateAfterLogin(db *gorm.DB, id uint, signCount uint32, lastUsedAt time.Time) error
	Rename(db *gorm.DB, employeeID uint, id uint, label string) error
	Deactivate(db *gorm.DB, employeeID uint, id uint) error
	Delete(db *gorm.DB, employeeID uint, id uint) error
}

type PasskeyRepository struct {
}

func NewPasskeyRepository() IPasskeyRepository {
	return &PasskeyRepository{}
}

func (r *PasskeyRepository) Create(db *gorm.DB, passkey *domain.Passkey) error {
	return db.Create(passkey).Error
}

func (r *PasskeyRepository) GetByID(db *gorm.DB, employeeID uint, id uint) (*domain.Passkey, error) {
	var passkey domain.Passkey
	err := db.Where("id = ? AND employee_id = ?", id, employeeID).First(&passkey).Error
	if err != nil {
		return nil, err
	}
	return &passkey, nil
}

func (r *PasskeyRepository) ListByEmployee(db *gorm.DB, employeeID uint) ([]domain.Passkey, error) {
	var passkeys []domain.Passkey
	err := db.Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&passkeys).Error
	if err != nil {
		return nil, err
	}
	return passkeys, nil
}

func (r *PasskeyRepository) ListActiveByEmployee(db *gorm.DB, employeeID uint) ([]domain.Passkey, error) {
	var passkeys []domain.Passkey
	err := db.Where("employee_id = ? AND active = ?", employeeID, true).
		Order("created_at DESC").
		Find(&passkeys).Error
	if err != nil {
		return nil, err
	}
	return passkeys, nil
}

func (r *PasskeyRepository) CountActiveByEmployee(db *gorm.DB, employeeID uint) (int64, error) {
	var count int64
	err := db.Model(&domain.Passkey{}).
		Where("employee_id = ? AND active = ?", employeeID, true).
		Count(&count).Error
	return count, err
}

// GetActiveByCredentialID is the assertion lookup, exact match on the
// stored credential id, scoped to the owner, active rows only.
func (r *PasskeyRepository) GetActiveByCredentialID(db *gorm.DB, employeeID uint, credentialID string) (*domain.Passkey, error) {
	var passkey domain.Passkey
	err := db.Where("employee_id = ? AND credential_id = ? AND active = ?", employeeID, credentialID, true).
		First(&passkey).Error
	if err != nil {
		return nil, err
	}
	return &passkey, nil
}

func (r *PasskeyRepository) UpdateAfterLogin(db *gorm.DB, id uint, signCount uint32, lastUsedAt time.Time) error {
	return db.Model(&domain.Passkey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sign_count":   signCount,
			"last_used_at": lastUsedAt,
			"updated_at":   lastUsedAt,
		}).Error
}

func (r *PasskeyRepository) Rename(db *gorm.DB, employeeID uint, id uint, label string) error {
	result := db.Model(&domain.Passkey{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Updates(map[string]interface{}{
			"label":      label,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PasskeyRepository) Deactivate(db *gorm.DB, employeeID uint, id uint) error {
	result := db.Model(&domain.Passkey{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PasskeyRepository) Delete(db *gorm.DB, employeeID uint, id uint) error {
	result := db.Where("id = ? AND employee_id = ?", id, employeeID).
		Delete(&domain.Passkey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
