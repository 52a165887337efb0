package repository

import (
	"passkey_mfa_ms/domain"

	"gorm.io/gorm"
)

type IEmployeeRepository interface {
	GetByID(db *gorm.DB, id uint) (*domain.Employee, error)
	GetByEmail(db *gorm.DB, email string) (*domain.Employee, error)
	GetByIDWithPasskeys(db *gorm.DB, id uint) (*domain.Employee, error)
	GetByEmailWithPasskeys(db *gorm.DB, email string) (*domain.Employee, error)
}

type EmployeeRepository struct {
}

func NewEmployeeRepository() IEmployeeRepository {
	return &EmployeeRepository{}
}

func (r *EmployeeRepository) GetByID(db *gorm.DB, id uint) (*domain.Employee, error) {
	var employee domain.Employee
	if err := db.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) GetByEmail(db *gorm.DB, email string) (*domain.Employee, error) {
	var employee domain.Employee
	if err := db.Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) GetByIDWithPasskeys(db *gorm.DB, id uint) (*domain.Employee, error) {
	var employee domain.Employee
	if err := db.Preload("Passkeys").First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) GetByEmailWithPasskeys(db *gorm.DB, email string) (*domain.Employee, error) {
	var employee domain.Employee
	if err := db.Preload("Passkeys").Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}
