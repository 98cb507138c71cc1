package repository

import (
	"workshop_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	ReplaceGroups(user *models.User, groups []models.Group) error
	GetOrCreateGroup(name string, normalize func(string) string) (*models.Group, bool, error)
	CreateProfile(profile *models.UserProfile) error
	UpdateProfile(profile *models.UserProfile) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.withRelations().First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.withRelations().Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) ReplaceGroups(user *models.User, groups []models.Group) error {
	return r.db.Model(user).Association("Groups").Replace(groups)
}

// GetOrCreateGroup returns the existing group whose name matches name once
// both pass through normalize, creating it under name otherwise. It reports
// whether the group had to be created.
func (r *userRepository) GetOrCreateGroup(name string, normalize func(string) string) (*models.Group, bool, error) {
	var groups []models.Group
	if err := r.db.Order("id ASC").Find(&groups).Error; err != nil {
		return nil, false, err
	}
	key := normalize(name)
	for i := range groups {
		if normalize(groups[i].Name) == key {
			return &groups[i], false, nil
		}
	}

	group := models.Group{Name: name}
	if err := r.db.Create(&group).Error; err != nil {
		return nil, false, err
	}
	return &group, true, nil
}

func (r *userRepository) CreateProfile(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

func (r *userRepository) UpdateProfile(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}

func (r *userRepository) withRelations() *gorm.DB {
	return r.db.Preload("Groups").Preload("Profile").Preload("Mechanic")
}
