package db

import (
	"github.com/YahyaMS/sukari/internal/models"
	"gorm.io/gorm"
)

type SymptomRepository struct {
	database *gorm.DB
}

func NewSymptomRepository(database *gorm.DB) *SymptomRepository {
	return &SymptomRepository{database: database}
}

func (repo *SymptomRepository) Create(symptom *models.FastingSymptom) error {
	return classifyError(repo.database.Create(symptom).Error)
}

func (repo *SymptomRepository) ListBySession(sessionID string, userID uint) ([]models.FastingSymptom, error) {
	symptoms := make([]models.FastingSymptom, 0)
	if err := repo.database.
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("created_at ASC, id ASC").
		Find(&symptoms).Error; err != nil {
		return nil, classifyError(err)
	}
	return symptoms, nil
}
