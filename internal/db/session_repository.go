package db

import (
	"github.com/YahyaMS/sukari/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) FindActiveByUser(userID uint) (models.FastingSession, bool, error) {
	session := models.FastingSession{}
	result := repo.database.
		Where("user_id = ? AND status = ?", userID, models.SessionStatusActive).
		Order("start_time DESC").
		Limit(1).
		Find(&session)
	if result.Error != nil {
		return models.FastingSession{}, false, classifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.FastingSession{}, false, nil
	}
	return session, true, nil
}

func (repo *SessionRepository) FindByIDForUser(sessionID string, userID uint) (models.FastingSession, bool, error) {
	session := models.FastingSession{}
	result := repo.database.
		Where("id = ? AND user_id = ?", sessionID, userID).
		Limit(1).
		Find(&session)
	if result.Error != nil {
		return models.FastingSession{}, false, classifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.FastingSession{}, false, nil
	}
	return session, true, nil
}

func (repo *SessionRepository) Create(session *models.FastingSession) error {
	return classifyError(repo.database.Create(session).Error)
}

func (repo *SessionRepository) Save(session *models.FastingSession) error {
	return classifyError(repo.database.Save(session).Error)
}

func (repo *SessionRepository) ListByUser(userID uint, limit int) ([]models.FastingSession, error) {
	query := repo.database.
		Where("user_id = ?", userID).
		Order("start_time DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	sessions := make([]models.FastingSession, 0)
	if err := query.Find(&sessions).Error; err != nil {
		return nil, classifyError(err)
	}
	return sessions, nil
}
