package storage

import (
	"errors"
	"log"
	"time"

	"doubtroom/backend/internal/models"

	"gorm.io/gorm"
)

const requestWindow = time.Minute

var ErrUserNotFound = errors.New("user not found")

// SaveUser persists a user in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID loads a user by primary key.
func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", userID, err)
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail loads a user by unique email.
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveQuestion persists a question and bumps the room's question counter
// when the question is new.
func (s *Service) SaveQuestion(q *models.Question) error {
	isNew := q.ID == ""
	if err := s.DB.Save(q).Error; err != nil {
		log.Printf("ERROR: Failed to save question for room %s: %v", q.RoomID, err)
		return err
	}
	if isNew {
		return s.DB.Model(&models.Room{}).
			Where("id = ?", q.RoomID).
			Update("total_questions", gorm.Expr("total_questions + 1")).Error
	}
	return nil
}

// GetQuestionByID loads a question by primary key.
func (s *Service) GetQuestionByID(questionID string) (*models.Question, error) {
	var q models.Question
	err := s.DB.Where("id = ?", questionID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetQuestionsByRoom lists a room's questions: pinned first, open before
// resolved, newest first within each group.
func (s *Service) GetQuestionsByRoom(roomID string) ([]models.Question, error) {
	var questions []models.Question
	err := s.DB.Where("room_id = ?", roomID).
		Order("is_pinned DESC, is_resolved ASC, created_at DESC").
		Find(&questions).Error
	if err != nil {
		log.Printf("ERROR: Failed to get questions for room %s: %v", roomID, err)
		return nil, err
	}
	return questions, nil
}

// SaveAnswer persists an answer and bumps the question's answer counter
// when the answer is new.
func (s *Service) SaveAnswer(a *models.Answer) error {
	isNew := a.ID == ""
	if err := s.DB.Save(a).Error; err != nil {
		log.Printf("ERROR: Failed to save answer for question %s: %v", a.QuestionID, err)
		return err
	}
	if isNew {
		return s.DB.Model(&models.Question{}).
			Where("id = ?", a.QuestionID).
			Update("answer_count", gorm.Expr("answer_count + 1")).Error
	}
	return nil
}

// GetAnswerByID loads an answer by primary key.
func (s *Service) GetAnswerByID(answerID string) (*models.Answer, error) {
	var a models.Answer
	err := s.DB.Where("id = ?", answerID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAnswersByQuestion lists answers for a question, most voted first.
func (s *Service) GetAnswersByQuestion(questionID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.DB.Where("question_id = ?", questionID).
		Order("votes DESC, created_at ASC").
		Find(&answers).Error
	if err != nil {
		log.Printf("ERROR: Failed to get answers for question %s: %v", questionID, err)
		return nil, err
	}
	return answers, nil
}
