package service

import (
	"log"
	"time"

	"contactbox/internal/models"
)

type MessageRepository interface {
	Save(msg models.Message) (models.Message, error)
	FindByID(id string) (*models.Message, error)
	FindByEmail(email string) (*models.Message, error)
	FindByFingerprint(fingerprint string) (*models.Message, error)
	FindAll() ([]models.Message, error)
	ExistsByID(id string) (bool, error)
	DeleteByID(id string) error
	DeleteAll() error
}

type Notifier interface {
	SendNotification(name, email, body, fingerprint, messageID string) error
	SendConfirmation(name, email, messageID string) error
}

type NotificationLedger interface {
	StoreNotified(messageID string, sentAt time.Time) error
}

// MessageService owns timestamp bookkeeping and hands freshly saved
// messages to the dispatcher. Email failure never fails the write.
type MessageService struct {
	repo       MessageRepository
	dispatcher *Dispatcher
}

func NewMessageService(repo MessageRepository, dispatcher *Dispatcher) *MessageService {
	return &MessageService{repo: repo, dispatcher: dispatcher}
}

func (s *MessageService) Save(req models.MessageRequest) (models.Message, error) {
	log.Printf("Saving new message for email: %s", req.Email)
	now := time.Now().UnixMilli()
	msg := models.Message{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		Fingerprint: req.Fingerprint,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	saved, err := s.repo.Save(msg)
	if err != nil {
		return models.Message{}, err
	}
	log.Printf("Message saved with ID: %s", saved.ID)
	if s.dispatcher != nil {
		s.dispatcher.Enqueue(saved)
	}
	return saved, nil
}

func (s *MessageService) Get(id string) (*models.Message, error) {
	return s.repo.FindByID(id)
}

func (s *MessageService) GetByEmail(email string) (*models.Message, error) {
	return s.repo.FindByEmail(email)
}

func (s *MessageService) GetByFingerprint(fingerprint string) (*models.Message, error) {
	return s.repo.FindByFingerprint(fingerprint)
}

func (s *MessageService) GetAll() ([]models.Message, error) {
	return s.repo.FindAll()
}

// Update merges the non-empty request fields onto the stored message and
// refreshes UpdatedAt. Returns nil when the id is unknown.
func (s *MessageService) Update(id string, req models.MessageRequest) (*models.Message, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		log.Printf("Message with ID %s not found for update", id)
		return nil, nil
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Message != "" {
		existing.Message = req.Message
	}
	if req.Fingerprint != "" {
		existing.Fingerprint = req.Fingerprint
	}
	existing.UpdatedAt = time.Now().UnixMilli()
	saved, err := s.repo.Save(*existing)
	if err != nil {
		return nil, err
	}
	log.Printf("Message with ID %s updated", id)
	return &saved, nil
}

// Delete reports false when the id is unknown, true after a removal.
func (s *MessageService) Delete(id string) (bool, error) {
	exists, err := s.repo.ExistsByID(id)
	if err != nil {
		return false, err
	}
	if !exists {
		log.Printf("Message with ID %s not found for deletion", id)
		return false, nil
	}
	if err := s.repo.DeleteByID(id); err != nil {
		return false, err
	}
	log.Printf("Message with ID %s deleted", id)
	return true, nil
}

func (s *MessageService) DeleteAll() error {
	log.Println("Deleting all messages")
	return s.repo.DeleteAll()
}
