package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null"`
	Description string
	OrganizerID uint `gorm:"index;not null"`

	VenueLatitude  float64 `gorm:"not null"`
	VenueLongitude float64 `gorm:"not null"`

	RadiusMeters        float64 `gorm:"not null;default:500"`
	StrictMode          bool    `gorm:"not null;default:true"`
	AllowManualOverride bool    `gorm:"not null;default:false"`

	CheckInToken  string `gorm:"uniqueIndex;size:64"`
	CheckOutToken string `gorm:"uniqueIndex;size:64"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TokenGenerator produces the immutable check-in/check-out tokens for a
// newly created event, once its ID is known.
type TokenGenerator func(eventID uint) (checkIn, checkOut string)

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// Insert creates the event and assigns its action tokens in one
// transaction. Tokens embed the generated event ID, so they are written in
// a second statement before commit.
func (d *EventDAO) Insert(ctx context.Context, event Event, tokens TokenGenerator) (Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		event.CheckInToken, event.CheckOutToken = tokens(event.ID)

		return tx.Model(&Event{}).
			Where("id = ?", event.ID).
			Updates(map[string]interface{}{
				"check_in_token":  event.CheckInToken,
				"check_out_token": event.CheckOutToken,
			}).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("created_at desc").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByOrganizerID(ctx context.Context, organizerID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at desc").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}
