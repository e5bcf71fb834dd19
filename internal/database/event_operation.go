// Package database
package database

import (
	"context"
	"errors"
	. "github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"gorm.io/gorm"
	"time"
)

type EventOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewEventOperation(db *gorm.DB, queryTimeout time.Duration) *EventOperation {
	return &EventOperation{db: db, queryTimeout: queryTimeout}
}

func (eventOperation *EventOperation) NewEvent(name, location string, startDate, endDate time.Time, createdBy uint) *Event {
	return &Event{
		Name:      name,
		Location:  location,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedBy: createdBy,
	}
}

func (eventOperation *EventOperation) AddEvent(event *Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), eventOperation.queryTimeout)
	defer cancel()
	return eventOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(&EventMember{EventId: event.ID, UserId: event.CreatedBy}).Error
	})
}

func (eventOperation *EventOperation) GetEventById(id uint) (event *Event, err error) {
	event = &Event{}
	ctx, cancel := context.WithTimeout(context.Background(), eventOperation.queryTimeout)
	defer cancel()
	err = eventOperation.db.WithContext(ctx).Where("id = ?", id).First(event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrEventNotFound
	}
	return
}

func (eventOperation *EventOperation) EventExists(id uint) (exists bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), eventOperation.queryTimeout)
	defer cancel()
	var count int64
	err = eventOperation.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (eventOperation *EventOperation) GetEventsByMember(uid uint, page, pageSize int) (events []*Event, total int64, err error) {
	events = make([]*Event, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), eventOperation.queryTimeout)
	defer cancel()
	query := eventOperation.db.WithContext(ctx).Model(&Event{}).
		Joins("JOIN event_members ON event_members.event_id = events.id").
		Where("event_members.user_id = ?", uid)
	if err = query.Count(&total).Error; err != nil {
		return
	}
	err = query.Order("events.start_date desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&events).Error
	return
}

func (eventOperation *EventOperation) AddMember(eventId, uid uint) error {
	ctx, cancel := context.WithTimeout(context.Background(), eventOperation.queryTimeout)
	defer cancel()
	return eventOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Event{}).Where("id = ?", eventId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrEventNotFound
		}
		if err := tx.Model(&User{}).Where("id = ?", uid).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		if err := tx.Model(&EventMember{}).Where("event_id = ? AND user_id = ?", eventId, uid).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}
		return tx.Create(&EventMember{EventId: eventId, UserId: uid}).Error
	})
}

func (eventOperation *EventOperation) IsMember(eventId, uid uint) (member bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), eventOperation.queryTimeout)
	defer cancel()
	var count int64
	err = eventOperation.db.WithContext(ctx).Model(&EventMember{}).
		Where("event_id = ? AND user_id = ?", eventId, uid).
		Count(&count).Error
	return count > 0, err
}
