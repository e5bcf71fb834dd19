// Package database
package database

import (
	"context"
	"errors"
	. "github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"gorm.io/gorm"
	"time"
)

type FlightScheduleOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
	batchSize    int
}

// NewFlightScheduleOperation batchSize为单条INSERT的行数上限, 整批仍在同一事务内
func NewFlightScheduleOperation(db *gorm.DB, queryTimeout time.Duration, batchSize int) *FlightScheduleOperation {
	return &FlightScheduleOperation{db: db, queryTimeout: queryTimeout, batchSize: batchSize}
}

func (flightOperation *FlightScheduleOperation) NewFlightSchedule(eventId uint) *FlightSchedule {
	return &FlightSchedule{
		EventId: eventId,
		Status:  FlightPending,
	}
}

func (flightOperation *FlightScheduleOperation) SaveFlightSchedules(flights []*FlightSchedule) error {
	if len(flights) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), flightOperation.queryTimeout)
	defer cancel()
	return flightOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(flights, flightOperation.batchSize).Error
	})
}

func (flightOperation *FlightScheduleOperation) GetFlightScheduleById(id uint) (flight *FlightSchedule, err error) {
	flight = &FlightSchedule{}
	ctx, cancel := context.WithTimeout(context.Background(), flightOperation.queryTimeout)
	defer cancel()
	err = flightOperation.db.WithContext(ctx).Where("id = ?", id).First(flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrFlightScheduleNotFound
	}
	return
}

func (flightOperation *FlightScheduleOperation) GetFlightSchedules(eventId uint, page, pageSize int) (flights []*FlightSchedule, total int64, err error) {
	flights = make([]*FlightSchedule, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), flightOperation.queryTimeout)
	defer cancel()
	query := flightOperation.db.WithContext(ctx).Model(&FlightSchedule{}).Where("event_id = ?", eventId)
	if err = query.Count(&total).Error; err != nil {
		return
	}
	err = query.Order("arrival_time, id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&flights).Error
	return
}

func (flightOperation *FlightScheduleOperation) UpdateFlightStatus(flight *FlightSchedule, status FlightStatus) error {
	if !status.IsValid() {
		return ErrInvalidFlightStatus
	}
	ctx, cancel := context.WithTimeout(context.Background(), flightOperation.queryTimeout)
	defer cancel()
	result := flightOperation.db.WithContext(ctx).Model(&FlightSchedule{}).
		Where("id = ?", flight.ID).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 部分数据库在值未变化时返回0行, 再确认一次记录是否存在
		var count int64
		if err := flightOperation.db.WithContext(ctx).Model(&FlightSchedule{}).Where("id = ?", flight.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrFlightScheduleNotFound
		}
	}
	flight.Status = status
	return nil
}
