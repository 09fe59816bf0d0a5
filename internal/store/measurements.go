package store

import (
	"context"

	"gorm.io/gorm"
)

// CreateMeasurements stores the first measurement set of an existing user.
func (s *Store) CreateMeasurements(ctx context.Context, userID uint, in MeasurementsInput) (*Measurements, error) {
	m := &Measurements{
		UserID: userID,
		Bust:   in.Bust,
		Waist:  in.Waist,
		Hip:    in.Hip,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&User{}, userID).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, translate(err, "create measurements")
	}
	return m, nil
}

// GetMeasurements returns the user's measurements with the user attached.
func (s *Store) GetMeasurements(ctx context.Context, userID uint) (*Measurements, error) {
	var m Measurements
	err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, translate(err, "get measurements")
	}
	return &m, nil
}

func (s *Store) UpdateMeasurements(ctx context.Context, userID uint, in MeasurementsInput) (*Measurements, error) {
	updates := map[string]any{}
	if in.Bust != nil {
		updates["bust"] = *in.Bust
	}
	if in.Waist != nil {
		updates["waist"] = *in.Waist
	}
	if in.Hip != nil {
		updates["hip"] = *in.Hip
	}

	var m Measurements
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&m).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&m, m.ID).Error
	})
	if err != nil {
		return nil, translate(err, "update measurements")
	}
	return &m, nil
}

func (s *Store) DeleteMeasurements(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Measurements{})
	if res.Error != nil {
		return translate(res.Error, "delete measurements")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete measurements")
	}
	return nil
}
