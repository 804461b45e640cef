package models

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TableQR is an uploaded QR code image that points diners at a table's menu.
type TableQR struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	TableNumber string         `json:"table_number" gorm:"index"`
	FileName    string         `json:"file_name" gorm:"not null"`
	FileURL     string         `json:"file_url" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func SaveTableQR(db *gorm.DB, tableNumber, fileName, fileURL string) (*TableQR, error) {
	qr := &TableQR{
		TableNumber: tableNumber,
		FileName:    fileName,
		FileURL:     fileURL,
	}
	if err := db.Create(qr).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"table": tableNumber, "file": fileName}).Info("📁 Saved table QR")
	return qr, nil
}

func GetAllTableQRs(db *gorm.DB) ([]TableQR, error) {
	var files []TableQR
	if err := db.Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
