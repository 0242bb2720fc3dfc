package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserBadge{},
		&RewardGrant{},
		&Event{},
		&EventParticipant{},
		&Donation{},
		&Application{},
		&CompletionRequest{},
	)
}
