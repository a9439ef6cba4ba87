package mysql

import (
	"storefront-service/internal/domain"
	mysqlrepo "storefront-service/internal/repository/mysql"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&domain.Order{}, &mysqlrepo.ArchivedOrder{}); err != nil {
		return nil, err
	}

	return db, nil
}
