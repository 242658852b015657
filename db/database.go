package db

import "gorm.io/gorm"

// Database wraps the gorm handle used by the relational repositories, so
// handlers and repositories stay testable against any dialector.
type Database interface {
	GetDB() *gorm.DB
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }
