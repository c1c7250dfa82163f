package store

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repository is what the store persists through.
type Repository interface {
	SavePoolSnapshot(snapshot *PoolSnapshot) error
	SaveQuote(quote *Quote) error
	SelectPoolSnapshots(pool string, limit int) ([]*PoolSnapshot, error)
	SelectQuote(requestId string) (*Quote, error)
}

type Dao struct {
	db *gorm.DB
}

var _ Repository = (*Dao)(nil)

func NewDao(dsn string) (*Dao, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	return NewDaoWithDB(db)
}

// NewDaoWithDB migrates the tables on an already opened connection.
func NewDaoWithDB(db *gorm.DB) (*Dao, error) {
	if err := db.AutoMigrate(&PoolSnapshot{}, &Quote{}); err != nil {
		return nil, err
	}
	return &Dao{db: db}, nil
}

func (dao *Dao) SavePoolSnapshot(snapshot *PoolSnapshot) error {
	return dao.db.Create(snapshot).Error
}

func (dao *Dao) SaveQuote(quote *Quote) error {
	return dao.db.Create(quote).Error
}

func (dao *Dao) SelectPoolSnapshots(pool string, limit int) ([]*PoolSnapshot, error) {
	snapshots := make([]*PoolSnapshot, 0)
	res := dao.db.Where("pool = ?", pool).Order("id desc").Limit(limit).Find(&snapshots)
	return snapshots, res.Error
}

func (dao *Dao) SelectQuote(requestId string) (*Quote, error) {
	quote := &Quote{}
	res := dao.db.Where("request_id = ?", requestId).First(quote)
	if res.Error != nil {
		return nil, res.Error
	}
	return quote, nil
}
