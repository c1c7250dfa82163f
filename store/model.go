package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type PoolSnapshot struct {
	Id         uint64          `gorm:"primaryKey;autoIncrement;type:bigint(20);not null"`
	Pool       string          `gorm:"index;type:varchar(48);not null"`
	Kind       string          `gorm:"type:varchar(16);not null"`
	CurveType  string          `gorm:"type:varchar(24);not null"`
	Parameter  uint64          `gorm:"type:bigint(20) unsigned;not null"`
	Slot       uint64          `gorm:"type:bigint(20) unsigned;not null"`
	ReserveA   uint64          `gorm:"type:bigint(20) unsigned;not null"`
	ReserveB   uint64          `gorm:"type:bigint(20) unsigned;not null"`
	PoolSupply uint64          `gorm:"type:bigint(20) unsigned;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(36,12);not null"`
	CreatedAt  time.Time
}

type Quote struct {
	RequestId       string `gorm:"primaryKey;type:varchar(36);not null"`
	Pool            string `gorm:"index;type:varchar(48);not null"`
	Operation       string `gorm:"type:varchar(32);not null"`
	Direction       string `gorm:"type:varchar(8);not null"`
	AmountIn        uint64 `gorm:"type:bigint(20) unsigned;not null"`
	AmountOut       uint64 `gorm:"type:bigint(20) unsigned;not null"`
	PoolTokenAmount uint64 `gorm:"type:bigint(20) unsigned;not null"`
	TokenAAmount    uint64 `gorm:"type:bigint(20) unsigned;not null"`
	TokenBAmount    uint64 `gorm:"type:bigint(20) unsigned;not null"`
	TradeFee        uint64 `gorm:"type:bigint(20) unsigned;not null"`
	OwnerFee        uint64 `gorm:"type:bigint(20) unsigned;not null"`
	Slot            uint64 `gorm:"type:bigint(20) unsigned;not null"`
	CreatedAt       time.Time
}
