package types

import (
	"time"

	"github.com/google/uuid"
)

// TxnHeader is the append-only audit/billing row written after every graph
// submission. Receiver is the account that submitted.
type TxnHeader struct {
	TxnID     uuid.UUID `gorm:"type:uuid;column:txn_id;primaryKey" json:"txn_id"`
	Progress  string    `gorm:"column:progress;not null;default:'complete'" json:"progress"`
	Request   string    `gorm:"column:request;not null;index:idx_txn_receiver_window,priority:2" json:"request"`
	Receiver  uuid.UUID `gorm:"type:uuid;column:receiver;not null;index:idx_txn_receiver_window,priority:1" json:"receiver"`
	PlayerID  string    `gorm:"column:player_id;index" json:"player_id"`
	DataID    uuid.UUID `gorm:"type:uuid;column:data_id" json:"data_id"`
	Points    int64     `gorm:"column:points;not null;default:0" json:"points"`
	CreatedAt time.Time `gorm:"not null;default:now();index:idx_txn_receiver_window,priority:3" json:"created_at"`
}

func (TxnHeader) TableName() string {
	return "txn_header"
}
