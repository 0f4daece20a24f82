package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DataHeader stores the verbatim submitted payload keyed by the data UUID
// referenced from TxnHeader.
type DataHeader struct {
	DataID    uuid.UUID      `gorm:"type:uuid;column:data_id;primaryKey" json:"data_id"`
	AssetData datatypes.JSON `gorm:"column:asset_data" json:"asset_data"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (DataHeader) TableName() string {
	return "data_header"
}
