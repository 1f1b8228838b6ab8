package domain

// BaseModel carries the store-assigned identifier shared by every record kind.
type BaseModel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
}

// PrimaryKey returns the record identifier; zero means not yet stored.
func (m BaseModel) PrimaryKey() uint { return m.ID }

// Entity is implemented by every persisted record kind.
type Entity interface {
	TableName() string
	PrimaryKey() uint
}

// BranchSummary is the compact form of a Branch nested inside other records.
type BranchSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}
