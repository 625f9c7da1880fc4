package schema

// Collection is a row of the per-network collections table
type Collection struct {
	// ID is the collection contract address
	ID        string `gorm:"column:id"`
	Name      string `gorm:"column:name"`
	Creator   string `gorm:"column:creator"`
	CreatedAt int64  `gorm:"column:created_at"` // unix seconds
}
