package models

// Product represents a catalog entry. The price is kept as the text the
// uploader supplied.
type Product struct {
	ID           string `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name         string `json:"name" bson:"name"`
	Materials    string `json:"materials" bson:"materials"`
	MaterialName string `json:"materialName" bson:"materialName"`
	Image        string `json:"image" bson:"image"`
	PricePound   string `json:"pricePound" bson:"pricePound"`
	Description  string `json:"description" bson:"description"`
}
