package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry.
type Product struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	Name        string         `gorm:"type:varchar(255);not null"`              // Display name.
	Description string         `gorm:"type:text;not null"`                      // Marketing copy.
	Price       float64        `gorm:"type:decimal(10,2);not null;default:0"`   // Base monthly price.
	Period      string         `gorm:"type:varchar(32);not null;default:month"` // Billing period label.
	Features    datatypes.JSON `gorm:"not null"`                                // Ordered feature strings.
	ImageURL    string         `gorm:"type:text"`                               // Product image.
	Category    string         `gorm:"type:varchar(255)"`                       // Free-form category.

	IsPopular    bool `gorm:"not null;default:false"` // Popular badge.
	IsNew        bool `gorm:"not null;default:false"` // New badge.
	IsBestseller bool `gorm:"not null;default:false"` // Bestseller badge.

	SellAuthProductID string `gorm:"column:sellauth_product_id;type:varchar(64)"` // Upstream product id.
	SellAuthShopID    string `gorm:"column:sellauth_shop_id;type:varchar(64)"`    // Upstream shop id.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns the primary key.
func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// ProductVariant is a purchasable period/price option of a product.
type ProductVariant struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	ProductID         string  `gorm:"type:varchar(36);not null;index"`             // Owning product.
	Name              string  `gorm:"type:varchar(255);not null"`                  // Display name.
	Period            string  `gorm:"type:varchar(32);not null"`                   // Period label, e.g. 3month.
	Price             float64 `gorm:"type:decimal(10,2);not null"`                 // Variant price.
	Discount          *string `gorm:"type:varchar(64)"`                            // Optional badge, e.g. "10% OFF".
	SellAuthVariantID string  `gorm:"column:sellauth_variant_id;type:varchar(64)"` // Upstream variant id.
	IsDefault         bool    `gorm:"not null;default:false"`                      // Preselected variant.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// BeforeCreate assigns the primary key.
func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

// FaqItem is a question/answer pair.
type FaqItem struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	Question  string `gorm:"type:text;not null"`       // Question text.
	Answer    string `gorm:"type:text;not null"`       // Answer text.
	SortOrder int    `gorm:"not null;default:0;index"` // Ascending display order.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// BeforeCreate assigns the primary key.
func (f *FaqItem) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// DiscordData is the singleton community stats row.
type DiscordData struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	ServerID     string `gorm:"type:varchar(64)"`   // Guild id.
	MemberCount  int    `gorm:"not null;default:0"` // Approximate members.
	OnlineCount  int    `gorm:"not null;default:0"` // Approximate online members.
	ReferralCode string `gorm:"type:varchar(255)"`  // Invite code.
	InviteURL    string `gorm:"type:text"`          // Invite link.

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last refresh.
}

// BeforeCreate assigns the primary key.
func (d *DiscordData) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// TableName overrides the default table name.
func (DiscordData) TableName() string {
	return "discord_data"
}
