package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/models"
	log "github.com/sirupsen/logrus"
)

// SeedReport counts what SeedDefaults inserted.
type SeedReport struct {
	Products int
	Variants int
	Faq      int
	Discord  bool
}

// Empty reports whether nothing was seeded.
func (r SeedReport) Empty() bool {
	return r.Products == 0 && r.Variants == 0 && r.Faq == 0 && !r.Discord
}

type seedProduct struct {
	product  ProductInput
	variants []VariantInput
}

const sampleImage = "https://images.unsplash.com/photo-%s?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400"

var defaultProducts = []seedProduct{
	{
		product: ProductInput{
			Name:              "APEX LEGENDS CHEAT",
			Description:       "Advanced ESP, aimbot, and triggerbot for Apex Legends. Undetected by anti-cheat systems.",
			Price:             "29.99",
			Features:          []string{"Wallhack ESP", "Aimbot with smoothing", "Triggerbot", "No recoil/spread"},
			ImageURL:          fmt.Sprintf(sampleImage, "1542751371-adc38448a05e"),
			Category:          "FPS",
			IsPopular:         true,
			SellAuthProductID: "436109",
		},
		variants: []VariantInput{
			{Name: "1 Month", Period: "1month", Price: "29.99", SellAuthVariantID: "634959", IsDefault: true},
			{Name: "3 Months", Period: "3month", Price: "80.97", Discount: "10% OFF", SellAuthVariantID: "634960"},
			{Name: "6 Months", Period: "6month", Price: "149.95", Discount: "17% OFF", SellAuthVariantID: "634961"},
			{Name: "12 Months", Period: "12month", Price: "269.91", Discount: "25% OFF", SellAuthVariantID: "634962"},
		},
	},
	{product: ProductInput{
		Name:        "VALORANT PRO TOOL",
		Description: "Professional Valorant enhancement suite with advanced anti-detection technology.",
		Price:       "39.99",
		Features:    []string{"Silent Aimbot", "Glow ESP", "Radar Hack", "Stream Proof"},
		ImageURL:    fmt.Sprintf(sampleImage, "1593305841991-05c297ba4575"),
		Category:    "FPS",
		IsNew:       true,
	}},
	{product: ProductInput{
		Name:         "WARZONE DOMINATOR",
		Description:  "Complete Warzone enhancement package with advanced features and lifetime updates.",
		Price:        "49.99",
		Features:     []string{"Magic Bullet", "2D Radar", "Vehicle ESP", "Loot ESP"},
		ImageURL:     fmt.Sprintf(sampleImage, "1511512578047-dfb367046420"),
		Category:     "FPS",
		IsBestseller: true,
	}},
	{product: ProductInput{
		Name:        "CS:GO ELITE HACK",
		Description: "Ultimate Counter-Strike enhancement with precision aimbot and advanced ESP systems.",
		Price:       "24.99",
		Features:    []string{"Precision Aimbot", "Bone ESP", "Bunny Hop", "Anti-Flash"},
		ImageURL:    fmt.Sprintf(sampleImage, "1542751371-adc38448a05e"),
		Category:    "FPS",
		IsPopular:   true,
	}},
	{product: ProductInput{
		Name:        "FORTNITE ADVANTAGE",
		Description: "Complete Fortnite enhancement suite with building assistance and combat improvements.",
		Price:       "34.99",
		Features:    []string{"Auto Build", "Player ESP", "Loot ESP", "No Spread"},
		ImageURL:    fmt.Sprintf(sampleImage, "1593305841991-05c297ba4575"),
		Category:    "Battle Royale",
		IsNew:       true,
	}},
	{product: ProductInput{
		Name:        "RUST SURVIVAL TOOL",
		Description: "Advanced Rust enhancement for resource gathering and PvP dominance.",
		Price:       "19.99",
		Features:    []string{"Resource ESP", "Player ESP", "No Recoil", "Auto Farm"},
		ImageURL:    fmt.Sprintf(sampleImage, "1511512578047-dfb367046420"),
		Category:    "Survival",
	}},
}

var defaultDiscord = DiscordInput{
	ServerID:     "kernal-wtf-server",
	MemberCount:  15234,
	OnlineCount:  8420,
	ReferralCode: "KERNAL2024",
	InviteURL:    "https://discord.gg/kernal",
}

var defaultFaq = []FaqInput{
	{
		Question: "Is it safe to use your cheats?",
		Answer:   "Yes, our cheats are developed with advanced anti-detection technology and are regularly updated to stay undetected by anti-cheat systems. However, we recommend using them responsibly and following our usage guidelines.",
		Order:    1,
	},
	{
		Question: "How do I download and install the software?",
		Answer:   "After purchase, you'll receive download links and detailed installation instructions via email. Our Discord community also provides step-by-step video guides and live support.",
		Order:    2,
	},
	{
		Question: "What payment methods do you accept?",
		Answer:   "We accept major credit cards, PayPal, cryptocurrency (Bitcoin, Ethereum), and various other secure payment methods to ensure your privacy and security.",
		Order:    3,
	},
	{
		Question: "Do you offer refunds?",
		Answer:   "We offer a 24-hour refund policy for first-time customers. If you encounter any issues with our software within the first 24 hours, contact our support team for assistance or a refund.",
		Order:    4,
	},
	{
		Question: "How often do you update your cheats?",
		Answer:   "Our development team works around the clock to ensure all cheats are updated within hours of any game patches. Subscribers receive automatic updates and notifications through our platform.",
		Order:    5,
	},
}

// SeedDefaults fills an empty storefront with sample products, the Discord stats row
// and the FAQ. Each group is skipped when it already has rows, so repeated runs are no-ops.
func (s *Service) SeedDefaults(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	var products int64
	if errCount := s.db.WithContext(ctx).Model(&models.Product{}).Count(&products).Error; errCount != nil {
		return report, fmt.Errorf("count products: %w", errCount)
	}
	if products == 0 {
		for _, seed := range defaultProducts {
			product, errCreate := s.CreateProduct(ctx, seed.product)
			if errCreate != nil {
				return report, fmt.Errorf("seed product %q: %w", seed.product.Name, errCreate)
			}
			report.Products++
			for _, variant := range seed.variants {
				variant.ProductID = product.ID
				if _, errVariant := s.CreateVariant(ctx, variant); errVariant != nil {
					return report, fmt.Errorf("seed variant %q: %w", variant.Name, errVariant)
				}
				report.Variants++
			}
		}
	}

	if _, errDiscord := s.GetDiscord(ctx); errDiscord != nil {
		if !errors.Is(errDiscord, apperr.ErrNotFound) {
			return report, errDiscord
		}
		if _, errUpsert := s.UpsertDiscord(ctx, defaultDiscord); errUpsert != nil {
			return report, fmt.Errorf("seed discord: %w", errUpsert)
		}
		report.Discord = true
	}

	var faq int64
	if errCount := s.db.WithContext(ctx).Model(&models.FaqItem{}).Count(&faq).Error; errCount != nil {
		return report, fmt.Errorf("count faq: %w", errCount)
	}
	if faq == 0 {
		for _, item := range defaultFaq {
			if _, errCreate := s.CreateFaq(ctx, item); errCreate != nil {
				return report, fmt.Errorf("seed faq: %w", errCreate)
			}
			report.Faq++
		}
	}

	if !report.Empty() {
		log.WithFields(log.Fields{
			"products": report.Products,
			"variants": report.Variants,
			"faq":      report.Faq,
			"discord":  report.Discord,
		}).Info("seeded default catalog data")
	}
	return report, nil
}
