package catalog

import (
	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedProducts returns the storefront's built-in product list.
func SeedProducts() []d.Product {
	return []d.Product{
		{
			ID:          "1",
			Name:        "Pure Organic Shea Butter",
			Description: "Our premium unrefined shea butter is sourced directly from women cooperatives in Northern Ghana. Hand-processed using traditional methods, this rich, ivory-colored butter retains all its natural vitamins and fatty acids. Perfect for moisturizing dry skin, reducing inflammation, and promoting skin healing.",
			Price:       decimal.RequireFromString("89.99"),
			Images:      []string{"/images/5994721327065450840.jpg", "/images/5994721327065450841.jpg"},
			Category:    d.CategoryButter,
			Features: []string{
				"100% organic and unrefined",
				"Rich in vitamins A, E, and F",
				"Multi-purpose for skin, hair, and nails",
				"No artificial additives or preservatives",
				"Sustainably harvested and fair trade certified",
			},
			InStock:    true,
			Rating:     4.8,
			Reviews:    127,
			IsFeatured: true,
			Weight:     "250g",
		},
		{
			ID:          "2",
			Name:        "Lavender Infused Shea Soap",
			Description: "Gentle cleansing with the soothing scent of lavender. Our hand-crafted shea soap combines premium Ghanaian shea butter with calming lavender essential oil. Creates a rich lather that cleanses without stripping your skin's natural oils.",
			Price:       decimal.RequireFromString("35.99"),
			Images:      []string{"/images/5994721327065450842.jpg"},
			Category:    d.CategorySoap,
			Features: []string{
				"Made with 30% unrefined shea butter",
				"Natural lavender essential oil",
				"No synthetic fragrances or colorants",
				"Moisturizing and gentle for all skin types",
				"Handcrafted in small batches",
			},
			InStock: true,
			Rating:  4.6,
			Reviews: 84,
			IsNew:   true,
			Weight:  "120g",
		},
		{
			ID:          "3",
			Name:        "Shea & Vanilla Body Cream",
			Description: "Luxurious body cream blending rich shea butter with warm vanilla. This deeply nourishing formula absorbs quickly, leaving your skin soft, supple, and delicately scented. The perfect daily moisturizer for dry to normal skin.",
			Price:       decimal.RequireFromString("65.99"),
			Images:      []string{"/images/5994721327065450843.jpg"},
			Category:    d.CategoryCream,
			Features: []string{
				"Whipped texture for easy application",
				"Long-lasting hydration",
				"Sweet vanilla scent",
				"Non-greasy formula",
				"Fortified with vitamin E",
			},
			InStock:    true,
			Rating:     4.9,
			Reviews:    59,
			IsFeatured: true,
			Weight:     "200g",
		},
		{
			ID:          "4",
			Name:        "Cold-Pressed Shea Oil",
			Description: "Our lightweight, non-greasy shea oil is extracted through cold-pressing to preserve all beneficial properties. Quickly absorbed, it nourishes deeply while protecting against environmental damage. Perfect as a daily face oil or body treatment.",
			Price:       decimal.RequireFromString("110.99"),
			Images:      []string{"/images/5994721327065450844.jpg"},
			Category:    d.CategoryOil,
			Features: []string{
				"100% cold-pressed extraction method",
				"High in essential fatty acids",
				"Suitable for sensitive skin",
				"Multi-purpose for face, body, and hair",
				"Lightweight, fast-absorbing formula",
			},
			InStock: true,
			Rating:  4.7,
			Reviews: 42,
			IsNew:   true,
			Weight:  "100ml",
		},
		{
			ID:          "5",
			Name:        "Citrus Mint Shea Soap",
			Description: "Refreshing soap bar combining zesty citrus oils with cooling mint and moisturizing shea butter. Leaves skin clean, invigorated, and hydrated. The perfect morning shower companion to wake up your senses.",
			Price:       decimal.RequireFromString("35.99"),
			Images:      []string{"/images/5994721327065450845.jpg"},
			Category:    d.CategorySoap,
			Features: []string{
				"Energizing citrus and mint essential oils",
				"Made with 30% unrefined shea butter",
				"Gentle exfoliating properties",
				"No artificial colors or preservatives",
				"Handmade in small batches",
			},
			InStock: true,
			Rating:  4.5,
			Reviews: 38,
			Weight:  "120g",
		},
		{
			ID:          "6",
			Name:        "Whipped Shea Body Butter",
			Description: "Luxuriously light whipped shea butter that melts on contact with skin. This intensive moisturizer is perfect for extremely dry skin, leaving it soft, smooth, and hydrated for up to 24 hours. The airy texture makes application a dream.",
			Price:       decimal.RequireFromString("75.99"),
			Images:      []string{"/images/5994721327065450846.jpg"},
			Category:    d.CategoryButter,
			Features: []string{
				"Whipped to a light, fluffy texture",
				"Extra concentrated formula",
				"Unscented option for sensitive skin",
				"Absorbs completely with no greasy residue",
				"Ideal for rough areas like elbows and heels",
			},
			InStock:    true,
			Rating:     4.9,
			Reviews:    63,
			IsNew:      true,
			IsFeatured: true,
			Weight:     "180g",
		},
		{
			ID:          "7",
			Name:        "Coconut Shea Hair Mask",
			Description: "Intensive hair treatment combining the hydrating power of shea butter with nourishing coconut oil. This deep conditioning mask repairs damaged strands, tames frizz, and adds brilliant shine. Perfect for all hair types, especially dry or color-treated hair.",
			Price:       decimal.RequireFromString("58.99"),
			Images:      []string{"/images/5994721327065450840.jpg"},
			Category:    d.CategoryCream,
			Features: []string{
				"Deep conditioning formula",
				"Coconut oil for additional moisture",
				"Heat-activated for deeper penetration",
				"Fortified with vitamin B5",
				"Free from silicones and parabens",
			},
			InStock: true,
			Rating:  4.7,
			Reviews: 51,
			Weight:  "250g",
		},
		{
			ID:          "8",
			Name:        "Shea & Argan Oil Serum",
			Description: "Powerful blend of shea and argan oils in a lightweight serum. This fast-absorbing treatment delivers intense hydration while fighting signs of aging. Use on face, hair ends, or cuticles for a boost of nourishment.",
			Price:       decimal.RequireFromString("120.99"),
			Images:      []string{"/images/5994721327065450843.jpg"},
			Category:    d.CategoryOil,
			Features: []string{
				"Combination of premium shea and argan oils",
				"Vitamin E for antioxidant protection",
				"Anti-aging properties",
				"Absorbs quickly with no oily residue",
				"Universal formula for face, hair, and nails",
			},
			InStock: true,
			Rating:  4.8,
			Reviews: 35,
			IsNew:   true,
			Weight:  "30ml",
		},
	}
}
