package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thriftwear/storefront/config"
	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/mongodb"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the product catalog",
	Long:  `Loads the fixed demo product catalog into the products collection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
			return err
		}
		defer mongodb.Disconnect(ctx)

		products, err := mongodb.NewProductRepository(ctx, mongodb.GetDB())
		if err != nil {
			return err
		}

		for i, product := range seedProducts {
			p := product
			if err := products.CreateProduct(ctx, &p); err != nil {
				return err
			}
			log.Info().Int("n", i+1).Str("id", p.ID).Str("name", p.Name).Msg("seeded product")
		}
		log.Info().Int("count", len(seedProducts)).Msg("done seeding products")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedProducts is the demo catalog. Prices are in IDR.
var seedProducts = []domain.Product{
	{
		Category:    "Dress",
		Color:       "Pink",
		Description: "Smooth, comfortable dress with an elegant cut suitable for business wear.",
		Image:       "https://image.uniqlo.com/UQ/ST3/id/imagesgoods/462587/item/idgoods_11_462587.jpg?width=750",
		Name:        "AIRism Ultra Stretch Sleeveless Dress",
		Price:       399000,
		Shipping:    20000,
		Size:        "S",
	},
	{
		Category:    "T-Shirts (Short Sleeves)",
		Color:       "Purple",
		Description: "Smooth 'AIRism' cotton-look fabric. The loose-fitting cut and slightly shorter length make this stand out.",
		Image:       "https://image.uniqlo.com/UQ/ST3/AsianCommon/imagesgoods/457939/sub/goods_457939_sub14.jpg?width=750",
		Name:        "AIRism Cotton Short Sleeve T-Shirt",
		Price:       199000,
		Shipping:    20000,
		Size:        "L",
	},
	{
		Category:    "Hoodies",
		Color:       "Grey",
		Description: "Comfortable vintage style hoodie with drop shoulder design.",
		Image:       "https://hourscollection.com/cdn/shop/files/DropShoulderHoodie-VintageGrey-ClipTag2_800x.png?v=1735840181",
		Name:        "Vintage Drop Shoulder Hoodie",
		Price:       450000,
		Shipping:    20000,
		Size:        "M",
	},
	{
		Category:    "T-Shirts (Short Sleeves)",
		Color:       "Yellow",
		Description: "Vintage sun design t-shirt perfect for casual wear.",
		Image:       "https://img.freepik.com/premium-vector/sun-t-shirt-design_1138274-707.jpg?semt=ais_hybrid&w=740&q=80",
		Name:        "Vintage Sun T-Shirt",
		Price:       180000,
		Shipping:    20000,
		Size:        "M",
	},
	{
		Category:    "T-Shirts (Short Sleeves)",
		Color:       "White",
		Description: "Vintage collage design t-shirt with unique print.",
		Image:       "https://shop.dollyparton.com/cdn/shop/files/dolly-vintage-collage-tee-t-shirt-175.png?v=1716659308&width=1445",
		Name:        "Vintage Collage Tee",
		Price:       220000,
		Shipping:    20000,
		Size:        "L",
	},
	{
		Category:    "Jackets",
		Color:       "Black",
		Description: "Classic vintage leather jacket with modern comfort.",
		Image:       "https://img.freepik.com/free-photo/black-leather-jacket_1203-7918.jpg",
		Name:        "Vintage Leather Jacket",
		Price:       850000,
		Shipping:    25000,
		Size:        "L",
	},
	{
		Category:    "Dress",
		Color:       "Blue",
		Description: "Elegant blue midi dress perfect for any occasion.",
		Image:       "https://image.uniqlo.com/UQ/ST3/id/imagesgoods/462588/item/idgoods_65_462588.jpg?width=750",
		Name:        "AIRism Midi Dress",
		Price:       420000,
		Shipping:    20000,
		Size:        "M",
	},
	{
		Category:    "Pants",
		Color:       "Beige",
		Description: "Comfortable vintage wide leg pants.",
		Image:       "https://image.uniqlo.com/UQ/ST3/id/imagesgoods/462589/item/idgoods_30_462589.jpg?width=750",
		Name:        "Vintage Wide Leg Pants",
		Price:       380000,
		Shipping:    20000,
		Size:        "L",
	},
	{
		Category:    "T-Shirts (Short Sleeves)",
		Color:       "Green",
		Description: "Vintage graphic print t-shirt with retro design.",
		Image:       "https://img.freepik.com/free-photo/green-t-shirt_1203-7919.jpg",
		Name:        "Vintage Graphic Tee",
		Price:       195000,
		Shipping:    20000,
		Size:        "M",
	},
	{
		Category:    "Hoodies",
		Color:       "Navy",
		Description: "Classic navy hoodie with vintage wash.",
		Image:       "https://www.iloveugly.com/cdn/shop/files/1_cd7f6906-3e0b-4459-a11d-5ccbc5af4893.jpg?v=1723005065&width=2048",
		Name:        "Vintage Navy Hoodie",
		Price:       480000,
		Shipping:    20000,
		Size:        "XL",
	},
}
