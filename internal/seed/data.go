package seed

import (
	"time"

	"github.com/epicdreams/storefront-backend/internal/settings"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

const (
	kellySlug = "kelly-layton"
	lloydSlug = "lloyd-frazier"

	// LloydSpotifyEmbed is the player URL the spotify-embed task merges into
	// Lloyd Frazier's socials.
	LloydSpotifyEmbed = "https://open.spotify.com/embed/artist/2KXWFz3CD7BXxrPfTk0xTw?utm_source=generator"

	defaultSingleCover = "https://images.unsplash.com/photo-1511379938547-c1f69419868d?w=800"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func artists() []models.Artist {
	return []models.Artist{
		{
			Name: "Kelly Layton",
			Slug: kellySlug,
			Bio: "Kelly Layton writes blues-soaked songs about the people who are no longer in the room. " +
				"Her debut record Empty Chair Blues was tracked live over four nights in a converted chapel.",
			HeroImage: "https://images.unsplash.com/photo-1516280440614-37939bbacd81?w=1600",
			Socials: types.StringMap{
				"instagram": "https://instagram.com/kellylaytonmusic",
				"youtube":   "https://youtube.com/@kellylayton",
				"tiktok":    "https://tiktok.com/@kellylayton",
				"spotify":   "https://open.spotify.com/artist/kellylayton",
			},
		},
		{
			Name: "Lloyd Frazier",
			Slug: lloydSlug,
			Bio: "Lloyd Frazier blends cinematic rock with worship and Broadway, releasing a new single " +
				"every couple of weeks alongside the full-length Windows to Heaven.",
			HeroImage: "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=1600",
			Socials: types.StringMap{
				"youtube":    "https://youtube.com/@lloydfrazier",
				"spotify":    "https://open.spotify.com/artist/2KXWFz3CD7BXxrPfTk0xTw",
				"appleMusic": "https://music.apple.com/us/artist/lloyd-frazier",
				"instagram":  "https://instagram.com/lloydfraziermusic",
			},
		},
	}
}

type releaseSeed struct {
	artist  string
	release models.Release
}

func albums() []releaseSeed {
	return []releaseSeed{
		{
			artist: kellySlug,
			release: models.Release{
				Title:       "Empty Chair Blues",
				Slug:        "empty-chair-blues",
				ReleaseDate: day(2025, 1, 1),
				CoverImage:  "https://images.unsplash.com/photo-1485579149621-3123dd979885?w=800",
				Tracks: types.Tracks{
					{Title: "Empty Chair Blues", Duration: "4:12"},
					{Title: "Porch Light", Duration: "3:48"},
					{Title: "Sunday Dress", Duration: "3:55"},
					{Title: "Two Cups of Coffee", Duration: "4:30"},
					{Title: "Ghost in the Hallway", Duration: "4:05"},
					{Title: "Last Dance at the Legion", Duration: "3:41"},
					{Title: "Letters I Never Sent", Duration: "4:22"},
					{Title: "Say Grace", Duration: "5:02"},
				},
				Links: types.StringMap{
					"spotify":    "https://open.spotify.com/album/empty-chair-blues",
					"appleMusic": "https://music.apple.com/us/album/empty-chair-blues",
					"youtube":    "https://youtube.com/playlist?list=empty-chair-blues",
				},
			},
		},
		{
			artist: lloydSlug,
			release: models.Release{
				Title:       "Windows to Heaven",
				Slug:        "windows-to-heaven",
				ReleaseDate: day(2025, 2, 14),
				CoverImage:  "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=800",
				Tracks: types.Tracks{
					{Title: "Windows to Heaven", Duration: "4:40"},
					{Title: "Morning Over Zion", Duration: "4:02"},
					{Title: "Cathedral of Pines", Duration: "3:58"},
					{Title: "Hold the Line", Duration: "4:15"},
					{Title: "Where the River Bends", Duration: "4:27"},
					{Title: "Lanterns", Duration: "3:36"},
					{Title: "Stone by Stone", Duration: "4:11"},
					{Title: "The Long Way Home", Duration: "4:48"},
					{Title: "Kingdom Light", Duration: "3:52"},
					{Title: "Still Small Voice", Duration: "4:19"},
					{Title: "Harbor", Duration: "3:44"},
					{Title: "Overture of Mercy", Duration: "5:10"},
					{Title: "Iron and Olive", Duration: "4:06"},
					{Title: "Amen (Reprise)", Duration: "2:58"},
				},
				Links: types.StringMap{
					"spotify":    "https://open.spotify.com/album/windows-to-heaven",
					"appleMusic": "https://music.apple.com/us/album/windows-to-heaven",
					"youtube":    "https://youtube.com/playlist?list=windows-to-heaven",
				},
			},
		},
	}
}

type single struct {
	title    string
	slug     string
	date     time.Time
	duration string
}

var lloydSingles = []single{
	{"My Cabin Down by the River", "my-cabin-down-by-the-river", day(2024, 12, 15), "4:15"},
	{"Ashes into Starlight", "ashes-into-starlight", day(2024, 12, 1), "3:58"},
	{"I'm Your Satellite", "im-your-satellite", day(2024, 11, 15), "4:02"},
	{"Heaven Chose to Weep", "heaven-chose-to-weep", day(2024, 11, 1), "4:22"},
	{"The Odyssey Within", "the-odyssey-within", day(2024, 10, 15), "4:45"},
	{"Forge of The Fathers", "forge-of-the-fathers", day(2024, 10, 1), "4:10"},
	{"Lullaby to Lady Fairwell", "lullaby-to-lady-fairwell", day(2024, 9, 15), "3:55"},
	{"Unconquerable", "unconquerable", day(2024, 9, 1), "4:18"},
	{"Forever and a Day", "forever-and-a-day", day(2024, 8, 15), "4:05"},
	{"Gravity and Ghosts", "gravity-and-ghosts", day(2024, 8, 1), "4:12"},
	{"Silence Keeps the Sorrow", "silence-keeps-the-sorrow", day(2024, 7, 15), "4:28"},
	{"Re-Crowns Broken Kings", "re-crowns-broken-kings", day(2024, 7, 1), "4:35"},
	{"Forgiven", "forgiven", day(2024, 6, 15), "3:48"},
	{"What Never Came", "what-never-came", day(2024, 6, 1), "4:02"},
	{"Petals on the Forge", "petals-on-the-forge", day(2024, 5, 15), "4:15"},
	{"Machine", "machine", day(2024, 5, 1), "3:55"},
	{"Let Him Scream", "let-him-scream", day(2024, 4, 15), "4:08"},
	{"Weathered Hearts", "weathered-hearts", day(2024, 4, 1), "4:22"},
	{"Written in My Bones", "written-in-my-bones", day(2024, 3, 15), "4:05"},
	{"Sweet like Honey", "sweet-like-honey", day(2024, 3, 1), "3:42"},
	{"My Father's Son", "my-fathers-son", day(2024, 2, 15), "4:18"},
	{"Wounds Of Grace", "wounds-of-grace", day(2024, 2, 1), "4:32"},
	{"Ash to Flame", "ash-to-flame", day(2024, 1, 15), "4:05"},
	{"Hosanna!", "hosanna", day(2024, 1, 1), "3:55"},
	{"Hosanna Christ our King", "hosanna-christ-our-king", day(2023, 12, 15), "4:12"},
	{"Send Me an Angel Send Me Grace", "send-me-an-angel-send-me-grace", day(2023, 12, 1), "4:28"},
	{"Small Steps from Heaven", "small-steps-from-heaven", day(2023, 11, 15), "4:02"},
	{"Even Heroes Lay Down Their Capes (Acoustic)", "even-heroes-lay-down-their-capes-acoustic", day(2023, 11, 1), "4:45"},
	{"The Kisses We Remember", "the-kisses-we-remember", day(2023, 10, 15), "3:58"},
	{"Even Heroes Lay Down Their Capes", "even-heroes-lay-down-their-capes", day(2023, 10, 1), "4:22"},
	{"Stripling Warriors", "stripling-warriors", day(2023, 9, 15), "4:35"},
	{"Odyssey Within: When Metal Meets Broadway", "odyssey-within-when-metal-meets-broadway", day(2023, 9, 1), "5:12"},
	{"Perfect You Imperfect Me Gone Country", "perfect-you-imperfect-me-gone-country", day(2023, 8, 15), "4:08"},
	{"The Time Tales of David", "the-time-tales-of-david", day(2023, 8, 1), "4:42"},
}

func singles() []releaseSeed {
	out := make([]releaseSeed, 0, len(lloydSingles))
	for _, s := range lloydSingles {
		out = append(out, releaseSeed{
			artist: lloydSlug,
			release: models.Release{
				Title:       s.title,
				Slug:        s.slug,
				ReleaseDate: s.date,
				CoverImage:  defaultSingleCover,
				Tracks:      types.Tracks{{Title: s.title, Duration: s.duration}},
				Links: types.StringMap{
					"spotify": "https://open.spotify.com/artist/2KXWFz3CD7BXxrPfTk0xTw",
					"youtube": "https://youtube.com/@lloydfrazier",
				},
			},
		})
	}
	return out
}

func products() []models.Product {
	return []models.Product{
		{
			Title:       "Epic Dreams Signature Tee",
			Slug:        "epic-dreams-signature-tee",
			Description: "Heavyweight cotton tee with the Epic Dreams crest screen printed on the chest.",
			Featured:    true,
			Images: []models.ProductImage{
				{URL: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=1200", Alt: "Black signature tee front", SortOrder: 0},
				{URL: "https://images.unsplash.com/photo-1503341504253-dff4815485f1?w=1200", Alt: "Black signature tee back", SortOrder: 1},
			},
			Variants: []models.Variant{
				apparel("S", "TEE-BLK-S", 3200, 25, false),
				apparel("M", "TEE-BLK-M", 3200, 35, false),
				apparel("L", "TEE-BLK-L", 3200, 32, false),
				apparel("XL", "TEE-BLK-XL-SIGNED", 4800, 10, true),
			},
		},
		{
			Title:       "Midnight Pulse Hoodie",
			Slug:        "midnight-pulse-hoodie",
			Description: "Brushed fleece hoodie with a tonal Midnight Pulse print.",
			Featured:    true,
			Images: []models.ProductImage{
				{URL: "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=1200", Alt: "Midnight Pulse hoodie", SortOrder: 0},
			},
			Variants: []models.Variant{
				apparel("M", "HOOD-BLK-M", 6800, 20, false),
				apparel("L", "HOOD-BLK-L", 6800, 18, false),
				apparel("XL", "HOOD-BLK-XL-SIGNED", 8800, 5, true),
			},
		},
		{
			Title:       "Empty Chair Blues Poster",
			Slug:        "empty-chair-blues-poster",
			Description: "18x24 album art poster printed on archival matte stock.",
			Images: []models.ProductImage{
				{URL: "https://images.unsplash.com/photo-1485579149621-3123dd979885?w=1200", Alt: "Empty Chair Blues poster", SortOrder: 0},
			},
			Variants: []models.Variant{
				{
					Name: "18x24 Matte", SKU: "POST-EMPTY-STD", PriceCents: 2600, Inventory: 40,
					Attributes: models.VariantAttributes{Size: "18x24", Finish: "Matte"},
				},
				{
					Name: "18x24 Matte / Signed", SKU: "POST-EMPTY-SIGNED", PriceCents: 4600, Inventory: 8,
					Attributes: models.VariantAttributes{Size: "18x24", Finish: "Matte", Signed: true},
				},
			},
		},
		{
			Title:       "Neon Crest Snapback",
			Slug:        "neon-crest-snapback",
			Description: "Structured snapback with an embroidered neon crest.",
			Images: []models.ProductImage{
				{URL: "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=1200", Alt: "Neon Crest snapback", SortOrder: 0},
			},
			Variants: []models.Variant{
				{
					Name: "OS / Black", SKU: "HAT-NEON-OS", PriceCents: 3600, Inventory: 50,
					Attributes: models.VariantAttributes{Size: "OS", Color: "Black"},
				},
			},
		},
		{
			Title:       "Dream Glyph Sticker Pack",
			Slug:        "dream-glyph-sticker-pack",
			Description: "Five weatherproof vinyl stickers from the Dream Glyph series.",
			Images: []models.ProductImage{
				{URL: "https://images.unsplash.com/photo-1572375992501-4b0892d50c69?w=1200", Alt: "Dream Glyph stickers", SortOrder: 0},
			},
			Variants: []models.Variant{
				{
					Name: "5 Pack", SKU: "STICKER-GLYPH-5", PriceCents: 1200, Inventory: 100,
					Attributes: models.VariantAttributes{Quantity: 5},
				},
			},
		},
	}
}

func apparel(size, sku string, price int64, inventory int, signed bool) models.Variant {
	name := size + " / Black"
	if signed {
		name += " / Signed"
	}
	return models.Variant{
		Name:       name,
		SKU:        sku,
		PriceCents: price,
		Inventory:  inventory,
		Attributes: models.VariantAttributes{Size: size, Color: "Black", Signed: signed},
	}
}

// collectionSeeds pairs each collection with the slug keyword that places a
// product in it. The signed collection is assigned by variant instead.
var collectionSeeds = []struct {
	collection models.Collection
	keyword    string
}{
	{models.Collection{Title: "Tees", Slug: "tees"}, "tee"},
	{models.Collection{Title: "Hoodies", Slug: "hoodies"}, "hoodie"},
	{models.Collection{Title: "Hats", Slug: "hats"}, "snapback"},
	{models.Collection{Title: "Posters", Slug: "posters"}, "poster"},
	{models.Collection{Title: "Stickers", Slug: "stickers"}, "sticker"},
	{models.Collection{Title: "Signed", Slug: signedCollection}, ""},
}

const signedCollection = "signed"

func discounts(now time.Time) []models.Discount {
	dreamLimit, shipLimit := 500, 100
	return []models.Discount{
		{Code: "DREAM10", Type: models.DiscountTypePercentage, Value: 10, StartsAt: &now, UsageLimit: &dreamLimit},
		{Code: "FREESHIP", Type: models.DiscountTypeFixed, Value: 500, StartsAt: &now, UsageLimit: &shipLimit},
	}
}

func posts(now time.Time) []models.Post {
	return []models.Post{
		{
			Title:       "Why Limited Drops Boost Merch Sales",
			Slug:        "why-limited-drops-boost-merch-sales",
			Excerpt:     "Scarcity gives fans a reason to show up on release day.",
			Content:     "Limited runs turn a merch table into an event. Signed variants and numbered posters give fans a story to tell, and a clear end date keeps inventory honest.",
			HeroImage:   "https://images.unsplash.com/photo-1514525253161-7a46d19cd819?w=1600",
			PublishedAt: &now,
		},
		{
			Title:       "How to Care for Printed Tees",
			Slug:        "how-to-care-for-printed-tees",
			Excerpt:     "Keep your prints sharp wash after wash.",
			Content:     "Turn the tee inside out, wash cold, and hang dry. Skip the iron on the print and your crest will outlast the tour.",
			HeroImage:   "https://images.unsplash.com/photo-1489987707025-afc232f7ea0f?w=1600",
			PublishedAt: &now,
		},
	}
}

func settingRows() []models.Setting {
	return []models.Setting{
		{Key: settings.KeyShipping, Value: types.JSONMap{
			"domestic_standard_cents":  500,
			"domestic_expedited_cents": 1500,
			"international_flat_cents": 2500,
		}},
		{Key: settings.KeyTax, Value: types.JSONMap{
			"enabled":              false,
			"default_rate_percent": 8.5,
		}},
		{Key: settings.KeyAnalytics, Value: types.JSONMap{
			"provider": "plausible",
		}},
		{Key: settings.KeySetupChecklist, Value: types.JSONMap{
			"stripe":    "Add STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET",
			"smtp":      "Configure SMTP credentials for password resets and contact mail",
			"analytics": "Connect the analytics provider",
			"shipping":  "Review shipping rates",
		}},
	}
}
