package gem

import (
	"errors"

	"github.com/hiddenuae/gems-service/internal/locale"
)

// Emirate is one of the seven fixed regions a gem belongs to.
type Emirate string

const (
	Dubai        Emirate = "Dubai"
	AbuDhabi     Emirate = "Abu Dhabi"
	Sharjah      Emirate = "Sharjah"
	Ajman        Emirate = "Ajman"
	Fujairah     Emirate = "Fujairah"
	RasAlKhaimah Emirate = "Ras Al Khaimah"
	UmmAlQuwain  Emirate = "Umm Al Quwain"
)

// Emirates lists every emirate in display order.
var Emirates = []Emirate{Dubai, AbuDhabi, Sharjah, Ajman, Fujairah, RasAlKhaimah, UmmAlQuwain}

// Budget is the cost tier of visiting a gem.
type Budget string

const (
	BudgetFree Budget = "free"
	BudgetLow  Budget = "low"
	BudgetMid  Budget = "mid"
)

// Budgets lists every budget tier, cheapest first.
var Budgets = []Budget{BudgetFree, BudgetLow, BudgetMid}

// FallbackImage is served when a gem has no images of its own.
const FallbackImage = "/gems/al-qudra-lakes.svg"

// IsValidEmirate reports whether v names one of the seven emirates.
func IsValidEmirate(v string) bool {
	for _, e := range Emirates {
		if string(e) == v {
			return true
		}
	}
	return false
}

// IsValidBudget reports whether v is a known budget tier.
func IsValidBudget(v string) bool {
	for _, b := range Budgets {
		if string(b) == v {
			return true
		}
	}
	return false
}

// Coords is a WGS84 latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

// Gem is an immutable point-of-interest record from the catalog.
type Gem struct {
	ID            string   `json:"id" firestore:"id"`
	NameEN        string   `json:"name_en" firestore:"name_en"`
	NameAR        string   `json:"name_ar" firestore:"name_ar"`
	Emirate       Emirate  `json:"emirate" firestore:"emirate"`
	AreaEN        string   `json:"area_en" firestore:"area_en"`
	AreaAR        string   `json:"area_ar" firestore:"area_ar"`
	Budget        Budget   `json:"budget" firestore:"budget"`
	Photogenic    bool     `json:"photogenic" firestore:"photogenic"`
	Category      string   `json:"category" firestore:"category"`
	Coords        Coords   `json:"coords" firestore:"coords"`
	DescriptionEN string   `json:"description_en" firestore:"description_en"`
	DescriptionAR string   `json:"description_ar" firestore:"description_ar"`
	ImageURLs     []string `json:"images" firestore:"images"`
	GoogleMapsURL string   `json:"google_maps_url,omitempty" firestore:"google_maps_url"`
	Tags          []string `json:"tags" firestore:"tags"`
}

// Name returns the display name for l.
func (g Gem) Name(l locale.Locale) string {
	if l == locale.Arabic {
		return g.NameAR
	}
	return g.NameEN
}

// Area returns the area name for l.
func (g Gem) Area(l locale.Locale) string {
	if l == locale.Arabic {
		return g.AreaAR
	}
	return g.AreaEN
}

// Description returns the long description for l.
func (g Gem) Description(l locale.Locale) string {
	if l == locale.Arabic {
		return g.DescriptionAR
	}
	return g.DescriptionEN
}

// Images returns the gem's images, or the fallback image when it has none.
func (g Gem) Images() []string {
	if len(g.ImageURLs) == 0 {
		return []string{FallbackImage}
	}
	out := make([]string, len(g.ImageURLs))
	copy(out, g.ImageURLs)
	return out
}

var (
	// ErrNotFound indicates the gem id is not part of the current catalog.
	ErrNotFound = errors.New("gem not found")
	// ErrFetch indicates a catalog source could not be read or decoded.
	ErrFetch = errors.New("catalog fetch failed")
	// ErrUnsupportedSource indicates a catalog source URI with an unknown scheme.
	ErrUnsupportedSource = errors.New("unsupported catalog source")
)
