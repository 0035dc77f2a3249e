package model

// Closed vocabularies for wardrobe item metadata. Values are case-sensitive and
// shared by the vision response validation and user-driven metadata edits.

// Unknown is the catch-all member present in every vocabulary.
const Unknown = "unknown"

var Categories = []string{"top", "bottom", "shoes", "outerwear", "accessory", "other", Unknown}

var Colors = []string{
	"black", "white", "gray", "navy", "blue", "green", "red", "brown",
	"beige", "cream", "pink", "purple", "yellow", "orange", "multicolor", Unknown,
}

var Styles = []string{
	"casual", "formal", "streetwear", "athleisure", "business",
	"evening", "minimal", "vintage", "outdoors", Unknown,
}

func member(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidCategory reports whether v is a member of the category vocabulary.
func ValidCategory(v string) bool { return member(Categories, v) }

// ValidColor reports whether v is a member of the color vocabulary.
func ValidColor(v string) bool { return member(Colors, v) }

// ValidStyle reports whether v is a member of the style vocabulary.
func ValidStyle(v string) bool { return member(Styles, v) }
