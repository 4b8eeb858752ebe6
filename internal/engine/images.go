package engine

import "strings"

// imageRule maps a name keyword to a stock photo URL.
type imageRule struct {
	keyword string
	url     string
}

// The dataset's own image links are unreliable, so meal cards use keyword
// matched stock photos. First matching rule wins; order is broad-to-specific
// enough that it rarely matters.
var imageRules = []imageRule{
	{"smoothie", "https://images.unsplash.com/photo-1505252585461-04db1eb84625?w=800&q=80"},
	{"shake", "https://images.unsplash.com/photo-1505252585461-04db1eb84625?w=800&q=80"},
	{"salad", "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=800&q=80"},
	{"soup", "https://images.unsplash.com/photo-1476718406336-bb5a9690ee2a?w=800&q=80"},
	{"stew", "https://images.unsplash.com/photo-1476718406336-bb5a9690ee2a?w=800&q=80"},
	{"pizza", "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=800&q=80"},
	{"burger", "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=800&q=80"},
	{"pasta", "https://images.unsplash.com/photo-1473093295043-cdd812d0e601?w=800&q=80"},
	{"spaghetti", "https://images.unsplash.com/photo-1473093295043-cdd812d0e601?w=800&q=80"},
	{"chicken", "https://images.unsplash.com/photo-1604908176997-125f25cc6f3d?w=800&q=80"},
	{"beef", "https://images.unsplash.com/photo-1600891964092-4316c288032e?w=800&q=80"},
	{"steak", "https://images.unsplash.com/photo-1600891964092-4316c288032e?w=800&q=80"},
	{"pancake", "https://images.unsplash.com/photo-1506084868230-bb9d95c24759?w=800&q=80"},
	{"waffle", "https://images.unsplash.com/photo-1506084868230-bb9d95c24759?w=800&q=80"},
	{"cake", "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=800&q=80"},
	{"curry", "https://images.unsplash.com/photo-1631515243349-e0cb75fb8d3a?w=800&q=80"},
	{"sushi", "https://images.unsplash.com/photo-1579871494447-9811cf80d66c?w=800&q=80"},
	{"taco", "https://images.unsplash.com/photo-1551504734-5ee1c4a1479b?w=800&q=80"},
}

const defaultImageURL = "https://images.unsplash.com/photo-1490645935967-10de6ba17061?w=800&q=80"

// ImageFor picks a stock image URL from meal name and tag keywords. Pure and
// stateless; cosmetic only.
func ImageFor(name string, tags []string) string {
	name = strings.ToLower(name)
	for _, rule := range imageRules {
		if strings.Contains(name, rule.keyword) {
			return rule.url
		}
	}
	if hasAny(tags, "dessert") {
		return "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=800&q=80"
	}
	return defaultImageURL
}

func hasAny(tags []string, want string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), want) {
			return true
		}
	}
	return false
}
