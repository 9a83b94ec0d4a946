// Package classify assigns an expense category from vendor and description
// keywords. The rules run in order; the first hit wins.
package classify

import (
	"strings"

	"github.com/expensetrackr/receipt-pipeline/constants"
)

type rule struct {
	category constants.Category
	keywords []string
}

var rules = []rule{
	{constants.FoodAndDrink, []string{
		"domino", "pizza", "starbucks", "mcdonald", "subway", "kfc", "burger",
		"restaurant", "cafe", "coffee", "food", "dining", "swiggy", "zomato",
		"dunkin", "taco", "chipotle", "bakery", "deli", "grill", "kitchen",
	}},
	{constants.Transportation, []string{
		"gas", "shell", "exxon", "chevron", "bp", "fuel", "petrol", "uber",
		"lyft", "ola", "taxi", "metro", "bus", "train", "parking", "toll",
	}},
	{constants.Shopping, []string{
		"walmart", "target", "amazon", "flipkart", "costco", "store", "mart",
		"shop", "mall", "retail", "clothing", "fashion", "electronics",
	}},
	{constants.Entertainment, []string{
		"movie", "cinema", "theater", "netflix", "spotify", "game", "concert",
		"ticket", "entertainment", "club", "bar",
	}},
	{constants.Healthcare, []string{
		"hospital", "pharmacy", "cvs", "walgreens", "clinic", "doctor",
		"medical", "health", "dental", "apollo", "medplus",
	}},
	{constants.Utilities, []string{
		"electric", "water", "internet", "phone", "mobile", "utility", "cable",
		"broadband", "airtel", "jio",
	}},
	{constants.Travel, []string{
		"hotel", "airline", "flight", "airways", "booking", "travel", "airbnb",
		"resort", "motel",
	}},
	{constants.Education, []string{
		"aws", "certified", "course", "school", "college", "university",
		"tuition", "book", "training", "exam",
	}},
	{constants.Business, []string{
		"office", "business", "corp", "llc", "inc", "supplies", "consulting",
	}},
}

// Categorize picks a category from the vendor and free-form description.
// Unknown input falls through to Other.
func Categorize(vendor, description string) constants.Category {
	haystack := strings.ToLower(vendor + " " + description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(haystack, kw) {
				return r.category
			}
		}
	}
	return constants.Other
}
