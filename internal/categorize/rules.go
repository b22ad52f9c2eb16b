package categorize

// Rule maps keyword substrings to a category/subcategory pair. Rules are
// scanned in declaration order and the first keyword hit wins, so more
// specific rules must come before broader ones (e.g. "uber eats" is listed
// under Food & Dining before "uber" appears under Transportation).
type Rule struct {
	Category    string
	Subcategory string
	Keywords    []string
}

// DefaultCategory and DefaultSubcategory are returned when no static rule
// and no learned pattern matches.
const (
	DefaultCategory    = "General"
	DefaultSubcategory = "Uncategorized"
)

// Confidence levels attached to a categorization result depending on where
// the match came from.
const (
	ruleMatchConfidence = 0.9
	defaultConfidence   = 0.3
)

// defaultRules is the ordered rule table. Keyword matching is
// case-insensitive substring matching against the transaction description.
var defaultRules = []Rule{
	{Category: "Food & Dining", Subcategory: "Groceries", Keywords: []string{
		"walmart", "target", "costco", "kroger", "safeway", "whole foods",
		"trader joe", "aldi", "publix", "wegmans", "grocery", "supermarket",
	}},
	{Category: "Food & Dining", Subcategory: "Coffee & Tea", Keywords: []string{
		"starbucks", "dunkin", "peet", "caribou", "coffee", "tea house",
	}},
	{Category: "Food & Dining", Subcategory: "Fast Food", Keywords: []string{
		"mcdonald", "burger king", "wendy", "taco bell", "kfc", "chick-fil-a",
		"subway", "chipotle", "five guys", "popeyes", "panda express",
	}},
	{Category: "Food & Dining", Subcategory: "Restaurants", Keywords: []string{
		"doordash", "uber eats", "grubhub", "restaurant", "grill", "bistro",
		"diner", "sushi", "pizza", "cafe", "eatery", "kitchen",
	}},
	{Category: "Housing", Subcategory: "Rent", Keywords: []string{
		"rent", "apartment", "property management", "leasing",
	}},
	{Category: "Housing", Subcategory: "Mortgage", Keywords: []string{
		"mortgage", "escrow",
	}},
	{Category: "Bills & Utilities", Subcategory: "Utilities", Keywords: []string{
		"electric", "power co", "water bill", "gas bill", "sewage", "trash",
		"utility",
	}},
	{Category: "Bills & Utilities", Subcategory: "Internet & Phone", Keywords: []string{
		"comcast", "xfinity", "verizon", "at&t", "t-mobile", "spectrum",
		"internet", "wireless",
	}},
	{Category: "Bills & Utilities", Subcategory: "Insurance", Keywords: []string{
		"insurance", "geico", "state farm", "allstate", "progressive",
	}},
	{Category: "Transportation", Subcategory: "Gas", Keywords: []string{
		"shell", "exxon", "chevron", "mobil", "texaco", "fuel", "gas station",
	}},
	{Category: "Transportation", Subcategory: "Rideshare", Keywords: []string{
		"uber", "lyft", "taxi",
	}},
	{Category: "Transportation", Subcategory: "Public Transit", Keywords: []string{
		"metro", "transit", "amtrak", "bus pass", "rail",
	}},
	{Category: "Transportation", Subcategory: "Parking", Keywords: []string{
		"parking", "toll",
	}},
	{Category: "Entertainment", Subcategory: "Streaming", Keywords: []string{
		"netflix", "hulu", "disney+", "hbo", "spotify", "paramount+",
		"peacock", "apple tv", "youtube premium", "crunchyroll",
	}},
	{Category: "Entertainment", Subcategory: "Movies & Events", Keywords: []string{
		"cinema", "theater", "ticketmaster", "concert", "movie",
	}},
	{Category: "Entertainment", Subcategory: "Games", Keywords: []string{
		"steam", "playstation", "xbox", "nintendo",
	}},
	{Category: "Shopping", Subcategory: "Online", Keywords: []string{
		"amazon", "ebay", "etsy",
	}},
	{Category: "Shopping", Subcategory: "Clothing", Keywords: []string{
		"nike", "adidas", "zara", "h&m", "nordstrom", "old navy",
	}},
	{Category: "Shopping", Subcategory: "Home", Keywords: []string{
		"home depot", "lowes", "ikea", "wayfair",
	}},
	{Category: "Health & Fitness", Subcategory: "Pharmacy", Keywords: []string{
		"cvs", "walgreens", "rite aid", "pharmacy",
	}},
	{Category: "Health & Fitness", Subcategory: "Gym", Keywords: []string{
		"planet fitness", "crossfit", "gym", "fitness", "yoga",
	}},
	{Category: "Health & Fitness", Subcategory: "Medical", Keywords: []string{
		"doctor", "dental", "clinic", "hospital", "urgent care",
	}},
	{Category: "Travel", Subcategory: "Flights", Keywords: []string{
		"delta", "united", "southwest", "american airlines", "airline",
	}},
	{Category: "Travel", Subcategory: "Lodging", Keywords: []string{
		"hotel", "airbnb", "marriott", "hilton", "vrbo",
	}},
	{Category: "Income", Subcategory: "Paycheck", Keywords: []string{
		"payroll", "direct dep", "salary", "paycheck",
	}},
	{Category: "Income", Subcategory: "Other Income", Keywords: []string{
		"refund", "cashback", "dividend",
	}},
	{Category: "Transfer", Subcategory: "", Keywords: []string{
		"venmo", "zelle", "paypal", "cash app", "transfer", "atm withdrawal",
	}},
	{Category: "Fees", Subcategory: "", Keywords: []string{
		"overdraft", "service charge", "atm fee", "late fee", "annual fee",
	}},
}

// DefaultRules returns the built-in ordered rule table.
func DefaultRules() []Rule {
	return defaultRules
}
