package classify

// Keyword vocabularies per source family. Tuned lists, not parsing logic:
// matching is lowercase substring containment.

var municipalInclude = []string{
	"class", "program", "workshop", "event", "activity", "course", "lesson",
	"fitness", "art", "music", "dance", "sport", "recreation", "community",
	"swim", "yoga", "craft", "cooking", "garden", "nature", "tour", "walk",
}

var municipalExclude = []string{
	"meeting", "council", "committee", "budget", "policy", "bylaw",
	"staff", "employment", "job", "tender", "bid", "contract",
}

var eventInclude = []string{
	"workshop", "class", "tour", "experience", "activity", "food", "art",
	"music", "outdoor", "adventure", "cultural", "festival", "market",
}

var eventExclude = []string{
	"webinar", "conference call", "meeting", "sales", "marketing",
	"corporate training", "business development",
}

var communityInclude = []string{
	// Events
	"event", "festival", "concert", "show", "exhibition", "market", "fair",
	"workshop", "class", "tour", "walk", "meetup", "gathering", "live",
	// Places
	"restaurant", "cafe", "bar", "pub", "brewery", "museum", "gallery",
	"park", "trail", "beach", "hike", "shop", "store", "attraction",
	"ice cream", "food", "coffee", "view", "place",
	// Recommendations
	"recommend", "suggestion", "suggest", "best", "favorite", "good place",
	"check out", "worth visiting", "great place", "explore",
	"where to", "looking for", "anyone know",
}

var communityExclude = []string{
	"housing", "apartment", "rent", "roommate", "job", "hiring",
	"for sale", "selling", "traffic", "politics",
}

var socialVideoInclude = []string{
	// Food & dining
	"restaurant", "cafe", "food", "eat", "dining", "coffee", "brunch",
	"bar", "pub", "brewery", "taste", "delicious", "foodie",
	// Places & attractions
	"place", "spot", "visit", "check out", "hidden gem", "secret",
	"view", "must see", "attraction", "destination",
	// Activities & events
	"activity", "event", "festival", "concert", "show", "market", "shop",
	"hike", "trail", "walk", "beach", "park", "outdoor", "adventure", "explore",
	"museum", "gallery", "art", "culture", "tour", "experience",
	// Recommendations
	"recommend", "best", "favorite", "try", "local", "insider", "tips",
	"guide", "where to", "what to do",
}

var socialVideoExclude = []string{
	"dance challenge", "trend", "viral", "duet", "reaction", "makeup",
	"outfit", "ootd", "selfie", "mirror", "bedroom", "drama", "gossip",
}
