package eventgen

var (
	deviceTypes = []string{"desktop", "tablet", "smartTV", "mobile"}
	eventTypes  = []string{"content_play", "search", "browse"}

	osByDevice = map[string][]string{
		"mobile":  {"Android", "iOS"},
		"desktop": {"Windows", "macOS", "Linux"},
		"tablet":  {"Android", "iOS"},
		"smartTV": {"Android TV", "Tizen", "webOS"},
	}

	modelsByOS = map[string][]string{
		"Android":    {"Pixel 5", "Galaxy S21", "OnePlus 9"},
		"iOS":        {"iPhone 12", "iPad Pro", "iPhone SE"},
		"Windows":    {"Surface Pro", "Dell XPS 13", "HP Spectre"},
		"macOS":      {"MacBook Air", "MacBook Pro", "iMac"},
		"Linux":      {"Dell XPS 13", "System76 Galago Pro", "Lenovo ThinkPad"},
		"Android TV": {"NVIDIA Shield", "Xiaomi Mi Box", "Roku"},
		"Tizen":      {"Samsung Smart TV", "LG Smart TV"},
		"webOS":      {"LG Smart TV", "Sony Smart TV"},
	}

	places = []place{
		{"USA", "New York", "New York", "America/New_York"},
		{"USA", "Austin", "Texas", "America/Chicago"},
		{"UK", "Manchester", "England", "Europe/London"},
		{"Canada", "Toronto", "Ontario", "America/Toronto"},
		{"Australia", "Perth", "Western Australia", "Australia/Perth"},
		{"Germany", "Hamburg", "Hamburg", "Europe/Berlin"},
		{"France", "Lyon", "Auvergne-Rhone-Alpes", "Europe/Paris"},
		{"Italy", "Turin", "Piedmont", "Europe/Rome"},
		{"Spain", "Valencia", "Valencia", "Europe/Madrid"},
	}

	contentTypes = []string{"Movie", "TV Show", "Documentary", "Animation", "Short Film", "Mini-series", "Reality Show"}

	// [min, max] minutes.
	durationByType = map[string][2]int{
		"Movie":        {90, 120},
		"TV Show":      {20, 60},
		"Documentary":  {30, 90},
		"Animation":    {30, 120},
		"Short Film":   {5, 30},
		"Mini-series":  {60, 120},
		"Reality Show": {20, 60},
	}

	// Episodic types only; the rest have season and episode -1.
	seasonsByType = map[string][2]int{
		"TV Show":      {1, 15},
		"Mini-series":  {1, 5},
		"Reality Show": {1, 20},
	}

	providers = []string{"Netflix", "Hulu", "Amazon Prime Video", "Disney+", "HBO Max", "Apple TV+", "YouTube", "Vimeo", "Peacock", "Paramount+"}
	languages = []string{"en", "es", "fr"}
	genres    = []string{"Action", "Drama", "Comedy", "Thriller", "Horror", "Action-comedy", "Romantic", "Science Fiction", "Fantasy", "Mystery", "Adventure", "Documentary", "Animation", "Family", "Musical", "Biography"}

	titleFormats = []string{
		"The {noun} of {noun}",
		"{adjective} {noun}",
		"The {adjective} {noun}",
		"{noun} {verb}",
		"{proper_noun}'s {noun}",
		"{verb} the {noun}",
		"{adjective} {noun}: {proper_noun}",
		"{noun} {preposition} {noun}",
	}
	nouns        = []string{"House", "Story", "Life", "World", "Game", "Night", "King", "Queen", "Castle", "Empire", "Journey", "Road", "Secret", "Dream", "Shadow", "Light", "River", "Star", "Hero", "Legend"}
	adjectives   = []string{"Dark", "Bright", "Silent", "Ancient", "Wild", "Hidden", "Lost", "Eternal", "Broken", "Golden", "Frozen", "Burning", "Sacred"}
	verbs        = []string{"Run", "Hide", "Seek", "Find", "Build", "Rise", "Fall", "Fight", "Remember", "Forget"}
	properNouns  = []string{"Avalon", "Elysium", "Atlantis", "Gotham", "Olympus", "Eden", "Valhalla", "Camelot"}
	prepositions = []string{"of", "in", "under", "beyond", "through", "between", "beneath"}

	qualities     = []string{"HD", "SD", "4K"}
	networkTypes  = []string{"WiFi", "Mobile", "Ethernet", "cable"}
	speedUnits    = []string{"mbps", "gbps"}
	plans         = []string{"Basic", "Standard", "Premium"}
	billingCycles = []string{"monthly", "yearly"}
	services      = []string{"Netflix", "Hulu", "Amazon Prime", "Disney+", "HBO Max"}
	algorithms    = []string{"collaborative", "content_based", "hybrid"}
	queries       = []string{"quantum", "nebula", "photon", "galaxy", "cosmos"}
	actionTypes   = []string{"pause", "completed", "change quality", "playback_speed"}
)

type place struct {
	country, city, region, timezone string
}
